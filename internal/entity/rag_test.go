package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUploadResult(t *testing.T) {
	msg := func(s string) *string { return &s }

	tests := []struct {
		name string
		resp RAGUploadResponse
		want UploadResult
	}{
		{name: "marker present", resp: RAGUploadResponse{Message: msg("Document indexed successfully")}, want: UploadResult{Accepted: true, Message: "Document indexed successfully"}},
		{name: "marker is case sensitive", resp: RAGUploadResponse{Message: msg("Successfully indexed")}, want: UploadResult{Message: "Successfully indexed"}},
		{name: "failure text", resp: RAGUploadResponse{Message: msg("failed")}, want: UploadResult{Message: "failed"}},
		{name: "missing message", resp: RAGUploadResponse{}, want: UploadResult{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, *NewUploadResult(tt.resp))
		})
	}
}

func TestNewChatReply(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantAnswer  string
		wantPayload string
	}{
		{name: "answer", raw: `{"response":"X is ..."}`, wantAnswer: "X is ..."},
		{name: "error object", raw: `{ "error" : "bad request" }`, wantPayload: `{"error":"bad request"}`},
		{name: "empty response", raw: `{"response":""}`, wantPayload: `{"response":""}`},
		{name: "numeric response", raw: `{"response":42}`, wantPayload: `{"response":42}`},
		{name: "null response", raw: `{"response":null}`, wantPayload: `{"response":null}`},
		{name: "array", raw: `[1, 2]`, wantPayload: `[1,2]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, err := NewChatReply([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.wantAnswer, reply.Answer)
			assert.Equal(t, tt.wantAnswer != "", reply.IsAnswer())
			if tt.wantPayload != "" {
				assert.Equal(t, tt.wantPayload, reply.PayloadString())
			}
		})
	}
}

func TestNewChatReply_Invalid(t *testing.T) {
	_, err := NewChatReply([]byte("<html>"))
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestParseResultFormat(t *testing.T) {
	for in, want := range map[string]ResultFormat{
		"":      FormatMarkdown,
		"md":    FormatMarkdown,
		".PDF":  FormatPDF,
		"word":  FormatDOCX,
		"docx ": FormatDOCX,
	} {
		got, err := ParseResultFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseResultFormat("odt")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}
