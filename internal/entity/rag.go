package entity

import (
	"bytes"
	"encoding/json"
	"strings"
)

// uploadSuccessMarker is the substring the backend puts in the message of an accepted upload.
const uploadSuccessMarker = "successfully"

// FileData is a document picked by the user. Content is not kept after upload.
type FileData struct {
	Filename string
	Content  []byte
}

// RAGUploadResponse is the body of POST /upload/.
type RAGUploadResponse struct {
	Message *string `json:"message"`
}

// RAGChatRequest is the body of POST /chat/.
type RAGChatRequest struct {
	Query string `json:"query"`
}

// RAGChatResponse is the success shape of POST /chat/.
type RAGChatResponse struct {
	Response *string `json:"response"`
}

// UploadResult is the parsed outcome of an upload call.
type UploadResult struct {
	Accepted bool
	Message  string
}

// NewUploadResult classifies an upload response. A missing message is a rejection.
func NewUploadResult(resp RAGUploadResponse) *UploadResult {
	if resp.Message == nil {
		return &UploadResult{}
	}
	return &UploadResult{
		Accepted: strings.Contains(*resp.Message, uploadSuccessMarker),
		Message:  *resp.Message,
	}
}

// ChatReply is either an answer or a failure payload returned verbatim.
type ChatReply struct {
	Answer  string
	Payload json.RawMessage
}

// IsAnswer reports whether the reply carries a non-empty response text.
func (r *ChatReply) IsAnswer() bool {
	return r.Answer != ""
}

// PayloadString renders the failure payload as compact JSON.
func (r *ChatReply) PayloadString() string {
	if len(r.Payload) == 0 {
		return "{}"
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, r.Payload); err != nil {
		return string(r.Payload)
	}
	return buf.String()
}

// NewChatReply classifies a raw chat body. Only a non-empty string
// under "response" is an answer; any other JSON value is a failure.
func NewChatReply(raw []byte) (*ChatReply, error) {
	if !json.Valid(raw) {
		return nil, ErrMalformedResponse
	}

	var resp RAGChatResponse
	if err := json.Unmarshal(raw, &resp); err == nil && resp.Response != nil && *resp.Response != "" {
		return &ChatReply{Answer: *resp.Response}, nil
	}

	return &ChatReply{Payload: json.RawMessage(raw)}, nil
}
