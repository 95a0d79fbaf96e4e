package render

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
	"unicode/utf8"

	"github.com/futig/rag-client/internal/entity"
)

// MaxMessageLength is the Telegram limit for one text message.
const MaxMessageLength = 4096

const (
	MsgWelcome = `👋 Hi! Send me a document and ask questions about it.

1. Attach a file to upload it for indexing.
2. Once it is indexed, send any text as a question.

/help shows all commands.`

	MsgHelp = `🤖 Commands:

/start - start over with a fresh session
/help - show this message
/export [md|pdf|docx] - get the transcript as a file

Send a document to upload it. Send text to ask about it.`

	MsgChooseExportFormat = `📄 Choose a transcript format:`
	MsgExportEmpty        = `ℹ️ Nothing to export yet. Ask a question first.`
	MsgUnsupportedContent = `ℹ️ Send a document to upload or text to ask a question.`
)

const (
	ErrGeneric            = `❌ Something went wrong. Try again or press /start`
	ErrSessionNotFound    = `❌ Session not found. Start a new one with /start`
	ErrUnknownCommand     = `❌ Unknown command. See /help`
	ErrUnknownFormat      = `❌ Unknown format. Use md, pdf or docx.`
	ErrDownloadFailed     = `❌ Could not download the file from Telegram. Try sending it again.`
	ErrFileTooLarge       = `❌ The file is too large. Telegram bots can download files up to %d MB.`
	ErrNetworkIssue       = `❌ Connection problem. Try again a bit later.`
	ErrServiceUnavailable = `❌ The service is temporarily unavailable. Try again in a couple of minutes.`
	ErrTimeout            = `❌ The operation took too long. Try again.`
	ErrRateLimited        = `⚠️ Too many requests. Please wait a little.`
	ErrRateLimitedAgain   = `⚠️ Request limit exceeded. Wait ~30 seconds before the next try.`
	ErrRateLimitedStop    = `🛑 You are sending requests too often. Please wait a minute.`
)

// RenderNotice prefixes the notice text with its kind marker.
func RenderNotice(n *entity.Notice) string {
	return noticeMarker(n.Kind) + " " + n.Text
}

func noticeMarker(kind entity.NoticeKind) string {
	switch kind {
	case entity.NoticeSuccess:
		return "✅"
	case entity.NoticeWarning:
		return "⚠️"
	case entity.NoticeError:
		return "❌"
	default:
		return "ℹ️"
	}
}

// RenderFileTooLarge formats the download limit error.
func RenderFileTooLarge(maxBytes int64) string {
	return fmt.Sprintf(ErrFileTooLarge, maxBytes/(1024*1024))
}

// SplitMessage cuts text into chunks Telegram accepts, preferring line breaks.
func SplitMessage(text string, limit int) []string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var chunks []string
	runes := []rune(text)
	for len(runes) > limit {
		cut := limit
		for i := limit; i > limit/2; i-- {
			if runes[i-1] == '\n' {
				cut = i
				break
			}
		}
		chunks = append(chunks, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}

// ClassifyError maps an infrastructure error to a user-facing message.
func ClassifyError(err error) string {
	if err == nil {
		return ErrGeneric
	}

	if errors.Is(err, entity.ErrSessionNotFound) {
		return ErrSessionNotFound
	}

	if errors.Is(err, entity.ErrInvalidFormat) {
		return ErrUnknownFormat
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrTimeout
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.ECONNREFUSED) {
		return ErrServiceUnavailable
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return ErrTimeout
		}
		return ErrNetworkIssue
	}

	errMsg := err.Error()
	switch {
	case strings.Contains(errMsg, "connection refused"):
		return ErrServiceUnavailable
	case strings.Contains(errMsg, "timeout"):
		return ErrTimeout
	}

	return ErrGeneric
}
