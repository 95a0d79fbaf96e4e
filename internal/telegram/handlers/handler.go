package handlers

import (
	"context"
	"fmt"

	"github.com/futig/rag-client/internal/entity"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Handler kinds, one per kind of incoming update
const (
	HandlerKindCallback = "CALLBACK"
	HandlerKindDocument = "DOCUMENT"
	HandlerKindText     = "TEXT"
)

// Message represents a normalized Telegram message
type Message struct {
	ChatID       int64
	UserID       int64
	MessageID    int
	Text         string
	Document     *tgbotapi.Document
	CallbackData string
	CallbackID   string
}

// Handler defines the interface for update handlers
type Handler interface {
	// Handle processes a message of this kind
	Handle(ctx context.Context, msg *Message) error

	// GetKind returns the update kind this handler manages
	GetKind() string
}

// BaseHandler provides common functionality for all handlers
type BaseHandler struct {
	kind          string
	messageSender *MessageSender
}

// GetKind implements Handler
func (h *BaseHandler) GetKind() string {
	return h.kind
}

// sendMessage is a convenience wrapper for messageSender.Send
func (h *BaseHandler) sendMessage(chatID int64, text string, markup interface{}) {
	if h.messageSender != nil {
		h.messageSender.Send(chatID, text, markup)
	}
}

// deliverNotice sends the outcome of a flow to the chat.
func (h *BaseHandler) deliverNotice(ctx context.Context, chatID int64, notice *entity.Notice) error {
	return h.messageSender.DeliverNotice(ctx, chatID, notice)
}

var validKinds = map[string]bool{
	HandlerKindCallback: true,
	HandlerKindDocument: true,
	HandlerKindText:     true,
}

// IsValidKind checks if a kind is valid for handler registration
func IsValidKind(kind string) bool {
	_, ok := validKinds[kind]
	return ok
}

// SessionID maps a chat to its chat session. Every chat has exactly one.
func SessionID(chatID int64) string {
	return fmt.Sprintf("telegram:%d", chatID)
}
