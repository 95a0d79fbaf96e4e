package middleware

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender is the part of the bot API the middlewares reply through.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// origin identifies who sent an update. Channel posts and callbacks on
// inline messages carry no user or chat, so ok is false for them.
type origin struct {
	userID int64
	chatID int64
	kind   string
}

func updateOrigin(update tgbotapi.Update) (origin, bool) {
	switch {
	case update.Message != nil && update.Message.From != nil:
		msg := update.Message
		o := origin{userID: msg.From.ID, chatID: msg.Chat.ID}
		switch {
		case msg.Document != nil:
			o.kind = "document"
		case msg.IsCommand():
			o.kind = "command"
		case msg.Text != "":
			o.kind = "text"
		default:
			o.kind = "other"
		}
		return o, true
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
		q := update.CallbackQuery
		return origin{userID: q.From.ID, chatID: q.Message.Chat.ID, kind: "callback"}, true
	default:
		return origin{kind: "unknown"}, false
	}
}
