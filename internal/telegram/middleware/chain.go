package middleware

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

// Middleware wraps update handling.
type Middleware interface {
	Handle(update tgbotapi.Update, next func(tgbotapi.Update))
}

// Chain runs mws in order around final; the first middleware is outermost.
func Chain(final func(tgbotapi.Update), mws ...Middleware) func(tgbotapi.Update) {
	h := final
	for i := len(mws) - 1; i >= 0; i-- {
		mw, next := mws[i], h
		h = func(u tgbotapi.Update) { mw.Handle(u, next) }
	}
	return h
}
