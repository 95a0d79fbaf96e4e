package keyboard

import (
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Callback data is "<action>:<value>" and must stay under Telegram's 64 bytes.
const (
	ActionExport = "export"

	separator = ":"
)

var ErrInvalidCallback = errors.New("invalid callback data")

// Callback is parsed inline button data.
type Callback struct {
	Action string
	Value  string
}

var exportButtons = []struct {
	label  string
	format string
}{
	{"📄 Markdown", "md"},
	{"📕 PDF", "pdf"},
	{"📘 Word", "docx"},
}

// ExportKeyboard offers one button per transcript format.
func ExportKeyboard() tgbotapi.InlineKeyboardMarkup {
	row := make([]tgbotapi.InlineKeyboardButton, 0, len(exportButtons))
	for _, b := range exportButtons {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(b.label, EncodeCallback(ActionExport, b.format)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

func EncodeCallback(action, value string) string {
	return action + separator + value
}

func ParseCallback(data string) (Callback, error) {
	action, value, ok := strings.Cut(data, separator)
	if !ok || action == "" || value == "" {
		return Callback{}, fmt.Errorf("%w: %q", ErrInvalidCallback, data)
	}
	return Callback{Action: action, Value: value}, nil
}
