package repo

import (
	"context"

	"github.com/growwatch/stock-notifier/internal/biz/domain"
)

// Button is one inline control attached to an outgoing message.
type Button struct {
	Text  string
	Event domain.CallbackEvent
}

// MessengerRepo is the delivery channel interface
// Responsible for sending messages through the Telegram Bot API
type MessengerRepo interface {
	// SendText sends a plain text message
	SendText(ctx context.Context, recipient int64, text string) error

	// SendMenu sends a text message with inline controls
	SendMenu(ctx context.Context, recipient int64, text string, rows [][]Button) error
}
