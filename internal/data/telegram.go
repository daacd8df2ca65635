package data

import (
	"context"

	"github.com/growwatch/stock-notifier/internal/biz/repo"

	tele "gopkg.in/telebot.v3"
)

// telegramRepo implements the Messenger repository over the Telegram
// Bot API.
type telegramRepo struct {
	bot *tele.Bot
}

// NewTelegramRepo creates a new Telegram messenger repository
func NewTelegramRepo(bot *tele.Bot) repo.MessengerRepo {
	return &telegramRepo{bot: bot}
}

// SendText sends a plain text message
func (r *telegramRepo) SendText(ctx context.Context, recipient int64, text string) error {
	_, err := r.bot.Send(tele.ChatID(recipient), text)
	return err
}

// SendMenu sends a text message with inline controls
func (r *telegramRepo) SendMenu(ctx context.Context, recipient int64, text string, rows [][]repo.Button) error {
	_, err := r.bot.Send(tele.ChatID(recipient), text, Markup(rows))
	return err
}

// Markup converts button rows into a Telegram inline keyboard. Each
// button carries its structured event encoded as callback data.
func Markup(rows [][]repo.Button) *tele.ReplyMarkup {
	keyboard := make([][]tele.InlineButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tele.InlineButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tele.InlineButton{Text: b.Text, Data: b.Event.Encode()})
		}
		keyboard = append(keyboard, buttons)
	}
	return &tele.ReplyMarkup{InlineKeyboard: keyboard}
}
