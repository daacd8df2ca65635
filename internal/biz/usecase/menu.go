package usecase

import (
	"github.com/growwatch/stock-notifier/internal/biz/domain"
	"github.com/growwatch/stock-notifier/internal/biz/repo"
)

// MainMenu builds the resting inline menu attached to greetings,
// confirmations and stock notifications. The notification toggle shows
// the action that would change the user's current flag.
func MainMenu(notified bool) [][]repo.Button {
	rows := [][]repo.Button{
		{{Text: "Add Item to Watchlist", Event: domain.CallbackEvent{Action: domain.ActionBrowse, Mode: domain.ModeAdd}}},
		{{Text: "Remove Item from Watchlist", Event: domain.CallbackEvent{Action: domain.ActionBrowse, Mode: domain.ModeRemove}}},
		{{Text: "View Watchlist", Event: domain.CallbackEvent{Action: domain.ActionView}}},
	}
	if notified {
		rows = append(rows, []repo.Button{{Text: "Disable Notifications", Event: domain.CallbackEvent{Action: domain.ActionNotifyOff}}})
	} else {
		rows = append(rows, []repo.Button{{Text: "Enable Notifications", Event: domain.CallbackEvent{Action: domain.ActionNotifyOn}}})
	}
	return rows
}
