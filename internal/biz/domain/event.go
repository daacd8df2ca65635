package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// CallbackAction identifies what an inline control does.
type CallbackAction string

const (
	// ActionBrowse starts an add or remove browsing flow.
	ActionBrowse CallbackAction = "browse"
	// ActionPage navigates to a catalog page within a browsing flow.
	ActionPage CallbackAction = "page"
	// ActionPick selects a concrete catalog item.
	ActionPick CallbackAction = "pick"
	// ActionManual switches to manual free-text entry.
	ActionManual CallbackAction = "manual"
	// ActionView shows the user's watchlist.
	ActionView CallbackAction = "view"
	// ActionCancel aborts the current flow.
	ActionCancel CallbackAction = "cancel"
	// ActionNotifyOn enables stock notifications.
	ActionNotifyOn CallbackAction = "noti_on"
	// ActionNotifyOff disables stock notifications.
	ActionNotifyOff CallbackAction = "noti_off"
)

// CallbackEvent is the structured payload carried by an inline control.
type CallbackEvent struct {
	Action CallbackAction
	Mode   EditMode
	Page   int
	Item   string
}

// Encode packs the event into a callback-data string. Telegram caps
// callback data at 64 bytes, so the format stays compact; the item name
// goes last so it may contain any character.
func (e CallbackEvent) Encode() string {
	return strings.Join([]string{
		string(e.Action),
		strconv.Itoa(int(e.Mode)),
		strconv.Itoa(e.Page),
		e.Item,
	}, "|")
}

// ParseCallbackEvent decodes a callback-data string produced by Encode.
func ParseCallbackEvent(data string) (*CallbackEvent, error) {
	parts := strings.SplitN(data, "|", 4)
	if len(parts) != 4 {
		return nil, fmt.Errorf("malformed callback data: %q", data)
	}
	mode, err := strconv.Atoi(parts[1])
	if err != nil || (mode != int(ModeAdd) && mode != int(ModeRemove)) {
		return nil, fmt.Errorf("malformed callback mode: %q", data)
	}
	page, err := strconv.Atoi(parts[2])
	if err != nil {
		return nil, fmt.Errorf("malformed callback page: %q", data)
	}
	return &CallbackEvent{
		Action: CallbackAction(parts[0]),
		Mode:   EditMode(mode),
		Page:   page,
		Item:   parts[3],
	}, nil
}
