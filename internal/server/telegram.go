package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/growwatch/stock-notifier/internal/biz/domain"
	"github.com/growwatch/stock-notifier/internal/biz/repo"
	"github.com/growwatch/stock-notifier/internal/biz/usecase"
	"github.com/growwatch/stock-notifier/internal/data"

	tele "gopkg.in/telebot.v3"
)

const genericFailure = "Something went wrong, please try again."

// TelegramServer routes inbound Telegram updates (commands, inline
// callbacks, free text) into the watchlist usecases.
type TelegramServer struct {
	bot      *tele.Bot
	userRepo repo.UserRepo
	watchUC  *usecase.WatchlistUsecase
	sessions *usecase.SessionRegistry
}

// NewTelegramServer creates a new Telegram server
func NewTelegramServer(
	bot *tele.Bot,
	userRepo repo.UserRepo,
	watchUC *usecase.WatchlistUsecase,
	sessions *usecase.SessionRegistry,
) *TelegramServer {
	return &TelegramServer{
		bot:      bot,
		userRepo: userRepo,
		watchUC:  watchUC,
		sessions: sessions,
	}
}

// Register installs the update handlers on the bot
func (s *TelegramServer) Register() {
	s.bot.Handle("/start", s.handleStart)
	s.bot.Handle(tele.OnCallback, s.handleCallback)
	s.bot.Handle(tele.OnText, s.handleText)
}

// handleStart greets the user and shows the main menu. The user row is
// created on first interaction.
func (s *TelegramServer) handleStart(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()

	if err := s.userRepo.EnsureUser(ctx, sender.ID, sender.Username); err != nil {
		fmt.Printf("[Server] Failed to register user %d: %v\n", sender.ID, err)
		return c.Send(genericFailure)
	}

	menu, err := s.mainMenu(ctx, sender.ID)
	if err != nil {
		return c.Send(genericFailure)
	}

	handle := sender.Username
	if handle == "" {
		handle = sender.FirstName
	}
	return c.Send("Hello @"+handle+", you can now use the bot!", menu)
}

// handleCallback dispatches inline-control events. Every control carries
// a structured payload; opaque strings never reach this switch.
func (s *TelegramServer) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		return nil
	}
	defer c.Respond()

	event, err := domain.ParseCallbackEvent(strings.TrimPrefix(callback.Data, "\f"))
	if err != nil {
		fmt.Printf("[Server] Bad callback payload: %v\n", err)
		return s.editWithMainMenu(c, "Unknown action.")
	}

	ctx := context.Background()
	sender := c.Sender()
	if err := s.userRepo.EnsureUser(ctx, sender.ID, sender.Username); err != nil {
		fmt.Printf("[Server] Failed to register user %d: %v\n", sender.ID, err)
		return s.editWithMainMenu(c, genericFailure)
	}

	session := s.sessions.Get(sender.ID)

	switch event.Action {
	case domain.ActionBrowse:
		return s.startBrowse(c, session, event.Mode)
	case domain.ActionPage:
		return s.navigate(c, session, event)
	case domain.ActionPick:
		return s.pickItem(c, session, event)
	case domain.ActionManual:
		return s.promptManual(c, session, event.Mode)
	case domain.ActionView:
		return s.viewWatchlist(c)
	case domain.ActionCancel:
		return s.cancelFlow(c, session)
	case domain.ActionNotifyOn:
		return s.setNotifications(c, true)
	case domain.ActionNotifyOff:
		return s.setNotifications(c, false)
	default:
		return s.editWithMainMenu(c, "Unknown action.")
	}
}

// handleText consumes a manual add/remove submission when the user's
// session is awaiting one; any other text gets a nudge to the buttons.
func (s *TelegramServer) handleText(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	session := s.sessions.Get(sender.ID)

	if !session.AwaitingText() {
		menu, err := s.mainMenu(ctx, sender.ID)
		if err != nil {
			return c.Send(genericFailure)
		}
		return c.Send("Please use the buttons to interact with the bot.", menu)
	}

	mode := session.Mode
	session.Reset()
	if err := s.userRepo.SetNotified(ctx, sender.ID, true); err != nil {
		fmt.Printf("[Server] Failed to re-enable notifications for %d: %v\n", sender.ID, err)
	}

	var results []usecase.TokenResult
	var err error
	if mode == domain.ModeAdd {
		results, err = s.watchUC.AddManual(ctx, sender.ID, c.Text())
	} else {
		results, err = s.watchUC.RemoveManual(ctx, sender.ID, c.Text())
	}
	if err != nil {
		fmt.Printf("[Server] Manual %s failed for %d: %v\n", mode, sender.ID, err)
		return c.Send(genericFailure)
	}

	menu, menuErr := s.mainMenu(ctx, sender.ID)
	if menuErr != nil {
		return c.Send(genericFailure)
	}
	if len(results) == 0 {
		return c.Send("Nothing to do: no item names found in your message.", menu)
	}
	return c.Send(manualSummary(results), menu)
}

// startBrowse enters the paginated selection flow at page 0 and forces
// notifications off for the duration of the flow.
func (s *TelegramServer) startBrowse(c tele.Context, session *domain.EditSession, mode domain.EditMode) error {
	ctx := context.Background()
	if err := s.userRepo.SetNotified(ctx, c.Sender().ID, false); err != nil {
		fmt.Printf("[Server] Failed to pause notifications for %d: %v\n", c.Sender().ID, err)
	}
	session.StartBrowse(mode)
	return s.renderCatalogPage(c, session)
}

// navigate moves within an active browsing flow. A stale callback from a
// previous session restarts the flow at the requested page.
func (s *TelegramServer) navigate(c tele.Context, session *domain.EditSession, event *domain.CallbackEvent) error {
	ctx := context.Background()
	if session.State != domain.StateBrowsing {
		if err := s.userRepo.SetNotified(ctx, c.Sender().ID, false); err != nil {
			fmt.Printf("[Server] Failed to pause notifications for %d: %v\n", c.Sender().ID, err)
		}
		session.StartBrowse(event.Mode)
	}

	page, err := s.watchUC.CatalogPage(ctx, event.Page)
	if err != nil {
		fmt.Printf("[Server] Failed to load catalog page: %v\n", err)
		return s.editWithMainMenu(c, genericFailure)
	}
	session.SetPage(event.Page, page.LastPage)
	return s.renderCatalogPage(c, session)
}

// pickItem applies a single add or remove for a concrete catalog item
// and concludes the flow.
func (s *TelegramServer) pickItem(c tele.Context, session *domain.EditSession, event *domain.CallbackEvent) error {
	ctx := context.Background()
	sender := c.Sender()

	session.Reset()
	if err := s.userRepo.SetNotified(ctx, sender.ID, true); err != nil {
		fmt.Printf("[Server] Failed to re-enable notifications for %d: %v\n", sender.ID, err)
	}

	var outcome usecase.EditOutcome
	var err error
	if event.Mode == domain.ModeAdd {
		outcome, err = s.watchUC.Add(ctx, sender.ID, event.Item)
	} else {
		outcome, err = s.watchUC.Remove(ctx, sender.ID, event.Item)
	}
	if err != nil {
		fmt.Printf("[Server] Failed to edit watchlist for %d: %v\n", sender.ID, err)
		return s.editWithMainMenu(c, genericFailure)
	}

	return s.editWithMainMenu(c, outcomeText(event.Item, outcome))
}

// promptManual switches to free-text entry for the current mode.
func (s *TelegramServer) promptManual(c tele.Context, session *domain.EditSession, mode domain.EditMode) error {
	session.AwaitText(mode)

	verb := "add"
	if mode == domain.ModeRemove {
		verb = "remove"
	}
	prompt := fmt.Sprintf(
		"Please send the item name you want to %s (e.g. Grandmaster Sprinkler OR Grandmaster Sprinkler,Beanstalk):", verb)

	cancel := [][]repo.Button{
		{{Text: "Cancel", Event: domain.CallbackEvent{Action: domain.ActionCancel}}},
	}
	return c.Edit(prompt, data.Markup(cancel))
}

// viewWatchlist lists the user's watched items.
func (s *TelegramServer) viewWatchlist(c tele.Context) error {
	ctx := context.Background()
	names, err := s.watchUC.Watchlist(ctx, c.Sender().ID)
	if err != nil {
		fmt.Printf("[Server] Failed to load watchlist for %d: %v\n", c.Sender().ID, err)
		return s.editWithMainMenu(c, genericFailure)
	}
	if len(names) == 0 {
		return s.editWithMainMenu(c, "Your watchlist is empty.")
	}
	return s.editWithMainMenu(c, "Your Watchlist:\n"+strings.Join(names, "\n"))
}

// cancelFlow aborts the current flow and restores notifications.
func (s *TelegramServer) cancelFlow(c tele.Context, session *domain.EditSession) error {
	session.Reset()
	if err := s.userRepo.SetNotified(context.Background(), c.Sender().ID, true); err != nil {
		fmt.Printf("[Server] Failed to re-enable notifications for %d: %v\n", c.Sender().ID, err)
	}
	return s.editWithMainMenu(c, "Cancelled. Notifications re-enabled.")
}

// setNotifications flips the notified flag from the main menu toggle.
func (s *TelegramServer) setNotifications(c tele.Context, enabled bool) error {
	ctx := context.Background()
	if err := s.userRepo.SetNotified(ctx, c.Sender().ID, enabled); err != nil {
		fmt.Printf("[Server] Failed to set notifications for %d: %v\n", c.Sender().ID, err)
		return s.editWithMainMenu(c, genericFailure)
	}
	if enabled {
		return s.editWithMainMenu(c, "Notifications enabled. You will now receive stock updates.")
	}
	return s.editWithMainMenu(c, "Notifications disabled. You will no longer receive stock updates.")
}

// renderCatalogPage edits the message into the selection keyboard for
// the session's current page.
func (s *TelegramServer) renderCatalogPage(c tele.Context, session *domain.EditSession) error {
	page, err := s.watchUC.CatalogPage(context.Background(), session.Page)
	if err != nil {
		fmt.Printf("[Server] Failed to load catalog page: %v\n", err)
		return s.editWithMainMenu(c, genericFailure)
	}
	session.SetPage(page.Index, page.LastPage)

	mode := session.Mode
	rows := make([][]repo.Button, 0, len(page.Items)+3)

	manualLabel := "➕ Add Manually"
	title := "Choose an item to add to your watchlist or add manually:"
	if mode == domain.ModeRemove {
		manualLabel = "➖ Remove Manually"
		title = "Choose an item to REMOVE from your watchlist or remove manually:"
	}
	rows = append(rows, []repo.Button{{Text: manualLabel, Event: domain.CallbackEvent{Action: domain.ActionManual, Mode: mode}}})

	for _, name := range page.Items {
		rows = append(rows, []repo.Button{{Text: name, Event: domain.CallbackEvent{Action: domain.ActionPick, Mode: mode, Item: name}}})
	}

	var nav []repo.Button
	if page.HasPrev() {
		nav = append(nav,
			repo.Button{Text: "⏮️ First", Event: domain.CallbackEvent{Action: domain.ActionPage, Mode: mode, Page: 0}},
			repo.Button{Text: "⬅️ Prev", Event: domain.CallbackEvent{Action: domain.ActionPage, Mode: mode, Page: page.Index - 1}},
		)
	}
	if page.HasNext() {
		nav = append(nav,
			repo.Button{Text: "Next ➡️", Event: domain.CallbackEvent{Action: domain.ActionPage, Mode: mode, Page: page.Index + 1}},
			repo.Button{Text: "⏭️ Last", Event: domain.CallbackEvent{Action: domain.ActionPage, Mode: mode, Page: page.LastPage}},
		)
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}

	rows = append(rows, []repo.Button{{Text: "Cancel", Event: domain.CallbackEvent{Action: domain.ActionCancel}}})

	return c.Edit(title, data.Markup(rows))
}

// editWithMainMenu replaces the interactive message with a plain text
// plus the resting menu.
func (s *TelegramServer) editWithMainMenu(c tele.Context, text string) error {
	menu, err := s.mainMenu(context.Background(), c.Sender().ID)
	if err != nil {
		return c.Edit(text)
	}
	return c.Edit(text, menu)
}

// mainMenu builds the resting menu reflecting the user's notified flag.
func (s *TelegramServer) mainMenu(ctx context.Context, userID int64) (*tele.ReplyMarkup, error) {
	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		fmt.Printf("[Server] Failed to load user %d: %v\n", userID, err)
		return nil, err
	}
	notified := user == nil || user.Notified
	return data.Markup(usecase.MainMenu(notified)), nil
}

// outcomeText maps a single-item edit outcome to its reply.
func outcomeText(name string, outcome usecase.EditOutcome) string {
	switch outcome {
	case usecase.OutcomeAdded:
		return fmt.Sprintf("✅ Added '%s' to your watchlist.", name)
	case usecase.OutcomeAlreadyWatched:
		return fmt.Sprintf("⚠️ '%s' is already in your watchlist.", name)
	case usecase.OutcomeRemoved:
		return fmt.Sprintf("✅ Removed '%s' from your watchlist.", name)
	case usecase.OutcomeNotWatched:
		return fmt.Sprintf("❌ '%s' is not in your watchlist.", name)
	default:
		return "❌ Item not found."
	}
}

// manualSummary groups manual-entry outcomes into the batch reply.
func manualSummary(results []usecase.TokenResult) string {
	grouped := make(map[usecase.EditOutcome][]string)
	for _, r := range results {
		grouped[r.Outcome] = append(grouped[r.Outcome], r.Name)
	}

	var sb strings.Builder
	appendGroup := func(outcome usecase.EditOutcome, label string) {
		if names := grouped[outcome]; len(names) > 0 {
			fmt.Fprintf(&sb, "%s: %s\n", label, strings.Join(names, ", "))
		}
	}
	appendGroup(usecase.OutcomeAdded, "✅ Added")
	appendGroup(usecase.OutcomeAlreadyWatched, "⚠️ Already in watchlist")
	appendGroup(usecase.OutcomeRemoved, "✅ Removed")
	appendGroup(usecase.OutcomeNotWatched, "❌ Not in watchlist")
	appendGroup(usecase.OutcomeNotFound, "❌ Item not found")
	return strings.TrimRight(sb.String(), "\n")
}
