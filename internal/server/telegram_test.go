package server

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/growwatch/stock-notifier/internal/biz/domain"
	"github.com/growwatch/stock-notifier/internal/biz/usecase"

	tele "gopkg.in/telebot.v3"
)

// stubContext implements the handful of telebot context methods the
// handlers touch. Everything else panics via the embedded interface,
// which is what we want in a test.
type stubContext struct {
	tele.Context
	sender *tele.User
	data   string
	text   string
	sent   []string
	edits  []string
}

func (c *stubContext) Sender() *tele.User { return c.sender }

func (c *stubContext) Callback() *tele.Callback {
	if c.data == "" {
		return nil
	}
	return &tele.Callback{Data: c.data}
}

func (c *stubContext) Respond(resp ...*tele.CallbackResponse) error { return nil }

func (c *stubContext) Text() string { return c.text }

func (c *stubContext) Send(what interface{}, opts ...interface{}) error {
	if text, ok := what.(string); ok {
		c.sent = append(c.sent, text)
	}
	return nil
}

func (c *stubContext) Edit(what interface{}, opts ...interface{}) error {
	if text, ok := what.(string); ok {
		c.edits = append(c.edits, text)
	}
	return nil
}

type stubUserRepo struct {
	users   map[int64]*domain.User
	setCall []bool // SetNotified arguments in call order
}

func (r *stubUserRepo) EnsureUser(ctx context.Context, id int64, username string) error {
	if _, ok := r.users[id]; !ok {
		r.users[id] = &domain.User{ID: id, Username: username, Notified: true}
	}
	return nil
}

func (r *stubUserRepo) Get(ctx context.Context, id int64) (*domain.User, error) {
	return r.users[id], nil
}

func (r *stubUserRepo) SetNotified(ctx context.Context, id int64, notified bool) error {
	if user, ok := r.users[id]; ok {
		user.Notified = notified
	}
	r.setCall = append(r.setCall, notified)
	return nil
}

func (r *stubUserRepo) ListNotified(ctx context.Context) ([]domain.User, error) {
	return nil, nil
}

type stubItemRepo struct {
	items  map[string]int64
	nextID int64
}

func (r *stubItemRepo) Upsert(ctx context.Context, name string) error {
	if _, ok := r.items[name]; !ok {
		r.items[name] = r.nextID
		r.nextID++
	}
	return nil
}

func (r *stubItemRepo) DeleteByName(ctx context.Context, name string) error {
	delete(r.items, name)
	return nil
}

func (r *stubItemRepo) GetByName(ctx context.Context, name string) (*domain.Item, error) {
	id, ok := r.items[name]
	if !ok {
		return nil, nil
	}
	return &domain.Item{ID: id, Name: name}, nil
}

func (r *stubItemRepo) List(ctx context.Context) ([]domain.Item, error) {
	names := make([]string, 0, len(r.items))
	for name := range r.items {
		names = append(names, name)
	}
	sort.Strings(names)
	items := make([]domain.Item, 0, len(names))
	for _, name := range names {
		items = append(items, domain.Item{ID: r.items[name], Name: name})
	}
	return items, nil
}

type stubWatchRepo struct {
	rels map[int64]map[int64]bool
}

func (r *stubWatchRepo) Add(ctx context.Context, userID, itemID int64) (bool, error) {
	set := r.rels[userID]
	if set == nil {
		set = make(map[int64]bool)
		r.rels[userID] = set
	}
	if set[itemID] {
		return false, nil
	}
	set[itemID] = true
	return true, nil
}

func (r *stubWatchRepo) Remove(ctx context.Context, userID, itemID int64) (bool, error) {
	set := r.rels[userID]
	if !set[itemID] {
		return false, nil
	}
	delete(set, itemID)
	return true, nil
}

func (r *stubWatchRepo) ListNames(ctx context.Context, userID int64) ([]string, error) {
	return nil, nil
}

func newTestServer() (*TelegramServer, *stubUserRepo, *stubItemRepo, *stubWatchRepo) {
	users := &stubUserRepo{users: make(map[int64]*domain.User)}
	items := &stubItemRepo{items: map[string]int64{"Beanstalk": 1, "Carrot": 2}, nextID: 3}
	watches := &stubWatchRepo{rels: make(map[int64]map[int64]bool)}
	watchUC := usecase.NewWatchlistUsecase(items, watches)
	srv := NewTelegramServer(nil, users, watchUC, usecase.NewSessionRegistry())
	return srv, users, items, watches
}

func callbackContext(userID int64, event domain.CallbackEvent) *stubContext {
	return &stubContext{
		sender: &tele.User{ID: userID, Username: "gardener"},
		data:   "\f" + event.Encode(),
	}
}

func TestHandleCallback_BrowsePausesNotifications(t *testing.T) {
	srv, users, _, _ := newTestServer()

	c := callbackContext(7, domain.CallbackEvent{Action: domain.ActionBrowse, Mode: domain.ModeAdd})
	if err := srv.handleCallback(c); err != nil {
		t.Fatalf("handleCallback failed: %v", err)
	}

	if users.users[7].Notified {
		t.Error("Expected notifications paused while browsing")
	}
	if got := srv.sessions.Get(7).State; got != domain.StateBrowsing {
		t.Errorf("Expected session state Browsing, got %v", got)
	}
	if len(c.edits) == 0 {
		t.Fatal("Expected the message to be edited into the selection page")
	}
}

func TestHandleCallback_PickRestoresNotifications(t *testing.T) {
	srv, users, _, watches := newTestServer()

	browse := callbackContext(7, domain.CallbackEvent{Action: domain.ActionBrowse, Mode: domain.ModeAdd})
	if err := srv.handleCallback(browse); err != nil {
		t.Fatalf("handleCallback failed: %v", err)
	}

	pick := callbackContext(7, domain.CallbackEvent{Action: domain.ActionPick, Mode: domain.ModeAdd, Item: "Beanstalk"})
	if err := srv.handleCallback(pick); err != nil {
		t.Fatalf("handleCallback failed: %v", err)
	}

	if !users.users[7].Notified {
		t.Error("Expected notifications restored after the pick")
	}
	if got := srv.sessions.Get(7).State; got != domain.StateIdle {
		t.Errorf("Expected session state Idle, got %v", got)
	}
	if !watches.rels[7][1] {
		t.Error("Expected the watch relation to be created")
	}
	last := pick.edits[len(pick.edits)-1]
	if !strings.Contains(last, "Added 'Beanstalk'") {
		t.Errorf("Expected add confirmation, got %q", last)
	}
}

func TestHandleCallback_CancelRestoresNotifications(t *testing.T) {
	srv, users, _, _ := newTestServer()

	browse := callbackContext(7, domain.CallbackEvent{Action: domain.ActionBrowse, Mode: domain.ModeRemove})
	if err := srv.handleCallback(browse); err != nil {
		t.Fatalf("handleCallback failed: %v", err)
	}
	if users.users[7].Notified {
		t.Fatal("Expected notifications paused while browsing")
	}

	cancel := callbackContext(7, domain.CallbackEvent{Action: domain.ActionCancel})
	if err := srv.handleCallback(cancel); err != nil {
		t.Fatalf("handleCallback failed: %v", err)
	}

	if !users.users[7].Notified {
		t.Error("Expected notifications restored after cancel")
	}
	if got := srv.sessions.Get(7).State; got != domain.StateIdle {
		t.Errorf("Expected session state Idle, got %v", got)
	}
	last := cancel.edits[len(cancel.edits)-1]
	if !strings.Contains(last, "Cancelled") {
		t.Errorf("Expected cancel confirmation, got %q", last)
	}
}

func TestHandleText_ManualSubmissionRestoresNotifications(t *testing.T) {
	srv, users, items, watches := newTestServer()

	browse := callbackContext(7, domain.CallbackEvent{Action: domain.ActionBrowse, Mode: domain.ModeAdd})
	if err := srv.handleCallback(browse); err != nil {
		t.Fatalf("handleCallback failed: %v", err)
	}
	manual := callbackContext(7, domain.CallbackEvent{Action: domain.ActionManual, Mode: domain.ModeAdd})
	if err := srv.handleCallback(manual); err != nil {
		t.Fatalf("handleCallback failed: %v", err)
	}

	if users.users[7].Notified {
		t.Fatal("Expected notifications paused while awaiting text")
	}
	if !srv.sessions.Get(7).AwaitingText() {
		t.Fatal("Expected session to await manual text")
	}

	text := &stubContext{
		sender: &tele.User{ID: 7, Username: "gardener"},
		text:   "Beanstalk, Moonflower",
	}
	if err := srv.handleText(text); err != nil {
		t.Fatalf("handleText failed: %v", err)
	}

	if !users.users[7].Notified {
		t.Error("Expected notifications restored after the submission")
	}
	if got := srv.sessions.Get(7).State; got != domain.StateIdle {
		t.Errorf("Expected session state Idle, got %v", got)
	}
	if _, ok := items.items["Moonflower"]; !ok {
		t.Error("Expected the unknown name to be created in the catalog")
	}
	if len(watches.rels[7]) != 2 {
		t.Errorf("Expected both items watched, got %d relations", len(watches.rels[7]))
	}
	last := text.sent[len(text.sent)-1]
	if !strings.Contains(last, "✅ Added: Beanstalk, Moonflower") {
		t.Errorf("Expected batch summary, got %q", last)
	}
}

func TestHandleText_IdleSessionGetsNudge(t *testing.T) {
	srv, users, _, _ := newTestServer()
	if err := users.EnsureUser(context.Background(), 7, "gardener"); err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}

	c := &stubContext{sender: &tele.User{ID: 7, Username: "gardener"}, text: "Beanstalk"}
	if err := srv.handleText(c); err != nil {
		t.Fatalf("handleText failed: %v", err)
	}

	if len(users.setCall) != 0 {
		t.Errorf("Expected no notification-flag writes, got %d", len(users.setCall))
	}
	if len(c.sent) == 0 || !strings.Contains(c.sent[0], "use the buttons") {
		t.Errorf("Expected a buttons nudge, got %v", c.sent)
	}
}

func TestManualSummary_GroupsOutcomes(t *testing.T) {
	results := []usecase.TokenResult{
		{Name: "X", Outcome: usecase.OutcomeAdded},
		{Name: "Y", Outcome: usecase.OutcomeAdded},
		{Name: "X", Outcome: usecase.OutcomeAlreadyWatched},
		{Name: "Ghost", Outcome: usecase.OutcomeNotFound},
	}

	summary := manualSummary(results)

	if !strings.Contains(summary, "✅ Added: X, Y") {
		t.Errorf("Expected added group, got %q", summary)
	}
	if !strings.Contains(summary, "⚠️ Already in watchlist: X") {
		t.Errorf("Expected already-watched group, got %q", summary)
	}
	if !strings.Contains(summary, "❌ Item not found: Ghost") {
		t.Errorf("Expected not-found group, got %q", summary)
	}
	if strings.Contains(summary, "Removed") || strings.Contains(summary, "Not in watchlist") {
		t.Errorf("Expected no remove groups in add summary, got %q", summary)
	}
}

func TestOutcomeText_CoversAllOutcomes(t *testing.T) {
	cases := map[usecase.EditOutcome]string{
		usecase.OutcomeAdded:          "Added",
		usecase.OutcomeAlreadyWatched: "already",
		usecase.OutcomeRemoved:        "Removed",
		usecase.OutcomeNotWatched:     "not in your watchlist",
		usecase.OutcomeNotFound:       "not found",
	}
	for outcome, want := range cases {
		got := outcomeText("Beanstalk", outcome)
		if !strings.Contains(got, want) {
			t.Errorf("outcomeText(%v) = %q, expected to contain %q", outcome, got, want)
		}
	}
}
