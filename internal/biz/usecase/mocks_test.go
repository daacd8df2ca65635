package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/growwatch/stock-notifier/internal/biz/domain"
	"github.com/growwatch/stock-notifier/internal/biz/repo"
)

// Mock implementations

type mockItemRepo struct {
	items  map[string]int64
	nextID int64
}

func newMockItemRepo(names ...string) *mockItemRepo {
	m := &mockItemRepo{items: make(map[string]int64)}
	for _, name := range names {
		_ = m.Upsert(context.Background(), name)
	}
	return m
}

func (m *mockItemRepo) Upsert(ctx context.Context, name string) error {
	if _, ok := m.items[name]; !ok {
		m.nextID++
		m.items[name] = m.nextID
	}
	return nil
}

func (m *mockItemRepo) DeleteByName(ctx context.Context, name string) error {
	delete(m.items, name)
	return nil
}

func (m *mockItemRepo) GetByName(ctx context.Context, name string) (*domain.Item, error) {
	id, ok := m.items[name]
	if !ok {
		return nil, nil
	}
	return &domain.Item{ID: id, Name: name}, nil
}

func (m *mockItemRepo) List(ctx context.Context) ([]domain.Item, error) {
	names := make([]string, 0, len(m.items))
	for name := range m.items {
		names = append(names, name)
	}
	sort.Strings(names)

	items := make([]domain.Item, 0, len(names))
	for _, name := range names {
		items = append(items, domain.Item{ID: m.items[name], Name: name})
	}
	return items, nil
}

type watchKey struct {
	userID int64
	itemID int64
}

type mockWatchRepo struct {
	items     *mockItemRepo
	relations map[watchKey]bool
}

func newMockWatchRepo(items *mockItemRepo) *mockWatchRepo {
	return &mockWatchRepo{items: items, relations: make(map[watchKey]bool)}
}

func (m *mockWatchRepo) Add(ctx context.Context, userID, itemID int64) (bool, error) {
	key := watchKey{userID, itemID}
	if m.relations[key] {
		return false, nil
	}
	m.relations[key] = true
	return true, nil
}

func (m *mockWatchRepo) Remove(ctx context.Context, userID, itemID int64) (bool, error) {
	key := watchKey{userID, itemID}
	if !m.relations[key] {
		return false, nil
	}
	delete(m.relations, key)
	return true, nil
}

func (m *mockWatchRepo) ListNames(ctx context.Context, userID int64) ([]string, error) {
	var names []string
	for key := range m.relations {
		if key.userID != userID {
			continue
		}
		for name, id := range m.items.items {
			if id == key.itemID {
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names, nil
}

type mockUserRepo struct {
	users map[int64]*domain.User
}

func newMockUserRepo(users ...domain.User) *mockUserRepo {
	m := &mockUserRepo{users: make(map[int64]*domain.User)}
	for i := range users {
		u := users[i]
		m.users[u.ID] = &u
	}
	return m
}

func (m *mockUserRepo) EnsureUser(ctx context.Context, id int64, username string) error {
	if _, ok := m.users[id]; !ok {
		m.users[id] = &domain.User{ID: id, Username: username, Notified: true}
	}
	return nil
}

func (m *mockUserRepo) Get(ctx context.Context, id int64) (*domain.User, error) {
	return m.users[id], nil
}

func (m *mockUserRepo) SetNotified(ctx context.Context, id int64, notified bool) error {
	if u, ok := m.users[id]; ok {
		u.Notified = notified
	}
	return nil
}

func (m *mockUserRepo) ListNotified(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	for _, u := range m.users {
		if u.Notified {
			users = append(users, *u)
		}
	}
	return users, nil
}

type sentMessage struct {
	recipient int64
	text      string
	rows      [][]repo.Button
}

type mockMessenger struct {
	mu      sync.Mutex
	sent    []sentMessage
	failFor map[int64]bool
}

func newMockMessenger() *mockMessenger {
	return &mockMessenger{failFor: make(map[int64]bool)}
}

func (m *mockMessenger) SendText(ctx context.Context, recipient int64, text string) error {
	return m.record(recipient, text, nil)
}

func (m *mockMessenger) SendMenu(ctx context.Context, recipient int64, text string, rows [][]repo.Button) error {
	return m.record(recipient, text, rows)
}

func (m *mockMessenger) record(recipient int64, text string, rows [][]repo.Button) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failFor[recipient] {
		return errors.New("blocked by recipient")
	}
	m.sent = append(m.sent, sentMessage{recipient: recipient, text: text, rows: rows})
	return nil
}

func (m *mockMessenger) sentTo(recipient int64) []sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	var msgs []sentMessage
	for _, msg := range m.sent {
		if msg.recipient == recipient {
			msgs = append(msgs, msg)
		}
	}
	return msgs
}
