package data

import (
	"time"

	"github.com/growwatch/stock-notifier/internal/biz/repo"

	tele "gopkg.in/telebot.v3"
)

// Repositories contains all repositories
type Repositories struct {
	Items     repo.ItemRepo
	Users     repo.UserRepo
	Watches   repo.WatchRepo
	Feed      repo.FeedRepo
	Messenger repo.MessengerRepo

	store *Store
}

// NewRepositories creates all repositories. The item, user and watch
// repositories share one SQLite handle.
func NewRepositories(bot *tele.Bot, dbPath, feedURL string, feedTimeout time.Duration) (*Repositories, error) {
	store, err := NewStore(dbPath)
	if err != nil {
		return nil, err
	}

	return &Repositories{
		Items:     store,
		Users:     store,
		Watches:   store,
		Feed:      NewFeedClient(feedURL, feedTimeout),
		Messenger: NewTelegramRepo(bot),
		store:     store,
	}, nil
}

// Close releases the shared store handle
func (r *Repositories) Close() error {
	return r.store.Close()
}
