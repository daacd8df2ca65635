package repo

import (
	"context"

	"github.com/growwatch/stock-notifier/internal/biz/domain"
)

// ItemRepo is the catalog repository interface
// Responsible for item persistence (SQLite)
type ItemRepo interface {
	// Upsert inserts an item by name if it does not exist yet
	Upsert(ctx context.Context, name string) error

	// DeleteByName removes an item and its watch relations
	DeleteByName(ctx context.Context, name string) error

	// GetByName gets an item by name, nil when absent
	GetByName(ctx context.Context, name string) (*domain.Item, error)

	// List lists all items ordered by name ascending
	List(ctx context.Context) ([]domain.Item, error)
}

// UserRepo is the user repository interface
type UserRepo interface {
	// EnsureUser creates a user on first interaction; existing users
	// are left untouched
	EnsureUser(ctx context.Context, id int64, username string) error

	// Get gets a user by ID, nil when absent
	Get(ctx context.Context, id int64) (*domain.User, error)

	// SetNotified sets the notification-enabled flag
	SetNotified(ctx context.Context, id int64, notified bool) error

	// ListNotified lists all users with notifications enabled
	ListNotified(ctx context.Context) ([]domain.User, error)
}

// WatchRepo is the watch-relation repository interface
// A (user, item) pair appears at most once
type WatchRepo interface {
	// Add inserts a watch relation and reports whether it was new
	Add(ctx context.Context, userID, itemID int64) (bool, error)

	// Remove deletes a watch relation and reports whether it existed
	Remove(ctx context.Context, userID, itemID int64) (bool, error)

	// ListNames lists the names of a user's watched items, ascending
	ListNames(ctx context.Context, userID int64) ([]string, error)
}
