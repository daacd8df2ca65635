package data

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/growwatch/stock-notifier/internal/biz/domain"

	_ "modernc.org/sqlite"
)

// Store is the SQLite-backed implementation of the item, user and watch
// repositories. One store handle is shared by the poll loop and all
// interaction handlers.
type Store struct {
	db *sql.DB
}

// NewStore opens the database and ensures the schema exists.
func NewStore(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS items (
			id INTEGER PRIMARY KEY,
			name TEXT UNIQUE NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create items table: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY,
			username TEXT,
			is_notified INTEGER NOT NULL DEFAULT 1
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create users table: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS watchlist (
			user_id INTEGER NOT NULL,
			item_id INTEGER NOT NULL,
			UNIQUE(user_id, item_id)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create watchlist table: %w", err)
	}

	return &Store{db: db}, nil
}

// Upsert inserts an item by name if absent
func (s *Store) Upsert(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO items (name) VALUES (?)`, name)
	if err != nil {
		return fmt.Errorf("failed to upsert item: %w", err)
	}
	return nil
}

// DeleteByName removes an item and its watch relations. The relations go
// first so a failure in between never leaves a relation without its item.
func (s *Store) DeleteByName(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM watchlist WHERE item_id IN (SELECT id FROM items WHERE name = ?)
	`, name)
	if err != nil {
		return fmt.Errorf("failed to delete watch relations: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `DELETE FROM items WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

// GetByName gets an item by name, nil when absent
func (s *Store) GetByName(ctx context.Context, name string) (*domain.Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name FROM items WHERE name = ?`, name)

	var item domain.Item
	err := row.Scan(&item.ID, &item.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query item: %w", err)
	}
	return &item, nil
}

// List lists all items ordered by name ascending
func (s *Store) List(ctx context.Context) ([]domain.Item, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM items ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		var item domain.Item
		if err := rows.Scan(&item.ID, &item.Name); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// EnsureUser creates a user on first interaction
func (s *Store) EnsureUser(ctx context.Context, id int64, username string) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO users (id, username) VALUES (?, ?)`, id, username)
	if err != nil {
		return fmt.Errorf("failed to ensure user: %w", err)
	}
	return nil
}

// Get gets a user by ID, nil when absent
func (s *Store) Get(ctx context.Context, id int64) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, username, is_notified FROM users WHERE id = ?`, id)

	var user domain.User
	var notified int
	err := row.Scan(&user.ID, &user.Username, &notified)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	user.Notified = notified != 0
	return &user, nil
}

// SetNotified sets the notification-enabled flag
func (s *Store) SetNotified(ctx context.Context, id int64, notified bool) error {
	value := 0
	if notified {
		value = 1
	}
	_, err := s.db.ExecContext(ctx, `UPDATE users SET is_notified = ? WHERE id = ?`, value, id)
	if err != nil {
		return fmt.Errorf("failed to set notified: %w", err)
	}
	return nil
}

// ListNotified lists all users with notifications enabled
func (s *Store) ListNotified(ctx context.Context) ([]domain.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, username FROM users WHERE is_notified = 1`)
	if err != nil {
		return nil, fmt.Errorf("failed to list notified users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user := domain.User{Notified: true}
		if err := rows.Scan(&user.ID, &user.Username); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// Add inserts a watch relation and reports whether it was new
func (s *Store) Add(ctx context.Context, userID, itemID int64) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO watchlist (user_id, item_id) VALUES (?, ?)
	`, userID, itemID)
	if err != nil {
		return false, fmt.Errorf("failed to add watch relation: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return affected > 0, nil
}

// Remove deletes a watch relation and reports whether it existed
func (s *Store) Remove(ctx context.Context, userID, itemID int64) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM watchlist WHERE user_id = ? AND item_id = ?
	`, userID, itemID)
	if err != nil {
		return false, fmt.Errorf("failed to remove watch relation: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return affected > 0, nil
}

// ListNames lists the names of a user's watched items, ascending
func (s *Store) ListNames(ctx context.Context, userID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT items.name FROM watchlist
		JOIN items ON watchlist.item_id = items.id
		WHERE watchlist.user_id = ?
		ORDER BY items.name ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list watched names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}
