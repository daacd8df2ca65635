package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/growwatch/stock-notifier/internal/biz/domain"
	"github.com/growwatch/stock-notifier/internal/biz/repo"
)

// NotifyUsecase fans a stock snapshot out to notification-enabled users.
type NotifyUsecase struct {
	userRepo  repo.UserRepo
	watchRepo repo.WatchRepo
	messenger repo.MessengerRepo
}

// NewNotifyUsecase creates a new notify usecase
func NewNotifyUsecase(userRepo repo.UserRepo, watchRepo repo.WatchRepo, messenger repo.MessengerRepo) *NotifyUsecase {
	return &NotifyUsecase{
		userRepo:  userRepo,
		watchRepo: watchRepo,
		messenger: messenger,
	}
}

// Dispatch sends one message per notification-enabled user: the user's
// watched items currently in stock, or a "nothing of yours" notice when
// the feed has stock but none of it is watched. When nothing at all is
// in stock no messages go out. A failed send never blocks other users.
func (uc *NotifyUsecase) Dispatch(ctx context.Context, snap domain.Snapshot, checkedAt time.Time) error {
	inStock := snap.InStock()
	if len(inStock) == 0 {
		fmt.Printf("[Notify] Nothing in stock at %s, no messages sent\n", checkedAt.Format("15:04:05"))
		return nil
	}

	users, err := uc.userRepo.ListNotified(ctx)
	if err != nil {
		return fmt.Errorf("list notified users: %w", err)
	}

	var wg sync.WaitGroup
	for _, user := range users {
		watched, err := uc.watchRepo.ListNames(ctx, user.ID)
		if err != nil {
			fmt.Printf("[Notify] Failed to load watchlist for user %d: %v\n", user.ID, err)
			continue
		}

		text := uc.composeMessage(snap, inStock, watched, checkedAt)
		menu := MainMenu(true)

		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			if err := uc.messenger.SendMenu(ctx, userID, text, menu); err != nil {
				fmt.Printf("[Notify] Failed to notify user %d: %v\n", userID, err)
			}
		}(user.ID)
	}
	wg.Wait()

	return nil
}

// composeMessage builds the per-user notification text. Hits keep the
// ascending order of inStock.
func (uc *NotifyUsecase) composeMessage(snap domain.Snapshot, inStock, watched []string, checkedAt time.Time) string {
	watchedSet := make(map[string]bool, len(watched))
	for _, name := range watched {
		watchedSet[name] = true
	}

	var hits []string
	for _, name := range inStock {
		if watchedSet[name] {
			hits = append(hits, name)
		}
	}

	stamp := checkedAt.Format("15:04:05")
	if len(hits) == 0 {
		return fmt.Sprintf("No watched items in stock at %s.", stamp)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📦 Stock check at %s:\n", stamp)
	for _, name := range hits {
		fmt.Fprintf(&sb, "%s: %d\n", name, snap[name])
	}
	return strings.TrimRight(sb.String(), "\n")
}
