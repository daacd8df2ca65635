package usecase

import (
	"context"
	"fmt"

	"github.com/growwatch/stock-notifier/internal/biz/domain"
	"github.com/growwatch/stock-notifier/internal/biz/repo"
)

// CatalogUsecase reconciles the item catalog against the feed's
// ever-seen list. It is the only path that adds or removes catalog items.
type CatalogUsecase struct {
	itemRepo repo.ItemRepo
}

// NewCatalogUsecase creates a new catalog usecase
func NewCatalogUsecase(itemRepo repo.ItemRepo) *CatalogUsecase {
	return &CatalogUsecase{itemRepo: itemRepo}
}

// Sync upserts every entry with a non-null seen marker and deletes every
// entry with a null one. Syncing the same list twice is a no-op.
func (uc *CatalogUsecase) Sync(ctx context.Context, lastSeen []domain.SeenRecord) error {
	for _, record := range lastSeen {
		if record.Name == "" {
			continue
		}
		if record.Seen != nil {
			if err := uc.itemRepo.Upsert(ctx, record.Name); err != nil {
				return fmt.Errorf("upsert item %q: %w", record.Name, err)
			}
			continue
		}
		if err := uc.itemRepo.DeleteByName(ctx, record.Name); err != nil {
			return fmt.Errorf("delete item %q: %w", record.Name, err)
		}
	}
	return nil
}
