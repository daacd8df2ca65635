package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/growwatch/stock-notifier/internal/biz/repo"
)

// PageSize is the number of catalog items shown per selection page.
const PageSize = 5

// EditOutcome classifies the result of one watchlist edit.
type EditOutcome int

const (
	// OutcomeAdded means a new watch relation was created.
	OutcomeAdded EditOutcome = iota
	// OutcomeAlreadyWatched means the relation already existed.
	OutcomeAlreadyWatched
	// OutcomeRemoved means an existing relation was deleted.
	OutcomeRemoved
	// OutcomeNotWatched means there was no relation to delete.
	OutcomeNotWatched
	// OutcomeNotFound means the item is not in the catalog.
	OutcomeNotFound
)

// TokenResult is the classified outcome for one manual-entry token,
// in submission order.
type TokenResult struct {
	Name    string
	Outcome EditOutcome
}

// ItemPage is one page of the catalog listing.
type ItemPage struct {
	Items    []string
	Index    int
	LastPage int
}

// HasPrev reports whether earlier pages exist.
func (p *ItemPage) HasPrev() bool { return p.Index > 0 }

// HasNext reports whether later pages exist.
func (p *ItemPage) HasNext() bool { return p.Index < p.LastPage }

// WatchlistUsecase handles watchlist editing logic
type WatchlistUsecase struct {
	itemRepo  repo.ItemRepo
	watchRepo repo.WatchRepo
}

// NewWatchlistUsecase creates a new watchlist usecase
func NewWatchlistUsecase(itemRepo repo.ItemRepo, watchRepo repo.WatchRepo) *WatchlistUsecase {
	return &WatchlistUsecase{itemRepo: itemRepo, watchRepo: watchRepo}
}

// CatalogPage returns one page of the catalog, ordered by name ascending.
// Out-of-range page indexes are clamped.
func (uc *WatchlistUsecase) CatalogPage(ctx context.Context, page int) (*ItemPage, error) {
	items, err := uc.itemRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	lastPage := 0
	if len(items) > 0 {
		lastPage = (len(items) - 1) / PageSize
	}
	if page < 0 {
		page = 0
	}
	if page > lastPage {
		page = lastPage
	}

	start := page * PageSize
	end := start + PageSize
	if end > len(items) {
		end = len(items)
	}

	names := make([]string, 0, end-start)
	for _, item := range items[start:end] {
		names = append(names, item.Name)
	}

	return &ItemPage{Items: names, Index: page, LastPage: lastPage}, nil
}

// Watchlist returns the names of a user's watched items.
func (uc *WatchlistUsecase) Watchlist(ctx context.Context, userID int64) ([]string, error) {
	return uc.watchRepo.ListNames(ctx, userID)
}

// Add adds a catalog item to the user's watchlist. The item must already
// exist in the catalog; manual entry is the only path that creates items.
func (uc *WatchlistUsecase) Add(ctx context.Context, userID int64, name string) (EditOutcome, error) {
	item, err := uc.itemRepo.GetByName(ctx, name)
	if err != nil {
		return OutcomeNotFound, fmt.Errorf("get item %q: %w", name, err)
	}
	if item == nil {
		return OutcomeNotFound, nil
	}
	added, err := uc.watchRepo.Add(ctx, userID, item.ID)
	if err != nil {
		return OutcomeNotFound, fmt.Errorf("add watch %q: %w", name, err)
	}
	if !added {
		return OutcomeAlreadyWatched, nil
	}
	return OutcomeAdded, nil
}

// Remove removes a catalog item from the user's watchlist.
func (uc *WatchlistUsecase) Remove(ctx context.Context, userID int64, name string) (EditOutcome, error) {
	item, err := uc.itemRepo.GetByName(ctx, name)
	if err != nil {
		return OutcomeNotFound, fmt.Errorf("get item %q: %w", name, err)
	}
	if item == nil {
		return OutcomeNotFound, nil
	}
	removed, err := uc.watchRepo.Remove(ctx, userID, item.ID)
	if err != nil {
		return OutcomeNotFound, fmt.Errorf("remove watch %q: %w", name, err)
	}
	if !removed {
		return OutcomeNotWatched, nil
	}
	return OutcomeRemoved, nil
}

// AddManual processes a comma-separated manual add submission. Unknown
// item names are created in the catalog before the relation is added.
func (uc *WatchlistUsecase) AddManual(ctx context.Context, userID int64, text string) ([]TokenResult, error) {
	var results []TokenResult
	for _, name := range splitTokens(text) {
		if err := uc.itemRepo.Upsert(ctx, name); err != nil {
			return nil, fmt.Errorf("upsert item %q: %w", name, err)
		}
		outcome, err := uc.Add(ctx, userID, name)
		if err != nil {
			return nil, err
		}
		results = append(results, TokenResult{Name: name, Outcome: outcome})
	}
	return results, nil
}

// RemoveManual processes a comma-separated manual remove submission.
// Names absent from the catalog classify as not found.
func (uc *WatchlistUsecase) RemoveManual(ctx context.Context, userID int64, text string) ([]TokenResult, error) {
	var results []TokenResult
	for _, name := range splitTokens(text) {
		outcome, err := uc.Remove(ctx, userID, name)
		if err != nil {
			return nil, err
		}
		results = append(results, TokenResult{Name: name, Outcome: outcome})
	}
	return results, nil
}

// splitTokens splits manual input on commas, trims whitespace and drops
// empty tokens. Order and repetition are preserved.
func splitTokens(text string) []string {
	var tokens []string
	for _, token := range strings.Split(text, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}
