package repo

import (
	"context"

	"github.com/growwatch/stock-notifier/internal/biz/domain"
)

// FeedRepo is the stock feed interface
// Responsible for fetching the current inventory document over HTTP
type FeedRepo interface {
	// Fetch fetches the feed document for the current poll. Transport
	// errors, non-success statuses and malformed bodies all surface as
	// a single wrapped error; retrying is the scheduler's concern.
	Fetch(ctx context.Context) (*domain.FeedDocument, error)
}
