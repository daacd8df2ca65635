package data

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/growwatch/stock-notifier/internal/biz/domain"
	"github.com/growwatch/stock-notifier/internal/biz/repo"
)

// feedClient implements the Feed repository over plain HTTP
type feedClient struct {
	url    string
	client *http.Client
}

// NewFeedClient creates a new feed client with a bounded request timeout.
func NewFeedClient(url string, timeout time.Duration) repo.FeedRepo {
	return &feedClient{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch fetches and decodes the current inventory document. No retries;
// the next poll cycle is the retry.
func (c *feedClient) Fetch(ctx context.Context) (*domain.FeedDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch stock feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stock feed returned %s", resp.Status)
	}

	var doc domain.FeedDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode stock feed: %w", err)
	}
	return &doc, nil
}
