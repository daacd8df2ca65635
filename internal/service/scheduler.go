package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/growwatch/stock-notifier/internal/biz/domain"
	"github.com/growwatch/stock-notifier/internal/biz/repo"
	"github.com/growwatch/stock-notifier/internal/biz/usecase"
)

// The feed restocks on five-minute boundaries; checking at minute ≡ 1
// mod 5 lands just after each restock.
const (
	checkPeriod       = 5 * time.Minute
	checkOffsetMinute = 1
)

// StockScheduler drives the poll loop: fetch, snapshot, catalog sync and
// notification fan-out run strictly in sequence within one cycle, and
// cycles never overlap.
type StockScheduler struct {
	feedRepo  repo.FeedRepo
	catalogUC *usecase.CatalogUsecase
	notifyUC  *usecase.NotifyUsecase
	messenger repo.MessengerRepo

	// operatorChat receives cycle error reports; 0 disables reporting.
	operatorChat int64

	mu        sync.Mutex
	lastCheck time.Time
	lastError string
	inStock   int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// SchedulerStatus is a point-in-time view of the poll loop.
type SchedulerStatus struct {
	LastCheck time.Time `json:"last_check"`
	LastError string    `json:"last_error,omitempty"`
	InStock   int       `json:"in_stock"`
}

// NewStockScheduler creates a new stock scheduler
func NewStockScheduler(
	feedRepo repo.FeedRepo,
	catalogUC *usecase.CatalogUsecase,
	notifyUC *usecase.NotifyUsecase,
	messenger repo.MessengerRepo,
	operatorChat int64,
) *StockScheduler {
	return &StockScheduler{
		feedRepo:     feedRepo,
		catalogUC:    catalogUC,
		notifyUC:     notifyUC,
		messenger:    messenger,
		operatorChat: operatorChat,
	}
}

// NextCheckDelay returns the delay from now until the next checkpoint:
// the next wall-clock minute ≡ 1 mod 5, at second 0. A non-positive
// result gets exactly one extra period, so the delay is always positive
// and a checkpoint equal to now is never returned.
func NextCheckDelay(now time.Time) time.Duration {
	base := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), now.Minute(), 0, 0, now.Location())
	ahead := (checkOffsetMinute - now.Minute()%5 + 5) % 5
	next := base.Add(time.Duration(ahead) * time.Minute)
	if !next.After(now) {
		next = next.Add(checkPeriod)
	}
	return next.Sub(now)
}

// Start starts the poll loop
func (s *StockScheduler) Start() {
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.wg.Add(1)
	go s.loop()
	fmt.Println("[Scheduler] Started")
}

// Stop stops the poll loop and waits for the current cycle to finish
func (s *StockScheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	fmt.Println("[Scheduler] Stopped")
}

func (s *StockScheduler) loop() {
	defer s.wg.Done()

	for {
		s.runCycle(s.ctx)

		delay := NextCheckDelay(time.Now())
		fmt.Printf("[Scheduler] Sleeping %v until next check\n", delay.Truncate(time.Second))

		timer := time.NewTimer(delay)
		select {
		case <-s.ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// runCycle performs one poll. Every error is recoverable at this level:
// it is logged, reported to the operator chat when configured, and the
// loop moves on to the next checkpoint.
func (s *StockScheduler) runCycle(ctx context.Context) {
	checkedAt := time.Now()
	fmt.Printf("[Scheduler] Stock check at %s\n", checkedAt.Format("15:04:05"))

	doc, err := s.feedRepo.Fetch(ctx)
	if err != nil {
		s.reportError(ctx, err)
		s.record(checkedAt, err, 0)
		return
	}

	snap := domain.BuildSnapshot(doc)

	// Catalog sync runs before fan-out so pagination reflects the
	// freshest catalog; a sync failure does not block notifications.
	if err := s.catalogUC.Sync(ctx, doc.LastSeen); err != nil {
		s.reportError(ctx, err)
	}

	if err := s.notifyUC.Dispatch(ctx, snap, checkedAt); err != nil {
		s.reportError(ctx, err)
		s.record(checkedAt, err, len(snap.InStock()))
		return
	}

	s.record(checkedAt, nil, len(snap.InStock()))
}

// reportError logs a cycle error and forwards it to the operator chat.
// A failed report is itself only logged.
func (s *StockScheduler) reportError(ctx context.Context, err error) {
	fmt.Printf("[Scheduler] Cycle error: %v\n", err)
	if s.operatorChat == 0 {
		return
	}
	if sendErr := s.messenger.SendText(ctx, s.operatorChat, "❌ Stock check failed: "+err.Error()); sendErr != nil {
		fmt.Printf("[Scheduler] Failed to report error to operator: %v\n", sendErr)
	}
}

func (s *StockScheduler) record(checkedAt time.Time, err error, inStock int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastCheck = checkedAt
	s.lastError = ""
	if err != nil {
		s.lastError = err.Error()
	}
	s.inStock = inStock
}

// Status returns a point-in-time view of the poll loop
func (s *StockScheduler) Status() SchedulerStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SchedulerStatus{
		LastCheck: s.lastCheck,
		LastError: s.lastError,
		InStock:   s.inStock,
	}
}
