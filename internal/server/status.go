package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/growwatch/stock-notifier/internal/biz/repo"
	"github.com/growwatch/stock-notifier/internal/service"
)

// StatusServer exposes liveness and poll status over HTTP.
type StatusServer struct {
	scheduler *service.StockScheduler
	itemRepo  repo.ItemRepo
	srv       *http.Server
}

// NewStatusServer creates a new status server
func NewStatusServer(addr string, scheduler *service.StockScheduler, itemRepo repo.ItemRepo) *StatusServer {
	s := &StatusServer{scheduler: scheduler, itemRepo: itemRepo}

	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealthz)
	r.Get("/status", s.handleStatus)

	s.srv = &http.Server{Addr: addr, Handler: r}
	return s
}

// Start starts serving in the background
func (s *StatusServer) Start() {
	go func() {
		fmt.Printf("[Status] Listening on %s\n", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("[Status] Server error: %v\n", err)
		}
	}()
}

// Stop shuts the server down
func (s *StatusServer) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.srv.Shutdown(ctx)
}

func (s *StatusServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *StatusServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := s.scheduler.Status()

	catalogSize := -1
	if items, err := s.itemRepo.List(r.Context()); err == nil {
		catalogSize = len(items)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(struct {
		service.SchedulerStatus
		CatalogSize int `json:"catalog_size"`
	}{status, catalogSize})
}
