// Package store holds the client-side state stores: maintenance requests and
// conversations. Stores are safe for concurrent use; reads return copies.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/propconnect/propconnect/pkg/client/cache"
	"github.com/propconnect/propconnect/pkg/client/gateway"
)

// RequestStore tracks the maintenance request list. It hydrates from the
// durable cache at construction and keeps the cache in sync after every
// successful gateway round trip. The cache is advisory: a failed write never
// fails the operation.
type RequestStore struct {
	gw    gateway.Gateway
	cache cache.Cache
	log   *slog.Logger

	mu      sync.Mutex
	tickets []gateway.Ticket
	lastErr string
	loading bool

	stopOnce sync.Once
	stop     chan struct{}
}

type RequestStoreConfig struct {
	Gateway gateway.Gateway
	Cache   cache.Cache
	Logger  *slog.Logger
	// AutoRefresh re-fetches the list on this interval when positive.
	AutoRefresh time.Duration
}

func NewRequestStore(cfg RequestStoreConfig) *RequestStore {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	s := &RequestStore{
		gw:    cfg.Gateway,
		cache: cfg.Cache,
		log:   log.With("component", "request_store"),
		stop:  make(chan struct{}),
	}
	if s.cache != nil {
		var cached []gateway.Ticket
		if ok, err := s.cache.Get(context.Background(), cache.KeyTickets, &cached); err != nil {
			s.log.Warn("cache read failed", "error", err)
		} else if ok {
			s.tickets = cached
		}
	}
	if cfg.AutoRefresh > 0 {
		go s.refreshLoop(cfg.AutoRefresh)
	}
	return s
}

func (s *RequestStore) refreshLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if err := s.FetchAll(ctx); err != nil {
				s.log.Warn("auto refresh failed", "error", err)
			}
			cancel()
		}
	}
}

// FetchAll replaces the in-memory list with the gateway's view. On failure
// the current list is kept and the error recorded.
func (s *RequestStore) FetchAll(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	tickets, err := s.gw.ListTickets(ctx)
	if err != nil {
		s.recordErr(fmt.Errorf("fetch requests: %w", err))
		return err
	}

	s.mu.Lock()
	s.tickets = tickets
	s.lastErr = ""
	s.mu.Unlock()

	s.persist(ctx)
	return nil
}

// Create submits the request and prepends the server's version on success.
// There is no optimistic insert; a failed create leaves the list untouched.
func (s *RequestStore) Create(ctx context.Context, in gateway.TicketInput) (gateway.Ticket, error) {
	created, err := s.gw.CreateTicket(ctx, in)
	if err != nil {
		s.recordErr(fmt.Errorf("create request: %w", err))
		return gateway.Ticket{}, err
	}

	s.mu.Lock()
	s.tickets = append([]gateway.Ticket{created}, s.tickets...)
	s.lastErr = ""
	s.mu.Unlock()

	s.persist(ctx)
	return created, nil
}

// Update round-trips the change and merges the returned ticket by ID. The
// server's version wins wholesale; there is no field-level conflict handling.
func (s *RequestStore) Update(ctx context.Context, id string, in gateway.TicketInput) (gateway.Ticket, error) {
	updated, err := s.gw.UpdateTicket(ctx, id, in)
	if err != nil {
		s.recordErr(fmt.Errorf("update request %s: %w", id, err))
		return gateway.Ticket{}, err
	}

	s.mu.Lock()
	for i := range s.tickets {
		if s.tickets[i].ID == updated.ID {
			s.tickets[i] = updated
			break
		}
	}
	s.lastErr = ""
	s.mu.Unlock()

	s.persist(ctx)
	return updated, nil
}

// Delete removes the request. The local copy is pruned only after the
// gateway confirms, so a failed delete leaves the list intact.
func (s *RequestStore) Delete(ctx context.Context, id string) error {
	if err := s.gw.DeleteTicket(ctx, id); err != nil {
		s.recordErr(fmt.Errorf("delete request %s: %w", id, err))
		return err
	}

	s.mu.Lock()
	kept := s.tickets[:0]
	for _, t := range s.tickets {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.tickets = kept
	s.lastErr = ""
	s.mu.Unlock()

	s.persist(ctx)
	return nil
}

// Tickets returns a copy of the current list.
func (s *RequestStore) Tickets() []gateway.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]gateway.Ticket, len(s.tickets))
	copy(out, s.tickets)
	return out
}

// Err returns the most recent operation error, empty after any success.
func (s *RequestStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *RequestStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *RequestStore) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *RequestStore) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *RequestStore) recordErr(err error) {
	s.log.Error("request store operation failed", "error", err)
	s.mu.Lock()
	s.lastErr = err.Error()
	s.mu.Unlock()
}

func (s *RequestStore) persist(ctx context.Context) {
	if s.cache == nil {
		return
	}
	s.mu.Lock()
	snapshot := make([]gateway.Ticket, len(s.tickets))
	copy(snapshot, s.tickets)
	s.mu.Unlock()
	if err := s.cache.Put(ctx, cache.KeyTickets, snapshot); err != nil {
		s.log.Warn("cache write failed", "key", cache.KeyTickets, "error", err)
	}
}
