// Package memstore is the in-memory record store behind the todos page.
// It simulates a remote API: every call waits a fixed latency first.
package memstore

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/idilsaglam/learn/internal/model"
)

// DefaultLatency mirrors the simulated network delay of the mock API.
const DefaultLatency = time.Second

// ErrUnavailable is returned by List when failures are injected.
var ErrUnavailable = errors.New("memstore: service unavailable")

// DefaultSeed returns the records a fresh store starts with.
func DefaultSeed() []model.Record {
	return []model.Record{
		{ID: 1, Title: "Learn HTML"},
		{ID: 2, Title: "Learn CSS"},
		{ID: 3, Title: "Learn Javascript"},
		{ID: 4, Title: "Learn React"},
		{ID: 5, Title: "Learn Next.js"},
	}
}

// Option configures a Store.
type Option func(*Store)

// WithLatency sets the artificial delay applied to every call.
func WithLatency(d time.Duration) Option {
	return func(s *Store) { s.latency = d }
}

// WithSeed replaces the built-in seed records.
func WithSeed(records []model.Record) Option {
	return func(s *Store) {
		s.seed = append([]model.Record(nil), records...)
	}
}

// WithListFailure makes List fail with ErrUnavailable after the delay.
func WithListFailure(enabled bool) Option {
	return func(s *Store) { s.failList = enabled }
}

// WithLegacyIDs assigns ids as len+1 instead of a monotonic counter.
// Known limitation: ids repeat as soon as records can disappear, which
// happens here only through Reset with a shorter seed.
func WithLegacyIDs(enabled bool) Option {
	return func(s *Store) { s.legacyIDs = enabled }
}

// Store owns the record collection. The zero value is not usable; call New.
type Store struct {
	mu        sync.Mutex
	records   []model.Record
	nextID    int
	seed      []model.Record
	latency   time.Duration
	failList  bool
	legacyIDs bool
}

// New builds a store seeded with DefaultSeed unless WithSeed is given.
func New(opts ...Option) *Store {
	s := &Store{
		seed:    DefaultSeed(),
		latency: DefaultLatency,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Reset()
	return s
}

// Reset discards everything appended and restores the seed.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(make([]model.Record, 0, len(s.seed)), s.seed...)
	s.nextID = 1
	for _, r := range s.records {
		if r.ID >= s.nextID {
			s.nextID = r.ID + 1
		}
	}
}

// Len reports the current collection size without any delay.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// List returns a copy of every record whose title contains filter,
// ignoring case. An empty filter matches everything.
func (s *Store) List(ctx context.Context, filter string) ([]model.Record, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	if s.failList {
		return nil, ErrUnavailable
	}

	needle := strings.ToLower(filter)

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Record, 0, len(s.records))
	for _, r := range s.records {
		if strings.Contains(strings.ToLower(r.Title), needle) {
			out = append(out, r)
		}
	}
	return out, nil
}

// Append stores a new, not completed record and returns it.
func (s *Store) Append(ctx context.Context, in model.NewRecord) (model.Record, error) {
	if err := s.wait(ctx); err != nil {
		return model.Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	if s.legacyIDs {
		id = len(s.records) + 1
	}
	r := model.Record{ID: id, Title: in.Title, Completed: false}
	s.records = append(s.records, r)
	if id >= s.nextID {
		s.nextID = id + 1
	}
	return r, nil
}

func (s *Store) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
