// Package notify holds the transient notifications shown to dashboard
// operators.
package notify

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/retentionhub/churn-console/internal/domain"
)

// DefaultDismissAfter is how long an auto-dismissed notification stays visible.
const DefaultDismissAfter = 3000 * time.Millisecond

// Store is the ordered notification list. Insertion order is display order
// and there is no deduplication.
//
// All mutations are serialised by mu and replace the slice wholesale;
// readers never observe a partially applied change.
type Store struct {
	mu     sync.Mutex
	items  []domain.Notification
	timers map[string]Timer

	sched        Scheduler
	dismissAfter time.Duration
	newID        func() string
	onChange     func(visible int)
	logger       *zap.Logger
}

type StoreOption func(*Store)

func WithScheduler(s Scheduler) StoreOption {
	return func(st *Store) { st.sched = s }
}

// WithDismissAfter overrides DefaultDismissAfter. Non-positive values are ignored.
func WithDismissAfter(d time.Duration) StoreOption {
	return func(st *Store) {
		if d > 0 {
			st.dismissAfter = d
		}
	}
}

func WithIDGenerator(f func() string) StoreOption {
	return func(st *Store) { st.newID = f }
}

// WithChangeHook registers a callback invoked with the visible count after
// every mutation. It runs while the store lock is held and must not call
// back into the store.
func WithChangeHook(f func(visible int)) StoreOption {
	return func(st *Store) { st.onChange = f }
}

func WithLogger(l *zap.Logger) StoreOption {
	return func(st *Store) { st.logger = l }
}

func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		timers:       make(map[string]Timer),
		sched:        wallScheduler{},
		dismissAfter: DefaultDismissAfter,
		newID:        func() string { return uuid.New().String() },
		onChange:     func(int) {},
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type addConfig struct {
	autoDismiss bool
	duration    time.Duration
}

type AddOption func(*addConfig)

// WithoutAutoDismiss keeps the notification until it is dismissed explicitly.
func WithoutAutoDismiss() AddOption {
	return func(c *addConfig) { c.autoDismiss = false }
}

// WithDuration sets the auto-dismiss delay for one notification.
// Non-positive values fall back to the store default.
func WithDuration(d time.Duration) AddOption {
	return func(c *addConfig) {
		if d > 0 {
			c.duration = d
		}
	}
}

// Add appends n under a fresh id and returns that id. Unless
// WithoutAutoDismiss is given, the entry is removed by id once the delay
// elapses, whatever else happened to the list meanwhile.
func (s *Store) Add(n domain.Notification, opts ...AddOption) string {
	cfg := addConfig{autoDismiss: true, duration: s.dismissAfter}
	for _, opt := range opts {
		opt(&cfg)
	}

	n.ID = s.newID()

	s.mu.Lock()
	next := make([]domain.Notification, len(s.items), len(s.items)+1)
	copy(next, s.items)
	s.items = append(next, n)
	if cfg.autoDismiss {
		id := n.ID
		s.timers[id] = s.sched.AfterFunc(cfg.duration, func() { s.expire(id) })
	}
	s.onChange(len(s.items))
	s.mu.Unlock()

	s.logger.Debug("notification added",
		zap.String("id", n.ID),
		zap.String("type", string(n.Type)),
		zap.Bool("auto_dismiss", cfg.autoDismiss),
	)
	return n.ID
}

// Dismiss removes the notification with the given id. Unknown ids are ignored.
func (s *Store) Dismiss(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
	s.remove(id)
}

// List returns the current notifications, oldest first.
func (s *Store) List() []domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) expire(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.timers, id)
	if s.remove(id) {
		s.logger.Debug("notification expired", zap.String("id", id))
	}
}

// remove must be called with mu held.
func (s *Store) remove(id string) bool {
	idx := slices.IndexFunc(s.items, func(n domain.Notification) bool { return n.ID == id })
	if idx < 0 {
		return false
	}
	next := make([]domain.Notification, 0, len(s.items)-1)
	next = append(next, s.items[:idx]...)
	next = append(next, s.items[idx+1:]...)
	s.items = next
	s.onChange(len(s.items))
	return true
}
