package session

import (
	"reflect"
	"sync"
	"time"

	"cspmconsole/logger"
)

// Subscriber is notified with the committed state after every dispatch.
type Subscriber func(State)

// Store serializes all state transitions through Dispatch. Construction takes
// the storage dependency explicitly; there are no package globals.
type Store struct {
	mu          sync.Mutex
	state       State
	storage     Storage
	subscribers map[int]Subscriber
	nextSub     int
}

func NewStore(storage Storage) *Store {
	return &Store{
		storage:     storage,
		subscribers: make(map[int]Subscriber),
	}
}

// Rehydrate seeds the in-memory state from storage. Runtime flags are reset;
// only identity and data survive a restart.
func (s *Store) Rehydrate() {
	persisted, ok, err := s.storage.Load()
	if err != nil {
		logger.Warn("Session: could not rehydrate state: %v", err)
		return
	}
	if !ok {
		return
	}
	persisted.IsLoading = false
	persisted.IsInitialized = false

	s.mu.Lock()
	s.state = persisted
	s.mu.Unlock()
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies the action, persists the result, then notifies
// subscribers. A persistence failure is logged and never blocks the commit.
func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	s.state = reduce(s.state, a)
	committed := s.state
	subs := make([]Subscriber, 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	if err := s.storage.Save(committed); err != nil {
		logger.Warn("Session: persisting state after %s failed: %v", a.Type, err)
	}
	for _, fn := range subs {
		fn(committed)
	}
}

// Subscribe registers a subscriber and returns its unsubscribe function.
func (s *Store) Subscribe(fn Subscriber) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// Watch polls storage for snapshots written by another process and folds the
// relevant changes back in: an external logout tears this session down, an
// external user update replaces the user. The returned stop function blocks
// until the poller has exited.
func (s *Store) Watch(interval time.Duration) func() {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	stop := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				s.reconcile()
			}
		}
	}()

	return func() {
		close(stop)
		<-done
	}
}

func (s *Store) reconcile() {
	external, ok, err := s.storage.Load()
	if err != nil || !ok {
		return
	}
	current := s.State()

	if current.IsAuthenticated && !external.IsAuthenticated {
		logger.Info("Session: external logout detected")
		s.Dispatch(Action{Type: Logout})
		return
	}
	if current.IsAuthenticated && external.User != nil &&
		!reflect.DeepEqual(current.User, external.User) {
		logger.Debug("Session: external user update detected")
		s.Dispatch(Action{Type: SetUser, User: external.User})
	}
}
