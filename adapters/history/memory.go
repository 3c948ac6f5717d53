package history

import (
	"sync"
	"time"

	"github.com/adewidar/storebot/domain"
)

// Store is an in-memory domain.HistoryStore. Each contact gets its own
// bounded log with its own mutex, so appends for one contact serialize while
// unrelated contacts proceed in parallel. Logs are created lazily on first
// append and live for the life of the process.
//
// TODO: idle contacts are never evicted, so the contact map grows by one
// entry per distinct contact; add a last-seen based expiry sweep.
type Store struct {
	mu     sync.RWMutex
	logs   map[string]*contactLog
	window int
}

type contactLog struct {
	mu    sync.Mutex
	turns []domain.Turn
}

// New creates a Store that retains at most window turns per contact.
func New(window int) *Store {
	if window <= 0 {
		window = 5
	}
	return &Store{
		logs:   make(map[string]*contactLog),
		window: window,
	}
}

func (s *Store) Append(contactID string, role domain.Role, text string) {
	l := s.log(contactID)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.turns = append(l.turns, domain.Turn{
		At:   time.Now(),
		Role: role,
		Text: text,
	})
	if len(l.turns) > s.window {
		// Drop the oldest turns; order is never touched.
		trimmed := make([]domain.Turn, s.window)
		copy(trimmed, l.turns[len(l.turns)-s.window:])
		l.turns = trimmed
	}
}

func (s *Store) Recent(contactID string, n int) []domain.Turn {
	s.mu.RLock()
	l, ok := s.logs[contactID]
	s.mu.RUnlock()
	if !ok || n <= 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if n > len(l.turns) {
		n = len(l.turns)
	}
	out := make([]domain.Turn, n)
	copy(out, l.turns[len(l.turns)-n:])
	return out
}

// Len reports the current number of turns stored for a contact.
func (s *Store) Len(contactID string) int {
	s.mu.RLock()
	l, ok := s.logs[contactID]
	s.mu.RUnlock()
	if !ok {
		return 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.turns)
}

func (s *Store) log(contactID string) *contactLog {
	s.mu.RLock()
	l, ok := s.logs[contactID]
	s.mu.RUnlock()
	if ok {
		return l
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok = s.logs[contactID]; ok {
		return l
	}
	l = &contactLog{}
	s.logs[contactID] = l
	return l
}
