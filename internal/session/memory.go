package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"reportfilter/internal/constants"
	"reportfilter/internal/report"
	"reportfilter/pkg/metrics"
)

type memoryEntry struct {
	session   Session
	expiresAt time.Time
}

// MemoryStore keeps sessions in process. Expired sessions are dropped
// when next touched and swept on every Open.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]*memoryEntry
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = constants.DefaultSessionTTLSeconds * time.Second
	}
	return &MemoryStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*memoryEntry),
	}
}

func (s *MemoryStore) Name() string {
	return constants.StoreTypeMemory
}

func (s *MemoryStore) Open(ctx context.Context, reportName string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)

	sess := Session{
		ID:        uuid.NewString(),
		Report:    reportName,
		Values:    report.Values{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.sessions[sess.ID] = &memoryEntry{session: sess, expiresAt: now.Add(s.ttl)}
	metrics.IncSessionsActive()
	metrics.IncSessionOperation(s.Name(), "open", "success")

	return snapshot(sess), nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.liveLocked(id, s.now())
	if err != nil {
		metrics.IncSessionOperation(s.Name(), "get", "not_found")
		return nil, err
	}
	metrics.IncSessionOperation(s.Name(), "get", "success")
	return snapshot(entry.session), nil
}

func (s *MemoryStore) SetValue(ctx context.Context, id, filter, value string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry, err := s.liveLocked(id, now)
	if err != nil {
		metrics.IncSessionOperation(s.Name(), "set_value", "not_found")
		return nil, err
	}

	if value == "" {
		delete(entry.session.Values, filter)
	} else {
		entry.session.Values[filter] = value
	}
	entry.session.UpdatedAt = now
	entry.expiresAt = now.Add(s.ttl)
	metrics.IncSessionOperation(s.Name(), "set_value", "success")

	return snapshot(entry.session), nil
}

func (s *MemoryStore) Close(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.liveLocked(id, s.now()); err != nil {
		metrics.IncSessionOperation(s.Name(), "close", "not_found")
		return err
	}
	delete(s.sessions, id)
	metrics.DecSessionsActive()
	metrics.IncSessionOperation(s.Name(), "close", "success")
	return nil
}

// Len reports the number of sessions held, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *MemoryStore) liveLocked(id string, now time.Time) (*memoryEntry, error) {
	entry, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if !now.Before(entry.expiresAt) {
		delete(s.sessions, id)
		metrics.DecSessionsActive()
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return entry, nil
}

func (s *MemoryStore) sweepLocked(now time.Time) {
	for id, entry := range s.sessions {
		if !now.Before(entry.expiresAt) {
			delete(s.sessions, id)
			metrics.DecSessionsActive()
		}
	}
}

func snapshot(sess Session) *Session {
	sess.Values = sess.Values.Clone()
	return &sess
}
