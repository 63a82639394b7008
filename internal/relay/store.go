package relay

import (
	"slices"
	"sync"

	"github.com/BerylCAtieno/sales-opener-agent/internal/assistant"
	"github.com/google/uuid"
)

// ThreadStore keeps conversation history in memory, keyed by thread id.
// Sessions map a caller-chosen session id to the thread it started.
type ThreadStore struct {
	mu       sync.RWMutex
	threads  map[string][]assistant.Turn
	sessions map[string]string
}

func NewThreadStore() *ThreadStore {
	return &ThreadStore{
		threads:  make(map[string][]assistant.Turn),
		sessions: make(map[string]string),
	}
}

// Create starts an empty thread, bound to sessionID when it is not empty.
func (s *ThreadStore) Create(sessionID string) string {
	id := "thread_" + uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.threads[id] = nil
	if sessionID != "" {
		s.sessions[sessionID] = id
	}
	return id
}

// ThreadForSession returns the thread a session is bound to.
func (s *ThreadStore) ThreadForSession(sessionID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.sessions[sessionID]
	return id, ok
}

// History returns a copy of the thread's turns.
func (s *ThreadStore) History(threadID string) ([]assistant.Turn, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	turns, ok := s.threads[threadID]
	return slices.Clone(turns), ok
}

func (s *ThreadStore) Append(threadID string, turns ...assistant.Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.threads[threadID] = append(s.threads[threadID], turns...)
}
