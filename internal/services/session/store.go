package session

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"visionguard/internal/logger"
)

// Store manages the live sessions and their scratch files on disk. The
// temp directory is wiped when the store is created, so an image left over
// from a previous run can never leak into a new session.
type Store struct {
	sessions map[string]*Session
	mu       sync.RWMutex
	tempDir  string
	ttl      time.Duration
	logger   *logger.Logger
}

// NewStore creates a Store, clearing any stale scratch images from a prior
// run before the first session is accepted.
func NewStore(tempDir string, ttl time.Duration, log *logger.Logger) (*Store, error) {
	if err := os.RemoveAll(tempDir); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return nil, err
	}

	return &Store{
		sessions: make(map[string]*Session),
		tempDir:  tempDir,
		ttl:      ttl,
		logger:   log,
	}, nil
}

// Run sweeps expired sessions on the given interval. Intended to run in its
// own goroutine for the lifetime of the process.
func (s *Store) Run(sweepInterval time.Duration) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		<-ticker.C
		s.Sweep()
	}
}

// Get returns the session with the given ID.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// Create starts a fresh session, deleting any stale scratch image recorded
// under the same ID before the session can accept a new image.
func (s *Store) Create(id string) *Session {
	s.removeTempFile(id)

	sess := newSession(id)

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	s.logger.Info("Session started: %s", id)
	return sess
}

// GetOrCreate returns the existing session or starts a new one.
func (s *Store) GetOrCreate(id string) *Session {
	if sess, ok := s.Get(id); ok {
		sess.Touch()
		return sess
	}
	return s.Create(id)
}

// Reset clears a session's per-cycle state and deletes its scratch image.
func (s *Store) Reset(id string) {
	if sess, ok := s.Get(id); ok {
		sess.Reset()
	}
	s.removeTempFile(id)
}

// Remove ends a session and deletes its scratch image.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()

	s.removeTempFile(id)
}

// TempPath returns the fixed scratch image path for a session. The file is
// overwritten on every cycle, never appended.
func (s *Store) TempPath(id string) string {
	return filepath.Join(s.tempDir, id+".jpg")
}

// Count returns the number of live sessions.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep removes sessions idle for longer than the TTL.
func (s *Store) Sweep() {
	cutoff := time.Now().Add(-s.ttl)

	s.mu.Lock()
	var expired []string
	for id, sess := range s.sessions {
		if sess.lastSeenAt().Before(cutoff) {
			delete(s.sessions, id)
			expired = append(expired, id)
		}
	}
	s.mu.Unlock()

	for _, id := range expired {
		s.removeTempFile(id)
		s.logger.Info("Session expired: %s", id)
	}
}

func (s *Store) removeTempFile(id string) {
	if err := os.Remove(s.TempPath(id)); err != nil && !os.IsNotExist(err) {
		s.logger.Warning("Failed to remove scratch image for session %s: %v", id, err)
	}
}
