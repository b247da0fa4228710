package game

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var ErrSessionNotFound = errors.New("session not found")

const (
	// finished games stay around briefly so the client can still fetch
	// the final position
	finishedSessionMaxAge = 1 * time.Hour
	activeSessionMaxAge   = 24 * time.Hour
)

// SessionManager tracks all live sessions by game id.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	logger   *zap.SugaredLogger
}

func NewSessionManager(logger *zap.SugaredLogger) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
		logger:   logger,
	}
}

func (m *SessionManager) Add(session *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.GameID] = session
	m.logger.Infow("[SESSION] Created session",
		"gameId", session.GameID,
		"humanColour", session.HumanColour.String(),
		"engineColour", session.EngineColour.String(),
		"skillLevel", session.engine.SkillLevel().String())
}

func (m *SessionManager) Get(gameID string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, exists := m.sessions[gameID]
	return session, exists
}

func (m *SessionManager) Remove(gameID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.sessions[gameID]; !exists {
		return ErrSessionNotFound
	}
	delete(m.sessions, gameID)
	m.logger.Infow("[SESSION] Removed session", "gameId", gameID)
	return nil
}

func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// CleanupOldSessions drops finished sessions after a grace period and
// abandoned active sessions after a day. Returns the number removed.
func (m *SessionManager) CleanupOldSessions(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for gameID, session := range m.sessions {
		if !session.expired(now) {
			continue
		}
		delete(m.sessions, gameID)
		session.sender.RemoveConnection(gameID)
		session.discardSnapshot()
		removed++
	}
	return removed
}
