package services

import (
	"context"
	"fmt"
	"time"

	"guided-session-agent/internal/domain/entities"
	"guided-session-agent/internal/domain/interfaces/repository"
	"guided-session-agent/internal/infra/logger"
)

// SessionService is the service responsible for the session lifecycle.
type SessionService struct {
	SessionStore repository.SessionStore
	Logger       *logger.Logger
}

func NewSessionService(sessionStore repository.SessionStore, logger *logger.Logger) *SessionService {
	return &SessionService{SessionStore: sessionStore, Logger: logger}
}

// Create establishes the session record before any speech is produced.
// Identity fields are fixed here and never change for the session's
// lifetime.
func (ss *SessionService) Create(ctx context.Context, userID string, moduleID string, guideID string, sessionID string) (entities.Session, error) {
	session := entities.Session{
		SessionID: sessionID,
		UserID:    userID,
		ModuleID:  moduleID,
		GuideID:   guideID,
		Status:    entities.SessionStatusProcessing,
		CreatedAt: time.Now(),
	}

	created, err := ss.SessionStore.CreateSession(ctx, session)
	if err != nil {
		ss.Logger.Error(fmt.Sprintf("Failed to create session for user '%s': %v", userID, err))
		return entities.Session{}, err
	}
	return created, nil
}

func (ss *SessionService) AppendTurn(ctx context.Context, userID string, sessionID string, turn entities.Turn) error {
	return ss.SessionStore.AppendTurn(ctx, userID, sessionID, turn)
}

func (ss *SessionService) UpdateSessionStatus(ctx context.Context, userID string, sessionID string, status string, extra map[string]interface{}) error {
	return ss.SessionStore.UpdateSessionStatus(ctx, userID, sessionID, status, extra)
}
