package Iservices

import (
	"context"

	"guided-session-agent/internal/domain/entities"
)

// ISessionService defines the session lifecycle operations the agent
// depends on.
type ISessionService interface {
	Create(ctx context.Context, userID string, moduleID string, guideID string, sessionID string) (entities.Session, error)
	AppendTurn(ctx context.Context, userID string, sessionID string, turn entities.Turn) error
	UpdateSessionStatus(ctx context.Context, userID string, sessionID string, status string, extra map[string]interface{}) error
}
