package repository

import (
	"context"

	"guided-session-agent/internal/domain/entities"
)

// SessionStore is the write surface for guided-session documents. Paths
// are partitioned by userId/sessionId, so concurrent sessions never
// contend on the same document. Writes at a session path merge into the
// existing document rather than replacing it.
type SessionStore interface {
	CreateSession(ctx context.Context, session entities.Session) (entities.Session, error)
	AppendTurn(ctx context.Context, userID string, sessionID string, turn entities.Turn) error
	UpdateSessionStatus(ctx context.Context, userID string, sessionID string, status string, extra map[string]interface{}) error
}

// CatalogStore reads the static module and guide records. A missing id
// is reported through the returned error and is a normal outcome, not a
// transport failure.
type CatalogStore interface {
	FindModule(ctx context.Context, id string) (entities.Module, error)
	FindGuide(ctx context.Context, id string) (entities.Guide, error)
}

// ConversationStore is the verbatim write path used by the HTTP API.
type ConversationStore interface {
	SaveConversation(ctx context.Context, conversation entities.Conversation) error
	SaveVoiceNote(ctx context.Context, detail entities.VoiceNoteDetail) error
}
