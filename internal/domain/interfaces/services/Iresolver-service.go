package Iservices

import (
	"context"

	"guided-session-agent/internal/domain/entities"
)

// IResolverService resolves module and guide ids before a session may
// start. Unresolvable ids abort session setup.
type IResolverService interface {
	GetModule(ctx context.Context, id string) (entities.Module, error)
	GetGuide(ctx context.Context, id string) (entities.Guide, error)
}
