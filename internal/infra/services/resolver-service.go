package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"guided-session-agent/internal/domain/entities"
	"guided-session-agent/internal/domain/interfaces/repository"
	"guided-session-agent/internal/infra/logger"
)

// ErrReferenceNotFound marks a module or guide id that does not exist.
// This is an expected outcome that aborts session setup, not a
// transport failure.
var ErrReferenceNotFound = errors.New("reference not found")

var openAIVoices = map[string]bool{
	"alloy":   true,
	"echo":    true,
	"fable":   true,
	"onyx":    true,
	"nova":    true,
	"shimmer": true,
}

// ResolverService resolves module and guide records before a session
// starts.
type ResolverService struct {
	Catalog repository.CatalogStore
	Logger  *logger.Logger
}

func NewResolverService(catalog repository.CatalogStore, logger *logger.Logger) *ResolverService {
	return &ResolverService{Catalog: catalog, Logger: logger}
}

func (rs *ResolverService) GetModule(ctx context.Context, id string) (entities.Module, error) {
	module, err := rs.Catalog.FindModule(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return entities.Module{}, fmt.Errorf("%w: module %q", ErrReferenceNotFound, id)
	}
	if err != nil {
		rs.Logger.Error(fmt.Sprintf("Failed to find module '%s': %v", id, err))
		return entities.Module{}, err
	}
	return module, nil
}

// GetGuide resolves a guide and clamps its voice to the supported set,
// falling back to alloy for anything unknown.
func (rs *ResolverService) GetGuide(ctx context.Context, id string) (entities.Guide, error) {
	guide, err := rs.Catalog.FindGuide(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return entities.Guide{}, fmt.Errorf("%w: guide %q", ErrReferenceNotFound, id)
	}
	if err != nil {
		rs.Logger.Error(fmt.Sprintf("Failed to find guide '%s': %v", id, err))
		return entities.Guide{}, err
	}
	guide.Voice = clampVoice(guide.Voice)
	return guide, nil
}

func clampVoice(voice string) string {
	if openAIVoices[voice] {
		return voice
	}
	return "alloy"
}
