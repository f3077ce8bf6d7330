package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"guided-session-agent/internal/domain/entities"
	"guided-session-agent/internal/infra/logger"
)

type fakeCatalog struct {
	modules map[string]entities.Module
	guides  map[string]entities.Guide
	err     error
}

func (f *fakeCatalog) FindModule(ctx context.Context, id string) (entities.Module, error) {
	if f.err != nil {
		return entities.Module{}, f.err
	}
	module, ok := f.modules[id]
	if !ok {
		return entities.Module{}, mongo.ErrNoDocuments
	}
	return module, nil
}

func (f *fakeCatalog) FindGuide(ctx context.Context, id string) (entities.Guide, error) {
	if f.err != nil {
		return entities.Guide{}, f.err
	}
	guide, ok := f.guides[id]
	if !ok {
		return entities.Guide{}, mongo.ErrNoDocuments
	}
	return guide, nil
}

func testLogger() *logger.Logger {
	return logger.NewLogger(context.Background(), "fatal", false)
}

func TestGetModuleMapsMissingToReferenceNotFound(t *testing.T) {
	svc := NewResolverService(&fakeCatalog{}, testLogger())

	_, err := svc.GetModule(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrReferenceNotFound)
}

func TestGetGuideMapsMissingToReferenceNotFound(t *testing.T) {
	svc := NewResolverService(&fakeCatalog{}, testLogger())

	_, err := svc.GetGuide(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrReferenceNotFound)
}

func TestGetGuideClampsUnknownVoice(t *testing.T) {
	catalog := &fakeCatalog{guides: map[string]entities.Guide{
		"g1": {ID: "g1", Name: "Maya", Voice: "nova"},
		"g2": {ID: "g2", Name: "Zane", Voice: "robotic-9000"},
	}}
	svc := NewResolverService(catalog, testLogger())

	guide, err := svc.GetGuide(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, "nova", guide.Voice)

	guide, err = svc.GetGuide(context.Background(), "g2")
	require.NoError(t, err)
	assert.Equal(t, "alloy", guide.Voice)
}

func TestGetModuleTransportErrorIsNotReferenceNotFound(t *testing.T) {
	catalog := &fakeCatalog{err: errors.New("connection reset")}
	svc := NewResolverService(catalog, testLogger())

	_, err := svc.GetModule(context.Background(), "mod1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrReferenceNotFound)
}
