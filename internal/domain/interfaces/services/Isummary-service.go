package Iservices

import (
	"context"

	"guided-session-agent/internal/domain/entities"
)

type ISummaryService interface {
	GenerateSummary(ctx context.Context, transcript []entities.Turn) (summary string, title string, err error)
}
