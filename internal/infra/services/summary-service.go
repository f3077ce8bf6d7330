package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"guided-session-agent/internal/domain/entities"
	"guided-session-agent/internal/infra/logger"
	"guided-session-agent/internal/infra/provider"
)

const summarySystemPrompt = "You summarize guided voice sessions. " +
	"Given the questions and answers from a session, reply with a JSON object " +
	`{"title": "...", "summary": "..."} where title is at most eight words ` +
	"and summary is two or three sentences in the second person. Reply with the JSON only."

// SummaryService turns a session transcript into a short summary and
// title via the LLM provider. Callers treat failure as non-fatal.
type SummaryService struct {
	Logger   *logger.Logger
	Provider provider.ILLMProvider
}

func NewSummaryService(logger *logger.Logger, llmProvider provider.ILLMProvider) *SummaryService {
	return &SummaryService{Logger: logger, Provider: llmProvider}
}

func (ss *SummaryService) GenerateSummary(ctx context.Context, transcript []entities.Turn) (string, string, error) {
	if len(transcript) == 0 {
		return "", "", fmt.Errorf("cannot summarize an empty transcript")
	}

	var sb strings.Builder
	for _, turn := range transcript {
		fmt.Fprintf(&sb, "Q%s: %s\nA%s: %s\n", turn.QuestionIndex, turn.Question, turn.QuestionIndex, turn.Answer)
	}

	raw, err := ss.Provider.Complete(ctx, summarySystemPrompt, sb.String())
	if err != nil {
		ss.Logger.Error(fmt.Sprintf("Summary completion failed: %v", err))
		return "", "", err
	}

	var parsed struct {
		Title   string `json:"title"`
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal([]byte(extractJSON(raw)), &parsed); err != nil {
		ss.Logger.Error(fmt.Sprintf("Failed to parse summary response: %v", err))
		return "", "", fmt.Errorf("failed to parse summary response: %w", err)
	}
	if parsed.Summary == "" {
		return "", "", fmt.Errorf("summary response missing summary field")
	}

	return parsed.Summary, parsed.Title, nil
}

// extractJSON trims markdown fences some models wrap around JSON
// replies.
func extractJSON(raw string) string {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	return strings.TrimSpace(trimmed)
}
