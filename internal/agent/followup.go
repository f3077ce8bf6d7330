package agent

import (
	"strconv"
	"strings"

	"guided-session-agent/internal/domain/entities"
)

// A short answer suggests the user has more to say. The threshold is a
// word count, deliberately simple so the decision stays a pure function
// of the answer text.
const followUpWordThreshold = 10

const defaultFollowUpPrompt = "Can you tell me more about that?"

// needsFollowUp reports whether an answer should be explored further:
// true iff the answer has fewer than followUpWordThreshold
// whitespace-delimited words.
func needsFollowUp(answer string) bool {
	return len(strings.Fields(answer)) < followUpWordThreshold
}

// selectFollowUp picks the follow-up prompt for a base question. The
// module may carry a prompt per question ordinal; otherwise the fixed
// reflective prompt is used.
func selectFollowUp(module entities.Module, questionNumber int) string {
	if prompt, ok := module.FollowUps[strconv.Itoa(questionNumber)]; ok && prompt != "" {
		return prompt
	}
	return defaultFollowUpPrompt
}
