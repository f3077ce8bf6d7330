package provider

import "context"

type ILLMProvider interface {
	Complete(ctx context.Context, systemPrompt string, userPrompt string) (string, error)
}
