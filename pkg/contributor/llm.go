package contributor

import (
	"context"
	"fmt"
	"strings"

	"design-team-be/pkg/llm"
)

// LLMContributor produces stage content through any llm.Provider.
type LLMContributor struct {
	provider llm.Provider
	options  []llm.Option
}

var _ Provider = (*LLMContributor)(nil)

func NewLLMContributor(provider llm.Provider, options ...llm.Option) *LLMContributor {
	return &LLMContributor{provider: provider, options: options}
}

func (c *LLMContributor) Contribute(ctx context.Context, inv *Invocation) (string, error) {
	history := []llm.Message{
		{Role: llm.RoleSystem, Content: SystemPrompt},
		{Role: llm.RoleUser, Content: BuildPrompt(inv)},
	}
	out, err := c.provider.Chat(ctx, history, c.options...)
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", fmt.Errorf("model returned an empty completion for stage %d (%s)", inv.StageIndex, inv.Role)
	}
	return out, nil
}
