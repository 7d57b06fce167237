package registry

import (
	"context"

	"github.com/richard-senior/mcpsession/pkg/mcp"
	"github.com/richard-senior/mcpsession/pkg/mcperrors"
)

// PromptHandler renders a registered prompt template with its arguments.
type PromptHandler func(ctx context.Context, arguments map[string]string) (*mcp.PromptsGetResult, error)

type promptEntry struct {
	prompt  mcp.Prompt
	handler PromptHandler
}

// Prompts is the prompts/* registry, keyed by name.
type Prompts struct {
	store *store[promptEntry]
}

func NewPrompts() *Prompts {
	return &Prompts{store: newStore[promptEntry]()}
}

func (p *Prompts) Register(prompt mcp.Prompt, handler PromptHandler) {
	p.store.put(prompt.Name, promptEntry{prompt: prompt, handler: handler})
}

func (p *Prompts) Unregister(name string) {
	p.store.remove(name)
}

func (p *Prompts) List(cursor string) (*mcp.PromptsListResult, error) {
	entries, next, err := p.store.page(cursor)
	if err != nil {
		return nil, err
	}
	out := make([]mcp.Prompt, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.prompt)
	}
	return &mcp.PromptsListResult{Prompts: out, NextCursor: next}, nil
}

func (p *Prompts) Get(ctx context.Context, name string, arguments map[string]string) (*mcp.PromptsGetResult, error) {
	entry, ok := p.store.get(name)
	if !ok {
		return nil, mcperrors.New(mcperrors.KindPromptNotFound, name)
	}
	return entry.handler(ctx, arguments)
}

func (p *Prompts) Len() int { return p.store.len() }
