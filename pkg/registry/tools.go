package registry

import (
	"context"

	"github.com/richard-senior/mcpsession/pkg/mcp"
	"github.com/richard-senior/mcpsession/pkg/mcperrors"
)

// ToolHandler invokes a registered tool with its call arguments.
type ToolHandler func(ctx context.Context, arguments map[string]any) (*mcp.ToolsCallResult, error)

type toolEntry struct {
	tool    mcp.Tool
	handler ToolHandler
}

// Tools is the tools/* registry, keyed by name.
type Tools struct {
	store *store[toolEntry]
}

func NewTools() *Tools {
	return &Tools{store: newStore[toolEntry]()}
}

func (t *Tools) Register(tool mcp.Tool, handler ToolHandler) {
	t.store.put(tool.Name, toolEntry{tool: tool, handler: handler})
}

func (t *Tools) Unregister(name string) {
	t.store.remove(name)
}

func (t *Tools) List(cursor string) (*mcp.ToolsListResult, error) {
	entries, next, err := t.store.page(cursor)
	if err != nil {
		return nil, err
	}
	out := make([]mcp.Tool, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.tool)
	}
	return &mcp.ToolsListResult{Tools: out, NextCursor: next}, nil
}

func (t *Tools) Call(ctx context.Context, name string, arguments map[string]any) (*mcp.ToolsCallResult, error) {
	entry, ok := t.store.get(name)
	if !ok {
		return nil, mcperrors.New(mcperrors.KindToolNotFound, name)
	}
	return entry.handler(ctx, arguments)
}

func (t *Tools) Len() int { return t.store.len() }
