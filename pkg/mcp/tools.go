package mcp

import "encoding/json"

// Tool describes an invocable capability. Name is the identity;
// InputSchema is a JSON Schema object describing the expected arguments.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// ToolsListResult is the result of tools/list.
type ToolsListResult struct {
	Tools      []Tool `json:"tools"`
	NextCursor string `json:"nextCursor,omitempty"`
}

// ToolsCallParams is the params of tools/call.
type ToolsCallParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// ToolsCallResult is the result of tools/call. Content is carried as raw
// JSON here and tagged/untagged via mcp.MarshalContent/UnmarshalContent
// at the boundary, since a tool result is a heterogeneous content list.
type ToolsCallResult struct {
	Content []json.RawMessage `json:"content"`
	IsError bool              `json:"isError,omitempty"`
}

// NewToolsCallResult wraps a single Content value into a ToolsCallResult.
func NewToolsCallResult(c Content, isError bool) (*ToolsCallResult, error) {
	raw, err := MarshalContent(c)
	if err != nil {
		return nil, err
	}
	return &ToolsCallResult{Content: []json.RawMessage{raw}, IsError: isError}, nil
}
