package mcp

import "encoding/json"

// SamplingMessage is one turn in a sampling conversation, content tagged
// the same way as a tool result (spec §5: "Supplemented features").
type SamplingMessage struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

// ModelPreferences hints the server's preferred model selection strategy
// to the client's sampling implementation.
type ModelPreferences struct {
	Hints                []ModelHint `json:"hints,omitempty"`
	CostPriority         float64     `json:"costPriority,omitempty"`
	SpeedPriority        float64     `json:"speedPriority,omitempty"`
	IntelligencePriority float64     `json:"intelligencePriority,omitempty"`
}

// ModelHint is one named preference a server may attach to
// ModelPreferences.
type ModelHint struct {
	Name string `json:"name,omitempty"`
}

// CreateMessageParams is the params of sampling/createMessage: a server
// asking the client's connected model to sample a completion.
type CreateMessageParams struct {
	Messages         []SamplingMessage `json:"messages"`
	ModelPreferences *ModelPreferences `json:"modelPreferences,omitempty"`
	SystemPrompt     string            `json:"systemPrompt,omitempty"`
	MaxTokens        int               `json:"maxTokens,omitempty"`
}

// CreateMessageResult is the result of sampling/createMessage.
type CreateMessageResult struct {
	Role       string          `json:"role"`
	Content    json.RawMessage `json:"content"`
	Model      string          `json:"model"`
	StopReason string          `json:"stopReason,omitempty"`
}
