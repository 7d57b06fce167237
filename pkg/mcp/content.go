package mcp

import (
	"encoding/json"
	"fmt"
)

// Content is the tagged-sum of content variants a tool result, prompt
// message or resource read can carry.
type Content interface {
	contentType() string
}

// Annotations carries optional display hints attached to content or a
// resource.
type Annotations struct {
	Audience []string `json:"audience,omitempty"`
	Priority float64  `json:"priority,omitempty"`
}

// TextContent is plain text content.
type TextContent struct {
	Text        string       `json:"text"`
	Annotations *Annotations `json:"annotations,omitempty"`
}

func (TextContent) contentType() string { return "text" }

// ImageContent is base64-encoded image content.
type ImageContent struct {
	Data        string       `json:"data"`
	MimeType    string       `json:"mimeType"`
	Annotations *Annotations `json:"annotations,omitempty"`
}

func (ImageContent) contentType() string { return "image" }

// StructuredErrorContent carries a structured error surfaced as content
// (distinct from a JSON-RPC error response — used e.g. for a tool result
// that reports a partial failure without failing the whole call).
type StructuredErrorContent struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status,omitempty"`
}

func (StructuredErrorContent) contentType() string { return "error" }

// contentEnvelope is the wire shape: a "type" discriminator plus the
// variant's own fields flattened in.
type contentEnvelope struct {
	Type        string       `json:"type"`
	Text        string       `json:"text,omitempty"`
	Data        string       `json:"data,omitempty"`
	MimeType    string       `json:"mimeType,omitempty"`
	Code        int          `json:"code,omitempty"`
	Message     string       `json:"message,omitempty"`
	Status      string       `json:"status,omitempty"`
	Annotations *Annotations `json:"annotations,omitempty"`
}

// MarshalContent encodes a Content variant to its tagged wire form.
func MarshalContent(c Content) ([]byte, error) {
	switch v := c.(type) {
	case TextContent:
		return json.Marshal(contentEnvelope{Type: "text", Text: v.Text, Annotations: v.Annotations})
	case ImageContent:
		return json.Marshal(contentEnvelope{Type: "image", Data: v.Data, MimeType: v.MimeType, Annotations: v.Annotations})
	case StructuredErrorContent:
		return json.Marshal(contentEnvelope{Type: "error", Code: v.Code, Message: v.Message, Status: v.Status})
	default:
		return nil, fmt.Errorf("mcp: unknown content variant %T", c)
	}
}

// UnmarshalContent decodes a tagged wire content object back into the
// matching Content variant.
func UnmarshalContent(data []byte) (Content, error) {
	var env contentEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	switch env.Type {
	case "text":
		return TextContent{Text: env.Text, Annotations: env.Annotations}, nil
	case "image":
		return ImageContent{Data: env.Data, MimeType: env.MimeType, Annotations: env.Annotations}, nil
	case "error":
		return StructuredErrorContent{Code: env.Code, Message: env.Message, Status: env.Status}, nil
	default:
		return nil, fmt.Errorf("mcp: unknown content type %q", env.Type)
	}
}
