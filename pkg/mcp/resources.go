package mcp

// Resource describes a document or other non-interactive entity the
// server publishes. URI is the identity; Name is display only.
type Resource struct {
	URI         string       `json:"uri"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	MimeType    string       `json:"mimeType,omitempty"`
	Annotations *Annotations `json:"annotations,omitempty"`
}

// ResourcesListResult is the result of resources/list.
type ResourcesListResult struct {
	Resources  []Resource `json:"resources"`
	NextCursor string     `json:"nextCursor,omitempty"`
}

// ResourcesReadParams is the params of resources/read.
type ResourcesReadParams struct {
	URI string `json:"uri"`
}

// ResourcesReadResult is the result of resources/read.
type ResourcesReadResult struct {
	Contents []ResourceContents `json:"contents"`
}

// ResourceContents is one chunk of a resource's content, tagged the same
// way as tool/prompt content.
type ResourceContents struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text,omitempty"`
	Blob     string `json:"blob,omitempty"`
}

// ResourcesSubscribeParams/UnsubscribeParams name the resource to
// (un)subscribe from.
type ResourcesSubscribeParams struct {
	URI string `json:"uri"`
}

type ResourcesUnsubscribeParams struct {
	URI string `json:"uri"`
}

// ResourcesUpdatedNotification is the payload of
// notifications/resources/updated.
type ResourcesUpdatedNotification struct {
	URI string `json:"uri"`
}
