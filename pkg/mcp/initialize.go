package mcp

// InitializeParams is the params of the initialize request sent by the
// client (spec §4.5 step 1).
type InitializeParams struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ClientCapabilities `json:"capabilities"`
	ClientInfo      Implementation     `json:"clientInfo"`
}

// InitializeResult is the result the server returns from initialize
// (spec §4.5 step 3).
type InitializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ServerCapabilities `json:"capabilities"`
	ServerInfo      Implementation     `json:"serverInfo"`
	Instructions    string             `json:"instructions,omitempty"`
}

// PingParams is the optional params of a ping request/the message it
// echoes back.
type PingParams struct {
	Message string `json:"message,omitempty"`
}

// PingResult echoes PingParams.Message, per the default ping
// implementation (spec §4.4).
type PingResult struct {
	Message string `json:"message,omitempty"`
}
