// Package jsonrpc implements the JSON-RPC 2.0 wire codec used by the MCP
// session engine: parsing one complete JSON object into a typed Request,
// Notification or Response, and emitting the reverse.
package jsonrpc

import (
	"encoding/json"
	"fmt"

	"github.com/richard-senior/mcpsession/pkg/mcperrors"
)

// Version is the JSON-RPC protocol version this codec speaks.
const Version = "2.0"

// Kind classifies a decoded wire message.
type Kind int

const (
	KindRequest Kind = iota
	KindNotification
	KindResponse
)

// Request represents a JSON-RPC 2.0 request object: a method call that
// expects a correlated response.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      any             `json:"id"`
}

// Notification represents a JSON-RPC 2.0 notification: a method call with
// no id and therefore no reply.
type Notification struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response represents a JSON-RPC 2.0 response object. Exactly one of
// Result/Error is populated.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
	ID      any             `json:"id"`
}

// RPCError is the JSON-RPC 2.0 error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

// wireEnvelope is used only to classify an incoming message: which of
// method/id/result/error are present decides whether it's a request, a
// notification or a response (spec §4.1).
type wireEnvelope struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  *string         `json:"method,omitempty"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Decode classifies and parses one complete JSON object into exactly one
// of Request, Notification or Response. A malformed object yields a
// mcperrors.Error with KindParseError (wire code -32700).
func Decode(data []byte) (Kind, *Request, *Notification, *Response, error) {
	var env wireEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return 0, nil, nil, nil, mcperrors.Wrap(mcperrors.KindParseError, "invalid JSON", err)
	}

	hasMethod := env.Method != nil
	hasID := env.ID != nil

	switch {
	case hasMethod && hasID:
		var id any
		if err := json.Unmarshal(*env.ID, &id); err != nil {
			return 0, nil, nil, nil, mcperrors.Wrap(mcperrors.KindParseError, "invalid id", err)
		}
		return KindRequest, &Request{
			JSONRPC: env.JSONRPC,
			Method:  *env.Method,
			Params:  env.Params,
			ID:      id,
		}, nil, nil, nil

	case hasMethod && !hasID:
		return KindNotification, nil, &Notification{
			JSONRPC: env.JSONRPC,
			Method:  *env.Method,
			Params:  env.Params,
		}, nil, nil

	case env.Result != nil || env.Error != nil:
		var id any
		if env.ID != nil {
			if err := json.Unmarshal(*env.ID, &id); err != nil {
				return 0, nil, nil, nil, mcperrors.Wrap(mcperrors.KindParseError, "invalid id", err)
			}
		}
		return KindResponse, nil, nil, &Response{
			JSONRPC: env.JSONRPC,
			Result:  env.Result,
			Error:   env.Error,
			ID:      id,
		}, nil

	default:
		return 0, nil, nil, nil, mcperrors.New(mcperrors.KindParseError, "message is neither request, notification nor response")
	}
}

// EncodeRequest marshals a Request to a single-line JSON object.
func EncodeRequest(r *Request) ([]byte, error) {
	r.JSONRPC = Version
	return json.Marshal(r)
}

// EncodeNotification marshals a Notification to a single-line JSON object.
func EncodeNotification(n *Notification) ([]byte, error) {
	n.JSONRPC = Version
	return json.Marshal(n)
}

// EncodeResponse marshals a Response to a single-line JSON object.
func EncodeResponse(r *Response) ([]byte, error) {
	r.JSONRPC = Version
	return json.Marshal(r)
}

// NewRequest builds a Request, marshaling params if provided.
func NewRequest(method string, params any, id any) (*Request, error) {
	p, err := marshalParams(params)
	if err != nil {
		return nil, err
	}
	return &Request{JSONRPC: Version, Method: method, Params: p, ID: id}, nil
}

// NewNotification builds a Notification, marshaling params if provided.
func NewNotification(method string, params any) (*Notification, error) {
	p, err := marshalParams(params)
	if err != nil {
		return nil, err
	}
	return &Notification{JSONRPC: Version, Method: method, Params: p}, nil
}

// NewResultResponse builds a success Response for the given id. A nil
// result is sent as an empty object so the response still carries a
// result member.
func NewResultResponse(result any, id any) (*Response, error) {
	resultJSON := json.RawMessage(`{}`)
	if result != nil {
		b, err := json.Marshal(result)
		if err != nil {
			return nil, err
		}
		resultJSON = b
	}
	return &Response{JSONRPC: Version, Result: resultJSON, ID: id}, nil
}

// NewErrorResponse builds an error Response for the given id.
func NewErrorResponse(code int, message string, data any, id any) *Response {
	return &Response{
		JSONRPC: Version,
		Error:   &RPCError{Code: code, Message: message, Data: data},
		ID:      id,
	}
}

func marshalParams(params any) (json.RawMessage, error) {
	if params == nil {
		return nil, nil
	}
	if raw, ok := params.(json.RawMessage); ok {
		return raw, nil
	}
	return json.Marshal(params)
}
