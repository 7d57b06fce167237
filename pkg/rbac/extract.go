package rbac

import (
	"encoding/json"
	"strings"

	"github.com/richard-senior/mcpsession/pkg/jsonrpc"
	"github.com/richard-senior/mcpsession/pkg/mcperrors"
)

type requestAuth struct {
	Auth struct {
		SubjectID   string `json:"subject_id"`
		SubjectType string `json:"subject_type"`
		UserID      string `json:"user_id"`
		SessionID   string `json:"session_id"`
		ClientIP    string `json:"client_ip"`
	} `json:"auth"`
	Name    string          `json:"name"`
	URI     string          `json:"uri"`
	Context json.RawMessage `json:"context"`
}

func decodeAuth(params json.RawMessage) requestAuth {
	var a requestAuth
	if len(params) > 0 {
		_ = json.Unmarshal(params, &a)
	}
	return a
}

// ExtractSubject derives the caller's identity from the request's
// auth.subject_id / auth.subject_type params (spec §4.7.4). A missing
// subject_id yields the anonymous user; a missing subject_type defaults
// to "user" while keeping the given subject_id.
func ExtractSubject(req *jsonrpc.Request) Subject {
	a := decodeAuth(req.Params)
	if a.Auth.SubjectID == "" {
		return Subject{ID: "anonymous", Type: "user"}
	}
	subjectType := a.Auth.SubjectType
	if subjectType == "" {
		subjectType = "user"
	}
	return Subject{ID: a.Auth.SubjectID, Type: subjectType}
}

// ExtractResource derives what the request acts on, method-keyed per spec
// §4.7.4. resources/read|subscribe|unsubscribe reject a ".."-containing URI
// as a path traversal attempt before returning.
func ExtractResource(req *jsonrpc.Request) (Resource, error) {
	a := decodeAuth(req.Params)

	if category, ok := strings.CutSuffix(req.Method, "/list"); ok {
		return Resource{ID: "*", Type: category}, nil
	}

	switch req.Method {
	case "tools/call":
		if a.Name == "" {
			return Resource{ID: "*", Type: "tools"}, nil
		}
		return Resource{ID: a.Name, Type: "tools"}, nil

	case "resources/read", "resources/subscribe", "resources/unsubscribe":
		if a.URI == "" {
			return Resource{ID: "*", Type: "resources"}, nil
		}
		if strings.Contains(a.URI, "..") {
			return Resource{}, mcperrors.New(mcperrors.KindPermissionDenied, "path traversal in resource uri: "+a.URI)
		}
		return Resource{ID: a.URI, Type: "resources"}, nil

	case "prompts/get":
		if a.Name == "" {
			return Resource{ID: "*", Type: "prompts"}, nil
		}
		return Resource{ID: a.Name, Type: "prompts"}, nil

	default:
		return Resource{ID: "unknown", Type: "unknown"}, nil
	}
}

// ExtractAction maps a method's final path segment to an action name;
// list/call/read/get pass through, everything else is "unknown".
func ExtractAction(req *jsonrpc.Request) string {
	segment := req.Method
	if idx := strings.LastIndex(req.Method, "/"); idx >= 0 {
		segment = req.Method[idx+1:]
	}
	switch segment {
	case "list", "call", "read", "get":
		return segment
	default:
		return "unknown"
	}
}
