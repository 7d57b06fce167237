package middleware

import (
	"context"
	"encoding/json"

	"github.com/richard-senior/mcpsession/pkg/jsonrpc"
	"github.com/richard-senior/mcpsession/pkg/mcperrors"
)

// authEnvelope is the minimal shape this hook needs out of a request's
// params; it ignores everything else.
type authEnvelope struct {
	Auth struct {
		APIKey string `json:"api_key"`
	} `json:"auth"`
}

// AuthHook requires params.auth.api_key to be a member of Keys when Keys is
// non-empty (spec §4.7.3). An empty configured set disables the check
// entirely.
type AuthHook struct {
	BaseHook

	Keys map[string]struct{}
}

// NewAuthHook builds a hook that admits only the given API keys. Passing no
// keys disables the check.
func NewAuthHook(keys ...string) *AuthHook {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return &AuthHook{Keys: set}
}

func (h *AuthHook) BeforeRequest(ctx context.Context, req *jsonrpc.Request) error {
	if len(h.Keys) == 0 {
		return nil
	}

	var env authEnvelope
	if len(req.Params) > 0 {
		_ = json.Unmarshal(req.Params, &env)
	}

	if _, ok := h.Keys[env.Auth.APIKey]; !ok {
		return mcperrors.New(mcperrors.KindPermissionDenied, "missing or invalid api_key")
	}
	return nil
}

var _ Hook = (*AuthHook)(nil)
