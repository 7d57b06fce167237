package rbac

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/richard-senior/mcpsession/pkg/jsonrpc"
)

// ContextExtractor returns the string->string context map a conditional
// permission's predicate is evaluated against.
type ContextExtractor interface {
	Extract(req *jsonrpc.Request) map[string]string
}

// DefaultContextExtractor always contributes timestamp/date/time/
// business_hours/day_of_week/is_weekend/method, plus user_id/session_id/
// client_ip when present in params.auth, plus any scalar params.context.*
// entries (spec §4.7.4).
type DefaultContextExtractor struct {
	// Now is overridable for tests; defaults to time.Now when nil.
	Now func() time.Time
}

func (e DefaultContextExtractor) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e DefaultContextExtractor) Extract(req *jsonrpc.Request) map[string]string {
	now := e.now()
	ctx := map[string]string{
		"timestamp":      now.Format(time.RFC3339),
		"date":           now.Format("2006-01-02"),
		"time":           now.Format("15:04:05"),
		"business_hours": fmt.Sprintf("%t", now.Hour() >= 9 && now.Hour() <= 17),
		"day_of_week":    now.Weekday().String(),
		"is_weekend":     fmt.Sprintf("%t", now.Weekday() == time.Saturday || now.Weekday() == time.Sunday),
		"method":         req.Method,
	}

	a := decodeAuth(req.Params)
	if a.Auth.UserID != "" {
		ctx["user_id"] = a.Auth.UserID
	}
	if a.Auth.SessionID != "" {
		ctx["session_id"] = a.Auth.SessionID
	}
	if a.Auth.ClientIP != "" {
		ctx["client_ip"] = a.Auth.ClientIP
	}

	if len(a.Context) > 0 {
		var raw map[string]any
		if err := json.Unmarshal(a.Context, &raw); err == nil {
			for k, v := range raw {
				switch val := v.(type) {
				case string:
					ctx[k] = val
				case bool, float64:
					ctx[k] = fmt.Sprintf("%v", val)
				default:
					// objects/arrays are not scalar; skip per spec.
				}
			}
		}
	}

	return ctx
}

var _ ContextExtractor = DefaultContextExtractor{}
