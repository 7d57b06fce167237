package rbac

import (
	"strings"

	"github.com/richard-senior/mcpsession/pkg/mcperrors"
)

// CompileCondition parses a small conditional-permission expression into a
// ConditionFunc. The grammar, taken from the conditional permission
// examples in the RBAC configuration format, is a conjunction of
// equality/inequality comparisons against the extracted request context:
//
//	context.business_hours == 'true' && context.trust_level == 'high'
//
// Each clause compares context.<key> against a single-quoted literal with
// == or !=; clauses are joined with &&. An empty expression always passes.
func CompileCondition(expr string) (ConditionFunc, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return func(map[string]string) bool { return true }, nil
	}

	clauses := strings.Split(expr, "&&")
	type clause struct {
		key   string
		want  string
		negate bool
	}
	parsed := make([]clause, 0, len(clauses))

	for _, c := range clauses {
		c = strings.TrimSpace(c)
		op := "=="
		idx := strings.Index(c, "==")
		negate := false
		if idx < 0 {
			idx = strings.Index(c, "!=")
			op = "!="
			negate = true
		}
		if idx < 0 {
			return nil, mcperrors.New(mcperrors.KindValidation, "invalid condition clause: "+c)
		}

		lhs := strings.TrimSpace(c[:idx])
		rhs := strings.TrimSpace(c[idx+len(op):])

		key, ok := strings.CutPrefix(lhs, "context.")
		if !ok || key == "" {
			return nil, mcperrors.New(mcperrors.KindValidation, "condition must reference context.<key>: "+c)
		}

		rhs = strings.Trim(rhs, "'\"")
		parsed = append(parsed, clause{key: key, want: rhs, negate: negate})
	}

	return func(ctx map[string]string) bool {
		for _, c := range parsed {
			got, present := ctx[c.key]
			matches := present && got == c.want
			if c.negate {
				matches = !matches
			}
			if !matches {
				return false
			}
		}
		return true
	}, nil
}
