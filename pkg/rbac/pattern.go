package rbac

import (
	"strings"

	"github.com/richard-senior/mcpsession/pkg/mcperrors"
)

// MatchesPattern reports whether pattern matches resourceID under the
// rules in spec §4.7.4:
//   - "*" matches anything.
//   - "<prefix>/*" matches id == prefix, or id starting with "<prefix>/".
//   - "<prefix>*" matches any id starting with prefix.
//   - otherwise, exact string equality.
func MatchesPattern(pattern, resourceID string) bool {
	if pattern == "*" {
		return true
	}
	if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
		return resourceID == prefix || strings.HasPrefix(resourceID, prefix+"/")
	}
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		return strings.HasPrefix(resourceID, prefix)
	}
	return pattern == resourceID
}

// ParsePermissionString parses a permission string of the form
// "action:resource_type" or "action:resource_type:pattern" (spec §4.7.4).
// A 2-part string defaults to pattern "*". Validity rules: 2 or 3
// non-empty colon-separated parts; action forbids '/', '\\', NUL;
// resource type and pattern forbid NUL; pattern forbids "..".
func ParsePermissionString(s string) (Permission, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return Permission{}, mcperrors.New(mcperrors.KindValidation, "invalid permission format: "+s)
	}
	for _, p := range parts {
		if p == "" {
			return Permission{}, mcperrors.New(mcperrors.KindValidation, "invalid permission format: "+s)
		}
	}

	action := parts[0]
	resourceType := parts[1]
	pattern := "*"
	if len(parts) == 3 {
		pattern = parts[2]
	}

	if strings.ContainsAny(action, "/\\\x00") {
		return Permission{}, mcperrors.New(mcperrors.KindValidation, "invalid action in permission: "+s)
	}
	if strings.Contains(resourceType, "\x00") || strings.Contains(pattern, "\x00") {
		return Permission{}, mcperrors.New(mcperrors.KindValidation, "NUL byte in permission: "+s)
	}
	if strings.Contains(pattern, "..") {
		return Permission{}, mcperrors.New(mcperrors.KindValidation, "path traversal in permission pattern: "+s)
	}

	return Permission{Action: action, ResourceType: resourceType, Pattern: pattern}, nil
}
