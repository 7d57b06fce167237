// Package rbac implements the role-based access control middleware (spec
// §4.7.4): subject/resource/action/context extraction from a request,
// permission-pattern matching, and a role hierarchy (DAG) used to resolve
// the permissions a subject effectively holds. The pattern-matching rules
// are implemented here rather than delegated to a generic role library,
// since no such library speaks this spec's 3-part pattern syntax natively.
package rbac

// Subject identifies the caller of a request.
type Subject struct {
	ID   string
	Type string
}

// Resource identifies what a request acts on.
type Resource struct {
	ID   string
	Type string
}

// ConditionFunc is a predicate over the extracted request context; a
// conditional permission only grants access when it returns true.
type ConditionFunc func(context map[string]string) bool

// Permission is one grant: Action and ResourceType must match exactly,
// except that a value of "*" matches any action or resource type (used by
// SuperAdmin and the power_user defaults). Pattern matches the resource id
// by the rules in MatchesPattern. A nil Condition always passes.
type Permission struct {
	Action       string
	ResourceType string
	Pattern      string
	Condition    ConditionFunc
}

// Matches reports whether p grants access to action/resourceType/resourceID
// under context ctx.
func (p Permission) Matches(action, resourceType, resourceID string, ctx map[string]string) bool {
	if p.Action != "*" && p.Action != action {
		return false
	}
	if p.ResourceType != "*" && p.ResourceType != resourceType {
		return false
	}
	if !MatchesPattern(p.Pattern, resourceID) {
		return false
	}
	if p.Condition != nil && !p.Condition(ctx) {
		return false
	}
	return true
}

// SuperAdmin is the unconditional, unrestricted permission.
func SuperAdmin() Permission {
	return Permission{Action: "*", ResourceType: "*", Pattern: "*"}
}

// Role is a named bundle of permissions plus the names of roles it
// inherits from. The role graph is a DAG: a role's effective permission
// set is its own permissions union all ancestors' permissions.
type Role struct {
	Name        string
	Permissions []Permission
	Inherits    []string
}
