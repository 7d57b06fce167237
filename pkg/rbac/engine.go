package rbac

import "sync"

// Engine holds the role graph and subject-role assignments. It is built
// once (roles, inheritance and assignments are all mutated only during
// setup) and then shared by reference across concurrent requests — the
// per-request path only reads (spec §4.7.4 thread-safety note).
type Engine struct {
	mu          sync.RWMutex
	roles       map[string]*Role
	assignments map[string][]string // subject id -> role names
}

func NewEngine() *Engine {
	return &Engine{
		roles:       make(map[string]*Role),
		assignments: make(map[string][]string),
	}
}

// RegisterRole adds a role, or appends permissions to an already
// registered role of the same name; existing permissions are kept.
func (e *Engine) RegisterRole(name string, permissions ...Permission) {
	e.mu.Lock()
	defer e.mu.Unlock()
	role, ok := e.roles[name]
	if !ok {
		role = &Role{Name: name}
		e.roles[name] = role
	}
	role.Permissions = append(role.Permissions, permissions...)
}

// AddConditionalPermission attaches a single conditional permission to an
// already-registered (or not-yet-registered) role.
func (e *Engine) AddConditionalPermission(roleName string, permission Permission) {
	e.mu.Lock()
	defer e.mu.Unlock()
	role, ok := e.roles[roleName]
	if !ok {
		role = &Role{Name: roleName}
		e.roles[roleName] = role
	}
	role.Permissions = append(role.Permissions, permission)
}

// AddInheritance declares that child inherits all of parent's permissions
// (spec's role DAG, e.g. user inherits guest).
func (e *Engine) AddInheritance(child, parent string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	role, ok := e.roles[child]
	if !ok {
		role = &Role{Name: child}
		e.roles[child] = role
	}
	role.Inherits = append(role.Inherits, parent)
}

// AssignRole grants subjectID the named role.
func (e *Engine) AssignRole(subjectID, roleName string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.assignments[subjectID] = append(e.assignments[subjectID], roleName)
}

// rolesOf returns the role names directly assigned to subjectID.
func (e *Engine) rolesOf(subjectID string) []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]string(nil), e.assignments[subjectID]...)
}

// effectivePermissions flattens a role and everything it transitively
// inherits into one permission list, guarding against cycles.
func (e *Engine) effectivePermissions(roleName string, seen map[string]bool) []Permission {
	if seen[roleName] {
		return nil
	}
	seen[roleName] = true

	e.mu.RLock()
	role, ok := e.roles[roleName]
	e.mu.RUnlock()
	if !ok {
		return nil
	}

	perms := append([]Permission(nil), role.Permissions...)
	for _, parent := range role.Inherits {
		perms = append(perms, e.effectivePermissions(parent, seen)...)
	}
	return perms
}

// Check reports whether subjectID — via any role assigned to it, direct or
// inherited — holds a permission granting action on resourceType/id under
// context ctx. Decision is boolean OR over all matching permissions (spec
// §4.7.4).
func (e *Engine) Check(subjectID, action, resourceType, resourceID string, ctx map[string]string) bool {
	for _, roleName := range e.rolesOf(subjectID) {
		for _, perm := range e.effectivePermissions(roleName, make(map[string]bool)) {
			if perm.Matches(action, resourceType, resourceID, ctx) {
				return true
			}
		}
	}
	return false
}
