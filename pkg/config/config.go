// Package config loads server and RBAC configuration from YAML, the
// same shape mocopr-rbac's RbacConfig describes, extended with the
// server identity/bind-address fields a whole server needs rather than
// just its access-control layer.
package config

import (
	"os"

	"github.com/richard-senior/mcpsession/pkg/mcperrors"
	"github.com/richard-senior/mcpsession/pkg/rbac"
	"gopkg.in/yaml.v3"
)

// Config is the top-level document a server reads at startup.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	RBAC    RBACConfig    `yaml:"rbac"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ServerConfig carries the identity and transport-binding fields
// server.Builder needs.
type ServerConfig struct {
	Name            string `yaml:"name"`
	Version         string `yaml:"version"`
	BindAddress     string `yaml:"bind_address"`
	Port            int    `yaml:"port"`
	EnableHTTP      bool   `yaml:"enable_http"`
	EnableWebSocket bool   `yaml:"enable_websocket"`
}

// MetricsConfig toggles Prometheus export (spec §8).
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// RBACConfig mirrors mocopr-rbac's RbacConfig: default-role bootstrap,
// audit logging, a permission cache policy (advisory — see CacheConfig), role
// definitions and subject-role assignments.
type RBACConfig struct {
	DefaultRoles bool               `yaml:"default_roles"`
	AuditEnabled bool               `yaml:"audit_enabled"`
	Cache        CacheConfig        `yaml:"cache"`
	Roles        []RoleConfig       `yaml:"roles"`
	Assignments  []AssignmentConfig `yaml:"assignments"`
}

// CacheConfig configures permission-check caching. Recorded for parity
// with mocopr-rbac's RbacConfig; the in-process Engine.Check call is
// cheap enough (map lookups and string matches) that this pass wires no
// cache implementation — see DESIGN.md.
type CacheConfig struct {
	Enabled    bool `yaml:"enabled"`
	TTLSeconds int  `yaml:"ttl_seconds"`
	MaxEntries int  `yaml:"max_entries"`
}

// RoleConfig declares one role: static permission strings (parsed by
// rbac.ParsePermissionString), conditional permissions, and the roles it
// inherits from.
type RoleConfig struct {
	Name                   string                        `yaml:"name"`
	Description            string                        `yaml:"description,omitempty"`
	Permissions            []string                      `yaml:"permissions"`
	ConditionalPermissions []ConditionalPermissionConfig `yaml:"conditional_permissions"`
	InheritsFrom           []string                      `yaml:"inherits_from"`
}

// ConditionalPermissionConfig is one condition-gated permission grant.
type ConditionalPermissionConfig struct {
	Permission  string `yaml:"permission"`
	Condition   string `yaml:"condition"`
	Description string `yaml:"description,omitempty"`
}

// AssignmentConfig binds a subject to one or more roles.
type AssignmentConfig struct {
	SubjectID   string `yaml:"subject_id"`
	SubjectType string `yaml:"subject_type"`
	Roles       []string `yaml:"roles"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, mcperrors.Wrap(mcperrors.KindConfiguration, "read config file", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, mcperrors.Wrap(mcperrors.KindConfiguration, "parse config file", err)
	}
	return &cfg, nil
}

// Validate checks role names are unique and that inheritance/assignment
// references resolve, matching mocopr-rbac's RbacConfig::validate.
func (c RBACConfig) Validate() error {
	seen := make(map[string]bool, len(c.Roles))
	for _, r := range c.Roles {
		if seen[r.Name] {
			return mcperrors.New(mcperrors.KindConfiguration, "duplicate role name: "+r.Name)
		}
		seen[r.Name] = true
	}

	exists := func(name string) bool {
		return seen[name] || (c.DefaultRoles && isDefaultRoleName(name))
	}

	for _, r := range c.Roles {
		for _, parent := range r.InheritsFrom {
			if !exists(parent) {
				return mcperrors.New(mcperrors.KindConfiguration, "role '"+r.Name+"' inherits from non-existent role '"+parent+"'")
			}
		}
	}
	for _, a := range c.Assignments {
		for _, role := range a.Roles {
			if !exists(role) {
				return mcperrors.New(mcperrors.KindConfiguration, "assignment for '"+a.SubjectID+"' references non-existent role '"+role+"'")
			}
		}
	}
	return nil
}

func isDefaultRoleName(name string) bool {
	switch name {
	case "guest", "user", "power_user", "admin":
		return true
	default:
		return false
	}
}

// BuildEngine validates c and constructs an rbac.Engine from it, seeded
// with the built-in default roles when DefaultRoles is set.
func (c RBACConfig) BuildEngine() (*rbac.Engine, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var engine *rbac.Engine
	if c.DefaultRoles {
		engine = rbac.NewDefaultEngine()
	} else {
		engine = rbac.NewEngine()
	}

	for _, rc := range c.Roles {
		perms := make([]rbac.Permission, 0, len(rc.Permissions))
		for _, p := range rc.Permissions {
			perm, err := rbac.ParsePermissionString(p)
			if err != nil {
				return nil, err
			}
			perms = append(perms, perm)
		}
		engine.RegisterRole(rc.Name, perms...)

		for _, cp := range rc.ConditionalPermissions {
			perm, err := rbac.ParsePermissionString(cp.Permission)
			if err != nil {
				return nil, err
			}
			cond, err := rbac.CompileCondition(cp.Condition)
			if err != nil {
				return nil, err
			}
			perm.Condition = cond
			engine.AddConditionalPermission(rc.Name, perm)
		}

		for _, parent := range rc.InheritsFrom {
			engine.AddInheritance(rc.Name, parent)
		}
	}

	for _, a := range c.Assignments {
		for _, role := range a.Roles {
			engine.AssignRole(a.SubjectID, role)
		}
	}

	return engine, nil
}

// Development returns a minimal RBAC configuration suitable for local
// testing: one "dev" role with broad access, assigned to "developer".
// Mirrors mocopr-rbac's RbacConfig::development.
func Development() RBACConfig {
	return RBACConfig{
		DefaultRoles: true,
		AuditEnabled: false,
		Cache:        CacheConfig{Enabled: false, TTLSeconds: 60, MaxEntries: 100},
		Roles: []RoleConfig{{
			Name:        "dev",
			Description: "Development role with elevated access",
			Permissions: []string{
				"list:tools",
				"call:tools",
				"read:resources",
				"list:prompts",
			},
		}},
		Assignments: []AssignmentConfig{{
			SubjectID:   "developer",
			SubjectType: "user",
			Roles:       []string{"dev"},
		}},
	}
}
