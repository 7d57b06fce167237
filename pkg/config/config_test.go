package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
server:
  name: demo-server
  version: "1.0"
  bind_address: "0.0.0.0"
  port: 9000
rbac:
  default_roles: true
  audit_enabled: true
  cache:
    enabled: true
    ttl_seconds: 300
    max_entries: 10000
  roles:
    - name: api_client
      permissions:
        - "list:tools"
        - "call:tools:safe/*"
        - "read:resources:public/*"
      conditional_permissions:
        - permission: "call:tools:admin/*"
          condition: "context.business_hours == 'true' && context.trust_level == 'high'"
    - name: service_account
      permissions:
        - "call:tools:automation/*"
      inherits_from:
        - api_client
  assignments:
    - subject_id: svc-1
      subject_type: service
      roles:
        - service_account
metrics:
  enabled: true
`

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadParsesServerAndRBACSections(t *testing.T) {
	path := writeTempConfig(t, sampleYAML)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "demo-server", cfg.Server.Name)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.True(t, cfg.RBAC.DefaultRoles)
	require.Len(t, cfg.RBAC.Roles, 2)
	assert.Equal(t, "api_client", cfg.RBAC.Roles[0].Name)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestRBACConfigValidateCatchesDuplicateRoles(t *testing.T) {
	cfg := RBACConfig{
		Roles: []RoleConfig{
			{Name: "dup"},
			{Name: "dup"},
		},
	}
	assert.Error(t, cfg.Validate())
}

func TestRBACConfigValidateCatchesUnknownInheritance(t *testing.T) {
	cfg := RBACConfig{
		Roles: []RoleConfig{
			{Name: "child", InheritsFrom: []string{"ghost"}},
		},
	}
	assert.Error(t, cfg.Validate())
}

func TestRBACConfigValidateAcceptsDefaultRoleInheritance(t *testing.T) {
	cfg := RBACConfig{
		DefaultRoles: true,
		Roles: []RoleConfig{
			{Name: "custom", InheritsFrom: []string{"user"}},
		},
	}
	assert.NoError(t, cfg.Validate())
}

func TestBuildEngineAppliesConditionalPermission(t *testing.T) {
	path := writeTempConfig(t, sampleYAML)
	cfg, err := Load(path)
	require.NoError(t, err)

	engine, err := cfg.RBAC.BuildEngine()
	require.NoError(t, err)

	assert.True(t, engine.Check("svc-1", "call", "tools", "automation/deploy", nil))
	assert.False(t, engine.Check("svc-1", "call", "tools", "other/deploy", nil))

	// The inherited conditional permission on admin/* only applies when
	// its condition holds.
	assert.True(t, engine.Check("svc-1", "call", "tools", "admin/reset", map[string]string{"business_hours": "true", "trust_level": "high"}))
	assert.False(t, engine.Check("svc-1", "call", "tools", "admin/reset", map[string]string{"business_hours": "true", "trust_level": "low"}))
}

func TestDevelopmentConfigBuildsEngine(t *testing.T) {
	engine, err := Development().BuildEngine()
	require.NoError(t, err)
	assert.True(t, engine.Check("developer", "call", "tools", "anything", nil))
}
