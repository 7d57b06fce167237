package rbac

// NewDefaultEngine builds an engine with the four built-in MCP roles and
// the standard hierarchy guest ⊂ user ⊂ power_user ⊂ admin (spec §4.7.4).
// No subjects are assigned; callers assign roles with AssignRole.
func NewDefaultEngine() *Engine {
	e := NewEngine()

	e.RegisterRole("guest",
		Permission{Action: "list", ResourceType: "tools", Pattern: "*"},
		Permission{Action: "list", ResourceType: "resources", Pattern: "*"},
	)

	e.RegisterRole("user",
		Permission{Action: "list", ResourceType: "tools", Pattern: "*"},
		Permission{Action: "call", ResourceType: "tools", Pattern: "*"},
		Permission{Action: "list", ResourceType: "resources", Pattern: "*"},
		Permission{Action: "read", ResourceType: "resources", Pattern: "*"},
	)

	e.RegisterRole("power_user",
		Permission{Action: "*", ResourceType: "tools", Pattern: "*"},
		Permission{Action: "*", ResourceType: "resources", Pattern: "*"},
		Permission{Action: "list", ResourceType: "prompts", Pattern: "*"},
		Permission{Action: "get", ResourceType: "prompts", Pattern: "*"},
	)

	e.RegisterRole("admin", SuperAdmin())

	e.AddInheritance("user", "guest")
	e.AddInheritance("power_user", "user")
	e.AddInheritance("admin", "power_user")

	return e
}
