package server

import (
	"github.com/richard-senior/mcpsession/pkg/mcp"
	"github.com/richard-senior/mcpsession/pkg/mcperrors"
	"github.com/richard-senior/mcpsession/pkg/middleware"
	"github.com/richard-senior/mcpsession/pkg/monitoring"
	"github.com/richard-senior/mcpsession/pkg/rbac"
	"github.com/richard-senior/mcpsession/pkg/registry"
)

// Builder configures a Server with a fluent API, mirroring
// mocopr-server's McpServerBuilder: set identity and capabilities,
// register resources/tools/prompts, add middleware, then Build.
type Builder struct {
	name    string
	version string

	capabilities mcp.ServerCapabilities

	resources *registry.Resources
	tools     *registry.Tools
	prompts   *registry.Prompts

	hooks []middleware.Hook

	monitoringCollector *monitoring.Collector
	monitoringExporter  *monitoring.Exporter

	bindAddress string
	port        int
}

// NewBuilder returns a builder with empty registries and default
// (all-disabled) capabilities.
func NewBuilder() *Builder {
	return &Builder{
		resources:   registry.NewResources(),
		tools:       registry.NewTools(),
		prompts:     registry.NewPrompts(),
		bindAddress: "127.0.0.1",
		port:        8080,
	}
}

// WithInfo sets the server identity advertised during initialize.
func (b *Builder) WithInfo(name, version string) *Builder {
	b.name = name
	b.version = version
	return b
}

// WithLogging advertises logging/setLevel support.
func (b *Builder) WithLogging() *Builder {
	b.capabilities.Logging = map[string]any{}
	return b
}

// WithResources enables the resources capability with list-change and
// subscribe notifications both on.
func (b *Builder) WithResources() *Builder {
	return b.WithResourcesConfig(true, true)
}

func (b *Builder) WithResourcesConfig(listChanged, subscribe bool) *Builder {
	b.capabilities.Resources = &mcp.ResourcesCapability{ListChanged: listChanged, Subscribe: subscribe}
	return b
}

// WithTools enables the tools capability with list-change notifications on.
func (b *Builder) WithTools() *Builder {
	return b.WithToolsConfig(true)
}

func (b *Builder) WithToolsConfig(listChanged bool) *Builder {
	b.capabilities.Tools = &mcp.ListChangedCapability{ListChanged: listChanged}
	return b
}

// WithPrompts enables the prompts capability with list-change
// notifications on.
func (b *Builder) WithPrompts() *Builder {
	return b.WithPromptsConfig(true)
}

func (b *Builder) WithPromptsConfig(listChanged bool) *Builder {
	b.capabilities.Prompts = &mcp.ListChangedCapability{ListChanged: listChanged}
	return b
}

func (b *Builder) WithExperimental(key string, value any) *Builder {
	if b.capabilities.Experimental == nil {
		b.capabilities.Experimental = map[string]any{}
	}
	b.capabilities.Experimental[key] = value
	return b
}

// WithResource registers one resource and its read handler.
func (b *Builder) WithResource(res mcp.Resource, h registry.ResourceHandler) *Builder {
	b.resources.Register(res, h)
	return b
}

// WithTool registers one tool and its call handler.
func (b *Builder) WithTool(tool mcp.Tool, h registry.ToolHandler) *Builder {
	b.tools.Register(tool, h)
	return b
}

// WithPrompt registers one prompt and its get handler.
func (b *Builder) WithPrompt(prompt mcp.Prompt, h registry.PromptHandler) *Builder {
	b.prompts.Register(prompt, h)
	return b
}

// WithMiddleware appends a hook, run in the order added (spec §4.7).
func (b *Builder) WithMiddleware(h middleware.Hook) *Builder {
	b.hooks = append(b.hooks, h)
	return b
}

// WithRBAC wires an RBAC engine into the middleware pipeline (spec §4.7.4).
func (b *Builder) WithRBAC(engine *rbac.Engine, auditEnabled bool) *Builder {
	return b.WithMiddleware(rbac.NewHook(engine, auditEnabled))
}

// WithMonitoring enables request timing/health metrics, optionally
// exported to Prometheus via exporter (spec §8).
func (b *Builder) WithMonitoring(exporter *monitoring.Exporter) *Builder {
	b.monitoringCollector = monitoring.NewCollector()
	b.monitoringExporter = exporter
	return b.WithMiddleware(monitoring.NewHook(b.monitoringCollector, exporter))
}

// WithBindAddress configures the address/port an HTTP or WebSocket
// transport binds to; unused by the stdio transport.
func (b *Builder) WithBindAddress(address string, port int) *Builder {
	b.bindAddress = address
	b.port = port
	return b
}

// Build validates required fields and assembles a Server.
func (b *Builder) Build() (*Server, error) {
	if b.name == "" {
		return nil, mcperrors.New(mcperrors.KindMissingParameter, "server name is required")
	}
	if b.version == "" {
		return nil, mcperrors.New(mcperrors.KindMissingParameter, "server version is required")
	}

	return &Server{
		info:         mcp.Implementation{Name: b.name, Version: b.version},
		capabilities: b.capabilities,
		resources:    b.resources,
		tools:        b.tools,
		prompts:      b.prompts,
		hooks:        b.hooks,
		collector:    b.monitoringCollector,
		exporter:     b.monitoringExporter,
		bindAddress:  b.bindAddress,
		port:         b.port,
	}, nil
}
