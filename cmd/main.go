// Command mcpsession runs the MCP server over stdio, optionally loading
// server/RBAC/metrics configuration from a YAML file. Kept as the
// repo's root binary per the teacher's own cmd/main.go convention.
package main

import (
	"flag"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/richard-senior/mcpsession/internal/logger"
	"github.com/richard-senior/mcpsession/pkg/config"
	"github.com/richard-senior/mcpsession/pkg/monitoring"
	"github.com/richard-senior/mcpsession/pkg/server"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (server/rbac/metrics)")
	debug := flag.Bool("debug", false, "enable debug-level logging (written to file; stdout is reserved for the JSON-RPC stream)")
	flag.Parse()

	logger.SetLogOutput('f')
	if *debug {
		logger.SetLevel(logger.DEBUG)
	} else {
		logger.SetLevel(logger.FATAL)
	}

	name, version := "mcpsession", "1.0.0"
	b := server.NewBuilder().WithInfo(name, version).WithLogging().WithTools().WithResources().WithPrompts()

	if *configPath != "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			logger.Fatal("failed to load config", err)
		}
		if cfg.Server.Name != "" {
			b.WithInfo(cfg.Server.Name, cfg.Server.Version)
		}
		if cfg.Server.BindAddress != "" {
			b.WithBindAddress(cfg.Server.BindAddress, cfg.Server.Port)
		}
		if len(cfg.RBAC.Roles) > 0 || cfg.RBAC.DefaultRoles {
			engine, err := cfg.RBAC.BuildEngine()
			if err != nil {
				logger.Fatal("failed to build RBAC engine from config", err)
			}
			b.WithRBAC(engine, cfg.RBAC.AuditEnabled)
		}
		if cfg.Metrics.Enabled {
			b.WithMonitoring(monitoring.NewExporter(prometheus.DefaultRegisterer))
		}
	}

	srv, err := b.Build()
	if err != nil {
		logger.Fatal("failed to build server", err)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server exited with error", err)
		os.Exit(1)
	}
}
