package main

import (
	"flag"
	"os"

	"github.com/hazyhaar/nerprep/pkg/api"
	"github.com/hazyhaar/nerprep/pkg/cleaner"
	"github.com/mark3labs/mcp-go/server"
)

func cmdMCP(args []string) {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args)

	cfg, logger := loadConfig(*cfgPath)

	cc := cleaner.DefaultConfig()
	if cfg.CleanerConfig != "" {
		cc = cleaner.LoadConfig(cfg.CleanerConfig, logger)
	}
	svc := api.NewService(cc, logger)

	srv := server.NewMCPServer("nerprep", version, server.WithToolCapabilities(true))
	api.RegisterMCPTools(srv, svc)

	logger.Info("nerprep MCP server on stdio", "version", version)
	if err := server.ServeStdio(srv); err != nil {
		logger.Error("mcp server", "error", err)
		os.Exit(1)
	}
}
