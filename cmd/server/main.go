package main

import (
	"context"
	"log"

	"jira_richtext/internal/app"
	"jira_richtext/internal/config"
	"jira_richtext/internal/logger"
	mcpserver "jira_richtext/internal/service/mcp-server"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	// stdout carries the MCP protocol
	if err := logger.Init(cfg.LogLevel, "stderr"); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	svc, err := app.NewService(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to create issue service: %v", err)
	}

	server := mcpserver.NewServer(svc)

	logger.GetLogger().Info("starting jira rich text MCP server", zap.String("host", cfg.JiraHost))
	if err := mcpserver.Serve(server); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
