package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shotmetrics/target-score/internal/logger"
	"github.com/shotmetrics/target-score/internal/server"
	"github.com/shotmetrics/target-score/internal/target"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("target-score-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("target-score-mcp - MCP server for scoring paper shooting targets")
			fmt.Println()
			fmt.Println("Usage: target-score-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  LOG_LEVEL=debug    Enable debug logging")
			fmt.Println("  TARGETS_DIR=DIR    Load extra target definitions from DIR")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			return
		}
	}

	// Log to stderr; stdout carries the MCP protocol.
	logger.SetOutput(os.Stderr)

	srv := server.New()
	if dir := os.Getenv("TARGETS_DIR"); dir != "" {
		if err := registerTargetsFromDir(srv, dir); err != nil {
			logger.WithError(err).Fatal("Failed to load extra targets")
		}
	}

	logger.WithField("version", Version).Info("Starting target-score MCP server")
	if err := srv.Run(); err != nil {
		logger.WithError(err).Fatal("Server error")
	}
}

// registerTargetsFromDir loads every *.json target definition in dir and
// registers it under its file stem.
func registerTargetsFromDir(srv *server.Server, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read targets dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".json")
		cfg, err := target.LoadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to load target %s: %w", entry.Name(), err)
		}
		srv.RegisterTarget(name, cfg)
		logger.WithField("target", name).Info("Registered target definition")
	}
	return nil
}
