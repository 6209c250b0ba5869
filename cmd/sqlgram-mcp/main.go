// Package main provides the sqlgram-mcp server.
//
// sqlgram-mcp exposes the SQLGram tutorials, grader and sample database via
// the Model Context Protocol so an assistant can coach a learner through the
// exercises.
//
// Usage:
//
//	sqlgram-mcp [flags]
//
// The server communicates via JSON-RPC 2.0 over stdio (stdin/stdout).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sqlgram/sqlgram/internal/config"
	"github.com/sqlgram/sqlgram/internal/db"
	"github.com/sqlgram/sqlgram/internal/engine"
	"github.com/sqlgram/sqlgram/internal/log"
	"github.com/sqlgram/sqlgram/internal/mcp"
	"github.com/sqlgram/sqlgram/internal/session"
	"github.com/sqlgram/sqlgram/internal/telemetry"
	"github.com/sqlgram/sqlgram/pkg/version"
)

func main() {
	// Handle --version flag
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("sqlgram-mcp %s\n", version.Version)
		os.Exit(0)
	}

	// Handle --help flag
	if len(os.Args) > 1 && (os.Args[1] == "--help" || os.Args[1] == "-h") {
		printHelp()
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// stdout carries the protocol, so logs only go to the file
	paths := config.GetPaths(cfg)
	if err := log.Init(paths.Log, log.WithoutConsole()); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = log.Close()
	}()

	database, err := db.New(db.DefaultConfig(paths.Database))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		_ = database.Close()
	}()

	tc := telemetry.New(database)
	defer tc.Close()

	sess, err := session.Open(session.Options{
		Store: database.KV(),
		Engine: engine.Config{
			QueryTimeout: cfg.Engine.QueryTimeout,
			Debug:        cfg.Engine.Debug,
		},
		Telemetry: tc,
	})
	if err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}
	defer func() {
		_ = sess.Close()
	}()

	log.Printf("sqlgram-mcp %s serving on stdio\n", version.Short())

	server := mcp.NewServer(sess, cfg.MCP, tc)
	if err := server.Serve(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func printHelp() {
	help := `sqlgram-mcp - MCP server for SQLGram

USAGE:
    sqlgram-mcp [FLAGS]

FLAGS:
    -h, --help       Print this help message
    -v, --version    Print version information

DESCRIPTION:
    sqlgram-mcp is a Model Context Protocol (MCP) server that exposes the
    SQLGram tutorials, exercise grader and sample database to MCP-compatible
    clients. Progress and query history are shared with the sqlgram CLI.

    The server communicates via JSON-RPC 2.0 over stdio (stdin/stdout).

CONFIGURATION:
    {
      "mcpServers": {
        "sqlgram": {
          "type": "stdio",
          "command": "sqlgram-mcp"
        }
      }
    }

TOOLS PROVIDED:
    sqlgram_list_tutorials   List tutorials with completion percentages
    sqlgram_get_exercise     Get an exercise prompt (optionally the solution)
    sqlgram_check_exercise   Grade a query and record the attempt
    sqlgram_get_progress     Get the full progress state
    sqlgram_reset_progress   Discard all progress
    sqlgram_run_query        Run SQL against the sample database
    sqlgram_reset_database   Restore the sample database
    sqlgram_get_history      List recent playground queries

RESOURCES PROVIDED:
    sqlgram://schema         Sample database schema
    sqlgram://tutorial/{id}  Tutorial lesson markdown
`
	fmt.Print(help)
}
