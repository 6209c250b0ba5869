// SQLGram - interactive SQL tutorials in the terminal.
//
// Lessons, graded exercises and a playground backed by an in-memory
// SQLite sample database.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sqlgram/sqlgram/internal/cli"
	"github.com/sqlgram/sqlgram/internal/config"
	"github.com/sqlgram/sqlgram/internal/db"
	"github.com/sqlgram/sqlgram/internal/telemetry"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	// Load config and open database for persistent tracking ID
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}

	paths := config.GetPaths(cfg)
	database, err := db.New(db.DefaultConfig(paths.Database))
	if err != nil {
		os.Exit(1)
	}

	telemetryClient := telemetry.New(database)

	err = cli.Execute(ctx, telemetryClient)
	telemetryClient.Close()
	_ = database.Close()
	if err != nil {
		os.Exit(1)
	}
}
