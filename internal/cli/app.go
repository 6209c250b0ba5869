package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sqlgram/sqlgram/internal/config"
	"github.com/sqlgram/sqlgram/internal/db"
	"github.com/sqlgram/sqlgram/internal/engine"
	"github.com/sqlgram/sqlgram/internal/session"
)

// openSession wires a session whose progress and history live in the
// on-disk database. Tests replace it with an in-memory fixture.
var openSession = func() (*session.Session, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	paths := config.GetPaths(cfg)
	database, err := db.New(db.DefaultConfig(paths.Database))
	if err != nil {
		return nil, nil, fmt.Errorf("initialize database: %w", err)
	}

	sess, err := session.Open(session.Options{
		Store: database.KV(),
		Engine: engine.Config{
			QueryTimeout: cfg.Engine.QueryTimeout,
			Debug:        cfg.Engine.Debug,
		},
		Telemetry: telemetryClient,
	})
	if err != nil {
		_ = database.Close()
		return nil, nil, err
	}

	cleanup := func() {
		_ = sess.Close()
		_ = database.Close()
	}
	return sess, cleanup, nil
}

// queryArg joins the query arguments; a single "-" reads the query from
// stdin.
func queryArg(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	return strings.Join(args, " "), nil
}
