package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/dmitrijs2005/notekeeper/internal/server/config"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/notekeeper/internal/server/services"
)

// deps are the seams the commands reach the outside world through.
type deps struct {
	openDB  func(ctx context.Context, dsn string) (*sql.DB, error)
	manager func() repomanager.RepositoryManager
	now     func() time.Time
}

func defaultDeps() deps {
	return deps{
		openDB:  repomanager.Open,
		manager: func() repomanager.RepositoryManager { return repomanager.NewPostgresRepositoryManager() },
		now:     time.Now,
	}
}

type globalOptions struct {
	dsn    string
	secret string
	format string
}

func newRootCmd(d deps) *cobra.Command {
	defaults := config.Config{}
	defaults.LoadDefaults()

	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:           "notekeeperctl",
		Short:         "Administer a notekeeper sync server",
		Long:          "notekeeperctl applies migrations, mints development tokens and inspects per-user sync state.",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch opts.format {
			case "table", "json":
				return nil
			default:
				return fmt.Errorf("invalid format: %s (valid values: table, json)", opts.format)
			}
		},
	}

	cmd.PersistentFlags().StringVar(&opts.dsn, "dsn", defaults.DatabaseDSN, "PostgreSQL connection string")
	cmd.PersistentFlags().StringVar(&opts.secret, "secret", defaults.SecretKey, "JWT signing secret")
	cmd.PersistentFlags().StringVar(&opts.format, "format", "table", "Output format: table or json")

	cmd.AddCommand(newMigrateCmd(d, opts))
	cmd.AddCommand(newTokenCmd(d, opts))
	cmd.AddCommand(newStatusCmd(d, opts))
	cmd.AddCommand(newTombstonesCmd(d, opts))

	return cmd
}

// withService opens the database and hands fn a sync service bound to it.
func withService(ctx context.Context, d deps, opts *globalOptions, fn func(*services.SyncService) error) error {
	db, err := d.openDB(ctx, opts.dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DatabaseDSN = opts.dsn
	return fn(services.NewSyncService(db, d.manager(), cfg, logging.Nop{}))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

func formatMillis(ms int64) string {
	if ms == 0 {
		return "never"
	}
	return time.UnixMilli(ms).UTC().Format(time.RFC3339Nano)
}
