// Package cli implements coordctl, an offline front end to the coordination
// analytics. Every command loads a snapshot, runs one query and prints the
// same JSON the HTTP API serves.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lorrc/coordination-backend/internal/adapters/secondary/memory"
	"github.com/lorrc/coordination-backend/internal/adapters/secondary/postgres"
	"github.com/lorrc/coordination-backend/internal/adapters/secondary/seed"
	"github.com/lorrc/coordination-backend/internal/config"
	"github.com/lorrc/coordination-backend/internal/core/domain"
	"github.com/lorrc/coordination-backend/internal/core/ports"
	"github.com/lorrc/coordination-backend/internal/core/services"
	"github.com/lorrc/coordination-backend/internal/infrastructure/logging"
)

const defaultLoadTimeout = 30 * time.Second

// options holds the global flags shared by every command.
type options struct {
	seedPath    string
	databaseURL string
	teams       []string
	logLevel    string
	timeout     time.Duration
}

// NewRootCommand builds the coordctl command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "coordctl",
		Short: "Cross-team coordination analytics",
		Long: `coordctl computes coordination reports (feature alignment, duplicate work,
shared dependencies and sprint capacity) from a snapshot file, the embedded
sample dataset, or the reporting database.`,
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.seedPath, "seed", "", "YAML snapshot file (default is the embedded dataset)")
	flags.StringVar(&opts.databaseURL, "database-url", "", "read the snapshot from this PostgreSQL database instead of a seed file")
	flags.StringSliceVar(&opts.teams, "teams", nil, "comma-separated team ids to include (default all; empty selects none)")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	flags.DurationVar(&opts.timeout, "timeout", defaultLoadTimeout, "snapshot load timeout")

	registerQueryCommands(root, opts)
	registerExportCommand(root, opts)
	registerTokenCommand(root)

	return root
}

// Execute runs coordctl with the process arguments.
func Execute() error {
	return NewRootCommand().Execute()
}

func (o *options) logger(cmd *cobra.Command) *slog.Logger {
	cfg := logging.DefaultConfig()
	cfg.Level = o.logLevel
	cfg.Format = "text"
	cfg.Output = cmd.ErrOrStderr()
	cfg.ServiceName = "coordctl"
	cfg.Environment = "cli"
	return logging.NewLogger(cfg)
}

// selection returns nil unless --teams was given, so that an explicit empty
// value selects no teams.
func (o *options) selection(cmd *cobra.Command) domain.TeamSelection {
	flag := cmd.Flag("teams")
	if flag == nil || !flag.Changed {
		return nil
	}

	sel := domain.NewTeamSelection()
	for _, id := range o.teams {
		if id = strings.TrimSpace(id); id != "" {
			sel[domain.TeamID(id)] = struct{}{}
		}
	}
	return sel
}

// loadData reads raw snapshot data from the configured source.
func (o *options) loadData(ctx context.Context, logger *slog.Logger) (*domain.SnapshotData, error) {
	source, closeFn, err := o.source(ctx)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	logger.Debug("loading snapshot", "source", source.Name())
	return source.Load(ctx)
}

// loadService builds a coordination service over a validated snapshot.
// Dismissals live only for the duration of the command.
func (o *options) loadService(ctx context.Context, logger *slog.Logger) (ports.CoordinationService, error) {
	source, closeFn, err := o.source(ctx)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	snapshot, err := services.LoadSnapshot(ctx, source)
	if err != nil {
		return nil, err
	}
	logger.Debug("snapshot loaded", "source", source.Name())

	return services.NewCoordinationService(snapshot, memory.NewDismissalStore(), nil), nil
}

func (o *options) source(ctx context.Context) (ports.SnapshotSource, func(), error) {
	if o.databaseURL == "" {
		return seed.NewSource(o.seedPath), func() {}, nil
	}

	pool, err := postgres.NewPool(ctx, config.DatabaseConfig{
		URL:             o.databaseURL,
		MaxOpenConns:    2,
		ConnMaxLifetime: time.Minute,
		ConnMaxIdleTime: time.Minute,
	})
	if err != nil {
		return nil, nil, err
	}
	return postgres.NewSnapshotRepository(pool), pool.Close, nil
}

func (o *options) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), o.timeout)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
