package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lorrc/coordination-backend/internal/adapters/primary/dto"
	"github.com/lorrc/coordination-backend/internal/core/domain"
)

// cliSession holds dismissals loaded from --dismissed for one invocation.
const cliSession = "coordctl"

func registerQueryCommands(root *cobra.Command, opts *options) {
	root.AddCommand(
		newTeamsCommand(opts),
		newAlignmentCommand(opts),
		newDuplicatesCommand(opts),
		newDependenciesCommand(opts),
		newCapacityCommand(opts),
	)
}

func newTeamsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "teams",
		Short: "List teams, features and sprints in the snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			svc, err := opts.loadService(ctx, opts.logger(cmd))
			if err != nil {
				return err
			}

			return printJSON(cmd, struct {
				Teams    []dto.TeamDTO    `json:"teams"`
				Features []dto.FeatureDTO `json:"features"`
				Sprints  []dto.SprintDTO  `json:"sprints"`
			}{
				Teams:    dto.FromTeams(svc.Teams(ctx)),
				Features: dto.FromFeatures(svc.Features(ctx)),
				Sprints:  dto.FromSprints(svc.Sprints(ctx)),
			})
		},
	}
}

func newAlignmentCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "alignment [feature-id]",
		Short: "Show feature coverage across the selected teams",
		Long: `Show which selected teams have work on each feature, with gap and
off-track counts. With a feature id, show that feature only.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			svc, err := opts.loadService(ctx, opts.logger(cmd))
			if err != nil {
				return err
			}

			sel := opts.selection(cmd)
			if len(args) == 1 {
				coverage, err := svc.FeatureCoverage(ctx, domain.FeatureID(args[0]), sel)
				if err != nil {
					return fmt.Errorf("feature %q: %w", args[0], err)
				}
				return printJSON(cmd, dto.FromCoverage(coverage))
			}
			return printJSON(cmd, dto.FromAlignment(svc.Alignment(ctx, sel)))
		},
	}
}

func newDuplicatesCommand(opts *options) *cobra.Command {
	var dismissedPath string

	cmd := &cobra.Command{
		Use:   "duplicates",
		Short: "Rank likely duplicate work between the selected teams",
		Long: `Rank duplicate candidates whose work items both belong to selected teams,
highest score first. --dismissed takes a file in the format served by
GET /api/v1/duplicates/dismissals and hides the candidates it lists.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			svc, err := opts.loadService(ctx, opts.logger(cmd))
			if err != nil {
				return err
			}

			session := ""
			if dismissedPath != "" {
				set, err := readDismissals(dismissedPath)
				if err != nil {
					return err
				}
				if _, err := svc.ImportDismissals(ctx, cliSession, set); err != nil {
					return err
				}
				session = cliSession
			}

			report, err := svc.Duplicates(ctx, session, opts.selection(cmd))
			if err != nil {
				return err
			}
			return printJSON(cmd, dto.FromDuplicates(report))
		},
	}

	cmd.Flags().StringVar(&dismissedPath, "dismissed", "", "JSON file listing dismissed candidate ids")
	return cmd
}

func newDependenciesCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "dependencies [dependency-id]",
		Short: "Show dependencies shared by the selected teams",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			svc, err := opts.loadService(ctx, opts.logger(cmd))
			if err != nil {
				return err
			}

			sel := opts.selection(cmd)
			if len(args) == 1 {
				node, err := svc.DependencyDetail(ctx, domain.DependencyID(args[0]), sel)
				if err != nil {
					return fmt.Errorf("dependency %q: %w", args[0], err)
				}
				return printJSON(cmd, dto.FromDependencyNode(node))
			}
			return printJSON(cmd, dto.FromDependencyGraph(svc.Dependencies(ctx, sel)))
		},
	}
}

func newCapacityCommand(opts *options) *cobra.Command {
	var sprint int

	cmd := &cobra.Command{
		Use:   "capacity [team-id]",
		Short: "Show sprint load for the selected teams",
		Long: `Classify each selected team's sprint load by points per developer and
flag inconsistent allocations. Without --sprint the active sprint is used.
With a team id, show that team's member breakdown.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			svc, err := opts.loadService(ctx, opts.logger(cmd))
			if err != nil {
				return err
			}

			sprintID := domain.SprintID(sprint)
			if sprint <= 0 {
				active, err := svc.ActiveSprint(ctx)
				if err != nil {
					return fmt.Errorf("no active sprint, pass --sprint: %w", err)
				}
				sprintID = active.ID
			}

			if len(args) == 1 {
				load, err := svc.TeamCapacity(ctx, sprintID, domain.TeamID(args[0]))
				if err != nil {
					return fmt.Errorf("team %q in sprint %d: %w", args[0], sprintID, err)
				}
				return printJSON(cmd, dto.FromTeamLoad(load))
			}

			report, err := svc.Capacity(ctx, sprintID, opts.selection(cmd))
			if err != nil {
				return fmt.Errorf("sprint %d: %w", sprintID, err)
			}
			return printJSON(cmd, dto.FromCapacity(report))
		},
	}

	cmd.Flags().IntVar(&sprint, "sprint", 0, "sprint id (default is the active sprint)")
	return cmd
}

func readDismissals(path string) (domain.DismissedSet, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dismissals: %w", err)
	}

	var doc dto.DismissalsDTO
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse dismissals %s: %w", path, err)
	}
	return doc.ToDismissed(), nil
}
