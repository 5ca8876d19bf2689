package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lorrc/coordination-backend/internal/adapters/secondary/seed"
	"github.com/lorrc/coordination-backend/internal/auth"
	"github.com/lorrc/coordination-backend/internal/core/domain"
)

func registerExportCommand(root *cobra.Command, opts *options) {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the snapshot as a YAML seed file",
		Long: `Load the snapshot from the configured source, check it, and write it in
the seed format accepted by --seed. Combined with --database-url this
captures the reporting database for offline analysis.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			data, err := opts.loadData(ctx, opts.logger(cmd))
			if err != nil {
				return err
			}
			if _, err := domain.NewSnapshot(*data); err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}
			return seed.Encode(w, data)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default stdout)")
	root.AddCommand(cmd)
}

func registerTokenCommand(root *cobra.Command) {
	var (
		secret  string
		issuer  string
		subject string
		name    string
		session string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for local testing",
		Long: `Sign a session token accepted by the API server when AUTH_ENABLED is set.
The secret and issuer must match the server's JWT_SECRET and JWT_ISSUER.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				secret = os.Getenv("JWT_SECRET")
			}
			if secret == "" {
				return fmt.Errorf("a signing secret is required (--secret or JWT_SECRET)")
			}
			if issuer == "" {
				issuer = os.Getenv("JWT_ISSUER")
			}

			token, err := auth.NewTokenManager(secret, ttl, issuer).GenerateToken(subject, name, session)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "signing secret (default $JWT_SECRET)")
	cmd.Flags().StringVar(&issuer, "issuer", "", "token issuer (default $JWT_ISSUER)")
	cmd.Flags().StringVar(&subject, "subject", "local-user", "token subject")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&session, "session", "", "review session id (default is a new random id)")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	root.AddCommand(cmd)
}
