package cli

import (
	"errors"

	"github.com/spf13/cobra"

	pgstore "quiz-arena/internal/infra/postgres"
)

// NewMigrateCmd applies (or rolls back) database migrations.
func NewMigrateCmd(opts *options) *cobra.Command {
	var rollback bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}
			log := newLogger(cfg, cmd.ErrOrStderr())
			if cfg.Postgres.URL == "" {
				return errors.New("postgres url not configured")
			}

			if rollback {
				group, err := pgstore.Rollback(cmd.Context(), cfg.Postgres.URL)
				if err != nil {
					return err
				}
				log.Info("migrations rolled back", "group", group.String())
				return nil
			}
			group, err := pgstore.Migrate(cmd.Context(), cfg.Postgres.URL)
			if err != nil {
				return err
			}
			log.Info("migrations applied", "group", group.String())
			return nil
		},
	}
	cmd.Flags().BoolVar(&rollback, "rollback", false, "roll back the last migration group")
	return cmd
}
