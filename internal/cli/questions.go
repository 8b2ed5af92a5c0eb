package cli

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"quiz-arena/internal/infra/file"
	pgstore "quiz-arena/internal/infra/postgres"
	redisstore "quiz-arena/internal/infra/redis"
	"quiz-arena/internal/infra/schema"
)

// NewQuestionsCmd checks question banks and loads them into Postgres.
func NewQuestionsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "questions",
		Short: "Validate and import question banks",
	}
	cmd.AddCommand(newQuestionsValidateCmd(opts), newQuestionsImportCmd(opts), newQuestionsListCmd(opts))
	return cmd
}

func newQuestionsValidateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [path]",
		Short: "Check a question bank file or directory against the schema",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}
			path := cfg.Questions.Bank
			if len(args) == 1 {
				path = args[0]
			}
			validator, err := schema.New()
			if err != nil {
				return err
			}
			sets, err := file.ValidateQuestionBank(path, validator)
			if err != nil {
				return err
			}
			ids := make([]string, 0, len(sets))
			for id := range sets {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			for _, id := range ids {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d questions\n", id, len(sets[id].Questions))
			}
			return nil
		},
	}
}

func newQuestionsImportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import [path]",
		Short: "Validate a question bank and upsert its sets into Postgres",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, err := opts.setup(cmd, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer d.close()
			if d.pool == nil {
				return errors.New("postgres url not configured")
			}
			if _, err := pgstore.Migrate(ctx, d.cfg.Postgres.URL); err != nil {
				return err
			}

			path := d.cfg.Questions.Bank
			if len(args) == 1 {
				path = args[0]
			}
			validator, err := schema.New()
			if err != nil {
				return err
			}
			sets, err := file.ValidateQuestionBank(path, validator)
			if err != nil {
				return err
			}

			loader := pgstore.NewQuestionLoader(d.pool)
			var cache *redisstore.QuestionRepository
			if d.redis != nil {
				cache = redisstore.NewQuestionRepository(d.redis, loader, 0, d.log)
			}
			for id, set := range sets {
				if err := loader.SaveQuestionSet(ctx, set); err != nil {
					return err
				}
				if cache != nil {
					if err := cache.Invalidate(ctx, id); err != nil {
						d.log.Warn("invalidate cached question set failed", "set", id, "error", err)
					}
				}
			}
			d.log.Info("question bank imported", "path", path, "sets", len(sets))
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d question sets\n", len(sets))
			return nil
		},
	}
}

func newQuestionsListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the question sets available to the game",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := opts.setup(cmd, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer d.close()

			var ids []string
			if d.pool != nil {
				if ids, err = pgstore.NewQuestionLoader(d.pool).ListQuestionSetIDs(cmd.Context()); err != nil {
					return err
				}
			} else {
				sets, err := file.LoadQuestionBank(d.cfg.Questions.Bank, nil, d.log)
				if err != nil {
					return err
				}
				for id := range sets {
					ids = append(ids, id)
				}
				sort.Strings(ids)
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
}
