package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"quiz-arena/internal/app"
	"quiz-arena/internal/domain"
	"quiz-arena/internal/export"
)

// NewHistoryCmd groups the commands that read and clear game history.
func NewHistoryCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show, reset or export recent results",
	}
	cmd.AddCommand(newHistoryShowCmd(opts), newHistoryResetCmd(opts), newHistoryExportCmd(opts))
	return cmd
}

// openHistory opens the history kept in the profile's prefs.
func openHistory(cmd *cobra.Command, opts *options) (*app.HistoryStore, func(), error) {
	d, err := opts.setup(cmd, cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, err
	}
	prefs, err := d.openPrefs(cmd.Context(), opts.profileID(d))
	if err != nil {
		d.close()
		return nil, nil, err
	}
	return app.NewHistoryStore(prefs, d.cfg.Game.HistoryCapacity, d.log), d.close, nil
}

func newHistoryShowCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show [mode] [difficulty]",
		Short: "Print recent results, newest first",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			history, done, err := openHistory(cmd, opts)
			if err != nil {
				return err
			}
			defer done()

			keys := app.HistoryKeys
			if len(args) > 0 {
				key, err := historyKey(args)
				if err != nil {
					return err
				}
				keys = []string{key}
			}

			all := history.All()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "LIST\tTIMESTAMP\tDIFFICULTY\tSCORE\tCORRECT\tSTAGE")
			for _, key := range keys {
				for _, r := range all[key] {
					fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d/%d\t%d\n", key, r.Timestamp, r.Difficulty, r.Score, r.CorrectAnswers, r.TotalQuestions, r.Stage)
				}
			}
			return w.Flush()
		},
	}
}

func newHistoryResetCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "reset <mode> [difficulty]",
		Short: "Clear one history list",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := domain.ParseMode(args[0])
			if err != nil {
				return err
			}
			difficulty := ""
			if len(args) > 1 {
				difficulty = args[1]
			}
			history, done, err := openHistory(cmd, opts)
			if err != nil {
				return err
			}
			defer done()
			history.Reset(mode, difficulty)
			fmt.Fprintln(cmd.OutOrStdout(), "history cleared")
			return nil
		},
	}
}

func newHistoryExportCmd(opts *options) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every history list to an xlsx workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			history, done, err := openHistory(cmd, opts)
			if err != nil {
				return err
			}
			defer done()

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			if err := export.WriteHistory(f, app.HistoryKeys, history.All()); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "history written to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "xlsx", "o", "history.xlsx", "output workbook")
	return cmd
}

func historyKey(args []string) (string, error) {
	mode, err := domain.ParseMode(args[0])
	if err != nil {
		return "", err
	}
	difficulty := ""
	if len(args) > 1 {
		difficulty = args[1]
	}
	key, _ := app.HistoryKey(mode, difficulty)
	return key, nil
}
