package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"quiz-arena/internal/tui"
)

// NewPlayCmd runs the game in the terminal. Logs go to a file next to the
// profile data so they do not garble the screen.
func NewPlayCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(cfg.Store.Dir, 0o755); err != nil {
				return fmt.Errorf("create store dir: %w", err)
			}
			logFile, err := os.OpenFile(filepath.Join(cfg.Store.Dir, "play.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			defer logFile.Close()

			d, err := opts.setup(cmd, logFile)
			if err != nil {
				return err
			}
			defer d.close()
			if err := d.loadQuestions(); err != nil {
				return err
			}

			game, err := d.game(cmd.Context(), opts.profileID(d))
			if err != nil {
				return err
			}
			return tui.Run(cmd.Context(), game)
		},
	}
}
