package cli

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
)

const (
	defaultConfigPath = "config/config.yaml"
	defaultTTL        = 10 * time.Minute
)

type options struct {
	configPath string
	port       string
	profile    string
}

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = defaultConfigPath
	}
	opts := &options{}

	cmd := &cobra.Command{
		Use:          "quiz-arena",
		Short:        "Multiple-choice quiz game with Classic, Time Attack and Boss Rush modes",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", envConfig, "path to YAML config")
	cmd.PersistentFlags().StringVar(&opts.profile, "profile", "", "player profile (defaults to store.profile)")
	cmd.AddCommand(NewStartCmd(opts))
	cmd.AddCommand(NewPlayCmd(opts))
	cmd.AddCommand(NewHistoryCmd(opts))
	cmd.AddCommand(NewSettingsCmd(opts))
	cmd.AddCommand(NewQuestionsCmd(opts))
	cmd.AddCommand(NewMigrateCmd(opts))
	return cmd
}

// setup loads config, installs the logger and connects the backends.
func (o *options) setup(cmd *cobra.Command, logTo io.Writer) (*deps, error) {
	cfg, err := loadConfig(o.configPath)
	if err != nil {
		return nil, err
	}
	log := newLogger(cfg, logTo)
	slog.SetDefault(log)
	return openDeps(cmd.Context(), cfg, log)
}

func (o *options) profileID(d *deps) string {
	if o.profile != "" {
		return o.profile
	}
	return d.cfg.Store.Profile
}
