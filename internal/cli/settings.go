package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"quiz-arena/internal/app"
)

// NewSettingsCmd reads and changes player settings.
func NewSettingsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Player settings",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "volume [0..1]",
		Short: "Show or set the master volume",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := opts.setup(cmd, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer d.close()
			prefs, err := d.openPrefs(cmd.Context(), opts.profileID(d))
			if err != nil {
				return err
			}
			settings := app.NewSettings(prefs, d.log)
			if len(args) == 1 {
				v, err := strconv.ParseFloat(args[0], 64)
				if err != nil {
					return fmt.Errorf("invalid volume %q: %w", args[0], err)
				}
				settings.SetVolume(v)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "volume %.2f\n", settings.Volume())
			return nil
		},
	})
	return cmd
}
