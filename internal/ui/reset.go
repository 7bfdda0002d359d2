package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/akima/internal/slot"
)

func (a *App) resetCmd() *cobra.Command {
	var (
		yes   bool
		prefs bool
	)

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear every saved selection",
		Long: `Remove all saved hours from the database.

With --prefs the saved template and window are also reset to the
values from the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes && !promptYesNo("Clear all saved slots?") {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
			if err := a.ensureRepo(); err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			n, err := a.repo.ClearSlots(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d saved slots\n", n)

			if prefs {
				w := a.config.WindowValue()
				err := a.repo.SavePreferences(ctx, slot.Preferences{
					Template:  a.config.TemplateValue().String(),
					StartHour: w.StartHour,
					EndHour:   w.EndHour,
				})
				if err != nil {
					return fmt.Errorf("saving preferences: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Preferences reset to config defaults")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	cmd.Flags().BoolVar(&prefs, "prefs", false, "Also reset the saved template and window")

	return cmd
}
