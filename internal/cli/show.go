package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"findata-api/internal/app"
)

var (
	showLimit    int
	showInactive bool
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Display recent meta series",
	RunE: func(cmd *cobra.Command, args []string) error {
		if showLimit <= 0 {
			return fmt.Errorf("--limit must be greater than zero")
		}

		opts := app.ShowOptions{
			Limit:           showLimit,
			IncludeInactive: showInactive,
		}

		return getApp().Show(cmd.Context(), opts)
	},
}

func init() {
	showCmd.Flags().IntVar(&showLimit, "limit", 20, "Number of series to display")
	showCmd.Flags().BoolVar(&showInactive, "include-inactive", false, "Include soft-deleted series")
}
