package commands

import (
	"scrape-etl/cmd/scrape-etl/globals"
	"scrape-etl/services/banks"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(banksCmd)
}

var banksCmd = &cobra.Command{
	Use:   "banks",
	Short: "Scrapes the largest banks by market cap, converts currencies, writes CSV and SQLite and runs check queries.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		g := globals.Get(cmd.Context())
		service := banks.NewService(g.Fetcher, g.Progress, cmd.OutOrStdout())
		return service.Run(cmd.Context(), g.Config.Banks)
	},
}
