package commands

import (
	"scrape-etl/cmd/scrape-etl/globals"
	"scrape-etl/services/laliga"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(laligaCmd)
}

var laligaCmd = &cobra.Command{
	Use:   "laliga",
	Short: "Scrapes the LaLiga calendar and exports the home matches of the configured teams as CSV.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		g := globals.Get(cmd.Context())
		service := laliga.NewService(g.Fetcher, g.Progress)
		return service.Run(cmd.Context(), g.Config.Laliga)
	},
}
