package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command for the collector CLI.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collector",
		Short: "League of Legends match history collector",
		Long: `Collects League of Legends match history from the Riot API.

Players are identified by Riot ID (game name + tag line). Fetched matches,
teams, participants and timelines are stored in a local SQLite database.`,
	}

	cmd.AddCommand(NewSyncCommand())

	return cmd
}
