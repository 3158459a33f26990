package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lanes",
	Short: "Lanes - a collaborative terminal kanban board",
	Long: `Lanes is a collaborative kanban board for the terminal. Multiple
clients edit the same board concurrently, with drag-and-drop ordering and
changes broadcast in real time through a local event daemon.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBoard(cmd.Context())
	},
}

func Execute() error {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(daemonCmd)
	return rootCmd.Execute()
}
