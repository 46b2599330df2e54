package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "Version: %s\nCommit: %s\n", version, commit)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
