package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the s2o version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if humanOutput {
			outputHuman("s2o %s\n", Version)
			return
		}
		outputJSON(VersionResponse{Version: Version})
	},
}
