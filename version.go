package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	foundation "github.com/km-arc/userform/framework/app"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of userform",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "userform version %s\n", strings.TrimSpace(foundation.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
