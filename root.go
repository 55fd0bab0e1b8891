package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// errInvalid reports that validation failed; the details are already printed.
var errInvalid = errors.New("validation failed")

var rootCmd = &cobra.Command{
	Use:   "userform",
	Short: "userform serves and validates the user data form",
	Long: `userform renders the user data form over HTTP, validates every change
against a declarative schema and hands valid submissions on.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errInvalid) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
