package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the form schema",
	Long: `Builds the schema (the built-in user data form, or --schema) and prints
each field with its rules in evaluation order. Exits non-zero when the
declaration is invalid.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("schema")
		return runSchema(cmd.OutOrStdout(), file, time.Now())
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.Flags().String("schema", "", "YAML schema file (default: built-in user data form)")
}

func runSchema(w io.Writer, file string, now time.Time) error {
	schema, err := loadSchema(file, now)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, field := range schema.Fields() {
		fmt.Fprintln(tw, field)
		for _, rule := range schema.Rules(field) {
			fmt.Fprintf(tw, "  %s\t%s\n", rule, rule.Message())
		}
	}
	return tw.Flush()
}
