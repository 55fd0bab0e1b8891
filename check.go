package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/km-arc/userform/app/forms"
	"github.com/km-arc/userform/framework/http/validation"
)

var checkCmd = &cobra.Command{
	Use:   "check [values-file]",
	Short: "Validate form values from a YAML or JSON file",
	Long: `Reads a flat mapping of field names to values (YAML or JSON) from the
given file, or from stdin when the file is omitted or "-", and validates it.
Exits with status 1 when any field fails.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := checkOptionsFrom(cmd)
		if err != nil {
			return err
		}

		in := cmd.InOrStdin()
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}
		return runCheck(cmd.OutOrStdout(), in, termenv.ColorProfile(), opts)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().String("schema", "", "YAML schema file (default: built-in user data form)")
	checkCmd.Flags().String("field", "", "validate a single field")
	checkCmd.Flags().String("now", "", "reference date for relative bounds, YYYY-MM-DD (default: today)")
}

type checkOptions struct {
	schemaFile string
	field      string
	now        time.Time
}

func checkOptionsFrom(cmd *cobra.Command) (checkOptions, error) {
	opts := checkOptions{now: time.Now()}
	opts.schemaFile, _ = cmd.Flags().GetString("schema")
	opts.field, _ = cmd.Flags().GetString("field")

	if s, _ := cmd.Flags().GetString("now"); s != "" {
		t, err := time.ParseInLocation(time.DateOnly, s, time.UTC)
		if err != nil {
			return checkOptions{}, fmt.Errorf("--now: %w", err)
		}
		opts.now = t
	}
	return opts, nil
}

// loadSchema builds the schema from file, or the built-in user data form
// when file is empty.
func loadSchema(file string, now time.Time) (*validation.Schema, error) {
	if file == "" {
		return forms.UserDataSchema(now)
	}
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return validation.LoadSchema(f, now)
}

// readValues decodes a flat mapping of field → value. Scalars keep their
// source text, so "+88612345678" stays a string.
func readValues(r io.Reader) (validation.Values, error) {
	var raw map[string]string
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && err != io.EOF {
		return nil, fmt.Errorf("read values: %w", err)
	}
	values := make(validation.Values, len(raw))
	for k, v := range raw {
		values[k] = v
	}
	return values, nil
}

func runCheck(w io.Writer, in io.Reader, p termenv.Profile, opts checkOptions) error {
	schema, err := loadSchema(opts.schemaFile, opts.now)
	if err != nil {
		return err
	}
	values, err := readValues(in)
	if err != nil {
		return err
	}

	pass := func(s string) string { return p.String(s).Foreground(p.Color("#22c55e")).String() }
	fail := func(s string) string { return p.String(s).Foreground(p.Color("#ef4444")).String() }

	if opts.field != "" {
		if !schema.Has(opts.field) {
			return fmt.Errorf("unknown field %q", opts.field)
		}
		msg, ok := validation.ValidateField(schema, values, opts.field)
		if ok {
			fmt.Fprintf(w, "%s %s\n", pass("✓"), opts.field)
			return nil
		}
		fmt.Fprintf(w, "%s %s: %s\n", fail("✗"), opts.field, msg)
		return errInvalid
	}

	res := validation.Validate(schema, values)
	for _, field := range schema.Fields() {
		if res.Has(field) {
			fmt.Fprintf(w, "%s %s: %s\n", fail("✗"), field, res.Error(field))
		} else {
			fmt.Fprintf(w, "%s %s\n", pass("✓"), field)
		}
	}

	if res.Valid() {
		fmt.Fprintln(w, pass("valid"))
		return nil
	}
	fmt.Fprintln(w, fail(fmt.Sprintf("%d of %d fields failed", res.Len(), len(schema.Fields()))))
	return errInvalid
}
