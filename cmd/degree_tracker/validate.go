package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/degree-tracker/internal/schemas"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a JSON file against a schema",
	Long: `Validate an exported report, analysis snapshot or program file.

--schema takes a built-in schema name (` + strings.Join(schemas.EmbeddedNames(), ", ") + `)
or the path of a JSON Schema file.`,
	RunE: runValidate,
}

var (
	validateSchema string
	validateJSON   string
)

func init() {
	validateCmd.Flags().StringVarP(&validateSchema, "schema", "s", "", "Built-in schema name or schema file path (required)")
	validateCmd.Flags().StringVarP(&validateJSON, "json", "j", "", "JSON file to validate (required)")
	_ = validateCmd.MarkFlagRequired("schema")
	_ = validateCmd.MarkFlagRequired("json")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	var err error
	if name, ok := schemas.Lookup(validateSchema); ok {
		err = schemas.ValidateFile(name, validateJSON)
	} else {
		err = schemas.ValidateJSON(validateSchema, validateJSON)
	}

	out := cmd.OutOrStdout()
	var verr *schemas.ValidationError
	switch {
	case err == nil:
		fmt.Fprintf(out, "Validation passed: %s\n", validateJSON)
		return nil
	case errors.As(err, &verr):
		fmt.Fprintf(out, "Validation failed: %s\n", validateJSON)
		for _, fe := range verr.Errors {
			fmt.Fprintf(out, "  %s: %s\n", fe.Field, fe.Message)
		}
		return fmt.Errorf("%s does not match %s", validateJSON, validateSchema)
	default:
		return err
	}
}
