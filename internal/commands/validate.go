package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cartograph-io/cartograph/internal/validation"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validation operations",
}

var validateScopeCmd = &cobra.Command{
	Use:   "scope <file>",
	Short: "Validate an audit-scope document",
	Long: `Validate an audit-scope document (YAML or JSON) without building a
model. Prints the validation result and exits non-zero on failure.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidateScope,
}

func init() {
	validateCmd.AddCommand(validateScopeCmd)
}

func runValidateScope(cmd *cobra.Command, args []string) error {
	path := args[0]

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading scope file: %w", err)
	}

	jsonData, err := scopeDocumentJSON(path, data)
	if err != nil {
		return err
	}

	result, err := validation.New().ValidateScope(jsonData)
	if err != nil {
		return fmt.Errorf("validating scope file: %w", err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	if !result.Valid {
		return fmt.Errorf("scope document %s is invalid", path)
	}
	return nil
}
