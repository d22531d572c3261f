package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cartograph-io/cartograph/internal/api"
	"github.com/cartograph-io/cartograph/internal/validation"
	"github.com/cartograph-io/cartograph/models"
)

var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Cluster model operations",
}

var modelBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the cluster model once and print it",
	Long: `Build the cluster model against the configured inventory service
and print it as JSON. Without --scope the model covers the whole
cluster.`,
	RunE: runModelBuild,
}

var (
	scopeFile   string
	summaryOnly bool
)

func init() {
	modelBuildCmd.Flags().StringVar(&scopeFile, "scope", "", "audit-scope document (YAML or JSON)")
	modelBuildCmd.Flags().BoolVar(&summaryOnly, "summary", false, "print only the model summary")

	modelCmd.AddCommand(modelBuildCmd)
}

func runModelBuild(cmd *cobra.Command, args []string) error {
	var spec *models.ScopeSpec
	if scopeFile != "" {
		var err error
		spec, err = loadScopeSpec(scopeFile)
		if err != nil {
			return err
		}
	}

	builder := newBuilder(nil)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Model.BuildTimeout)
	defer cancel()

	m, err := builder.GetModel(ctx, spec)
	if err != nil {
		return fmt.Errorf("building cluster model: %w", err)
	}

	var out interface{} = api.NewModelResponse(m)
	if summaryOnly {
		out = api.NewModelSummary(m)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// loadScopeSpec reads a scope document from disk and validates it.
// YAML documents are converted to JSON first so both formats pass
// through the same strict validation.
func loadScopeSpec(path string) (*models.ScopeSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scope file: %w", err)
	}

	jsonData, err := scopeDocumentJSON(path, data)
	if err != nil {
		return nil, err
	}

	result, err := validation.New().ValidateScope(jsonData)
	if err != nil {
		return nil, fmt.Errorf("validating scope file: %w", err)
	}
	if !result.Valid {
		var b strings.Builder
		fmt.Fprintf(&b, "invalid scope document %s:", path)
		for _, verr := range result.Errors {
			fmt.Fprintf(&b, "\n  %s: %s", verr.Field, verr.Message)
		}
		return nil, fmt.Errorf("%s", b.String())
	}
	return result.Scope, nil
}

// scopeDocumentJSON normalizes a scope document to JSON.
func scopeDocumentJSON(path string, data []byte) ([]byte, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return data, nil
	}

	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing YAML scope file: %w", err)
	}
	jsonData, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("converting scope file to JSON: %w", err)
	}
	return jsonData, nil
}
