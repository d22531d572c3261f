package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var showConfigCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runShowConfig,
}

var initConfigCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration file",
	RunE:  runInitConfig,
}

func init() {
	configCmd.AddCommand(showConfigCmd)
	configCmd.AddCommand(initConfigCmd)
}

func runShowConfig(cmd *cobra.Command, args []string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	fmt.Println(string(data))
	return nil
}

func runInitConfig(cmd *cobra.Command, args []string) error {
	defaultConfig := `# Cartograph Configuration

server:
  host: 0.0.0.0
  port: 8097
  read_timeout: 30s
  write_timeout: 30s
  shutdown_timeout: 10s
  debug: false

compute:
  url: http://localhost:8774
  token: ""
  timeout: 30s

identity:
  enabled: false
  url: http://localhost:5000
  token: ""
  timeout: 30s

model:
  refresh_interval: 0s
  refresh_only_stale: true
  build_timeout: 5m

logging:
  level: info
  format: json

security:
  rate_limit: 100
  allowed_origins:
    - "*"
`

	if err := os.WriteFile("config.yaml", []byte(defaultConfig), 0644); err != nil {
		return err
	}

	fmt.Println("Created config.yaml")
	return nil
}
