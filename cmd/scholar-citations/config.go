package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long: `Config prints the configuration the pipeline would run with: defaults
overlaid with the config file, environment, and secrets. The output is
valid as a starting point for a scholar-citations.yaml config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := yaml.Marshal(pipelineConfig())
		if err != nil {
			return fmt.Errorf("marshaling config: %w", err)
		}
		fmt.Print(string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
