package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newConfigCmd groups config-inspection subcommands, mirroring the
// teacher's pattern of a parent command whose only job is grouping
// (cmd/agent/scan/root.go's NewScanCmd).
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "inspect the resolved configuration",
	}
	cmd.AddCommand(newConfigShowCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "print the fully resolved configuration (file + env + defaults) as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			out, err := cfg.DumpYAML()
			if err != nil {
				return fmt.Errorf("render config as yaml: %w", err)
			}
			fmt.Print(string(out))
			return nil
		},
	}
}
