package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/billyprice1/natprobe/internal/scenarios"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list every registered scenario name",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range scenarios.Names() {
				fmt.Println(name)
			}
			return nil
		},
	}
}
