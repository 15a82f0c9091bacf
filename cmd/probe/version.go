package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags "-X main.version=...";
// left at its default for `go build` without that flag, the same
// convention the teacher's cmd/agent/version.go follows.
var version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print the probe binary's version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("probe " + version)
			return nil
		},
	}
}
