package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/billyprice1/natprobe/internal/config"
	"github.com/billyprice1/natprobe/internal/logger"
)

var (
	cfgFile  string
	logLevel string
)

// rootCmd is the base command, mirroring the shape of the teacher's
// cmd/agent root command: a thin cobra tree over the engine, contributing
// only the calling convention spec.md §6 describes — SPEC_FULL.md §A.
var rootCmd = &cobra.Command{
	Use:   "probe",
	Short: "probe opens raw-socket TCP flows to find out what a middlebox rewrites",
	Long: `probe drives a cooperating echo peer through a raw-socket TCP
handshake and a scenario-specific exchange, then reports which header
fields a NAT, firewall, or transparent proxy rewrote in transit.

Requires privileges sufficient to open an IPv4 raw TCP socket.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogging()
	},
}

// Execute runs the command tree; panics from the raw-socket engine are
// recovered here so a malformed scenario doesn't crash the whole process
// mid-probe.
func Execute() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "probe: fatal: %v\n", r)
			os.Exit(1)
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file or directory (default ./configs/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log.level from the config file")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd())
}

// loadConfig reads config via internal/config's viper-backed loader,
// then applies any CLI overrides that take precedence over the file.
func loadConfig() (*config.Config, error) {
	cfg, err := config.NewLoader(cfgFile).Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return cfg, nil
}

// initLogging builds a best-effort logger before the config is fully
// validated, so early flag-parsing errors still get formatted output.
// Commands that successfully load a Config re-init with its Log section.
func initLogging() error {
	lvl := logLevel
	if lvl == "" {
		lvl = "info"
	}
	_, err := logger.Init(&config.LogConfig{Level: lvl, Format: "text", Output: "stdout"})
	return err
}
