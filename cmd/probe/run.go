package main

import (
	"fmt"
	"net"
	"strings"

	"github.com/spf13/cobra"

	"github.com/billyprice1/natprobe/internal/config"
	"github.com/billyprice1/natprobe/internal/logger"
	"github.com/billyprice1/natprobe/internal/rawtcp"
	"github.com/billyprice1/natprobe/internal/scenarios"
)

func newRunCmd() *cobra.Command {
	var (
		localIP    string
		localPort  int
		remoteIP   string
		remotePort int
		names      []string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "run one or more scenarios against a target",
		Long: `run drives the named scenario(s) (or every scenario.names entry in the
config file, or "all") against a cooperating echo peer and prints each
probe's verdict.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if _, err := logger.Init(cfg.Log); err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			if localIP != "" {
				cfg.Target.LocalIP = localIP
			}
			if localPort != 0 {
				cfg.Target.LocalPort = localPort
			}
			if remoteIP != "" {
				cfg.Target.RemoteIP = remoteIP
			}
			if remotePort != 0 {
				cfg.Target.RemotePort = remotePort
			}
			if len(names) > 0 {
				cfg.Scenario.Names = names
			}

			return runScenarios(cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&localIP, "local-ip", "", "local IPv4 address to bind the raw socket's source address to")
	flags.IntVar(&localPort, "local-port", 0, "local source port (default: target.local_port from config)")
	flags.StringVar(&remoteIP, "remote-ip", "", "peer IPv4 address")
	flags.IntVar(&remotePort, "remote-port", 0, "peer TCP port")
	flags.StringSliceVar(&names, "scenario", nil, `scenario name(s) to run, or "all" (default: scenario.names from config)`)

	return cmd
}

// runScenarios resolves cfg's scenario selection against the registry and
// runs each one in turn, logging a one-line verdict per probe. It returns
// an error if any probe fails to reach test_complete, so the process exit
// code reflects the aggregate outcome the way a CI gate expects.
func runScenarios(cfg *config.Config) error {
	srcIP, dstIP, err := resolveEndpoints(cfg.Target)
	if err != nil {
		return err
	}

	selected, err := resolveScenarioNames(cfg.Scenario.Names)
	if err != nil {
		return err
	}

	failed := 0
	for _, name := range selected {
		var verdict rawtcp.Verdict
		if name == "custom" {
			verdict = scenarios.RunCustom(srcIP, uint16(cfg.Target.LocalPort), dstIP, uint16(cfg.Target.RemotePort), []byte(cfg.Scenario.PayloadASCII))
		} else {
			fn, ok := scenarios.Lookup(name)
			if !ok {
				logger.WithField("scenario", name).Error("unknown scenario")
				failed++
				continue
			}
			verdict = fn(srcIP, uint16(cfg.Target.LocalPort), dstIP, uint16(cfg.Target.RemotePort))
		}
		entry := logger.WithFields(map[string]interface{}{
			"scenario": name,
			"verdict":  string(verdict),
		})
		if verdict == rawtcp.TestComplete || verdict == rawtcp.Success {
			entry.Info("probe finished")
		} else {
			entry.Warn("probe finished")
			failed++
		}
		fmt.Printf("%-24s %s\n", name, verdict)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d scenario(s) did not reach test_complete", failed, len(selected))
	}
	return nil
}

func resolveScenarioNames(configured []string) ([]string, error) {
	if len(configured) == 1 && strings.EqualFold(configured[0], "all") {
		return scenarios.Names(), nil
	}
	if len(configured) == 0 {
		return nil, fmt.Errorf("no scenarios selected")
	}
	return configured, nil
}

func resolveEndpoints(t *config.TargetConfig) (srcIP, dstIP net.IP, err error) {
	dstIP = net.ParseIP(t.RemoteIP)
	if dstIP == nil || dstIP.To4() == nil {
		return nil, nil, fmt.Errorf("target.remote_ip %q is not a valid IPv4 address", t.RemoteIP)
	}
	if t.LocalIP == "" {
		srcIP, err = outboundIP(dstIP)
		if err != nil {
			return nil, nil, fmt.Errorf("determine local IPv4 address: %w", err)
		}
		return srcIP, dstIP, nil
	}
	srcIP = net.ParseIP(t.LocalIP)
	if srcIP == nil || srcIP.To4() == nil {
		return nil, nil, fmt.Errorf("target.local_ip %q is not a valid IPv4 address", t.LocalIP)
	}
	return srcIP, dstIP, nil
}

// outboundIP asks the kernel which local address a UDP socket would use
// to reach dst, without sending any traffic — the conventional
// zero-packet trick for discovering the default route's source address.
func outboundIP(dst net.IP) (net.IP, error) {
	conn, err := net.Dial("udp4", net.JoinHostPort(dst.String(), "80"))
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP, nil
}
