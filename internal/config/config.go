// Package config holds the probe's configuration: the target endpoint,
// which scenario(s) to run, and logging, laid out as sectioned structs
// bound via viper the way this module's other configuration lives.
package config

import "gopkg.in/yaml.v3"

// Config is the top-level configuration for one probe run.
type Config struct {
	App      *AppConfig      `yaml:"app" mapstructure:"app"`
	Target   *TargetConfig   `yaml:"target" mapstructure:"target"`
	Scenario *ScenarioConfig `yaml:"scenario" mapstructure:"scenario"`
	Log      *LogConfig      `yaml:"log" mapstructure:"log"`
}

// AppConfig carries identifying metadata for logs and version reporting.
type AppConfig struct {
	Name        string `yaml:"name" mapstructure:"name"`
	Version     string `yaml:"version" mapstructure:"version"`
	Environment string `yaml:"environment" mapstructure:"environment"`
	Debug       bool   `yaml:"debug" mapstructure:"debug"`
}

// TargetConfig names the cooperating peer this probe talks to: an IPv4
// address and TCP port bound by a raw socket on the local side too.
type TargetConfig struct {
	LocalIP    string `yaml:"local_ip" mapstructure:"local_ip"`
	LocalPort  int    `yaml:"local_port" mapstructure:"local_port"`
	RemoteIP   string `yaml:"remote_ip" mapstructure:"remote_ip"`
	RemotePort int    `yaml:"remote_port" mapstructure:"remote_port"`
}

// ScenarioConfig selects which scenario(s) to run. PayloadASCII only
// applies to the "custom" scenario, which echoes it through the classic
// one-shot probe (spec.md §4.8); the catalog's other scenarios carry
// their own fixed covert-channel payloads. The receive timeout itself is
// not configurable here: spec.md §6 fixes SO_RCVTIMEO at 10s as part of
// the wire-level socket contract, not a per-run tuning knob.
type ScenarioConfig struct {
	Names        []string `yaml:"names" mapstructure:"names"`
	PayloadASCII string   `yaml:"payload" mapstructure:"payload"`
}

// DumpYAML renders the fully resolved configuration (file + env +
// defaults, as merged by Loader.Load) back to YAML, for the `probe
// config show` command — useful for confirming what a run will
// actually target once viper's layered overrides are applied.
func (c *Config) DumpYAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// LogConfig controls the logrus instance internal/logger configures.
type LogConfig struct {
	Level      string `yaml:"level" mapstructure:"level"`
	Format     string `yaml:"format" mapstructure:"format"`
	Output     string `yaml:"output" mapstructure:"output"`
	FilePath   string `yaml:"file_path" mapstructure:"file_path"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"`
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"`
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Caller     bool   `yaml:"caller" mapstructure:"caller"`
}
