package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envPrefix is the prefix bound to every viper environment override.
const envPrefix = "NATPROBE"

// Loader reads a YAML config file (plus environment overrides) into a
// Config.
type Loader struct {
	configPath string
	viper      *viper.Viper
}

// NewLoader builds a loader for configPath: an existing regular file is
// read as-is; otherwise configPath (falling back to ./configs and the
// working directory) is searched for a file named config.yaml.
func NewLoader(configPath string) *Loader {
	return &Loader{configPath: configPath, viper: viper.New()}
}

// Load reads and validates the configuration.
func (l *Loader) Load() (*Config, error) {
	_ = godotenv.Load()

	l.viper.SetConfigType("yaml")
	l.viper.SetEnvPrefix(envPrefix)
	l.viper.AutomaticEnv()
	l.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	l.setDefaults()

	if err := l.loadFile(); err != nil {
		return nil, fmt.Errorf("load config file: %w", err)
	}

	var cfg Config
	if err := l.viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func (l *Loader) loadFile() error {
	path := l.configPath
	if path == "" {
		if envPath := os.Getenv(envPrefix + "_CONFIG_PATH"); envPath != "" {
			path = envPath
		} else {
			path = "./configs"
		}
	}
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		l.viper.SetConfigFile(path)
	} else {
		l.viper.AddConfigPath(path)
		l.viper.AddConfigPath("./configs")
		l.viper.AddConfigPath(".")
		l.viper.SetConfigName("config")
	}

	if err := l.viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return err
	}
	return nil
}

func (l *Loader) setDefaults() {
	l.viper.SetDefault("app.name", "natprobe")
	l.viper.SetDefault("app.version", "0.1.0")
	l.viper.SetDefault("app.environment", "development")

	l.viper.SetDefault("target.local_port", 40000)
	l.viper.SetDefault("target.remote_port", 80)

	l.viper.SetDefault("scenario.names", []string{"ack_only"})

	l.viper.SetDefault("log.level", "info")
	l.viper.SetDefault("log.format", "text")
	l.viper.SetDefault("log.output", "stdout")
	l.viper.SetDefault("log.caller", false)
}

func validate(cfg *Config) error {
	if cfg.Target == nil || cfg.Target.RemoteIP == "" {
		return fmt.Errorf("target.remote_ip is required")
	}
	if cfg.Target.RemotePort <= 0 || cfg.Target.RemotePort > 65535 {
		return fmt.Errorf("invalid target.remote_port: %d", cfg.Target.RemotePort)
	}
	if cfg.Scenario == nil || len(cfg.Scenario.Names) == 0 {
		return fmt.Errorf("scenario.names must name at least one scenario")
	}
	return nil
}

// ConfigFileUsed reports the path viper actually loaded, empty if none.
func (l *Loader) ConfigFileUsed() string { return l.viper.ConfigFileUsed() }
