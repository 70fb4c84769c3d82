package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// EngineConfig carries the default knobs of the reporting and detection
// operations. A caller-supplied argument always wins over these.
type EngineConfig struct {
	TopLimit       int           `yaml:"top_limit"`
	TimelinePeriod int           `yaml:"timeline_period"`
	SynScan        SynScanConfig `yaml:"syn_scan"`
	Exfil          ExfilConfig   `yaml:"exfil"`
	DNSRare        DNSRareConfig `yaml:"dns_rare"`
}

type SynScanConfig struct {
	Window    int `yaml:"window"`
	Threshold int `yaml:"threshold"`
}

type ExfilConfig struct {
	Window      int   `yaml:"window"`
	ThresholdMB int64 `yaml:"threshold_mb"`
}

type DNSRareConfig struct {
	MinCount int `yaml:"min_count"`
}

// APIConfig holds the settings for the HTTP API server.
type APIConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// AlertsConfig enables dispatching detection findings to notifiers.
type AlertsConfig struct {
	Enabled bool       `yaml:"enabled"`
	SMTP    SMTPConfig `yaml:"smtp"`
	NATS    NATSConfig `yaml:"nats"`
}

// SMTPConfig holds the settings for the email notifier. An empty Host
// disables it.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
	To       string `yaml:"to"`
}

// NATSConfig holds the settings for the NATS notifier. An empty URL
// disables it.
type NATSConfig struct {
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// ClickHouseConfig holds the settings for the optional export sink.
type ClickHouseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type ExportConfig struct {
	ClickHouse ClickHouseConfig `yaml:"clickhouse"`
}

// AIConfig holds the settings for the findings analyzer.
type AIConfig struct {
	Enabled bool   `yaml:"enabled"`
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// Config is the top-level configuration struct for the entire application.
type Config struct {
	Engine EngineConfig `yaml:"engine"`
	API    APIConfig    `yaml:"api"`
	Alerts AlertsConfig `yaml:"alerts"`
	Export ExportConfig `yaml:"export"`
	AI     AIConfig     `yaml:"ai"`
}

// Default returns the built-in configuration the shell runs with when no
// config file is present.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			TopLimit:       5,
			TimelinePeriod: 60,
			SynScan:        SynScanConfig{Window: 120, Threshold: 150},
			Exfil:          ExfilConfig{Window: 600, ThresholdMB: 50},
			DNSRare:        DNSRareConfig{MinCount: 2},
		},
		API: APIConfig{ListenAddr: ":8080"},
		AI:  AIConfig{Model: "gpt-4o-mini"},
	}
}

// LoadConfig reads the configuration from a YAML file. A missing file is not
// an error: the defaults apply, so the shell runs standalone. Fields absent
// from the file keep their default values.
func LoadConfig(filePath string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}
	return cfg, nil
}
