// Package config loads the nile project configuration (nile.yaml).
//
// Every field has a documented default so a project without a configuration
// file compiles contracts/*.cairo into artifacts/ exactly like the classic
// layout. Values may reference environment variables (${VAR}); .env files in
// the working directory are loaded first without overriding the process env.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file looked up when --config is not given.
const DefaultPath = "nile.yaml"

// Config represents the project configuration.
type Config struct {
	// ContractsDir is the source root scanned when no contracts are requested.
	ContractsDir string `yaml:"contracts_dir"`
	// BuildDir receives the primary compiled output of every contract.
	BuildDir string `yaml:"build_dir"`
	// ABIsDir receives the interface (ABI) output of every contract.
	ABIsDir string `yaml:"abis_dir"`
	// Extension selects contract files during discovery.
	Extension string `yaml:"extension"`
	// OutputExt replaces the contract extension in both output file names.
	OutputExt string `yaml:"output_ext"`

	Compiler CompilerConfig `yaml:"compiler"`
	Hooks    []HookSpec     `yaml:"hooks,omitempty"`
	Metrics  MetricsConfig  `yaml:"metrics,omitempty"`
	Events   EventsConfig   `yaml:"events,omitempty"`
	Watch    WatchConfig    `yaml:"watch,omitempty"`
}

// CompilerConfig describes how the external compiler is invoked.
type CompilerConfig struct {
	Command     string `yaml:"command"`
	IncludePath string `yaml:"include_path,omitempty"` // defaults to contracts_dir
	IncludeFlag string `yaml:"include_flag"`
	OutputFlag  string `yaml:"output_flag"`
	ABIFlag     string `yaml:"abi_flag"`
	// Args holds extra arguments as a single shell-quoted string.
	Args string `yaml:"args,omitempty"`
}

// HookSpec declares one hook in the manifest. Exactly one of Use (a compiled-in
// hook) or Command (an external command) must be set.
type HookSpec struct {
	Point   string            `yaml:"point"`
	Use     string            `yaml:"use,omitempty"`
	Command string            `yaml:"command,omitempty"`
	Name    string            `yaml:"name,omitempty"`
	Options map[string]string `yaml:"options,omitempty"`
}

// DisplayName returns the name used in logs and errors.
func (h HookSpec) DisplayName() string {
	switch {
	case h.Name != "":
		return h.Name
	case h.Use != "":
		return h.Use
	default:
		return h.Command
	}
}

// MetricsConfig enables the Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// EventsConfig enables run-completed notifications over NATS.
type EventsConfig struct {
	NATSURL string `yaml:"nats_url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// Enabled reports whether events should be published.
func (e EventsConfig) Enabled() bool { return e.NATSURL != "" }

// WatchConfig tunes `nile compile --watch`.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce,omitempty"`
}

// Load loads configuration from the specified file. A missing file yields the
// defaults; any other read, parse or validation problem is returned.
func Load(configPath string) (*Config, error) {
	loadEnvFile()

	cfg := &Config{}
	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
		// Projects without nile.yaml use the classic layout.
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		// Expand environment variables in the YAML content
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Init creates a new configuration file with example content
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	example := Default()
	example.Hooks = []HookSpec{
		{Point: "before-compile", Use: "log"},
		{Point: "before-compile", Use: "backup", Options: map[string]string{"suffix": ".bak"}},
	}

	data, err := yaml.Marshal(example)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
