package config

import "time"

// Documented defaults.
const (
	DefaultContractsDir = "contracts"
	DefaultBuildDir     = "artifacts"
	DefaultABIsDir      = "artifacts/abis"
	DefaultExtension    = ".cairo"
	DefaultOutputExt    = ".json"
	DefaultCompiler     = "starknet-compile"
	DefaultIncludeFlag  = "--cairo_path"
	DefaultOutputFlag   = "--output"
	DefaultABIFlag      = "--abi"
	DefaultEventSubject = "nile.compile.completed"
	DefaultDebounce     = 500 * time.Millisecond
)

// Default returns a configuration populated with every default.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.ContractsDir == "" {
		cfg.ContractsDir = DefaultContractsDir
	}
	if cfg.BuildDir == "" {
		cfg.BuildDir = DefaultBuildDir
	}
	if cfg.ABIsDir == "" {
		cfg.ABIsDir = DefaultABIsDir
	}
	if cfg.Extension == "" {
		cfg.Extension = DefaultExtension
	}
	if cfg.OutputExt == "" {
		cfg.OutputExt = DefaultOutputExt
	}

	c := &cfg.Compiler
	if c.Command == "" {
		c.Command = DefaultCompiler
	}
	if c.IncludePath == "" {
		c.IncludePath = cfg.ContractsDir
	}
	if c.IncludeFlag == "" {
		c.IncludeFlag = DefaultIncludeFlag
	}
	if c.OutputFlag == "" {
		c.OutputFlag = DefaultOutputFlag
	}
	if c.ABIFlag == "" {
		c.ABIFlag = DefaultABIFlag
	}

	if cfg.Events.Subject == "" {
		cfg.Events.Subject = DefaultEventSubject
	}
	if cfg.Watch.Debounce <= 0 {
		cfg.Watch.Debounce = DefaultDebounce
	}
}
