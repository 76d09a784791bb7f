package config

import (
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"

	nerrors "git.home.luguber.info/inful/nile/internal/errors"
)

// Validate checks a configuration after defaults were applied.
func Validate(cfg *Config) error {
	if cfg == nil {
		return nerrors.ConfigRequired("config")
	}
	required := map[string]string{
		"contracts_dir":    cfg.ContractsDir,
		"build_dir":        cfg.BuildDir,
		"abis_dir":         cfg.ABIsDir,
		"compiler.command": cfg.Compiler.Command,
	}
	for _, field := range []string{"contracts_dir", "build_dir", "abis_dir", "compiler.command"} {
		if strings.TrimSpace(required[field]) == "" {
			return nerrors.ConfigRequired(field)
		}
	}
	if !strings.HasPrefix(cfg.Extension, ".") {
		return nerrors.ValidationFailed("extension", "must start with a dot")
	}
	if _, err := shellquote.Split(cfg.Compiler.Args); err != nil {
		return nerrors.ValidationFailed("compiler.args", err.Error())
	}

	for i, h := range cfg.Hooks {
		field := fmt.Sprintf("hooks[%d]", i)
		if h.Point == "" {
			return nerrors.ValidationFailed(field+".point", "extension point is required")
		}
		if (h.Use == "") == (h.Command == "") {
			return nerrors.ValidationFailed(field, "exactly one of use or command must be set")
		}
	}
	return nil
}

// CompilerArgs returns the extra compiler arguments split shell-style.
func (c CompilerConfig) CompilerArgs() []string {
	args, err := shellquote.Split(c.Args)
	if err != nil {
		return nil
	}
	return args
}
