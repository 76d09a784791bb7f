package commands

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/nile/internal/config"
	nerrors "git.home.luguber.info/inful/nile/internal/errors"
	"git.home.luguber.info/inful/nile/internal/plugin"
	"git.home.luguber.info/inful/nile/internal/toolrun"
)

func TestParseLogLevel(t *testing.T) {
	t.Setenv("NILE_LOG_LEVEL", "")
	assert.Equal(t, slog.LevelInfo, parseLogLevel(false))
	assert.Equal(t, slog.LevelDebug, parseLogLevel(true))

	t.Setenv("NILE_LOG_LEVEL", "DEBUG")
	assert.Equal(t, slog.LevelDebug, parseLogLevel(false))

	t.Setenv("NILE_LOG_LEVEL", "warn")
	assert.Equal(t, slog.LevelWarn, parseLogLevel(false))

	t.Setenv("NILE_LOG_LEVEL", "chatty")
	assert.Equal(t, slog.LevelInfo, parseLogLevel(false))
}

func TestCLIParsesCompile(t *testing.T) {
	cli := &CLI{}
	parser, err := kong.New(cli, kong.Name("nile"), kong.Vars{"version": "test"})
	require.NoError(t, err)

	kctx, err := parser.Parse([]string{"compile", "contracts/a.cairo", "contracts/b.cairo", "--watch", "-c", "custom.yaml"})
	require.NoError(t, err)

	assert.Equal(t, "compile <contracts>", kctx.Command())
	assert.Equal(t, []string{"contracts/a.cairo", "contracts/b.cairo"}, cli.Compile.Contracts)
	assert.True(t, cli.Compile.Watch)
	assert.Equal(t, "custom.yaml", cli.Config)
}

func TestCLIDefaults(t *testing.T) {
	cli := &CLI{}
	parser, err := kong.New(cli, kong.Name("nile"), kong.Vars{"version": "test"})
	require.NoError(t, err)

	kctx, err := parser.Parse([]string{"compile"})
	require.NoError(t, err)
	assert.Equal(t, "compile", kctx.Command())
	assert.Empty(t, cli.Compile.Contracts)
	assert.Equal(t, config.DefaultPath, cli.Config)
}

func TestRunInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nile.yaml")
	var out bytes.Buffer

	require.NoError(t, RunInit(&out, path, false))
	assert.Contains(t, out.String(), "Initialized nile project")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Hooks, 2)

	err = RunInit(&out, path, false)
	require.Error(t, err)
	assert.True(t, nerrors.IsCategory(err, nerrors.CategoryConfig))

	require.NoError(t, RunInit(&out, path, true))
}

func TestListHooks(t *testing.T) {
	cfg := config.Default()
	cfg.Hooks = []config.HookSpec{
		{Point: plugin.PointBeforeCompile, Use: "log"},
		{Point: plugin.PointBeforeCompile, Command: "cairo-format --check", Name: "format"},
	}

	var out bytes.Buffer
	require.NoError(t, ListHooks(&out, cfg))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "before-compile:", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "  1. log (builtin)"))
	assert.True(t, strings.HasPrefix(lines[2], "  2. format (command) - runs cairo-format --check"))
	assert.Equal(t, "Available: backup, command, gitguard, log", lines[3])
}

func TestListHooksNone(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, ListHooks(&out, config.Default()))
	assert.Contains(t, out.String(), "No hooks enabled")
}

func TestListHooksUnresolved(t *testing.T) {
	cfg := config.Default()
	cfg.Hooks = []config.HookSpec{{Point: plugin.PointBeforeCompile, Use: "notarize"}}

	err := ListHooks(&bytes.Buffer{}, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, plugin.ErrUnresolvedHook)
}

func sessionConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default()
	cfg.ContractsDir = filepath.Join(root, "contracts")
	cfg.BuildDir = filepath.Join(root, "artifacts")
	cfg.ABIsDir = filepath.Join(root, "artifacts", "abis")
	cfg.Metrics.Textfile = filepath.Join(root, "nile.prom")
	return cfg
}

func TestCompileSessionRun(t *testing.T) {
	cfg := sessionConfig(t)
	runner := toolrun.RunnerFunc(func(_ context.Context, cmd toolrun.Command) (toolrun.Result, error) {
		if cmd.Args[0] == "bad.cairo" {
			return toolrun.Result{ExitCode: 1}, nil
		}
		return toolrun.Result{}, nil
	})

	s, err := newCompileSession(cfg, runner, slog.Default())
	require.NoError(t, err)
	defer s.Close()
	s.driver.WithOutput(&bytes.Buffer{})

	report, err := s.Run(context.Background(), []string{"good.cairo", "bad.cairo"})
	require.NoError(t, err)
	assert.Equal(t, []string{"bad.cairo"}, report.Failed)

	data, err := os.ReadFile(cfg.Metrics.Textfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `nile_compile_contract_results_total{result="failed"} 1`)
	assert.Contains(t, string(data), `nile_compile_contract_results_total{result="success"} 1`)
}

func TestCompileSessionRejectsUnresolvedHooks(t *testing.T) {
	cfg := sessionConfig(t)
	cfg.Hooks = []config.HookSpec{{Point: "after-compile", Use: "log"}}

	_, err := newCompileSession(cfg, toolrun.NewExecRunner(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, plugin.ErrUnresolvedHook)
	assert.True(t, nerrors.IsCategory(err, nerrors.CategoryHook))
}

func TestCompileSessionHookFailureExportsAbortedRun(t *testing.T) {
	cfg := sessionConfig(t)
	cfg.Hooks = []config.HookSpec{{Point: plugin.PointBeforeCompile, Use: "backup"}}

	s, err := newCompileSession(cfg, toolrun.NewExecRunner(), nil)
	require.NoError(t, err)
	defer s.Close()
	s.driver.WithOutput(&bytes.Buffer{})

	report, err := s.Run(context.Background(), []string{filepath.Join(t.TempDir(), "missing.cairo")})
	require.Error(t, err)
	assert.Nil(t, report)

	data, err := os.ReadFile(cfg.Metrics.Textfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `nile_compile_run_outcomes_total{outcome="aborted"} 1`)
	assert.Contains(t, string(data), `nile_hook_failures_total{hook="backup"} 1`)
}
