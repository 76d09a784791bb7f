package compile

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/nile/internal/config"
	"git.home.luguber.info/inful/nile/internal/discovery"
	nerrors "git.home.luguber.info/inful/nile/internal/errors"
	"git.home.luguber.info/inful/nile/internal/plugin"
	"git.home.luguber.info/inful/nile/internal/toolrun"
)

// trace records hook invocations and compiler runs in the order they happen.
type trace struct {
	events []string
}

// stubCompiler returns the configured exit code per contract (default 0).
func (tr *trace) stubCompiler(exitCodes map[string]int) toolrun.Runner {
	return toolrun.RunnerFunc(func(_ context.Context, cmd toolrun.Command) (toolrun.Result, error) {
		artifact := cmd.Args[0]
		tr.events = append(tr.events, "compile:"+artifact)
		return toolrun.Result{ExitCode: exitCodes[artifact]}, nil
	})
}

func (tr *trace) hook(name string) plugin.Hook {
	return plugin.NewHook(name, "records invocations", func(_ context.Context, artifact string) error {
		tr.events = append(tr.events, name+":"+artifact)
		return nil
	})
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default()
	cfg.ContractsDir = filepath.Join(root, "contracts")
	cfg.Compiler.IncludePath = cfg.ContractsDir
	cfg.BuildDir = filepath.Join(root, "artifacts")
	cfg.ABIsDir = filepath.Join(root, "artifacts", "abis")
	return cfg
}

func newTestDriver(cfg *config.Config, reg *plugin.Registry, runner toolrun.Runner, scanner discovery.Scanner) (*Driver, *bytes.Buffer) {
	var out bytes.Buffer
	return NewDriver(cfg, reg, runner, scanner).WithOutput(&out), &out
}

func TestRun_AllSucceedWithoutHooks(t *testing.T) {
	lists := map[string][]string{
		"empty":    nil,
		"single":   {"contracts/a.cairo"},
		"multiple": {"contracts/a.cairo", "contracts/b.cairo", "contracts/c.cairo"},
	}

	for name, list := range lists {
		t.Run(name, func(t *testing.T) {
			tr := &trace{}
			d, out := newTestDriver(testConfig(t), nil, tr.stubCompiler(nil), discovery.StaticScanner{})

			report, err := d.Run(context.Background(), list)
			require.NoError(t, err)

			assert.Zero(t, report.Failures())
			assert.True(t, report.Succeeded())
			assert.Len(t, report.Results, len(list))
			assert.Contains(t, out.String(), "✅ Done")
			assert.NotContains(t, out.String(), "Failed to compile")
		})
	}
}

func TestRun_FailuresEqualFailingSubset(t *testing.T) {
	tr := &trace{}
	list := []string{"a.cairo", "b.cairo", "c.cairo", "d.cairo"}
	runner := tr.stubCompiler(map[string]int{"b.cairo": 1, "d.cairo": 2})
	d, out := newTestDriver(testConfig(t), nil, runner, nil)

	report, err := d.Run(context.Background(), list)
	require.NoError(t, err)

	assert.Equal(t, []string{"b.cairo", "d.cairo"}, report.Failed)
	assert.Equal(t, []string{"compile:a.cairo", "compile:b.cairo", "compile:c.cairo", "compile:d.cairo"}, tr.events,
		"a failing contract must not stop the batch")
	assert.Contains(t, out.String(), "🛑 Failed to compile the following 2 contracts:\n   b.cairo\n   d.cairo\n")
}

func TestRun_HooksRunOncePerArtifactBeforeCompiler(t *testing.T) {
	tr := &trace{}
	reg := plugin.NewRegistry()
	require.NoError(t, reg.Register(plugin.PointBeforeCompile, tr.hook("log")))
	require.NoError(t, reg.Register(plugin.PointBeforeCompile, tr.hook("backup")))
	d, _ := newTestDriver(testConfig(t), reg, tr.stubCompiler(nil), nil)

	_, err := d.Run(context.Background(), []string{"a.cairo", "b.cairo"})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"log:a.cairo", "backup:a.cairo", "compile:a.cairo",
		"log:b.cairo", "backup:b.cairo", "compile:b.cairo",
	}, tr.events)
}

func TestRun_HookErrorAbortsRun(t *testing.T) {
	tr := &trace{}
	boom := errors.New("backup volume full")
	reg := plugin.NewRegistry()
	require.NoError(t, reg.Register(plugin.PointBeforeCompile, plugin.NewHook("backup", "", func(_ context.Context, artifact string) error {
		tr.events = append(tr.events, "backup:"+artifact)
		if artifact == "b.cairo" {
			return boom
		}
		return nil
	})))
	d, out := newTestDriver(testConfig(t), reg, tr.stubCompiler(nil), nil)

	report, err := d.Run(context.Background(), []string{"a.cairo", "b.cairo", "c.cairo"})

	require.Error(t, err)
	assert.Nil(t, report, "no report when a hook fails")
	assert.ErrorIs(t, err, boom)
	assert.True(t, nerrors.IsCategory(err, nerrors.CategoryHook))
	assert.Equal(t, []string{"backup:a.cairo", "compile:a.cairo", "backup:b.cairo"}, tr.events)
	assert.NotContains(t, out.String(), "Done")
}

func TestRun_CompilerNotStartableIsFatal(t *testing.T) {
	runner := toolrun.RunnerFunc(func(context.Context, toolrun.Command) (toolrun.Result, error) {
		return toolrun.Result{ExitCode: -1}, toolrun.ErrNotStarted
	})
	d, _ := newTestDriver(testConfig(t), nil, runner, nil)

	report, err := d.Run(context.Background(), []string{"a.cairo"})
	require.ErrorIs(t, err, toolrun.ErrNotStarted)
	assert.Nil(t, report)
	assert.True(t, nerrors.IsCategory(err, nerrors.CategoryCompiler))
}

func TestRun_DiscoversWhenNothingRequested(t *testing.T) {
	cfg := testConfig(t)
	for _, rel := range []string{"b.cairo", "a.cairo", "nested/c.cairo", "notes.txt"} {
		p := filepath.Join(cfg.ContractsDir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("func main() {}\n"), 0o644))
	}
	tr := &trace{}
	d, out := newTestDriver(cfg, nil, tr.stubCompiler(nil), nil)

	report, err := d.Run(context.Background(), nil)
	require.NoError(t, err)

	want := []string{
		filepath.Join(cfg.ContractsDir, "a.cairo"),
		filepath.Join(cfg.ContractsDir, "b.cairo"),
		filepath.Join(cfg.ContractsDir, "nested", "c.cairo"),
	}
	var got []string
	for _, r := range report.Results {
		got = append(got, r.Artifact)
	}
	assert.Equal(t, want, got)
	assert.Contains(t, out.String(), "🤖 Compiling all Cairo contracts in the "+cfg.ContractsDir+" directory")
}

func TestResolveArtifacts(t *testing.T) {
	scanner := discovery.StaticScanner{"x.cairo", "y.cairo", "x.cairo"}
	d, _ := newTestDriver(testConfig(t), nil, nil, scanner)

	got, err := d.ResolveArtifacts(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"x.cairo", "y.cairo"}, got, "duplicates dropped")

	requested := []string{"z.cairo", "z.cairo"}
	got, err = d.ResolveArtifacts(requested)
	require.NoError(t, err)
	assert.Equal(t, requested, got, "explicit list used verbatim")
	got[0] = "mutated"
	assert.Equal(t, "z.cairo", requested[0])
}

func TestEnsureOutputDirsIsIdempotent(t *testing.T) {
	cfg := testConfig(t)
	d, out := newTestDriver(cfg, nil, nil, nil)

	require.NoError(t, d.EnsureOutputDirs())
	assert.DirExists(t, cfg.BuildDir)
	assert.DirExists(t, cfg.ABIsDir)
	assert.Contains(t, out.String(), "📁 Creating "+cfg.ABIsDir)

	keep := filepath.Join(cfg.ABIsDir, "Account.json")
	require.NoError(t, os.WriteFile(keep, []byte(`{"abi":[]}`), 0o644))
	out.Reset()

	require.NoError(t, d.EnsureOutputDirs())
	assert.Empty(t, out.String(), "no creation message for existing directories")
	data, err := os.ReadFile(keep)
	require.NoError(t, err)
	assert.Equal(t, `{"abi":[]}`, string(data))
}

func TestEnsureOutputDirsFailure(t *testing.T) {
	cfg := testConfig(t)
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	cfg.BuildDir = filepath.Join(blocker, "artifacts")
	d, _ := newTestDriver(cfg, nil, nil, nil)

	err := d.EnsureOutputDirs()
	require.Error(t, err)
	assert.True(t, nerrors.IsCategory(err, nerrors.CategoryFileSystem))
}

func TestCompilerCommand(t *testing.T) {
	cfg := config.Default()
	cfg.Compiler.Args = "--disable_hint_validation"
	d := NewDriver(cfg, nil, nil, nil)

	cmd := d.CompilerCommand("contracts/token/ERC20.cairo")

	assert.Equal(t, "starknet-compile", cmd.Name)
	assert.Equal(t, []string{
		"contracts/token/ERC20.cairo",
		"--cairo_path=contracts",
		"--output", filepath.Join("artifacts", "ERC20.json"),
		"--abi", filepath.Join("artifacts", "abis", "ERC20.json"),
		"--disable_hint_validation",
	}, cmd.Args)
}

func TestRun_HooksSeeRunID(t *testing.T) {
	var seen string
	reg := plugin.NewRegistry()
	require.NoError(t, reg.Register(plugin.PointBeforeCompile, plugin.NewHook("probe", "", func(ctx context.Context, _ string) error {
		seen = plugin.RunIDFromContext(ctx)
		return nil
	})))
	d, _ := newTestDriver(testConfig(t), reg, (&trace{}).stubCompiler(nil), nil)

	report, err := d.Run(context.Background(), []string{"a.cairo"})
	require.NoError(t, err)

	_, perr := uuid.Parse(report.RunID)
	require.NoError(t, perr)
	assert.Equal(t, report.RunID, seen)
}
