package compile

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/nile/internal/config"
	"git.home.luguber.info/inful/nile/internal/discovery"
	nerrors "git.home.luguber.info/inful/nile/internal/errors"
	"git.home.luguber.info/inful/nile/internal/logfields"
	"git.home.luguber.info/inful/nile/internal/metrics"
	"git.home.luguber.info/inful/nile/internal/plugin"
	"git.home.luguber.info/inful/nile/internal/toolrun"
)

// Driver orchestrates compile runs over a set of contracts.
type Driver struct {
	cfg      *config.Config
	registry *plugin.Registry
	runner   toolrun.Runner
	scanner  discovery.Scanner
	recorder metrics.Recorder
	logger   *slog.Logger
	out      io.Writer
}

// NewDriver creates a driver. A nil registry means no hooks; a nil scanner
// walks cfg.ContractsDir for files ending in cfg.Extension.
func NewDriver(cfg *config.Config, registry *plugin.Registry, runner toolrun.Runner, scanner discovery.Scanner) *Driver {
	if registry == nil {
		registry = plugin.NewRegistry()
	}
	if scanner == nil {
		scanner = discovery.NewDirScanner(cfg.ContractsDir, cfg.Extension)
	}
	return &Driver{
		cfg:      cfg,
		registry: registry,
		runner:   runner,
		scanner:  scanner,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
		out:      os.Stdout,
	}
}

// WithRecorder injects a metrics recorder.
func (d *Driver) WithRecorder(r metrics.Recorder) *Driver {
	if r != nil {
		d.recorder = r
	}
	return d
}

// WithLogger replaces the structured logger (default slog.Default()).
func (d *Driver) WithLogger(l *slog.Logger) *Driver {
	if l != nil {
		d.logger = l
	}
	return d
}

// WithOutput redirects the user-facing progress and report lines (default stdout).
func (d *Driver) WithOutput(w io.Writer) *Driver {
	if w != nil {
		d.out = w
	}
	return d
}

// Run compiles the requested contracts, or every discovered contract when
// requested is empty. It returns an error only when the run could not finish
// (setup failure, hook failure, compiler not startable); failing contracts are
// reported through the Report.
func (d *Driver) Run(ctx context.Context, requested []string) (*Report, error) {
	start := time.Now()
	runID := uuid.NewString()
	ctx = plugin.WithRunID(ctx, runID)
	log := d.logger.With(logfields.RunID(runID))

	report, err := d.run(ctx, log, requested)
	if err != nil {
		d.recorder.IncRunOutcome(metrics.OutcomeAborted)
		log.Debug("Compile run aborted", logfields.Error(err))
		return nil, err
	}

	report.RunID = runID
	report.StartedAt = start
	report.Duration = time.Since(start)

	d.recorder.ObserveRunDuration(report.Duration)
	if report.Succeeded() {
		d.recorder.IncRunOutcome(metrics.OutcomeSuccess)
	} else {
		d.recorder.IncRunOutcome(metrics.OutcomeFailed)
	}
	log.Info("Compile run finished",
		logfields.Artifacts(len(report.Results)),
		logfields.Failures(report.Failures()),
		logfields.DurationMS(float64(report.Duration.Microseconds())/1000))

	if err := report.Write(d.out); err != nil {
		log.Warn("Failed to write report", logfields.Error(err))
	}
	return report, nil
}

func (d *Driver) run(ctx context.Context, log *slog.Logger, requested []string) (*Report, error) {
	artifacts, err := d.ResolveArtifacts(requested)
	if err != nil {
		return nil, err
	}
	if err := d.EnsureOutputDirs(); err != nil {
		return nil, err
	}

	hooks := slices.Collect(d.registry.Hooks(plugin.PointBeforeCompile))
	log.Debug("Resolved hooks",
		logfields.ExtensionPoint(plugin.PointBeforeCompile),
		slog.Int("count", len(hooks)),
		logfields.Artifacts(len(artifacts)))

	report := &Report{}
	for _, artifact := range artifacts {
		res, err := d.CompileOne(ctx, artifact, hooks)
		if err != nil {
			return nil, err
		}
		report.add(res)
	}
	return report, nil
}

// ResolveArtifacts returns requested verbatim when non-empty, otherwise every
// contract the scanner finds (duplicates dropped, scanner order kept).
func (d *Driver) ResolveArtifacts(requested []string) ([]string, error) {
	if len(requested) > 0 {
		return slices.Clone(requested), nil
	}

	fmt.Fprintf(d.out, "🤖 Compiling all Cairo contracts in the %s directory\n", d.cfg.ContractsDir)
	found, err := d.scanner.Scan()
	if err != nil {
		return nil, nerrors.DiscoveryError(d.cfg.ContractsDir, err)
	}

	seen := make(map[string]struct{}, len(found))
	artifacts := make([]string, 0, len(found))
	for _, p := range found {
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		artifacts = append(artifacts, p)
	}
	return artifacts, nil
}

// EnsureOutputDirs creates the build and ABI directories. Existing
// directories and their contents are left untouched.
func (d *Driver) EnsureOutputDirs() error {
	for _, dir := range []string{d.cfg.BuildDir, d.cfg.ABIsDir} {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			fmt.Fprintf(d.out, "📁 Creating %s to store compilation artifacts\n", dir)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nerrors.WorkspaceError("create "+dir, err)
		}
	}
	return nil
}

// CompileOne runs every hook for artifact, then its compiler process.
func (d *Driver) CompileOne(ctx context.Context, artifact string, hooks []plugin.Hook) (Result, error) {
	fmt.Fprintf(d.out, "🔨 Compiling %s\n", artifact)

	for _, h := range hooks {
		if err := h.Invoke(ctx, artifact); err != nil {
			name := h.Metadata().Name
			d.recorder.IncHookFailure(name)
			return Result{}, nerrors.HookFailed(name, artifact, err)
		}
	}

	cmd := d.CompilerCommand(artifact)
	res, err := d.runner.Run(ctx, cmd)
	if err != nil {
		return Result{}, nerrors.CompilerUnavailable(cmd.Name, artifact, err)
	}

	label := metrics.ResultFor(res.ExitCode)
	d.recorder.ObserveCompileDuration(res.Duration, label)
	d.recorder.IncArtifactResult(label)
	d.logger.Debug("Compiler finished",
		logfields.Artifact(artifact),
		logfields.ExitCode(res.ExitCode),
		logfields.DurationMS(float64(res.Duration.Microseconds())/1000))

	return Result{Artifact: artifact, ExitCode: res.ExitCode, Duration: res.Duration}, nil
}

// CompilerCommand builds the compiler invocation for one contract. Both
// outputs are named after the contract file with its extension replaced.
func (d *Driver) CompilerCommand(artifact string) toolrun.Command {
	base := filepath.Base(artifact)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	c := d.cfg.Compiler

	args := []string{
		artifact,
		c.IncludeFlag + "=" + c.IncludePath,
		c.OutputFlag, filepath.Join(d.cfg.BuildDir, name+d.cfg.OutputExt),
		c.ABIFlag, filepath.Join(d.cfg.ABIsDir, name+d.cfg.OutputExt),
	}
	args = append(args, c.CompilerArgs()...)

	return toolrun.Command{Name: c.Command, Args: args}
}
