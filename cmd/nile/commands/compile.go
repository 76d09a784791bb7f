package commands

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/nile/internal/compile"
	"git.home.luguber.info/inful/nile/internal/config"
	nerrors "git.home.luguber.info/inful/nile/internal/errors"
	"git.home.luguber.info/inful/nile/internal/events"
	"git.home.luguber.info/inful/nile/internal/logfields"
	"git.home.luguber.info/inful/nile/internal/metrics"
	"git.home.luguber.info/inful/nile/internal/toolrun"
	"git.home.luguber.info/inful/nile/internal/watch"
)

// CompileCmd implements the 'compile' command.
type CompileCmd struct {
	Contracts []string `arg:"" optional:"" name:"contracts" help:"Contracts to compile (default: every contract under contracts_dir)"`
	Watch     bool     `short:"w" help:"Recompile when contracts change"`
}

func (c *CompileCmd) Run(g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	session, err := newCompileSession(cfg, toolrun.NewExecRunner(), g.Logger)
	if err != nil {
		return err
	}
	defer session.Close()

	if c.Watch {
		w, err := watch.New(cfg.ContractsDir, cfg.Extension, cfg.Watch.Debounce, func(ctx context.Context) error {
			_, err := session.Run(ctx, c.Contracts)
			return err
		})
		if err != nil {
			return nerrors.WorkspaceError("watch "+cfg.ContractsDir, err)
		}
		if err := w.Run(ctx); err != nil {
			return nerrors.WorkspaceError("watch "+cfg.ContractsDir, err)
		}
		return nil
	}

	report, err := session.Run(ctx, c.Contracts)
	if err != nil {
		return err
	}
	if !report.Succeeded() {
		return nerrors.CompileFailed(report.Failures())
	}
	return nil
}

// compileSession owns the collaborators shared by every run of one command
// invocation (a single run, or every run in watch mode).
type compileSession struct {
	cfg       *config.Config
	driver    *compile.Driver
	prom      *metrics.PrometheusRecorder
	publisher events.Publisher
	logger    *slog.Logger
}

func newCompileSession(cfg *config.Config, runner toolrun.Runner, logger *slog.Logger) (*compileSession, error) {
	if logger == nil {
		logger = slog.Default()
	}
	reg, err := buildRegistry(cfg, runner)
	if err != nil {
		return nil, err
	}

	s := &compileSession{cfg: cfg, logger: logger}
	s.driver = compile.NewDriver(cfg, reg, runner, nil).WithLogger(logger)

	if cfg.Metrics.Textfile != "" {
		s.prom = metrics.NewPrometheusRecorder(nil)
		s.driver.WithRecorder(s.prom)
	}

	s.publisher, err = events.New(cfg.Events)
	if err != nil {
		logger.Warn("Run events disabled", logfields.Error(err))
		s.publisher = events.NoopPublisher{}
	}
	return s, nil
}

// Run performs one compile run and its reporting side effects. Export and
// publish failures are logged and never change the outcome.
func (s *compileSession) Run(ctx context.Context, contracts []string) (*compile.Report, error) {
	report, err := s.driver.Run(ctx, contracts)
	s.exportMetrics()
	if err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(ctx, events.FromReport(report)); err != nil {
		s.logger.Warn("Failed to publish run event", logfields.RunID(report.RunID), logfields.Error(err))
	}
	return report, nil
}

func (s *compileSession) exportMetrics() {
	if s.prom == nil {
		return
	}
	if err := s.prom.WriteTextfile(s.cfg.Metrics.Textfile); err != nil {
		s.logger.Warn("Failed to write metrics textfile", logfields.Path(s.cfg.Metrics.Textfile), logfields.Error(err))
	}
}

func (s *compileSession) Close() {
	s.publisher.Close()
}
