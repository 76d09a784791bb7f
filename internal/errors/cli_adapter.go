package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Exit codes returned by the nile CLI.
const (
	ExitSuccess    = 0
	ExitFailure    = 1 // General error, or contracts failed to compile
	ExitUsage      = 2
	ExitConfig     = 7
	ExitExternal   = 8
	ExitInternal   = 10
	ExitHook       = 11
	ExitCompiler   = 12
	ExitFileSystem = 13
	ExitRuntime    = 14
)

// CLIErrorAdapter handles error presentation and exit code determination for CLI applications.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	out     io.Writer
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
		out:     os.Stderr,
	}
}

// WithOutput redirects user-facing error messages (default stderr).
func (a *CLIErrorAdapter) WithOutput(w io.Writer) *CLIErrorAdapter {
	if w != nil {
		a.out = w
	}
	return a
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if ne, ok := As(err); ok {
		return a.exitCodeFromNile(ne)
	}

	return ExitFailure
}

// exitCodeFromNile maps NileError to exit codes.
func (a *CLIErrorAdapter) exitCodeFromNile(err *NileError) int {
	switch err.Category {
	case CategoryValidation:
		return ExitUsage
	case CategoryConfig:
		return ExitConfig
	case CategoryEvents:
		return ExitExternal
	case CategoryHook:
		return ExitHook
	case CategoryCompiler:
		// A finished run with failing contracts is an ordinary failure.
		if err.Severity == SeverityError {
			return ExitFailure
		}
		return ExitCompiler
	case CategoryFileSystem:
		return ExitFileSystem
	case CategoryRuntime:
		return ExitRuntime
	case CategoryInternal:
		return ExitInternal
	default:
		return ExitFailure
	}
}

// FormatError formats an error for user-friendly display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}

	if ne, ok := As(err); ok {
		return a.formatNile(ne)
	}

	return fmt.Sprintf("Error: %v", err)
}

// formatNile formats a NileError for display.
func (a *CLIErrorAdapter) formatNile(err *NileError) string {
	if a.verbose {
		return err.Error()
	}

	switch err.Category {
	case CategoryConfig, CategoryValidation:
		if err.Cause != nil {
			return fmt.Sprintf("%s: %v", err.Message, err.Cause)
		}
		return err.Message
	default:
		if err.Cause != nil {
			return fmt.Sprintf("%s: %s: %v", err.Category, err.Message, err.Cause)
		}
		return fmt.Sprintf("%s: %s", err.Category, err.Message)
	}
}

// Handle presents an error and returns the exit code without exiting.
func (a *CLIErrorAdapter) Handle(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if a.shouldLog(err) {
		a.logError(err)
	}

	_, _ = fmt.Fprintf(a.out, "%s\n", a.FormatError(err))
	return a.ExitCodeFor(err)
}

// HandleError processes an error and exits the program with appropriate code.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}
	os.Exit(a.Handle(err))
}

// shouldLog determines if an error should be logged.
func (a *CLIErrorAdapter) shouldLog(err error) bool {
	if a.verbose {
		return true
	}

	if ne, ok := As(err); ok {
		return ne.Category == CategoryInternal ||
			ne.Category == CategoryRuntime ||
			ne.Severity == SeverityFatal
	}

	return true
}

// logError logs an error with appropriate level and context.
func (a *CLIErrorAdapter) logError(err error) {
	if ne, ok := As(err); ok {
		level := a.slogLevelFromSeverity(ne.Severity)
		attrs := []slog.Attr{
			slog.String("category", string(ne.Category)),
		}
		for k, v := range ne.Context {
			attrs = append(attrs, slog.Any(k, v))
		}
		if ne.Cause != nil {
			attrs = append(attrs, slog.String("error", ne.Cause.Error()))
		}

		a.logger.LogAttrs(context.Background(), level, ne.Message, attrs...)
		return
	}

	a.logger.Error("Unclassified error", "error", err)
}

// slogLevelFromSeverity converts NileError severity to slog level.
func (a *CLIErrorAdapter) slogLevelFromSeverity(severity ErrorSeverity) slog.Level {
	switch severity {
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
