package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID          = "run_id"
	KeyArtifact       = "artifact"
	KeyArtifacts      = "artifacts"
	KeyHook           = "hook"
	KeyExtensionPoint = "extension_point"
	KeyExitCode       = "exit_code"
	KeyCommand        = "command"
	KeyPath           = "path"
	KeyFailures       = "failures"
	KeyDurationMS     = "duration_ms"
	KeySubject        = "subject"
	KeyError          = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr         { return slog.String(KeyRunID, id) }
func Artifact(p string) slog.Attr       { return slog.String(KeyArtifact, p) }
func Artifacts(n int) slog.Attr         { return slog.Int(KeyArtifacts, n) }
func Hook(name string) slog.Attr        { return slog.String(KeyHook, name) }
func ExtensionPoint(p string) slog.Attr { return slog.String(KeyExtensionPoint, p) }
func ExitCode(code int) slog.Attr       { return slog.Int(KeyExitCode, code) }
func Command(c string) slog.Attr        { return slog.String(KeyCommand, c) }
func Path(p string) slog.Attr           { return slog.String(KeyPath, p) }
func Failures(n int) slog.Attr          { return slog.Int(KeyFailures, n) }
func DurationMS(ms float64) slog.Attr   { return slog.Float64(KeyDurationMS, ms) }
func Subject(s string) slog.Attr        { return slog.String(KeySubject, s) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
