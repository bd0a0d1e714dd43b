package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID     = "build_id"
	KeyStage       = "stage"
	KeyDurationMS  = "duration_ms"
	KeyPath        = "path"
	KeySource      = "src"
	KeyDestination = "dst"
	KeyMode        = "mode"
	KeyCompileMode = "compile_mode"
	KeyVariant     = "variant"
	KeyAlias       = "alias"
	KeyOutcome     = "outcome"
	KeyCount       = "count"
	KeyRevision    = "revision"
	KeyCommand     = "command"
	KeyErrors      = "errors"
	KeyWarnings    = "warnings"
	KeyError       = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr      { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr      { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Source(p string) slog.Attr        { return slog.String(KeySource, p) }
func Destination(p string) slog.Attr   { return slog.String(KeyDestination, p) }
func Mode(m string) slog.Attr          { return slog.String(KeyMode, m) }
func CompileMode(m string) slog.Attr   { return slog.String(KeyCompileMode, m) }
func Variant(v string) slog.Attr       { return slog.String(KeyVariant, v) }
func Alias(key string) slog.Attr       { return slog.String(KeyAlias, key) }
func Outcome(o string) slog.Attr       { return slog.String(KeyOutcome, o) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func Revision(r string) slog.Attr      { return slog.String(KeyRevision, r) }
func Command(c string) slog.Attr       { return slog.String(KeyCommand, c) }
func Errors(msgs []string) slog.Attr   { return slog.Any(KeyErrors, msgs) }
func Warnings(msgs []string) slog.Attr { return slog.Any(KeyWarnings, msgs) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
