package svgdom

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger configures the logger used by svgdom and by the
// drawing packages (svgdraw, svgraster, svgpdf).
// By default, no log output is produced. Pass nil to restore
// the silent behavior.
//
// Log levels used:
//   - [slog.LevelDebug]: skipped elements and paints
//   - [slog.LevelWarn]: unsupported elements, unresolved references, font fallbacks
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger.
// Other packages of the module call this to share the same
// configuration.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
