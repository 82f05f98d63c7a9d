package reconcile

import "log/slog"

// Context carries per-render collaborators into a diff call. A nil
// Context behaves like a context with a discard logger.
type Context struct {
	// Logger receives warning-only diagnostics (duplicate keys). The diff
	// itself never fails through the logger.
	Logger *slog.Logger
}

func (c *Context) logger() *slog.Logger {
	if c == nil || c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}
