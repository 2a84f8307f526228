package selector

// DebugSink receives selection traces when debug logging is enabled.
// *slog.Logger satisfies it.
type DebugSink interface {
	Debug(msg string, args ...any)
}

type nopSink struct{}

func (nopSink) Debug(string, ...any) {}
