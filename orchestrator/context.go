package orchestrator

import "context"

// Run sources, used as metrics tag
const (
	SourceAPI = "api"
	SourceUI  = "ui"
	SourceCLI = "cli"
)

type contextKey int

const sourceKey contextKey = iota

// WithSource returns a context with the source of the run
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, sourceKey, source)
}

// Source returns the source of the run, or "unknown"
func Source(ctx context.Context) string {
	if v, ok := ctx.Value(sourceKey).(string); ok && v != "" {
		return v
	}
	return "unknown"
}
