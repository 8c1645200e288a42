package agents

import "context"

type contextKey int

const runIDKey contextKey = iota

// WithRunID returns a context carrying the pipeline run ID,
// callbacks use it to correlate events of the same run.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// RunID returns the run ID from the context, or empty string
func RunID(ctx context.Context) string {
	if v, ok := ctx.Value(runIDKey).(string); ok {
		return v
	}
	return ""
}
