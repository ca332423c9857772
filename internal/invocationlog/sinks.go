package invocationlog

import (
	"context"
	"log/slog"

	"abilityctl/pkg/logging"

	"golang.org/x/sync/errgroup"
)

// LogSink writes entries to the process log.
type LogSink struct{}

func (LogSink) Write(_ context.Context, e Entry) error {
	level := logging.LevelInfo
	if e.Outcome != OutcomeSuccess {
		level = logging.LevelWarn
	}
	logging.Attrs(level, "InvocationLog", e.Summary(),
		slog.String("invocation_id", e.ID),
		slog.String("ability_id", e.Context.AbilityID),
		slog.String("provider", e.Context.Provider),
		slog.String("executor_id", e.ExecutorID),
		slog.String("outcome", string(e.Outcome)),
		slog.Int64("duration_ms", e.DurationMs),
	)
	return nil
}

// MultiSink writes each entry to every sink concurrently and reports the
// first failure.
type MultiSink []Sink

func (m MultiSink) Write(ctx context.Context, e Entry) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, s := range m {
		s := s
		g.Go(func() error {
			return s.Write(ctx, e)
		})
	}
	return g.Wait()
}

// Discard drops every entry.
var Discard Sink = SinkFunc(func(context.Context, Entry) error { return nil })
