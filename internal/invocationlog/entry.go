package invocationlog

import (
	"context"
	"time"

	"abilityctl/internal/api"

	"github.com/google/uuid"
)

// Outcome of one invocation attempt.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailed  Outcome = "failed"
	OutcomeTimeout Outcome = "timeout"
)

// Entry is one invocation log record.
type Entry struct {
	ID         string                `json:"id"`
	Context    api.AbilityContext    `json:"context"`
	ExecutorID string                `json:"executor_id,omitempty"`
	Family     string                `json:"family,omitempty"`
	Outcome    Outcome               `json:"outcome"`
	Result     *api.InvocationResult `json:"result,omitempty"`
	Error      string                `json:"error,omitempty"`
	DurationMs int64                 `json:"duration_ms"`
	CreatedAt  time.Time             `json:"created_at"`
}

// NewEntry builds an entry from either a result or an error.
func NewEntry(actx api.AbilityContext, executorID, family string, result *api.InvocationResult, err error, duration time.Duration) Entry {
	e := Entry{
		ID:         uuid.NewString(),
		Context:    actx,
		ExecutorID: executorID,
		Family:     family,
		Outcome:    OutcomeSuccess,
		Result:     result,
		DurationMs: duration.Milliseconds(),
		CreatedAt:  time.Now().UTC(),
	}
	if err != nil {
		e.Outcome = OutcomeFailed
		if api.IsTimeout(err) {
			e.Outcome = OutcomeTimeout
		}
		e.Error = err.Error()
	}
	return e
}

// Summary is the one-line description of the entry.
func (e Entry) Summary() string {
	if e.Error != "" {
		return e.Error
	}
	if e.Result == nil {
		return api.NoPreviewMessage
	}
	return e.Result.Summary()
}

// Sink accepts invocation log entries.
type Sink interface {
	Write(ctx context.Context, entry Entry) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, entry Entry) error

func (f SinkFunc) Write(ctx context.Context, entry Entry) error { return f(ctx, entry) }
