package invocationlog

import (
	"context"
	"errors"
)

// ErrNotQueryable is returned when no configured sink can read records back.
var ErrNotQueryable = errors.New("invocation log is not queryable")

// Querier reads back stored invocation records.
type Querier interface {
	Recent(ctx context.Context, abilityID string, limit int) ([]Record, error)
}

// Recent reads from the first member that keeps records.
func (m MultiSink) Recent(ctx context.Context, abilityID string, limit int) ([]Record, error) {
	for _, s := range m {
		if q, ok := s.(Querier); ok {
			return q.Recent(ctx, abilityID, limit)
		}
	}
	return nil, ErrNotQueryable
}

// Recent returns the newest records of an ability from s, newest first. An
// empty abilityID matches every ability.
func Recent(ctx context.Context, s Sink, abilityID string, limit int) ([]Record, error) {
	q, ok := s.(Querier)
	if !ok {
		return nil, ErrNotQueryable
	}
	return q.Recent(ctx, abilityID, limit)
}
