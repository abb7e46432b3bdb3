package events

import (
	"context"
	"time"
)

// Time event indicating the engine time moved forward.
type Time struct {
	*Base
	engineTime time.Time
}

// NewTime returns a new time update event.
func NewTime(ctx context.Context, t time.Time) *Time {
	return &Time{
		Base:       newBase(ctx, TimeUpdate),
		engineTime: t,
	}
}

// Time returns the new engine time.
func (t Time) Time() time.Time {
	return t.engineTime
}
