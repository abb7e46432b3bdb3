package events

import (
	"context"
	"time"

	"code.ballastprotocol.io/ballast/contextutil"

	"github.com/pkg/errors"
)

var (
	ErrUnsupportedEvent = errors.New("unknown payload for event")
)

type Type int

// Base common denominator all event-bus events share
type Base struct {
	ctx     context.Context
	traceID string
	seq     int
	et      Type
}

type Event interface {
	Type() Type
	Context() context.Context
	TraceID() string
}

const (
	// All event type -> used by subscribers to just receive all events, has no actual corresponding event payload
	All Type = iota
	// other event types that DO have corresponding event types
	TimeUpdate
	CollateralDepositedEvent
	CollateralRedeemedEvent
)

var eventStrings = map[Type]string{
	All:                      "ALL",
	TimeUpdate:               "TimeUpdate",
	CollateralDepositedEvent: "CollateralDeposited",
	CollateralRedeemedEvent:  "CollateralRedeemed",
}

// New is a generic constructor - based on the type of v, the specific event will be returned
func New(ctx context.Context, v interface{}) (interface{}, error) {
	switch tv := v.(type) {
	case *time.Time:
		return NewTime(ctx, *tv), nil
	case time.Time:
		return NewTime(ctx, tv), nil
	}
	return nil, ErrUnsupportedEvent
}

// A base event holds no data, so the constructor will not be called directly
func newBase(ctx context.Context, t Type) *Base {
	ctx, tID := contextutil.TraceIDFromContext(ctx)
	return &Base{
		ctx:     ctx,
		traceID: tID,
		et:      t,
	}
}

// TraceID returns the... traceID obviously
func (b Base) TraceID() string {
	return b.traceID
}

// Sequence returns event sequence number
func (b Base) Sequence() int {
	return b.seq
}

// Context returns context
func (b Base) Context() context.Context {
	return b.ctx
}

// Type returns the event type
func (b Base) Type() Type {
	return b.et
}

// String get string representation of event type
func (t Type) String() string {
	s, ok := eventStrings[t]
	if !ok {
		return "UNKNOWN EVENT"
	}
	return s
}
