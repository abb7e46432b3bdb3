package ballasttime

import (
	"context"
	"sync"
	"time"

	"code.ballastprotocol.io/ballast/events"
)

// Broker send events to all the subscribers.
type Broker interface {
	Send(event events.Event)
}

// Svc is the clock every other component reads. Time only moves when the
// surrounding process advances it through SetTimeNow, so tests and replays
// stay deterministic.
type Svc struct {
	config Config

	previousTimestamp time.Time
	currentTimestamp  time.Time

	listeners []func(context.Context, time.Time)
	mu        sync.Mutex

	broker Broker
}

// New instantiates a new time service.
func New(conf Config, broker Broker) *Svc {
	return &Svc{
		config: conf,
		broker: broker,
	}
}

// ReloadConf reload the configuration for the time service.
func (s *Svc) ReloadConf(conf Config) {
	// do nothing here, conf is not used for now
	s.config = conf
}

// SetTimeNow update the current time, notifies all the listeners
// and sends a time event on the bus.
func (s *Svc) SetTimeNow(ctx context.Context, t time.Time) {
	// ensure the t is using UTC
	t = t.UTC()

	s.mu.Lock()
	if !s.currentTimestamp.IsZero() {
		s.previousTimestamp = s.currentTimestamp
	}
	s.currentTimestamp = t
	if s.previousTimestamp.IsZero() {
		s.previousTimestamp = s.currentTimestamp
	}
	listeners := s.listeners
	s.mu.Unlock()

	s.broker.Send(events.NewTime(ctx, t))
	for _, f := range listeners {
		f(ctx, t)
	}
}

// GetTimeNow returns the last known time.
func (s *Svc) GetTimeNow() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentTimestamp
}

// GetTimeLastBatch returns the time before the last update.
func (s *Svc) GetTimeLastBatch() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.previousTimestamp
}

// NotifyOnTick allows other services to register a callback function
// which will be called once the time is updated.
func (s *Svc) NotifyOnTick(f func(context.Context, time.Time)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, f)
}
