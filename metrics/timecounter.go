package metrics

import (
	"time"
)

// TimeCounter holds a time.Time and a list of label values, hiding the start time from being accidentally
// overwritten, and removing the need to duplicate the label values.
type TimeCounter struct {
	labelValues []string
	start       time.Time
}

// NewTimeCounter returns a new TimeCounter, with the start time already recorded.
func NewTimeCounter(labelValues ...string) *TimeCounter {
	return &TimeCounter{
		labelValues: labelValues,
		start:       time.Now(),
	}
}

// EngineTimeCounterAdd adds the time spent since the TimeCounter was created to the
// engine time metric, using the label values given at creation.
func (t *TimeCounter) EngineTimeCounterAdd() {
	// Check that the metrics have been set up. (Testing does not use metrics.)
	elapsed := time.Since(t.start).Seconds()
	if engineTime != nil {
		engineTime.WithLabelValues(t.labelValues...).Add(elapsed)
	}
	if opDuration != nil {
		opDuration.WithLabelValues(t.labelValues...).Observe(elapsed)
	}
}
