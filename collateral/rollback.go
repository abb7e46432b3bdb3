package collateral

import (
	"fmt"

	"code.ballastprotocol.io/ballast/logging"
	"code.ballastprotocol.io/ballast/metrics"
)

type rollbackStep struct {
	name string
	fn   func() error
}

// rollback collects the compensations needed to undo an operation as the
// operation progresses: first the internal balance restores, then the
// compensating external transfers once tokens have moved.
type rollback struct {
	log   *logging.Logger
	steps []rollbackStep
}

func newRollback(log *logging.Logger) *rollback {
	return &rollback{log: log}
}

func (r *rollback) add(name string, fn func() error) {
	r.steps = append(r.steps, rollbackStep{name: name, fn: fn})
}

// unwind plays the recorded compensations newest first and returns the
// original cause. A compensation that itself fails cannot stop the unwind:
// it is logged and folded into the returned error, and the remaining steps
// still run so the internal books are always restored.
func (r *rollback) unwind(cause error) error {
	for i := len(r.steps) - 1; i >= 0; i-- {
		step := r.steps[i]
		if err := step.fn(); err != nil {
			r.log.Error("compensation failed while unwinding",
				logging.String("step", step.name),
				logging.Error(err),
			)
			metrics.RollbackFailureCounterInc()
			cause = fmt.Errorf("%w; compensation %q failed: %v", cause, step.name, err)
		}
	}
	r.steps = nil
	return cause
}
