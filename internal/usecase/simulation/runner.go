package simulation

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/simaogato/wealthflow-risk/internal/domain"
	"github.com/simaogato/wealthflow-risk/internal/logging"
)

// Trigger names why a recompute was requested
type Trigger string

const (
	TriggerInputChanged  Trigger = "input_changed"
	TriggerConfigChanged Trigger = "config_changed"
	TriggerManual        Trigger = "manual"
)

// Simulator runs one simulation
type Simulator interface {
	RunSimulation(ctx context.Context, input domain.SimulationInput, cfg domain.SimulationConfig) (*domain.SimulationReport, error)
}

// Outcome is the result of one started run.
// Applied is false when the run was superseded or cancelled; Session then holds the
// session the run was started with, unchanged.
type Outcome struct {
	Session SimulationSession
	Trigger Trigger
	Applied bool
	Err     error
}

// Runner keeps at most one live run. Starting a run cancels the previous one.
type Runner struct {
	simulator Simulator
	logger    *logrus.Logger

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
}

// NewRunner creates a new Runner instance
func NewRunner(simulator Simulator, logger *logrus.Logger) *Runner {
	return &Runner{
		simulator: simulator,
		logger:    logging.OrDiscard(logger),
	}
}

// Start runs the session in a new goroutine and returns a channel that receives
// exactly one Outcome and is then closed. Any in-flight run is cancelled first.
func (r *Runner) Start(ctx context.Context, session SimulationSession, trigger Trigger) <-chan Outcome {
	runCtx, cancel := context.WithCancel(ctx)

	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	r.generation++
	generation := r.generation
	r.cancel = cancel
	r.mu.Unlock()

	out := make(chan Outcome, 1)
	go func() {
		defer close(out)
		out <- r.run(runCtx, cancel, generation, session, trigger)
	}()
	return out
}

// Recompute is the blocking form of Start
func (r *Runner) Recompute(ctx context.Context, session SimulationSession, trigger Trigger) Outcome {
	return <-r.Start(ctx, session, trigger)
}

// Cancel stops the in-flight run, if any
func (r *Runner) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.generation++
}

func (r *Runner) run(ctx context.Context, cancel context.CancelFunc, generation uint64, session SimulationSession, trigger Trigger) Outcome {
	defer cancel()

	log := r.logger.WithFields(logrus.Fields{
		"session_id": session.ID,
		"revision":   session.Revision,
		"trigger":    trigger,
	})

	report, err := r.simulator.RunSimulation(ctx, session.Input, session.Config)

	r.mu.Lock()
	current := r.generation == generation
	if current {
		r.cancel = nil
	}
	r.mu.Unlock()

	outcome := Outcome{Session: session, Trigger: trigger}
	switch {
	case !current:
		log.Debug("discarding superseded simulation run")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		log.WithError(err).Debug("simulation run cancelled")
		outcome.Err = err
	case err != nil:
		log.WithError(err).Warn("simulation run failed")
		outcome.Err = err
	default:
		outcome.Session = session.WithReport(report)
		outcome.Applied = true
	}
	return outcome
}
