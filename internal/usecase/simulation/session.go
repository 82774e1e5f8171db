package simulation

import (
	"github.com/google/uuid"

	"github.com/simaogato/wealthflow-risk/internal/domain"
)

// SimulationSession owns the last input, config and report of one logical plan.
// Sessions are values: every change derives a new session with a higher revision.
type SimulationSession struct {
	ID       uuid.UUID
	Revision int
	Input    domain.SimulationInput
	Config   domain.SimulationConfig
	// Report is nil until a run for this revision has been applied.
	Report *domain.SimulationReport
}

// NewSession starts a session at revision 1 with no report
func NewSession(input domain.SimulationInput, cfg domain.SimulationConfig) SimulationSession {
	return SimulationSession{
		ID:       uuid.New(),
		Revision: 1,
		Input:    input,
		Config:   cfg,
	}
}

// WithInput derives a session for a new plan. The stale report is dropped.
func (s SimulationSession) WithInput(input domain.SimulationInput) SimulationSession {
	s.Input = input
	s.Revision++
	s.Report = nil
	return s
}

// WithConfig derives a session for a new configuration. The stale report is dropped.
func (s SimulationSession) WithConfig(cfg domain.SimulationConfig) SimulationSession {
	s.Config = cfg
	s.Revision++
	s.Report = nil
	return s
}

// WithReport attaches the report of a completed run to the same revision.
func (s SimulationSession) WithReport(report *domain.SimulationReport) SimulationSession {
	s.Report = report
	return s
}

// Stale reports whether the session still needs a run.
func (s SimulationSession) Stale() bool {
	return s.Report == nil
}
