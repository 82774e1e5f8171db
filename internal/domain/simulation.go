package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SimulationInput is the caller's savings plan.
// It is treated as immutable for the duration of a run.
type SimulationInput struct {
	InitialValue        decimal.Decimal `json:"initialValue"`
	MonthlyContribution decimal.Decimal `json:"monthlyContribution"`
	HorizonMonths       int             `json:"horizonMonths"`
}

// Validate ensures the input adheres to domain rules
// Returns an error wrapping ErrInvalidInput if validation fails
func (in SimulationInput) Validate() error {
	if in.HorizonMonths <= 0 {
		return fmt.Errorf("%w: horizon months must be positive, got %d", ErrInvalidInput, in.HorizonMonths)
	}
	if in.InitialValue.IsNegative() {
		return fmt.Errorf("%w: initial value cannot be negative", ErrInvalidInput)
	}
	if in.MonthlyContribution.IsNegative() {
		return fmt.Errorf("%w: monthly contribution cannot be negative", ErrInvalidInput)
	}
	return nil
}

// TotalInvested returns initial value plus every monthly contribution over the horizon.
func (in SimulationInput) TotalInvested() decimal.Decimal {
	return in.InitialValue.Add(in.MonthlyContribution.Mul(decimal.NewFromInt(int64(in.HorizonMonths))))
}

// WithHorizon returns a copy of the input with a different horizon.
func (in SimulationInput) WithHorizon(months int) SimulationInput {
	in.HorizonMonths = months
	return in
}
