package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSimulationInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		input   SimulationInput
		wantErr bool
		errMsg  string
	}{
		{
			name:  "valid plan should pass",
			input: SimulationInput{InitialValue: decimal.NewFromInt(1000), MonthlyContribution: decimal.NewFromInt(100), HorizonMonths: 12},
		},
		{
			name:  "empty plan with a horizon should pass",
			input: SimulationInput{HorizonMonths: 1},
		},
		{
			name:    "zero horizon should fail",
			input:   SimulationInput{InitialValue: decimal.NewFromInt(1000)},
			wantErr: true,
			errMsg:  "horizon months must be positive, got 0",
		},
		{
			name:    "negative initial value should fail",
			input:   SimulationInput{InitialValue: decimal.NewFromInt(-1), HorizonMonths: 12},
			wantErr: true,
			errMsg:  "initial value cannot be negative",
		},
		{
			name:    "negative contribution should fail",
			input:   SimulationInput{MonthlyContribution: decimal.RequireFromString("-0.01"), HorizonMonths: 12},
			wantErr: true,
			errMsg:  "monthly contribution cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSimulationInput_TotalInvested(t *testing.T) {
	input := SimulationInput{
		InitialValue:        decimal.RequireFromString("10000.50"),
		MonthlyContribution: decimal.RequireFromString("500.25"),
		HorizonMonths:       12,
	}

	assert.True(t, decimal.RequireFromString("16003.50").Equal(input.TotalInvested()))
}

func TestSimulationInput_WithHorizon(t *testing.T) {
	input := SimulationInput{InitialValue: decimal.NewFromInt(1), HorizonMonths: 12}

	changed := input.WithHorizon(36)

	assert.Equal(t, 36, changed.HorizonMonths)
	assert.Equal(t, 12, input.HorizonMonths, "original is untouched")
}
