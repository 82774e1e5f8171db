package grpc

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/wealthflow-risk/internal/domain"
)

// structJSON renders st as JSON; a nil struct is an empty object
func structJSON(st *structpb.Struct) ([]byte, error) {
	if st == nil {
		return []byte("{}"), nil
	}
	return protojson.Marshal(st)
}

// decodeStruct decodes the JSON form of st into v
func decodeStruct(st *structpb.Struct, v interface{}) error {
	data, err := structJSON(st)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

// encodeStruct converts v to a Struct through its JSON form
func encodeStruct(v interface{}) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode response: %w", err)
	}
	st := &structpb.Struct{}
	if err := protojson.Unmarshal(data, st); err != nil {
		return nil, fmt.Errorf("failed to encode response: %w", err)
	}
	return st, nil
}

// takeSeed removes "seed" from a config struct and parses it.
// Seeds travel as decimal strings because a Struct number cannot hold every uint64.
// Small integral numbers are accepted too.
func takeSeed(cfg *structpb.Struct) (*uint64, error) {
	if cfg == nil {
		return nil, nil
	}
	v, ok := cfg.Fields["seed"]
	if !ok {
		return nil, nil
	}
	delete(cfg.Fields, "seed")

	switch kind := v.Kind.(type) {
	case *structpb.Value_NullValue:
		return nil, nil
	case *structpb.Value_StringValue:
		seed, err := strconv.ParseUint(kind.StringValue, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid seed %q", domain.ErrValidation, kind.StringValue)
		}
		return &seed, nil
	case *structpb.Value_NumberValue:
		n := kind.NumberValue
		if n < 0 || n != math.Trunc(n) || n > 1<<53 {
			return nil, fmt.Errorf("%w: seed must be a non-negative integer below 2^53 or a string", domain.ErrValidation)
		}
		seed := uint64(n)
		return &seed, nil
	default:
		return nil, fmt.Errorf("%w: seed must be a string or a number", domain.ErrValidation)
	}
}

// putSeed writes seed into st as a decimal string
func putSeed(st *structpb.Struct, seed uint64) {
	if st == nil {
		return
	}
	if st.Fields == nil {
		st.Fields = map[string]*structpb.Value{}
	}
	st.Fields["seed"] = structpb.NewStringValue(strconv.FormatUint(seed, 10))
}

// reportToStruct encodes a simulation report for the wire.
// Monte Carlo final values are dropped unless requested.
func reportToStruct(report *domain.SimulationReport, includeFinalValues bool) (*structpb.Struct, error) {
	st, err := encodeStruct(report)
	if err != nil {
		return nil, err
	}

	putSeed(st, report.Seed)
	if report.Config.Seed != nil {
		putSeed(st.Fields["config"].GetStructValue(), *report.Config.Seed)
	}
	if mc := st.Fields["monteCarlo"].GetStructValue(); mc != nil && !includeFinalValues {
		delete(mc.Fields, "finalValues")
	}
	return st, nil
}

// runSummaryToStruct encodes a stored run summary for the wire
func runSummaryToStruct(summary *domain.RunSummary) (*structpb.Struct, error) {
	st, err := encodeStruct(summary)
	if err != nil {
		return nil, err
	}
	putSeed(st, summary.Seed)
	return st, nil
}

// scenariosToStruct wraps scenarios in a {"scenarios": [...]} message
func scenariosToStruct(scenarios []domain.EconomicScenario) (*structpb.Struct, error) {
	if scenarios == nil {
		scenarios = []domain.EconomicScenario{}
	}
	return encodeStruct(struct {
		Scenarios []domain.EconomicScenario `json:"scenarios"`
	}{scenarios})
}
