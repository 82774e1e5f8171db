package grpc

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/wealthflow-risk/internal/domain"
	"github.com/simaogato/wealthflow-risk/internal/logging"
	"github.com/simaogato/wealthflow-risk/internal/observability"
	"github.com/simaogato/wealthflow-risk/internal/usecase/catalog"
	"github.com/simaogato/wealthflow-risk/internal/usecase/simulation"
)

// Server implements the RiskSimulationService gRPC server
type Server struct {
	CatalogService    *catalog.CatalogService
	SimulationService *simulation.SimulationService
	// RunRepo is optional. When set, every completed run is stored as a summary.
	RunRepo domain.RunRepository
	// Defaults is the base every RunSimulation config is decoded onto.
	Defaults domain.SimulationConfig

	metrics *observability.Metrics
	logger  *logrus.Logger
}

// NewServer creates a new gRPC server instance
func NewServer(
	catalogService *catalog.CatalogService,
	simulationService *simulation.SimulationService,
	runRepo domain.RunRepository,
	metrics *observability.Metrics,
	logger *logrus.Logger,
) *Server {
	return &Server{
		CatalogService:    catalogService,
		SimulationService: simulationService,
		RunRepo:           runRepo,
		Defaults:          domain.DefaultSimulationConfig(),
		metrics:           metrics,
		logger:            logging.OrDiscard(logger),
	}
}

type listScenariosRequest struct {
	IncludeStored bool `json:"includeStored"`
}

// ListScenarios handles the ListScenarios RPC
func (s *Server) ListScenarios(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in listScenariosRequest
	if err := decodeStruct(req, &in); err != nil {
		return nil, mapError(err)
	}

	scenarios := s.CatalogService.ListScenarios()
	if in.IncludeStored {
		stored, err := s.CatalogService.ListCustomScenarios(ctx)
		if err != nil {
			return nil, mapError(err)
		}
		scenarios = append(scenarios, stored...)
	}

	resp, err := scenariosToStruct(scenarios)
	if err != nil {
		return nil, mapError(err)
	}
	return resp, nil
}

type createScenarioRequest struct {
	Name              string                    `json:"name"`
	Description       string                    `json:"description"`
	Parameters        domain.ScenarioParameters `json:"parameters"`
	ProbabilityWeight float64                   `json:"probabilityWeight"`
	Impact            string                    `json:"impact"`
}

// CreateCustomScenario handles the CreateCustomScenario RPC
func (s *Server) CreateCustomScenario(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in createScenarioRequest
	if err := decodeStruct(req, &in); err != nil {
		return nil, mapError(err)
	}

	impact, err := domain.ParseImpactTag(in.Impact)
	if err != nil {
		return nil, mapError(err)
	}

	scenario, err := s.CatalogService.CreateCustomScenario(ctx, catalog.CreateScenarioInput{
		Name:              in.Name,
		Description:       in.Description,
		Parameters:        in.Parameters,
		ProbabilityWeight: in.ProbabilityWeight,
		Impact:            impact,
	})
	if err != nil {
		return nil, mapError(err)
	}

	resp, err := encodeStruct(struct {
		Scenario *domain.EconomicScenario `json:"scenario"`
	}{scenario})
	if err != nil {
		return nil, mapError(err)
	}
	return resp, nil
}

type runSimulationRequest struct {
	Input              domain.SimulationInput `json:"input"`
	IncludeFinalValues bool                   `json:"includeFinalValues"`
}

// RunSimulation handles the RunSimulation RPC
// The request carries "input", an optional flat "config" record and "includeFinalValues".
func (s *Server) RunSimulation(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in runSimulationRequest
	if err := decodeStruct(req, &in); err != nil {
		return nil, mapError(err)
	}

	cfg, err := s.decodeConfig(req.GetFields()["config"].GetStructValue())
	if err != nil {
		return nil, mapError(err)
	}

	report, err := s.SimulationService.RunSimulation(ctx, in.Input, cfg)
	if err != nil {
		return nil, mapError(err)
	}

	resp, err := reportToStruct(report, in.IncludeFinalValues)
	if err != nil {
		return nil, mapError(err)
	}

	// Only runs the caller can actually receive are stored
	s.storeRun(ctx, report)
	return resp, nil
}

// GetRun handles the GetRun RPC
func (s *Server) GetRun(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if s.RunRepo == nil {
		return nil, status.Error(codes.FailedPrecondition, "run storage is not configured")
	}

	id, err := uuid.Parse(req.GetFields()["id"].GetStringValue())
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid id format: %v", err)
	}

	summary, err := s.RunRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}

	resp, err := runSummaryToStruct(summary)
	if err != nil {
		return nil, mapError(err)
	}
	return resp, nil
}

// decodeConfig decodes a flat config record onto the server defaults
func (s *Server) decodeConfig(cfgStruct *structpb.Struct) (domain.SimulationConfig, error) {
	if cfgStruct == nil {
		return s.Defaults, nil
	}

	// Work on a copy so the request message is left as received
	work := &structpb.Struct{Fields: make(map[string]*structpb.Value, len(cfgStruct.GetFields()))}
	for k, v := range cfgStruct.GetFields() {
		work.Fields[k] = v
	}

	seed, err := takeSeed(work)
	if err != nil {
		return domain.SimulationConfig{}, err
	}

	data, err := structJSON(work)
	if err != nil {
		return domain.SimulationConfig{}, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	cfg, err := domain.MergeSimulationConfig(s.Defaults, data)
	if err != nil {
		return domain.SimulationConfig{}, err
	}
	if seed != nil {
		cfg.Seed = seed
	}
	return cfg, nil
}

// storeRun persists the run summary when a repository is configured.
// A storage failure is logged and counted but does not fail the RPC.
func (s *Server) storeRun(ctx context.Context, report *domain.SimulationReport) {
	if s.RunRepo == nil {
		return
	}

	if err := s.RunRepo.Create(ctx, report.Summarize()); err != nil {
		s.logger.WithError(err).WithField("report_id", report.ID).Error("failed to store run summary")
		if s.metrics != nil {
			s.metrics.RunStoreErrors.Inc()
		}
		return
	}
	if s.metrics != nil {
		s.metrics.RunsStored.Inc()
	}
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrValidation):
		return status.Errorf(codes.InvalidArgument, "%s", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return status.Errorf(codes.NotFound, "%s", err.Error())
	case errors.Is(err, context.Canceled):
		return status.Errorf(codes.Canceled, "%s", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Errorf(codes.DeadlineExceeded, "%s", err.Error())
	default:
		return status.Errorf(codes.Internal, "%s", err.Error())
	}
}
