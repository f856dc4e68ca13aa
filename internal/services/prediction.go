package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/evergrid/lifecycle-backend/internal/pkg/logger"
	"github.com/evergrid/lifecycle-backend/internal/repos"
)

type PredictionMetadata struct {
	TotalPredictions      int       `json:"totalPredictions"`
	BasedOnHistoricalData bool      `json:"basedOnHistoricalData"`
	LastUpdated           time.Time `json:"lastUpdated"`
}

type PredictionResult struct {
	Predictions []Prediction       `json:"predictions"`
	Stages      []string           `json:"stages"`
	Segments    []string           `json:"segments"`
	Metadata    PredictionMetadata `json:"metadata"`
}

type PredictionService interface {
	Predict(ctx context.Context) (*PredictionResult, error)
}

type predictionService struct {
	db             *gorm.DB
	log            *logger.Logger
	cfg            EstimatorConfig
	transitionRepo repos.StageTransitionRepo
	analyticsRepo  repos.AnalyticsRepo
	stageRepo      repos.StageRepo
	segmentRepo    repos.SegmentRepo
}

func NewPredictionService(
	db *gorm.DB,
	baseLog *logger.Logger,
	cfg EstimatorConfig,
	transitionRepo repos.StageTransitionRepo,
	analyticsRepo repos.AnalyticsRepo,
	stageRepo repos.StageRepo,
	segmentRepo repos.SegmentRepo,
) PredictionService {
	serviceLog := baseLog.With("service", "PredictionService")
	return &predictionService{
		db:             db,
		log:            serviceLog,
		cfg:            cfg,
		transitionRepo: transitionRepo,
		analyticsRepo:  analyticsRepo,
		stageRepo:      stageRepo,
		segmentRepo:    segmentRepo,
	}
}

// Predict reads the full transition log plus the current snapshot and runs
// the estimator over them. Read-only, no transaction needed.
func (ps *predictionService) Predict(ctx context.Context) (*PredictionResult, error) {
	events, err := ps.transitionRepo.ListAll(ctx, nil)
	if err != nil {
		ps.log.Error("failed to load transition log", "error", err)
		return nil, err
	}
	snapshot, err := ps.analyticsRepo.CurrentStageCounts(ctx, nil)
	if err != nil {
		ps.log.Error("failed to load stage snapshot", "error", err)
		return nil, err
	}
	segmentCounts, err := ps.analyticsRepo.SegmentProductCounts(ctx, nil)
	if err != nil {
		ps.log.Error("failed to load segment counts", "error", err)
		return nil, err
	}
	stages, err := ps.stageRepo.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	segments, err := ps.segmentRepo.List(ctx, nil)
	if err != nil {
		return nil, err
	}

	predictions := EstimateTransitions(events, snapshot, segmentCounts, ps.cfg)

	stageNames := make([]string, 0, len(stages))
	for _, s := range stages {
		stageNames = append(stageNames, s.Name)
	}
	segmentNames := make([]string, 0, len(segments))
	for _, s := range segments {
		segmentNames = append(segmentNames, s.Name)
	}

	basedOnHistory := len(predictions) > 0 && predictions[0].HistoricalCount > 0
	return &PredictionResult{
		Predictions: predictions,
		Stages:      stageNames,
		Segments:    segmentNames,
		Metadata: PredictionMetadata{
			TotalPredictions:      len(predictions),
			BasedOnHistoricalData: basedOnHistory,
			LastUpdated:           time.Now().UTC(),
		},
	}, nil
}
