package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/evergrid/lifecycle-backend/internal/types"
)

func newPredictionService(env *testEnv) PredictionService {
	return NewPredictionService(env.db, env.log, DefaultEstimatorConfig(),
		env.transitionRepo, env.analyticsRepo, env.stageRepo, env.segmentRepo)
}

func TestPredictWithHistory(t *testing.T) {
	env := newTestEnv(t)
	seedProduct(t, env)
	ctx := context.Background()

	base := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	intro := "Introduction"
	for _, days := range []int{40, 50} {
		productID := uuid.New()
		_, err := env.transitionRepo.Append(ctx, nil, []*types.StageTransition{
			{ID: uuid.New(), ProductID: productID, ToStage: "Introduction", Segment: "Transmission", OccurredAt: base},
			{ID: uuid.New(), ProductID: productID, FromStage: &intro, ToStage: "Growth", Segment: "Transmission", OccurredAt: base.AddDate(0, 0, days)},
		})
		if err != nil {
			t.Fatalf("append history: %v", err)
		}
	}

	result, err := newPredictionService(env).Predict(ctx)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if len(result.Predictions) != 1 {
		t.Fatalf("expected 1 prediction, got %d", len(result.Predictions))
	}
	p := result.Predictions[0]
	if p.FromStage != "Introduction" || p.ToStage != "Growth" || p.Segment != "Transmission" {
		t.Fatalf("wrong group: %+v", p)
	}
	if p.HistoricalCount != 2 || p.ExpectedDays != 45 || p.Probability != 1.0 {
		t.Fatalf("wrong aggregates: %+v", p)
	}
	// the seeded product sits in Introduction/Transmission today
	if p.CurrentProductsInStage != 1 {
		t.Fatalf("expected 1 product in origin stage, got %d", p.CurrentProductsInStage)
	}
	if !result.Metadata.BasedOnHistoricalData {
		t.Fatalf("metadata should report historical data")
	}
	if result.Metadata.TotalPredictions != 1 {
		t.Fatalf("metadata count wrong: %d", result.Metadata.TotalPredictions)
	}
	if len(result.Stages) != 2 || result.Stages[0] != "Introduction" {
		t.Fatalf("stages should list known stage names in order: %v", result.Stages)
	}
	if len(result.Segments) != 1 || result.Segments[0] != "Transmission" {
		t.Fatalf("segments should list known segment names: %v", result.Segments)
	}
}

func TestPredictFallsBackWithoutHistory(t *testing.T) {
	env := newTestEnv(t)
	seedProduct(t, env)

	// only the product's first-assignment row exists, which never counts as
	// a completed transition
	result, err := newPredictionService(env).Predict(context.Background())
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if len(result.Predictions) != 4 {
		t.Fatalf("expected 4 fallback rows for 1 populated segment, got %d", len(result.Predictions))
	}
	for _, p := range result.Predictions {
		if p.Probability != 0.5 || p.HistoricalCount != 0 {
			t.Fatalf("fallback row wrong: %+v", p)
		}
		if p.Segment != "Transmission" {
			t.Fatalf("fallback crossed with wrong segment: %s", p.Segment)
		}
	}
	if result.Metadata.BasedOnHistoricalData {
		t.Fatalf("fallback output must not claim historical data")
	}
}
