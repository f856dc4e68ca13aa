package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/evergrid/lifecycle-backend/internal/types"
)

func newAnalyticsService(env *testEnv) AnalyticsService {
	return NewAnalyticsService(env.db, env.log, DefaultEstimatorConfig(), env.analyticsRepo, env.transitionRepo)
}

func TestAnalyticsDistribution(t *testing.T) {
	env := newTestEnv(t)
	seedProduct(t, env)

	dist, err := newAnalyticsService(env).Distribution(context.Background())
	if err != nil {
		t.Fatalf("Distribution: %v", err)
	}
	if len(dist) != 1 || dist[0].Stage != "Introduction" || dist[0].Count != 1 {
		t.Fatalf("distribution wrong: %+v", dist)
	}
}

func TestAnalyticsTransitionMatrixCountsCompletedTransitions(t *testing.T) {
	env := newTestEnv(t)
	s := seedProduct(t, env)
	ctx := context.Background()

	svc := newAnalyticsService(env)

	// only the first-assignment row exists so far, which has no origin
	matrix, err := svc.TransitionMatrix(ctx)
	if err != nil {
		t.Fatalf("TransitionMatrix: %v", err)
	}
	if len(matrix) != 0 {
		t.Fatalf("matrix should be empty before any stage change: %+v", matrix)
	}

	if _, err := env.monitoring.ChangeStage(ctx, s.product.ID, ChangeStageInput{StageID: s.growth.ID}); err != nil {
		t.Fatalf("ChangeStage: %v", err)
	}

	matrix, err = svc.TransitionMatrix(ctx)
	if err != nil {
		t.Fatalf("TransitionMatrix: %v", err)
	}
	if len(matrix) != 1 {
		t.Fatalf("expected 1 from→to pair, got %+v", matrix)
	}
	if matrix[0].FromStage != "Introduction" || matrix[0].ToStage != "Growth" || matrix[0].Count != 1 {
		t.Fatalf("matrix wrong: %+v", matrix[0])
	}
}

func TestAnalyticsTransitionSpeedDwellStats(t *testing.T) {
	env := newTestEnv(t)
	seedProduct(t, env)
	ctx := context.Background()

	intro := "Introduction"
	base := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
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

	speed, err := newAnalyticsService(env).TransitionSpeed(ctx)
	if err != nil {
		t.Fatalf("TransitionSpeed: %v", err)
	}
	if len(speed) != 1 {
		t.Fatalf("expected 1 dwell row, got %+v", speed)
	}
	row := speed[0]
	if row.FromStage != "Introduction" || row.ToStage != "Growth" {
		t.Fatalf("wrong pair: %+v", row)
	}
	if row.Count != 2 || row.AvgDays != 45 || row.MinDays != 40 || row.MaxDays != 50 {
		t.Fatalf("dwell stats wrong: %+v", row)
	}
}

func TestAnalyticsTransitionSpeedExcludesOutliers(t *testing.T) {
	env := newTestEnv(t)
	seedProduct(t, env)
	ctx := context.Background()

	intro := "Introduction"
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	productID := uuid.New()
	_, err := env.transitionRepo.Append(ctx, nil, []*types.StageTransition{
		{ID: uuid.New(), ProductID: productID, ToStage: "Introduction", Segment: "Transmission", OccurredAt: base},
		{ID: uuid.New(), ProductID: productID, FromStage: &intro, ToStage: "Growth", Segment: "Transmission", OccurredAt: base.AddDate(0, 0, 1500)},
	})
	if err != nil {
		t.Fatalf("append history: %v", err)
	}

	speed, err := newAnalyticsService(env).TransitionSpeed(ctx)
	if err != nil {
		t.Fatalf("TransitionSpeed: %v", err)
	}
	if len(speed) != 0 {
		t.Fatalf("1500-day transition should be excluded: %+v", speed)
	}
}

func TestAnalyticsTimelineBucketsByMonth(t *testing.T) {
	env := newTestEnv(t)
	seedProduct(t, env)
	ctx := context.Background()

	intro := "Introduction"
	jan := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC)
	productID := uuid.New()
	_, err := env.transitionRepo.Append(ctx, nil, []*types.StageTransition{
		{ID: uuid.New(), ProductID: productID, ToStage: "Introduction", Segment: "Transmission", OccurredAt: jan},
		{ID: uuid.New(), ProductID: productID, FromStage: &intro, ToStage: "Growth", Segment: "Transmission", OccurredAt: feb},
		{ID: uuid.New(), ProductID: uuid.New(), ToStage: "Introduction", Segment: "Transmission", OccurredAt: feb},
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	timeline, err := newAnalyticsService(env).Timeline(ctx)
	if err != nil {
		t.Fatalf("Timeline: %v", err)
	}
	byMonth := map[string]int64{}
	for _, b := range timeline {
		byMonth[b.Month] = b.Count
	}
	if byMonth["2025-01"] != 1 || byMonth["2025-02"] != 2 {
		t.Fatalf("timeline buckets wrong: %v", byMonth)
	}
	for i := 1; i < len(timeline); i++ {
		if timeline[i].Month < timeline[i-1].Month {
			t.Fatalf("timeline not sorted: %v", timeline)
		}
	}
}

func TestAnalyticsOverview(t *testing.T) {
	env := newTestEnv(t)
	s := seedProduct(t, env)
	ctx := context.Background()

	if _, err := env.monitoring.ChangeStage(ctx, s.product.ID, ChangeStageInput{StageID: s.growth.ID}); err != nil {
		t.Fatalf("ChangeStage: %v", err)
	}

	overview, err := newAnalyticsService(env).Overview(ctx)
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if len(overview.Distribution) != 1 || overview.Distribution[0].Stage != "Growth" {
		t.Fatalf("overview distribution wrong: %+v", overview.Distribution)
	}
	if len(overview.Matrix) != 1 || overview.Matrix[0].FromStage != "Introduction" {
		t.Fatalf("overview matrix wrong: %+v", overview.Matrix)
	}
	if len(overview.Speed) != 1 || overview.Speed[0].ToStage != "Growth" {
		t.Fatalf("overview speed wrong: %+v", overview.Speed)
	}
	if len(overview.Segments) != 1 || overview.Segments[0].Count != 1 {
		t.Fatalf("overview segment counts wrong: %+v", overview.Segments)
	}
	if len(overview.Timeline) == 0 {
		t.Fatalf("overview timeline missing (product creation is logged)")
	}
}
