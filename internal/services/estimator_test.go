package services

import (
	"fmt"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/evergrid/lifecycle-backend/internal/repos"
	"github.com/evergrid/lifecycle-backend/internal/types"
)

var testEpoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// productChain builds one product's event sequence: a first assignment into
// stages[0], then one transition per following stage, at the given day
// offsets.
func productChain(segment string, stages []string, days []int) []*types.StageTransition {
	productID := uuid.New()
	out := make([]*types.StageTransition, 0, len(stages))
	for i, stage := range stages {
		ev := &types.StageTransition{
			ID:         uuid.New(),
			ProductID:  productID,
			ToStage:    stage,
			Segment:    segment,
			OccurredAt: testEpoch.AddDate(0, 0, days[i]),
		}
		if i > 0 {
			prev := stages[i-1]
			ev.FromStage = &prev
		}
		out = append(out, ev)
	}
	return out
}

func TestEstimateTransitionsDeterminism(t *testing.T) {
	var events []*types.StageTransition
	events = append(events, productChain("Corporate", []string{"Introduction", "Growth"}, []int{0, 40})...)
	events = append(events, productChain("Corporate", []string{"Introduction", "Growth"}, []int{0, 50})...)
	snapshot := []repos.SegmentStageCount{{Segment: "Corporate", Stage: "Introduction", Count: 3}}
	segments := []repos.SegmentCount{{Segment: "Corporate", Count: 3}}

	first := EstimateTransitions(events, snapshot, segments, DefaultEstimatorConfig())
	second := EstimateTransitions(events, snapshot, segments, DefaultEstimatorConfig())
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same inputs produced different outputs:\n%v\n%v", first, second)
	}
}

func TestEstimateTransitionsProbabilityNormalization(t *testing.T) {
	sumForOrigin := func(preds []Prediction, fromStage, segment string) float64 {
		var sum float64
		for _, p := range preds {
			if p.FromStage == fromStage && p.Segment == segment {
				sum += p.Probability
			}
		}
		return sum
	}

	t.Run("complete", func(t *testing.T) {
		var events []*types.StageTransition
		for i := 0; i < 2; i++ {
			events = append(events, productChain("Distribution", []string{"Introduction", "Growth"}, []int{0, 30})...)
			events = append(events, productChain("Distribution", []string{"Introduction", "Decline"}, []int{0, 20})...)
		}
		preds := EstimateTransitions(events, nil, nil, DefaultEstimatorConfig())
		if len(preds) != 2 {
			t.Fatalf("expected 2 groups, got %d", len(preds))
		}
		if sum := sumForOrigin(preds, "Introduction", "Distribution"); math.Abs(sum-1.0) > 1e-9 {
			t.Fatalf("probabilities should sum to 1.0, got %v", sum)
		}
	})

	t.Run("partial", func(t *testing.T) {
		var events []*types.StageTransition
		for i := 0; i < 2; i++ {
			events = append(events, productChain("Distribution", []string{"Introduction", "Growth"}, []int{0, 30})...)
		}
		// single low-support departure to Decline: counted in the origin
		// total but dropped from the output
		events = append(events, productChain("Distribution", []string{"Introduction", "Decline"}, []int{0, 20})...)

		preds := EstimateTransitions(events, nil, nil, DefaultEstimatorConfig())
		if len(preds) != 1 {
			t.Fatalf("expected only the Growth group, got %d rows", len(preds))
		}
		if preds[0].ToStage != "Growth" {
			t.Fatalf("expected Growth group, got %s", preds[0].ToStage)
		}
		want := 0.667 // 2/3 rounded to 3 decimals
		if math.Abs(preds[0].Probability-want) > 1e-9 {
			t.Fatalf("expected probability %v, got %v", want, preds[0].Probability)
		}
		if sum := sumForOrigin(preds, "Introduction", "Distribution"); sum >= 1.0 {
			t.Fatalf("partial origin should sum below 1.0, got %v", sum)
		}
	})
}

func TestEstimateTransitionsOutlierExclusion(t *testing.T) {
	var events []*types.StageTransition
	events = append(events, productChain("Generation", []string{"Introduction", "Growth"}, []int{0, 40})...)
	events = append(events, productChain("Generation", []string{"Introduction", "Growth"}, []int{0, 50})...)
	// 1500-day transition: over the ceiling, must not move the average
	events = append(events, productChain("Generation", []string{"Introduction", "Growth"}, []int{0, 1500})...)

	preds := EstimateTransitions(events, nil, nil, DefaultEstimatorConfig())
	if len(preds) != 1 {
		t.Fatalf("expected 1 group, got %d", len(preds))
	}
	if preds[0].HistoricalCount != 2 {
		t.Fatalf("outlier should be excluded from the group, count = %d", preds[0].HistoricalCount)
	}
	if preds[0].ExpectedDays != 45 {
		t.Fatalf("expected avg 45 days, got %d", preds[0].ExpectedDays)
	}

	t.Run("999 days is not an outlier", func(t *testing.T) {
		var events []*types.StageTransition
		events = append(events, productChain("Generation", []string{"Introduction", "Growth"}, []int{0, 999})...)
		events = append(events, productChain("Generation", []string{"Introduction", "Growth"}, []int{0, 999})...)
		preds := EstimateTransitions(events, nil, nil, DefaultEstimatorConfig())
		if len(preds) != 1 || preds[0].HistoricalCount != 2 {
			t.Fatalf("999-day durations should be retained: %+v", preds)
		}
		if preds[0].ExpectedDays != 999 {
			t.Fatalf("expected avg 999 days, got %d", preds[0].ExpectedDays)
		}
	})
}

func TestEstimateTransitionsMinimumSupport(t *testing.T) {
	var events []*types.StageTransition
	// two Growth departures qualify, the single Decline departure does not
	events = append(events, productChain("Transmission", []string{"Growth", "Maturity"}, []int{0, 60})...)
	events = append(events, productChain("Transmission", []string{"Growth", "Maturity"}, []int{0, 70})...)
	events = append(events, productChain("Transmission", []string{"Introduction", "Decline"}, []int{0, 10})...)

	preds := EstimateTransitions(events, nil, nil, DefaultEstimatorConfig())
	if len(preds) != 1 {
		t.Fatalf("expected 1 group, got %d: %+v", len(preds), preds)
	}
	if preds[0].FromStage != "Growth" || preds[0].ToStage != "Maturity" {
		t.Fatalf("wrong surviving group: %+v", preds[0])
	}
	if preds[0].HistoricalCount != 2 {
		t.Fatalf("expected count 2, got %d", preds[0].HistoricalCount)
	}
}

func TestEstimateTransitionsFallback(t *testing.T) {
	segments := []repos.SegmentCount{
		{Segment: "Corporate", Count: 4},
		{Segment: "Customer Service", Count: 1},
		{Segment: "Empty Segment", Count: 0},
	}
	preds := EstimateTransitions(nil, nil, segments, DefaultEstimatorConfig())
	if len(preds) != 8 {
		t.Fatalf("expected 4 fallback transitions x 2 populated segments = 8 rows, got %d", len(preds))
	}
	wantDays := map[string]int{
		"Introduction->Growth":  45,
		"Growth->Maturity":      90,
		"Maturity->Decline":     180,
		"Introduction->Decline": 30,
	}
	for _, p := range preds {
		if p.Probability != 0.5 {
			t.Fatalf("fallback probability must be 0.5, got %v", p.Probability)
		}
		if p.HistoricalCount != 0 {
			t.Fatalf("fallback historicalCount must be 0, got %d", p.HistoricalCount)
		}
		if p.Segment == "Empty Segment" {
			t.Fatalf("segments with no products must not appear in fallback")
		}
		key := p.FromStage + "->" + p.ToStage
		if want, ok := wantDays[key]; !ok || p.ExpectedDays != want {
			t.Fatalf("unexpected fallback row %s with %d days", key, p.ExpectedDays)
		}
	}
}

func TestEstimateTransitionsCapAndOrdering(t *testing.T) {
	// 40 segments, each with two qualifying destination groups whose
	// probabilities differ across segments: (3+i)/(5+i) and 2/(5+i)
	var events []*types.StageTransition
	for i := 0; i < 40; i++ {
		segment := fmt.Sprintf("segment-%02d", i)
		for n := 0; n < 3+i; n++ {
			events = append(events, productChain(segment, []string{"Introduction", "Growth"}, []int{0, 30})...)
		}
		for n := 0; n < 2; n++ {
			events = append(events, productChain(segment, []string{"Introduction", "Decline"}, []int{0, 10})...)
		}
	}

	preds := EstimateTransitions(events, nil, nil, DefaultEstimatorConfig())
	if len(preds) != 25 {
		t.Fatalf("expected exactly 25 rows, got %d", len(preds))
	}
	for i := 1; i < len(preds); i++ {
		if preds[i].Probability > preds[i-1].Probability {
			t.Fatalf("rows not sorted descending by probability at %d: %v > %v",
				i, preds[i].Probability, preds[i-1].Probability)
		}
	}
}

func TestEstimateTransitionsEndToEnd(t *testing.T) {
	var events []*types.StageTransition
	events = append(events, productChain("Retail", []string{"Introduction", "Growth"}, []int{0, 40})...)
	events = append(events, productChain("Retail", []string{"Introduction", "Growth"}, []int{0, 50})...)
	snapshot := []repos.SegmentStageCount{{Segment: "Retail", Stage: "Introduction", Count: 2}}
	segments := []repos.SegmentCount{{Segment: "Retail", Count: 2}}

	preds := EstimateTransitions(events, snapshot, segments, DefaultEstimatorConfig())
	if len(preds) != 1 {
		t.Fatalf("expected exactly 1 prediction, got %d", len(preds))
	}
	p := preds[0]
	if p.FromStage != "Introduction" || p.ToStage != "Growth" || p.Segment != "Retail" {
		t.Fatalf("wrong group: %+v", p)
	}
	if p.HistoricalCount != 2 {
		t.Fatalf("expected transitionCount 2, got %d", p.HistoricalCount)
	}
	if p.ExpectedDays != 45 {
		t.Fatalf("expected avgDurationDays 45, got %d", p.ExpectedDays)
	}
	if p.Probability != 1.0 {
		t.Fatalf("expected probability 1.0, got %v", p.Probability)
	}
	if p.CurrentProductsInStage != 2 {
		t.Fatalf("expected 2 products currently in origin stage, got %d", p.CurrentProductsInStage)
	}
	if p.MinExpectedDays != 40 || p.MaxExpectedDays != 50 {
		t.Fatalf("expected min/max 40/50, got %d/%d", p.MinExpectedDays, p.MaxExpectedDays)
	}
}
