package services

import (
	"math"
	"sort"

	"github.com/evergrid/lifecycle-backend/internal/repos"
	"github.com/evergrid/lifecycle-backend/internal/types"
)

// Prediction is one ranked row of the transition forecast. Field names match
// the dashboard's JSON contract.
type Prediction struct {
	FromStage              string  `json:"fromStage"`
	ToStage                string  `json:"toStage"`
	Segment                string  `json:"segment"`
	Probability            float64 `json:"probability"`
	ExpectedDays           int     `json:"expectedDays"`
	HistoricalCount        int     `json:"historicalCount"`
	CurrentProductsInStage int     `json:"currentProductsInStage"`
	MinExpectedDays        int     `json:"minExpectedDays"`
	MaxExpectedDays        int     `json:"maxExpectedDays"`
	DaysVariance           float64 `json:"daysVariance"`
}

// FallbackTransition is one row of the static table served when no
// stage/segment pair has enough history to estimate from.
type FallbackTransition struct {
	FromStage    string `yaml:"from_stage"`
	ToStage      string `yaml:"to_stage"`
	ExpectedDays int    `yaml:"expected_days"`
}

// EstimatorConfig carries the estimator's tunable constants. The defaults
// are deliberate policy values, not derived from any model; changing them
// changes which historical groups are reported.
type EstimatorConfig struct {
	OutlierCeilingDays float64              `yaml:"outlier_ceiling_days"`
	MinSupport         int                  `yaml:"min_support"`
	MaxResults         int                  `yaml:"max_results"`
	Fallbacks          []FallbackTransition `yaml:"fallbacks"`
}

func DefaultEstimatorConfig() EstimatorConfig {
	return EstimatorConfig{
		OutlierCeilingDays: 1000,
		MinSupport:         2,
		MaxResults:         25,
		Fallbacks: []FallbackTransition{
			{FromStage: "Introduction", ToStage: "Growth", ExpectedDays: 45},
			{FromStage: "Growth", ToStage: "Maturity", ExpectedDays: 90},
			{FromStage: "Maturity", ToStage: "Decline", ExpectedDays: 180},
			{FromStage: "Introduction", ToStage: "Decline", ExpectedDays: 30},
		},
	}
}

type observedTransition struct {
	fromStage    string
	toStage      string
	segment      string
	durationDays float64
}

type groupKey struct {
	fromStage string
	toStage   string
	segment   string
}

type originKey struct {
	fromStage string
	segment   string
}

// EstimateTransitions turns the full transition log and the current
// product-per-stage snapshot into a ranked prediction table. It is a pure
// function: same inputs, same output.
//
// Durations are taken between consecutive events of the same product, over
// the product's whole history, so a product's first recorded assignment
// anchors the clock for its first real transition even though the assignment
// itself never becomes a prediction row. Per-origin totals are summed before
// the minimum-support cut, so an origin that loses a low-support destination
// reports probabilities summing below 1.
func EstimateTransitions(
	events []*types.StageTransition,
	snapshot []repos.SegmentStageCount,
	segments []repos.SegmentCount,
	cfg EstimatorConfig,
) []Prediction {
	observed := collectObserved(events, cfg.OutlierCeilingDays)

	groups := make(map[groupKey][]float64)
	for _, o := range observed {
		k := groupKey{fromStage: o.fromStage, toStage: o.toStage, segment: o.segment}
		groups[k] = append(groups[k], o.durationDays)
	}

	totals := make(map[originKey]int)
	for k, durations := range groups {
		totals[originKey{fromStage: k.fromStage, segment: k.segment}] += len(durations)
	}

	inStage := make(map[originKey]int)
	for _, sc := range snapshot {
		inStage[originKey{fromStage: sc.Stage, segment: sc.Segment}] = int(sc.Count)
	}

	predictions := make([]Prediction, 0, len(groups))
	for k, durations := range groups {
		if len(durations) < cfg.MinSupport {
			continue
		}
		total := totals[originKey{fromStage: k.fromStage, segment: k.segment}]
		mean, stddev, minDays, maxDays := summarize(durations)
		predictions = append(predictions, Prediction{
			FromStage:              k.fromStage,
			ToStage:                k.toStage,
			Segment:                k.segment,
			Probability:            round3(float64(len(durations)) / float64(total)),
			ExpectedDays:           int(math.Round(mean)),
			HistoricalCount:        len(durations),
			CurrentProductsInStage: inStage[originKey{fromStage: k.fromStage, segment: k.segment}],
			MinExpectedDays:        int(math.Round(minDays)),
			MaxExpectedDays:        int(math.Round(maxDays)),
			DaysVariance:           round2(stddev),
		})
	}

	if len(predictions) == 0 {
		predictions = fallbackPredictions(segments, inStage, cfg.Fallbacks)
	}

	sortPredictions(predictions)
	if len(predictions) > cfg.MaxResults {
		predictions = predictions[:cfg.MaxResults]
	}
	return predictions
}

// collectObserved walks each product's event sequence in occurrence order and
// emits one observed transition per completed stage change, with the elapsed
// days since the product's previous event. Events are expected sorted by
// product then occurrence time, the order StageTransitionRepo.ListAll uses.
func collectObserved(events []*types.StageTransition, outlierCeilingDays float64) []observedTransition {
	var out []observedTransition
	for i, ev := range events {
		if i == 0 || events[i-1].ProductID != ev.ProductID {
			continue
		}
		if ev.FromStage == nil || *ev.FromStage == "" || ev.ToStage == "" {
			continue
		}
		durationDays := ev.OccurredAt.Sub(events[i-1].OccurredAt).Hours() / 24
		if durationDays <= 0 || durationDays >= outlierCeilingDays {
			continue
		}
		out = append(out, observedTransition{
			fromStage:    *ev.FromStage,
			toStage:      ev.ToStage,
			segment:      ev.Segment,
			durationDays: durationDays,
		})
	}
	return out
}

func summarize(durations []float64) (mean, stddev, minDays, maxDays float64) {
	minDays = durations[0]
	maxDays = durations[0]
	var sum float64
	for _, d := range durations {
		sum += d
		if d < minDays {
			minDays = d
		}
		if d > maxDays {
			maxDays = d
		}
	}
	mean = sum / float64(len(durations))
	var sq float64
	for _, d := range durations {
		sq += (d - mean) * (d - mean)
	}
	stddev = math.Sqrt(sq / float64(len(durations)))
	return mean, stddev, minDays, maxDays
}

// fallbackPredictions crosses the static transition table with every segment
// that currently holds at least one product. Never returns an empty panel
// when products exist.
func fallbackPredictions(segments []repos.SegmentCount, inStage map[originKey]int, fallbacks []FallbackTransition) []Prediction {
	var out []Prediction
	for _, seg := range segments {
		if seg.Count <= 0 {
			continue
		}
		for _, fb := range fallbacks {
			out = append(out, Prediction{
				FromStage:              fb.FromStage,
				ToStage:                fb.ToStage,
				Segment:                seg.Segment,
				Probability:            0.5,
				ExpectedDays:           fb.ExpectedDays,
				HistoricalCount:        0,
				CurrentProductsInStage: inStage[originKey{fromStage: fb.FromStage, segment: seg.Segment}],
				MinExpectedDays:        fb.ExpectedDays,
				MaxExpectedDays:        fb.ExpectedDays,
				DaysVariance:           0,
			})
		}
	}
	return out
}

func sortPredictions(predictions []Prediction) {
	sort.SliceStable(predictions, func(i, j int) bool {
		a, b := predictions[i], predictions[j]
		if a.Probability != b.Probability {
			return a.Probability > b.Probability
		}
		if a.CurrentProductsInStage != b.CurrentProductsInStage {
			return a.CurrentProductsInStage > b.CurrentProductsInStage
		}
		if a.FromStage != b.FromStage {
			return a.FromStage < b.FromStage
		}
		if a.ToStage != b.ToStage {
			return a.ToStage < b.ToStage
		}
		return a.Segment < b.Segment
	})
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
