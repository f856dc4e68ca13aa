package services

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/evergrid/lifecycle-backend/internal/pkg/logger"
	"github.com/evergrid/lifecycle-backend/internal/repos"
)

// TransitionDwell reports how long completed transitions between a stage
// pair historically took.
type TransitionDwell struct {
	FromStage string  `json:"from_stage"`
	ToStage   string  `json:"to_stage"`
	Count     int     `json:"count"`
	AvgDays   float64 `json:"avg_days"`
	MinDays   float64 `json:"min_days"`
	MaxDays   float64 `json:"max_days"`
}

// TimelineBucket counts stage transitions per calendar month.
type TimelineBucket struct {
	Month string `json:"month"` // YYYY-MM
	Count int64  `json:"count"`
}

type Overview struct {
	Distribution []repos.StageCount      `json:"distribution"`
	Matrix       []repos.TransitionCount `json:"matrix"`
	Speed        []TransitionDwell       `json:"speed"`
	Timeline     []TimelineBucket        `json:"timeline"`
	Segments     []repos.SegmentCount    `json:"segments"`
}

type AnalyticsService interface {
	Distribution(ctx context.Context) ([]repos.StageCount, error)
	TransitionMatrix(ctx context.Context) ([]repos.TransitionCount, error)
	TransitionSpeed(ctx context.Context) ([]TransitionDwell, error)
	Timeline(ctx context.Context) ([]TimelineBucket, error)
	Overview(ctx context.Context) (*Overview, error)
}

type analyticsService struct {
	db             *gorm.DB
	log            *logger.Logger
	cfg            EstimatorConfig
	analyticsRepo  repos.AnalyticsRepo
	transitionRepo repos.StageTransitionRepo
}

func NewAnalyticsService(
	db *gorm.DB,
	baseLog *logger.Logger,
	cfg EstimatorConfig,
	analyticsRepo repos.AnalyticsRepo,
	transitionRepo repos.StageTransitionRepo,
) AnalyticsService {
	return &analyticsService{
		db:             db,
		log:            baseLog.With("service", "AnalyticsService"),
		cfg:            cfg,
		analyticsRepo:  analyticsRepo,
		transitionRepo: transitionRepo,
	}
}

func (s *analyticsService) Distribution(ctx context.Context) ([]repos.StageCount, error) {
	counts, err := s.analyticsRepo.DistributionCounts(ctx, nil)
	if err != nil {
		s.log.Error("Distribution: query failed", "error", err)
		return nil, err
	}
	return counts, nil
}

func (s *analyticsService) TransitionMatrix(ctx context.Context) ([]repos.TransitionCount, error) {
	counts, err := s.analyticsRepo.MatrixCounts(ctx, nil)
	if err != nil {
		s.log.Error("TransitionMatrix: query failed", "error", err)
		return nil, err
	}
	return counts, nil
}

// TransitionSpeed reports avg/min/max dwell days per stage pair over the
// completed transitions in the log, using the same duration pass as the
// estimator (per-product consecutive events, outliers excluded).
func (s *analyticsService) TransitionSpeed(ctx context.Context) ([]TransitionDwell, error) {
	events, err := s.transitionRepo.ListAll(ctx, nil)
	if err != nil {
		s.log.Error("TransitionSpeed: query failed", "error", err)
		return nil, err
	}
	observed := collectObserved(events, s.cfg.OutlierCeilingDays)
	type key struct{ from, to string }
	grouped := make(map[key][]float64)
	for _, o := range observed {
		k := key{from: o.fromStage, to: o.toStage}
		grouped[k] = append(grouped[k], o.durationDays)
	}
	out := make([]TransitionDwell, 0, len(grouped))
	for k, durations := range grouped {
		mean, _, minDays, maxDays := summarize(durations)
		out = append(out, TransitionDwell{
			FromStage: k.from,
			ToStage:   k.to,
			Count:     len(durations),
			AvgDays:   round2(mean),
			MinDays:   round2(minDays),
			MaxDays:   round2(maxDays),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FromStage != out[j].FromStage {
			return out[i].FromStage < out[j].FromStage
		}
		return out[i].ToStage < out[j].ToStage
	})
	return out, nil
}

func (s *analyticsService) Timeline(ctx context.Context) ([]TimelineBucket, error) {
	events, err := s.transitionRepo.ListAll(ctx, nil)
	if err != nil {
		s.log.Error("Timeline: query failed", "error", err)
		return nil, err
	}
	buckets := make(map[string]int64)
	for _, ev := range events {
		buckets[ev.OccurredAt.UTC().Format("2006-01")]++
	}
	out := make([]TimelineBucket, 0, len(buckets))
	for month, count := range buckets {
		out = append(out, TimelineBucket{Month: month, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}

// Overview fans the four chart queries out concurrently; any failure fails
// the whole call.
func (s *analyticsService) Overview(ctx context.Context) (*Overview, error) {
	var overview Overview
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		distribution, err := s.Distribution(gctx)
		if err != nil {
			return err
		}
		overview.Distribution = distribution
		return nil
	})
	g.Go(func() error {
		matrix, err := s.TransitionMatrix(gctx)
		if err != nil {
			return err
		}
		overview.Matrix = matrix
		return nil
	})
	g.Go(func() error {
		speed, err := s.TransitionSpeed(gctx)
		if err != nil {
			return err
		}
		overview.Speed = speed
		return nil
	})
	g.Go(func() error {
		timeline, err := s.Timeline(gctx)
		if err != nil {
			return err
		}
		overview.Timeline = timeline
		return nil
	})
	g.Go(func() error {
		segments, err := s.analyticsRepo.SegmentProductCounts(gctx, nil)
		if err != nil {
			return err
		}
		overview.Segments = segments
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &overview, nil
}
