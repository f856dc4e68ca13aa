package app

import (
	"gorm.io/gorm"

	"github.com/evergrid/lifecycle-backend/internal/pkg/logger"
	"github.com/evergrid/lifecycle-backend/internal/services"
)

type Services struct {
	Segment     services.SegmentService
	Category    services.CategoryService
	Stage       services.StageService
	Role        services.RoleService
	JobPosition services.JobPositionService
	User        services.UserService
	Product     services.ProductService
	Monitoring  services.MonitoringService
	Analytics   services.AnalyticsService
	Prediction  services.PredictionService
	Bucket      services.BucketService
	Chart       services.ChartService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos) (Services, error) {
	log.Info("Wiring services...")
	analytics := services.NewAnalyticsService(db, log, cfg.Estimator, r.Analytics, r.StageTransition)

	// The bucket is optional: without GCS_BUCKET_NAME the snapshot endpoint
	// is simply not wired.
	var bucket services.BucketService
	if b, err := services.NewBucketService(log); err != nil {
		log.Warn("Bucket service unavailable, chart snapshots disabled", "error", err)
	} else {
		bucket = b
	}

	chart, err := services.NewChartService(log, analytics, bucket)
	if err != nil {
		return Services{}, err
	}

	return Services{
		Segment:     services.NewSegmentService(db, log, r.Segment),
		Category:    services.NewCategoryService(db, log, r.Category),
		Stage:       services.NewStageService(db, log, r.Stage),
		Role:        services.NewRoleService(db, log, r.Role),
		JobPosition: services.NewJobPositionService(db, log, r.JobPosition, r.Role),
		User:        services.NewUserService(db, log, r.User, r.Role, r.JobPosition),
		Product:     services.NewProductService(db, log, r.Product, r.Category, r.Segment, r.Stage, r.StageTransition),
		Monitoring:  services.NewMonitoringService(db, log, r.Product, r.Stage, r.Segment, r.StageTransition),
		Analytics:   analytics,
		Prediction:  services.NewPredictionService(db, log, cfg.Estimator, r.StageTransition, r.Analytics, r.Stage, r.Segment),
		Bucket:      bucket,
		Chart:       chart,
	}, nil
}
