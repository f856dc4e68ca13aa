package app

import (
	"github.com/evergrid/lifecycle-backend/internal/http"
	httpH "github.com/evergrid/lifecycle-backend/internal/http/handlers"
	"github.com/evergrid/lifecycle-backend/internal/pkg/logger"
)

type Handlers struct {
	Health      *httpH.HealthHandler
	Segment     *httpH.SegmentHandler
	Category    *httpH.CategoryHandler
	Stage       *httpH.StageHandler
	Role        *httpH.RoleHandler
	JobPosition *httpH.JobPositionHandler
	User        *httpH.UserHandler
	Product     *httpH.ProductHandler
	Monitoring  *httpH.MonitoringHandler
	Analytics   *httpH.AnalyticsHandler
	Prediction  *httpH.PredictionHandler
	Chart       *httpH.ChartHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:      httpH.NewHealthHandler(),
		Segment:     httpH.NewSegmentHandler(log, services.Segment),
		Category:    httpH.NewCategoryHandler(log, services.Category),
		Stage:       httpH.NewStageHandler(log, services.Stage),
		Role:        httpH.NewRoleHandler(log, services.Role),
		JobPosition: httpH.NewJobPositionHandler(log, services.JobPosition),
		User:        httpH.NewUserHandler(log, services.User),
		Product:     httpH.NewProductHandler(log, services.Product, services.Monitoring),
		Monitoring:  httpH.NewMonitoringHandler(log, services.Monitoring),
		Analytics:   httpH.NewAnalyticsHandler(log, services.Analytics),
		Prediction:  httpH.NewPredictionHandler(log, services.Prediction),
		Chart:       httpH.NewChartHandler(log, services.Chart),
	}
}

func wireServer(log *logger.Logger, handlers Handlers) *http.Server {
	return http.NewServer(http.RouterConfig{
		Log:                log,
		HealthHandler:      handlers.Health,
		SegmentHandler:     handlers.Segment,
		CategoryHandler:    handlers.Category,
		StageHandler:       handlers.Stage,
		RoleHandler:        handlers.Role,
		JobPositionHandler: handlers.JobPosition,
		UserHandler:        handlers.User,
		ProductHandler:     handlers.Product,
		MonitoringHandler:  handlers.Monitoring,
		AnalyticsHandler:   handlers.Analytics,
		PredictionHandler:  handlers.Prediction,
		ChartHandler:       handlers.Chart,
	})
}
