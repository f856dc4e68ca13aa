package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/evergrid/lifecycle-backend/internal/http/handlers"
	httpMW "github.com/evergrid/lifecycle-backend/internal/http/middleware"
	"github.com/evergrid/lifecycle-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	SegmentHandler     *httpH.SegmentHandler
	CategoryHandler    *httpH.CategoryHandler
	StageHandler       *httpH.StageHandler
	RoleHandler        *httpH.RoleHandler
	JobPositionHandler *httpH.JobPositionHandler
	UserHandler        *httpH.UserHandler
	ProductHandler     *httpH.ProductHandler
	MonitoringHandler  *httpH.MonitoringHandler
	AnalyticsHandler   *httpH.AnalyticsHandler
	PredictionHandler  *httpH.PredictionHandler
	ChartHandler       *httpH.ChartHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("lifecycle-backend"))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Master data
		if cfg.SegmentHandler != nil {
			api.POST("/segments", cfg.SegmentHandler.Create)
			api.GET("/segments", cfg.SegmentHandler.List)
			api.GET("/segments/:id", cfg.SegmentHandler.Get)
			api.PUT("/segments/:id", cfg.SegmentHandler.Update)
			api.DELETE("/segments/:id", cfg.SegmentHandler.Delete)
		}
		if cfg.CategoryHandler != nil {
			api.POST("/categories", cfg.CategoryHandler.Create)
			api.GET("/categories", cfg.CategoryHandler.List)
			api.GET("/categories/:id", cfg.CategoryHandler.Get)
			api.PUT("/categories/:id", cfg.CategoryHandler.Update)
			api.DELETE("/categories/:id", cfg.CategoryHandler.Delete)
		}
		if cfg.StageHandler != nil {
			api.POST("/stages", cfg.StageHandler.Create)
			api.GET("/stages", cfg.StageHandler.List)
			api.GET("/stages/:id", cfg.StageHandler.Get)
			api.PUT("/stages/:id", cfg.StageHandler.Update)
			api.DELETE("/stages/:id", cfg.StageHandler.Delete)
		}
		if cfg.RoleHandler != nil {
			api.POST("/roles", cfg.RoleHandler.Create)
			api.GET("/roles", cfg.RoleHandler.List)
			api.GET("/roles/:id", cfg.RoleHandler.Get)
			api.PUT("/roles/:id", cfg.RoleHandler.Update)
			api.DELETE("/roles/:id", cfg.RoleHandler.Delete)
		}
		if cfg.JobPositionHandler != nil {
			api.POST("/job-positions", cfg.JobPositionHandler.Create)
			api.GET("/job-positions", cfg.JobPositionHandler.List)
			api.GET("/job-positions/:id", cfg.JobPositionHandler.Get)
			api.PUT("/job-positions/:id", cfg.JobPositionHandler.Update)
			api.DELETE("/job-positions/:id", cfg.JobPositionHandler.Delete)
		}
		if cfg.UserHandler != nil {
			api.POST("/users", cfg.UserHandler.Create)
			api.GET("/users", cfg.UserHandler.List)
			api.GET("/users/:id", cfg.UserHandler.Get)
			api.PUT("/users/:id", cfg.UserHandler.Update)
			api.DELETE("/users/:id", cfg.UserHandler.Delete)
		}

		// Products and lifecycle
		if cfg.ProductHandler != nil {
			api.POST("/products", cfg.ProductHandler.Create)
			api.GET("/products", cfg.ProductHandler.List)
			api.GET("/products/:id", cfg.ProductHandler.Get)
			api.PUT("/products/:id", cfg.ProductHandler.Update)
			api.DELETE("/products/:id", cfg.ProductHandler.Delete)
			api.POST("/products/:id/stage", cfg.ProductHandler.ChangeStage)
			api.GET("/products/:id/transitions", cfg.ProductHandler.Transitions)
		}

		// Monitoring log
		if cfg.MonitoringHandler != nil {
			api.GET("/monitoring/transitions", cfg.MonitoringHandler.ListTransitions)
		}

		// Analytics
		if cfg.AnalyticsHandler != nil {
			api.GET("/analytics/distribution", cfg.AnalyticsHandler.Distribution)
			api.GET("/analytics/transition-matrix", cfg.AnalyticsHandler.TransitionMatrix)
			api.GET("/analytics/transition-speed", cfg.AnalyticsHandler.TransitionSpeed)
			api.GET("/analytics/timeline", cfg.AnalyticsHandler.Timeline)
			api.GET("/analytics/overview", cfg.AnalyticsHandler.Overview)
		}

		// Predictions
		if cfg.PredictionHandler != nil {
			api.GET("/analytics/predictions", cfg.PredictionHandler.Predictions)
		}

		// Chart rendering
		if cfg.ChartHandler != nil {
			api.GET("/charts/distribution.png", cfg.ChartHandler.DistributionPNG)
			api.POST("/charts/distribution/snapshot", cfg.ChartHandler.SnapshotDistribution)
		}
	}

	return r
}
