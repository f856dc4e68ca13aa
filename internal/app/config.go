package app

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/evergrid/lifecycle-backend/internal/pkg/logger"
	"github.com/evergrid/lifecycle-backend/internal/services"
	"github.com/evergrid/lifecycle-backend/internal/utils"
)

type Config struct {
	HTTPAddr    string
	Environment string
	Version     string
	Estimator   services.EstimatorConfig
}

// LoadConfig reads env vars plus, when ANALYTICS_CONFIG_PATH is set, a YAML
// file overriding the estimator constants. Missing file is an error; a
// missing env var just means defaults.
func LoadConfig(log *logger.Logger) (Config, error) {
	port := strings.TrimPrefix(utils.GetEnv("PORT", "8080", log), ":")
	cfg := Config{
		HTTPAddr:    ":" + port,
		Environment: utils.GetEnv("APP_ENV", "development", log),
		Version:     utils.GetEnv("APP_VERSION", "dev", log),
		Estimator:   services.DefaultEstimatorConfig(),
	}

	path := strings.TrimSpace(os.Getenv("ANALYTICS_CONFIG_PATH"))
	if path == "" {
		return cfg, nil
	}
	log.Info("Loading analytics config", "path", path)
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read analytics config: %w", err)
	}
	override := cfg.Estimator
	if err := yaml.Unmarshal(raw, &override); err != nil {
		return cfg, fmt.Errorf("parse analytics config: %w", err)
	}
	if override.OutlierCeilingDays <= 0 || override.MinSupport < 1 || override.MaxResults < 1 {
		return cfg, fmt.Errorf("analytics config: outlier_ceiling_days, min_support and max_results must be positive")
	}
	if len(override.Fallbacks) == 0 {
		override.Fallbacks = cfg.Estimator.Fallbacks
	}
	cfg.Estimator = override
	return cfg, nil
}
