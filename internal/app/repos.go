package app

import (
	"gorm.io/gorm"

	"github.com/evergrid/lifecycle-backend/internal/pkg/logger"
	"github.com/evergrid/lifecycle-backend/internal/repos"
)

type Repos struct {
	Segment         repos.SegmentRepo
	Category        repos.CategoryRepo
	Stage           repos.StageRepo
	Role            repos.RoleRepo
	JobPosition     repos.JobPositionRepo
	User            repos.UserRepo
	Product         repos.ProductRepo
	StageTransition repos.StageTransitionRepo
	Analytics       repos.AnalyticsRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Segment:         repos.NewSegmentRepo(db, log),
		Category:        repos.NewCategoryRepo(db, log),
		Stage:           repos.NewStageRepo(db, log),
		Role:            repos.NewRoleRepo(db, log),
		JobPosition:     repos.NewJobPositionRepo(db, log),
		User:            repos.NewUserRepo(db, log),
		Product:         repos.NewProductRepo(db, log),
		StageTransition: repos.NewStageTransitionRepo(db, log),
		Analytics:       repos.NewAnalyticsRepo(db, log),
	}
}
