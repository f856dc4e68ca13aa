package repos

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/evergrid/lifecycle-backend/internal/db"
	"github.com/evergrid/lifecycle-backend/internal/pkg/logger"
	"github.com/evergrid/lifecycle-backend/internal/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// a second :memory: connection would see an empty database
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

func TestSegmentRepoCRUD(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewSegmentRepo(gdb, newTestLogger(t))
	ctx := context.Background()

	seg := &types.Segment{ID: uuid.New(), Name: "Corporate", Description: "head office"}
	if _, err := repo.Create(ctx, nil, []*types.Segment{seg}); err != nil {
		t.Fatalf("create: %v", err)
	}

	exists, err := repo.NameExists(ctx, nil, "Corporate")
	if err != nil || !exists {
		t.Fatalf("NameExists = %v, %v; want true, nil", exists, err)
	}

	got, err := repo.GetByIDs(ctx, nil, []uuid.UUID{seg.ID})
	if err != nil || len(got) != 1 || got[0].Name != "Corporate" {
		t.Fatalf("GetByIDs = %+v, %v", got, err)
	}

	seg.Description = "updated"
	if err := repo.Update(ctx, nil, seg); err != nil {
		t.Fatalf("update: %v", err)
	}

	if err := repo.Update(ctx, nil, &types.Segment{ID: uuid.New(), Name: "x"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update of missing row should be ErrNotFound, got %v", err)
	}

	if err := repo.Delete(ctx, nil, seg.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, nil, seg.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete should be ErrNotFound, got %v", err)
	}
}

func TestSegmentRepoDuplicateName(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewSegmentRepo(gdb, newTestLogger(t))
	ctx := context.Background()

	if _, err := repo.Create(ctx, nil, []*types.Segment{{ID: uuid.New(), Name: "Generation"}}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := repo.Create(ctx, nil, []*types.Segment{{ID: uuid.New(), Name: "Generation"}})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate name should map to ErrDuplicate, got %v", err)
	}
}

func TestStageRepoListOrder(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewStageRepo(gdb, newTestLogger(t))
	ctx := context.Background()

	stages := []*types.Stage{
		{ID: uuid.New(), Name: "Decline", SortOrder: 4},
		{ID: uuid.New(), Name: "Introduction", SortOrder: 1},
		{ID: uuid.New(), Name: "Maturity", SortOrder: 3},
		{ID: uuid.New(), Name: "Growth", SortOrder: 2},
	}
	if _, err := repo.Create(ctx, nil, stages); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := repo.List(ctx, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"Introduction", "Growth", "Maturity", "Decline"}
	for i, name := range want {
		if got[i].Name != name {
			t.Fatalf("list order: got %s at %d, want %s", got[i].Name, i, name)
		}
	}
}

func TestStageTransitionRepoOrdering(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewStageTransitionRepo(gdb, newTestLogger(t))
	ctx := context.Background()

	productA := uuid.New()
	productB := uuid.New()
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	intro := "Introduction"

	rows := []*types.StageTransition{
		{ID: uuid.New(), ProductID: productB, ToStage: "Introduction", Segment: "Corporate", OccurredAt: base},
		{ID: uuid.New(), ProductID: productA, FromStage: &intro, ToStage: "Growth", Segment: "Corporate", OccurredAt: base.AddDate(0, 0, 40)},
		{ID: uuid.New(), ProductID: productA, ToStage: "Introduction", Segment: "Corporate", OccurredAt: base},
	}
	if _, err := repo.Append(ctx, nil, rows); err != nil {
		t.Fatalf("append: %v", err)
	}

	all, err := repo.ListAll(ctx, nil)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(all))
	}
	// within each product, occurrence order must hold
	seen := map[uuid.UUID]time.Time{}
	for _, tr := range all {
		if prev, ok := seen[tr.ProductID]; ok && tr.OccurredAt.Before(prev) {
			t.Fatalf("rows for product %s out of order", tr.ProductID)
		}
		seen[tr.ProductID] = tr.OccurredAt
	}

	recent, err := repo.ListRecent(ctx, nil, 2)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("limit ignored, got %d rows", len(recent))
	}
	if !recent[0].OccurredAt.After(recent[1].OccurredAt) && !recent[0].OccurredAt.Equal(recent[1].OccurredAt) {
		t.Fatalf("ListRecent not newest-first")
	}

	forA, err := repo.ListByProduct(ctx, nil, productA)
	if err != nil || len(forA) != 2 {
		t.Fatalf("ListByProduct = %d rows, %v", len(forA), err)
	}
	if forA[0].FromStage != nil {
		t.Fatalf("first event for product should have nil FromStage")
	}
}

func TestAnalyticsRepoCounts(t *testing.T) {
	gdb := newTestDB(t)
	log := newTestLogger(t)
	ctx := context.Background()

	segRepo := NewSegmentRepo(gdb, log)
	catRepo := NewCategoryRepo(gdb, log)
	stageRepo := NewStageRepo(gdb, log)
	prodRepo := NewProductRepo(gdb, log)
	analytics := NewAnalyticsRepo(gdb, log)

	corporate := &types.Segment{ID: uuid.New(), Name: "Corporate"}
	generation := &types.Segment{ID: uuid.New(), Name: "Generation"}
	category := &types.Category{ID: uuid.New(), Name: "Hardware"}
	intro := &types.Stage{ID: uuid.New(), Name: "Introduction", SortOrder: 1}
	growth := &types.Stage{ID: uuid.New(), Name: "Growth", SortOrder: 2}

	if _, err := segRepo.Create(ctx, nil, []*types.Segment{corporate, generation}); err != nil {
		t.Fatalf("seed segments: %v", err)
	}
	if _, err := catRepo.Create(ctx, nil, []*types.Category{category}); err != nil {
		t.Fatalf("seed category: %v", err)
	}
	if _, err := stageRepo.Create(ctx, nil, []*types.Stage{intro, growth}); err != nil {
		t.Fatalf("seed stages: %v", err)
	}

	now := time.Now().UTC()
	products := []*types.Product{
		{ID: uuid.New(), Name: "meter-a", CategoryID: category.ID, SegmentID: corporate.ID, StageID: intro.ID, StageChangedAt: now},
		{ID: uuid.New(), Name: "meter-b", CategoryID: category.ID, SegmentID: corporate.ID, StageID: growth.ID, StageChangedAt: now},
		{ID: uuid.New(), Name: "relay-a", CategoryID: category.ID, SegmentID: generation.ID, StageID: intro.ID, StageChangedAt: now},
	}
	if _, err := prodRepo.Create(ctx, nil, products); err != nil {
		t.Fatalf("seed products: %v", err)
	}

	dist, err := analytics.DistributionCounts(ctx, nil)
	if err != nil {
		t.Fatalf("DistributionCounts: %v", err)
	}
	byStage := map[string]int64{}
	for _, d := range dist {
		byStage[d.Stage] = d.Count
	}
	if byStage["Introduction"] != 2 || byStage["Growth"] != 1 {
		t.Fatalf("distribution wrong: %v", byStage)
	}

	snapshot, err := analytics.CurrentStageCounts(ctx, nil)
	if err != nil {
		t.Fatalf("CurrentStageCounts: %v", err)
	}
	found := false
	for _, m := range snapshot {
		if m.Segment == "Corporate" && m.Stage == "Introduction" && m.Count == 1 {
			found = true
		}
	}
	if !found {
		t.Fatalf("snapshot missing Corporate/Introduction=1: %v", snapshot)
	}

	segCounts, err := analytics.SegmentProductCounts(ctx, nil)
	if err != nil {
		t.Fatalf("SegmentProductCounts: %v", err)
	}
	bySegment := map[string]int64{}
	for _, sc := range segCounts {
		bySegment[sc.Segment] = sc.Count
	}
	if bySegment["Corporate"] != 2 || bySegment["Generation"] != 1 {
		t.Fatalf("segment counts wrong: %v", bySegment)
	}
}

func TestAnalyticsRepoMatrixCountsTransitions(t *testing.T) {
	gdb := newTestDB(t)
	log := newTestLogger(t)
	ctx := context.Background()

	transitionRepo := NewStageTransitionRepo(gdb, log)
	analytics := NewAnalyticsRepo(gdb, log)

	intro := "Introduction"
	growth := "Growth"
	base := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	rows := []*types.StageTransition{
		// first assignments have no origin and must stay out of the matrix
		{ID: uuid.New(), ProductID: uuid.New(), ToStage: "Introduction", Segment: "Corporate", OccurredAt: base},
		{ID: uuid.New(), ProductID: uuid.New(), FromStage: &intro, ToStage: "Growth", Segment: "Corporate", OccurredAt: base.AddDate(0, 0, 10)},
		{ID: uuid.New(), ProductID: uuid.New(), FromStage: &intro, ToStage: "Growth", Segment: "Generation", OccurredAt: base.AddDate(0, 0, 20)},
		{ID: uuid.New(), ProductID: uuid.New(), FromStage: &growth, ToStage: "Maturity", Segment: "Corporate", OccurredAt: base.AddDate(0, 0, 30)},
	}
	if _, err := transitionRepo.Append(ctx, nil, rows); err != nil {
		t.Fatalf("append: %v", err)
	}

	matrix, err := analytics.MatrixCounts(ctx, nil)
	if err != nil {
		t.Fatalf("MatrixCounts: %v", err)
	}
	if len(matrix) != 2 {
		t.Fatalf("expected 2 from→to pairs, got %+v", matrix)
	}
	byPair := map[string]int64{}
	for _, m := range matrix {
		byPair[m.FromStage+"/"+m.ToStage] = m.Count
	}
	if byPair["Introduction/Growth"] != 2 || byPair["Growth/Maturity"] != 1 {
		t.Fatalf("matrix counts wrong: %v", byPair)
	}
}
