package services

import (
	"context"
	"errors"
	"testing"

	"github.com/evergrid/lifecycle-backend/internal/repos"
	"github.com/evergrid/lifecycle-backend/internal/utils"
)

func newUserService(env *testEnv) UserService {
	userRepo := repos.NewUserRepo(env.db, env.log)
	roleRepo := repos.NewRoleRepo(env.db, env.log)
	jobPositionRepo := repos.NewJobPositionRepo(env.db, env.log)
	return NewUserService(env.db, env.log, userRepo, roleRepo, jobPositionRepo)
}

func TestUserCreateHashesPassword(t *testing.T) {
	env := newTestEnv(t)
	svc := newUserService(env)
	ctx := context.Background()

	user, err := svc.Create(ctx, UserInput{
		Email:     "Ops.Admin@Example.com",
		Password:  "correct horse battery",
		FirstName: "Sam",
		LastName:  "Ruiz",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if user.Email != "ops.admin@example.com" {
		t.Fatalf("email should be normalized, got %s", user.Email)
	}
	if user.Password == "correct horse battery" {
		t.Fatalf("password stored in plaintext")
	}
	if !utils.CheckPassword(user.Password, "correct horse battery") {
		t.Fatalf("stored hash does not verify")
	}
}

func TestUserCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	svc := newUserService(env)
	ctx := context.Background()

	if _, err := svc.Create(ctx, UserInput{Email: "", Password: "longenough"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing email should be ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Create(ctx, UserInput{Email: "a@b.c", Password: "short"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("short password should be ErrInvalidInput, got %v", err)
	}
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	svc := newUserService(env)
	ctx := context.Background()

	input := UserInput{Email: "dup@example.com", Password: "longenough", FirstName: "A", LastName: "B"}
	if _, err := svc.Create(ctx, input); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.Create(ctx, input); !errors.Is(err, repos.ErrDuplicate) {
		t.Fatalf("duplicate email should be ErrDuplicate, got %v", err)
	}
}
