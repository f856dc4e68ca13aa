package repos

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"gorm not found", gorm.ErrRecordNotFound, ErrNotFound},
		{"context canceled", context.Canceled, ErrRetryable},
		{"pg unique violation", &pgconn.PgError{Code: "23505"}, ErrDuplicate},
		{"pg fk violation", &pgconn.PgError{Code: "23503"}, ErrReferenced},
		{"pg serialization failure", &pgconn.PgError{Code: "40001"}, ErrRetryable},
		{"pg deadlock", &pgconn.PgError{Code: "40P01"}, ErrRetryable},
		{"sqlite unique message", fmt.Errorf("UNIQUE constraint failed: segment.name"), ErrDuplicate},
		{"fk message", fmt.Errorf("FOREIGN KEY constraint failed"), ErrReferenced},
		{"already classified", ErrDuplicate, ErrDuplicate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.in)
			if tt.want == nil {
				if got != nil {
					t.Fatalf("MapError(nil) = %v", got)
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Fatalf("MapError(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMapErrorPassthrough(t *testing.T) {
	plain := fmt.Errorf("connection refused")
	got := MapError(plain)
	for _, sentinel := range []error{ErrNotFound, ErrDuplicate, ErrReferenced, ErrRetryable} {
		if errors.Is(got, sentinel) {
			t.Fatalf("unclassifiable error must not match %v", sentinel)
		}
	}
}
