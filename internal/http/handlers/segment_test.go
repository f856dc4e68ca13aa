package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/evergrid/lifecycle-backend/internal/pkg/logger"
	"github.com/evergrid/lifecycle-backend/internal/repos"
	"github.com/evergrid/lifecycle-backend/internal/services"
	"github.com/evergrid/lifecycle-backend/internal/types"
)

type stubSegmentService struct {
	services.SegmentService
	segments []*types.Segment
	getErr   error
}

func (s *stubSegmentService) List(ctx context.Context) ([]*types.Segment, error) {
	return s.segments, nil
}

func (s *stubSegmentService) Get(ctx context.Context, id uuid.UUID) (*types.Segment, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.segments[0], nil
}

func newSegmentRouter(t *testing.T, svc services.SegmentService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	h := NewSegmentHandler(log, svc)
	r := gin.New()
	r.GET("/api/segments", h.List)
	r.GET("/api/segments/:id", h.Get)
	return r
}

func TestSegmentListEnvelope(t *testing.T) {
	svc := &stubSegmentService{segments: []*types.Segment{
		{ID: uuid.New(), Name: "Corporate"},
	}}
	r := newSegmentRouter(t, svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/segments", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Segments []types.Segment `json:"segments"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !body.Success {
		t.Fatalf("success should be true")
	}
	if len(body.Data.Segments) != 1 || body.Data.Segments[0].Name != "Corporate" {
		t.Fatalf("data wrong: %+v", body.Data)
	}
}

func TestSegmentGetErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", repos.ErrNotFound, http.StatusNotFound},
		{"duplicate", repos.ErrDuplicate, http.StatusConflict},
		{"referenced", repos.ErrReferenced, http.StatusConflict},
		{"invalid input", services.ErrInvalidInput, http.StatusBadRequest},
		{"unknown", context.DeadlineExceeded, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newSegmentRouter(t, &stubSegmentService{getErr: tt.err})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/segments/"+uuid.NewString(), nil)
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			var body struct {
				Success bool   `json:"success"`
				Message string `json:"message"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if body.Success {
				t.Fatalf("success should be false on error")
			}
			if strings.TrimSpace(body.Message) == "" {
				t.Fatalf("error envelope needs a message")
			}
		})
	}
}

func TestSegmentGetInvalidID(t *testing.T) {
	r := newSegmentRouter(t, &stubSegmentService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/segments/not-a-uuid", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
