package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/artemvolkov/furnistock-backend/internal/auditlog"
	"github.com/artemvolkov/furnistock-backend/pkg/db/models"
	"github.com/artemvolkov/furnistock-backend/pkg/enums"
	"github.com/artemvolkov/furnistock-backend/pkg/logger"
)

type captureStore struct {
	mu      sync.Mutex
	entries []*models.AuditLog
}

func (c *captureStore) Append(_ context.Context, entry *models.AuditLog) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, entry)
	return nil
}

func (c *captureStore) last(t *testing.T) *models.AuditLog {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) == 0 {
		t.Fatal("no audit entries recorded")
	}
	return c.entries[len(c.entries)-1]
}

func TestAuditRecordsOutcome(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
	actorID := uuid.New()
	targetID := uuid.New()

	t.Run("success entry carries target id from response", func(t *testing.T) {
		store := &captureStore{}
		recorder := auditlog.NewRecorder(store, logg, 8)

		handler := Audit(recorder, enums.LogActionFurnitureAdded, enums.TargetModelFurniture)(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusCreated)
				json.NewEncoder(w).Encode(map[string]any{"data": map[string]string{"id": targetID.String()}})
			}),
		)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/furniture", strings.NewReader(`{"name":"oak table"}`))
		req = req.WithContext(WithUserID(req.Context(), actorID.String()))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		// Close drains the queue so the entry is visible.
		recorder.Close()

		entry := store.last(t)
		if entry.Action != enums.LogActionFurnitureAdded {
			t.Fatalf("expected furniture_added action, got %q", entry.Action)
		}
		if entry.Status != enums.LogStatusSuccess {
			t.Fatalf("expected success status, got %q", entry.Status)
		}
		if entry.UserID != actorID {
			t.Fatalf("expected actor %s, got %s", actorID, entry.UserID)
		}
		if entry.TargetID == nil || *entry.TargetID != targetID {
			t.Fatalf("expected target %s, got %v", targetID, entry.TargetID)
		}
	})

	t.Run("failure entry captures error message", func(t *testing.T) {
		store := &captureStore{}
		recorder := auditlog.NewRecorder(store, logg, 8)

		handler := Audit(recorder, enums.LogActionFurnitureDeleted, enums.TargetModelFurniture)(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(map[string]any{"error": map[string]string{"code": "not_found", "message": "furniture not found"}})
			}),
		)

		routeCtx := chi.NewRouteContext()
		routeCtx.URLParams.Add("id", targetID.String())
		ctx := context.WithValue(context.Background(), chi.RouteCtxKey, routeCtx)
		ctx = WithUserID(ctx, actorID.String())

		req := httptest.NewRequest(http.MethodDelete, "/api/v1/furniture/"+targetID.String(), nil)
		req = req.WithContext(ctx)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		recorder.Close()

		entry := store.last(t)
		if entry.Status != enums.LogStatusFailure {
			t.Fatalf("expected failure status, got %q", entry.Status)
		}
		if entry.Error == nil || *entry.Error != "furniture not found" {
			t.Fatalf("expected error message captured, got %v", entry.Error)
		}
		if entry.TargetID == nil || *entry.TargetID != targetID {
			t.Fatalf("expected target from route param, got %v", entry.TargetID)
		}
	})

	t.Run("response still written before recording", func(t *testing.T) {
		store := &captureStore{}
		recorder := auditlog.NewRecorder(store, logg, 8)
		defer recorder.Close()

		handler := Audit(recorder, enums.LogActionUserLogin, enums.TargetModelUser)(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte(`{"data":{"token":"x"}}`))
			}),
		)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", strings.NewReader(`{"email":"a@b.c","password":"pw"}`))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 passthrough, got %d", rec.Code)
		}
		if rec.Body.String() != `{"data":{"token":"x"}}` {
			t.Fatalf("unexpected body: %s", rec.Body.String())
		}
	})
}
