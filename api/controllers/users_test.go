package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/artemvolkov/furnistock-backend/api/middleware"
	"github.com/artemvolkov/furnistock-backend/internal/users"
	"github.com/artemvolkov/furnistock-backend/pkg/enums"
	pkgerrors "github.com/artemvolkov/furnistock-backend/pkg/errors"
	"github.com/artemvolkov/furnistock-backend/pkg/logger"
)

func TestRegisterHandler(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})

	makeRequest := func(body string, stub *stubUsersService) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/users/register", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		Register(stub, logg).ServeHTTP(rec, req)
		return rec
	}

	t.Run("missing email", func(t *testing.T) {
		rec := makeRequest(`{"full_name":"Lena","password":"supersecret"}`, &stubUsersService{})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for missing email, got %d", rec.Code)
		}
	})

	t.Run("short password", func(t *testing.T) {
		rec := makeRequest(`{"full_name":"Lena","email":"lena@example.com","password":"short"}`, &stubUsersService{})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for short password, got %d", rec.Code)
		}
	})

	t.Run("duplicate email surfaces as validation", func(t *testing.T) {
		stub := &stubUsersService{
			registerErr: pkgerrors.New(pkgerrors.CodeValidation, "Email already registered"),
		}
		rec := makeRequest(`{"full_name":"Lena","email":"lena@example.com","password":"supersecret"}`, stub)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for duplicate email, got %d", rec.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		userID := uuid.New()
		stub := &stubUsersService{
			registerResult: &users.UserDTO{ID: userID, Email: "lena@example.com", Role: enums.RoleModerator, IsActive: true},
		}
		rec := makeRequest(`{"full_name":"Lena","email":"lena@example.com","password":"supersecret"}`, stub)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201 on success, got %d: %s", rec.Code, rec.Body.String())
		}

		var envelope struct {
			Data users.UserDTO `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if envelope.Data.ID != userID {
			t.Fatalf("expected user id %s, got %s", userID, envelope.Data.ID)
		}
	})
}

func TestAssignRoleHandler(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
	targetID := uuid.New()

	makeRequest := func(pathID, body string, stub *stubUsersService) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPatch, "/api/v1/users/"+pathID+"/role", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		routeCtx := chi.NewRouteContext()
		routeCtx.URLParams.Add("id", pathID)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
		rec := httptest.NewRecorder()
		AssignRole(stub, logg).ServeHTTP(rec, req)
		return rec
	}

	t.Run("unknown role", func(t *testing.T) {
		rec := makeRequest(targetID.String(), `{"role":"superuser"}`, &stubUsersService{})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for unknown role, got %d", rec.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		stub := &stubUsersService{
			assignResult: &users.UserDTO{ID: targetID, Role: enums.RoleManager},
		}
		rec := makeRequest(targetID.String(), `{"role":"manager"}`, stub)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 on success, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.assignedRole != enums.RoleManager {
			t.Fatalf("expected manager role assignment, got %q", stub.assignedRole)
		}
	})
}

func TestDeactivateUserPassesActorFromContext(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
	actorID := uuid.New()
	targetID := uuid.New()

	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("id", targetID.String())
	ctx := context.WithValue(context.Background(), chi.RouteCtxKey, routeCtx)
	ctx = middleware.WithUserID(ctx, actorID.String())

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/users/"+targetID.String()+"/deactivate", nil)
	req = req.WithContext(ctx)

	stub := &stubUsersService{}
	rec := httptest.NewRecorder()
	DeactivateUser(stub, logg).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.deactivateActor != actorID || stub.deactivateTarget != targetID {
		t.Fatalf("Deactivate called with wrong ids: actor=%s target=%s", stub.deactivateActor, stub.deactivateTarget)
	}
}

type stubUsersService struct {
	registerResult *users.UserDTO
	registerErr    error
	assignResult   *users.UserDTO
	assignedRole   enums.Role

	deactivateActor  uuid.UUID
	deactivateTarget uuid.UUID
}

func (s *stubUsersService) Register(ctx context.Context, input users.RegisterInput) (*users.UserDTO, error) {
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	return s.registerResult, nil
}

func (s *stubUsersService) Login(ctx context.Context, input users.LoginInput) (*users.LoginResult, error) {
	panic("unimplemented")
}

func (s *stubUsersService) Profile(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	panic("unimplemented")
}

func (s *stubUsersService) UpdateProfile(ctx context.Context, userID uuid.UUID, input users.UpdateProfileInput) (*users.UserDTO, error) {
	panic("unimplemented")
}

func (s *stubUsersService) List(ctx context.Context) ([]*users.UserDTO, error) {
	panic("unimplemented")
}

func (s *stubUsersService) Get(ctx context.Context, id uuid.UUID) (*users.UserDTO, error) {
	panic("unimplemented")
}

func (s *stubUsersService) AssignRole(ctx context.Context, targetID uuid.UUID, role enums.Role) (*users.UserDTO, error) {
	s.assignedRole = role
	return s.assignResult, nil
}

func (s *stubUsersService) Deactivate(ctx context.Context, actorID, targetID uuid.UUID) error {
	s.deactivateActor = actorID
	s.deactivateTarget = targetID
	return nil
}

func (s *stubUsersService) Activate(ctx context.Context, targetID uuid.UUID) error {
	return nil
}
