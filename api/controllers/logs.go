package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/artemvolkov/furnistock-backend/api/responses"
	"github.com/artemvolkov/furnistock-backend/api/validators"
	"github.com/artemvolkov/furnistock-backend/internal/auditlog"
	"github.com/artemvolkov/furnistock-backend/pkg/enums"
	pkgerrors "github.com/artemvolkov/furnistock-backend/pkg/errors"
	"github.com/artemvolkov/furnistock-backend/pkg/logger"
	"github.com/artemvolkov/furnistock-backend/pkg/pagination"
)

// LogsUserActivity returns the audit trail for one user, newest first.
func LogsUserActivity(svc auditlog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		params, err := paginationParams(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		page, err := svc.UserActivity(ctx, userID, params)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// LogsRecentActions returns recent audit entries for one action type.
func LogsRecentActions(svc auditlog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		action, err := enums.ParseLogAction(chi.URLParam(r, "action"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid log action"))
			return
		}

		params, err := paginationParams(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		page, err := svc.RecentActions(ctx, action, params)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func paginationParams(r *http.Request) (pagination.Params, error) {
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{
		Limit:  limit,
		Cursor: r.URL.Query().Get("cursor"),
	}, nil
}
