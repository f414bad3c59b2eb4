package controllers

import (
	"net/http"

	"github.com/artemvolkov/furnistock-backend/api/responses"
	"github.com/artemvolkov/furnistock-backend/pkg/config"
	"github.com/artemvolkov/furnistock-backend/pkg/db"
	pkgerrors "github.com/artemvolkov/furnistock-backend/pkg/errors"
	"github.com/artemvolkov/furnistock-backend/pkg/logger"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-FurniStock-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, client *db.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		w.Header().Set("X-FurniStock-Env", cfg.App.Env)

		if client != nil {
			if err := client.Ping(ctx); err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db ping"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
