package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/artemvolkov/furnistock-backend/internal/auditlog"
	"github.com/artemvolkov/furnistock-backend/pkg/enums"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// maxAuditBodyBytes caps how much of a request body the audit trail keeps.
const maxAuditBodyBytes = 64 * 1024

// Audit records the request outcome to the audit trail after the handler
// completes. Recording is fire-and-forget: the response is written before any
// audit work happens, and recorder failures never surface to the client.
func Audit(recorder *auditlog.Recorder, action enums.LogAction, targetModel enums.TargetModel) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if recorder == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var requestBody []byte
			if r.Body != nil {
				requestBody, _ = io.ReadAll(io.LimitReader(r.Body, maxAuditBodyBytes))
				r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(requestBody), r.Body))
			}

			rec := &statusRecorder{ResponseWriter: w, body: &bytes.Buffer{}}
			next.ServeHTTP(rec, r)

			if rec.status == 0 {
				rec.status = http.StatusOK
			}

			entry := buildEntry(r, rec, action, targetModel, requestBody)
			recorder.Record(r.Context(), entry)
		})
	}
}

func buildEntry(r *http.Request, rec *statusRecorder, action enums.LogAction, targetModel enums.TargetModel, requestBody []byte) auditlog.Entry {
	entry := auditlog.Entry{
		Action:    action,
		IPAddress: clientIP(r),
		UserAgent: r.UserAgent(),
		Status:    enums.LogStatusSuccess,
	}
	if targetModel.IsValid() {
		entry.TargetModel = &targetModel
	}

	if actor, err := uuid.Parse(UserIDFromContext(r.Context())); err == nil {
		entry.UserID = actor
	}

	if targetID := extractTargetID(r, rec.body.Bytes()); targetID != uuid.Nil {
		entry.TargetID = &targetID
	}

	details := map[string]any{
		"method": r.Method,
		"path":   r.URL.Path,
	}
	if query := r.URL.RawQuery; query != "" {
		details["query"] = query
	}
	if params := routeParams(r); len(params) > 0 {
		details["params"] = params
	}
	if len(requestBody) > 0 {
		var body any
		if err := json.Unmarshal(requestBody, &body); err == nil {
			details["body"] = body
		}
	}
	if blob, err := json.Marshal(details); err == nil {
		entry.Details = blob
	}

	if rec.status >= http.StatusBadRequest {
		entry.Status = enums.LogStatusFailure
		if msg := extractErrorMessage(rec.body.Bytes()); msg != "" {
			entry.Error = &msg
		}
	}
	return entry
}

// extractTargetID prefers the id of the entity in the response envelope and
// falls back to the id route parameter.
func extractTargetID(r *http.Request, responseBody []byte) uuid.UUID {
	var envelope struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(responseBody, &envelope); err == nil {
		if id, err := uuid.Parse(envelope.Data.ID); err == nil {
			return id
		}
	}
	if param := chi.URLParam(r, "id"); param != "" {
		if id, err := uuid.Parse(param); err == nil {
			return id
		}
	}
	return uuid.Nil
}

func extractErrorMessage(responseBody []byte) string {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(responseBody, &envelope); err != nil {
		return ""
	}
	return envelope.Error.Message
}

func routeParams(r *http.Request) map[string]string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return nil
	}
	params := map[string]string{}
	for i, key := range rctx.URLParams.Keys {
		if key == "*" {
			continue
		}
		params[key] = rctx.URLParams.Values[i]
	}
	return params
}
