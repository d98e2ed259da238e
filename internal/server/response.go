package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/roach88/featureql/internal/features"
	"github.com/roach88/featureql/internal/queryir"
)

const (
	contentTypeJSON    = "application/json"
	contentTypeGeoJSON = "application/geo+json"
)

// errorBody is the JSON body of every error response.
type errorBody struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// link is an OGC API link object.
type link struct {
	Href  string `json:"href"`
	Rel   string `json:"rel"`
	Type  string `json:"type,omitempty"`
	Title string `json:"title,omitempty"`
}

// statusFor maps an error code to its HTTP status.
func statusFor(code queryir.ErrorCode) int {
	switch code {
	case queryir.CodeInvalidParameter, queryir.CodeUnsupportedParameter:
		return http.StatusBadRequest
	case queryir.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func errNotFoundRoute(path string) *queryir.Error {
	return &queryir.Error{
		Code:    queryir.CodeNotFound,
		Message: fmt.Sprintf("no resource at %s", path),
	}
}

// writeError renders err. Causes of server-side failures are logged,
// never sent.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var qe *queryir.Error
	if !errors.As(err, &qe) {
		qe = &queryir.Error{Code: "INTERNAL", Message: "internal error", Err: err}
	}

	status := statusFor(qe.Code)
	body := errorBody{Code: string(qe.Code), Description: qe.Message}
	if qe.Param != "" {
		body.Description = qe.Param + ": " + qe.Message
	}

	if status == http.StatusInternalServerError {
		slog.Error("request failed",
			"request_id", features.RequestIDFrom(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
		if qe.Code == queryir.CodeQueryExecutionFailed {
			body.Description = "query execution failed"
		}
	}

	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	writeBody(w, status, contentTypeJSON, v)
}

func writeBody(w http.ResponseWriter, status int, contentType string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("encode response", "error", err)
		http.Error(w, `{"code":"INTERNAL","description":"encode response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
