package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"manifesto-reader/internal/domain"
	apperrors "manifesto-reader/pkg/errors"

	"github.com/gorilla/mux"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// writeAppError maps err to its HTTP status. Server-side failures are logged.
func writeAppError(w http.ResponseWriter, logger domain.Logger, err error) {
	appErr := apperrors.FromDomain(err)
	if appErr.StatusCode >= http.StatusInternalServerError {
		logger.Error("Request failed", err, "type", appErr.Type)
	}
	body := map[string]string{"error": appErr.Message, "type": string(appErr.Type)}
	if appErr.Details != "" && appErr.Type == apperrors.ErrorTypeValidation {
		body["details"] = appErr.Details
	}
	writeJSON(w, appErr.StatusCode, body)
}

// decodeJSON decodes a bounded JSON body into dst. An empty body leaves dst untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apperrors.NewValidationError("invalid request body", err)
	}
	return nil
}

// pageVar parses the {page} route variable.
func pageVar(r *http.Request) (int, error) {
	raw := mux.Vars(r)["page"]
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, apperrors.NewValidationError("invalid page number", fmt.Errorf("page %q: %w", raw, domain.ErrInvalidArgument))
	}
	return page, nil
}
