package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"formsmith/internal/form"
	"formsmith/internal/log"
	"formsmith/internal/service"
	"formsmith/internal/session"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps service and session errors to HTTP statuses.
// extra fields, such as the current session, are merged into the body.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, extra map[string]interface{}) {
	body := map[string]interface{}{"error": err.Error()}
	for k, v := range extra {
		body[k] = v
	}

	var (
		verrs  form.ValidationErrors
		defErr *form.DefinitionError
		subErr *session.SubmissionError
	)
	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &verrs):
		status = http.StatusUnprocessableEntity
		body["error"] = "validation failed"
		body["fields"] = verrs
	case errors.As(err, &defErr):
		status = http.StatusBadRequest
		body["problems"] = defErr.Problems
	case errors.As(err, &subErr):
		status = http.StatusBadGateway
		body["error"] = "could not store the response, please retry"
		body["retryable"] = subErr.Retryable()
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, session.ErrSubmitInProgress),
		errors.Is(err, session.ErrNotLastSection),
		errors.Is(err, session.ErrAlreadySubmitted):
		status = http.StatusConflict
	case errors.Is(err, session.ErrUnknownQuestion):
		status = http.StatusNotFound
	case errors.Is(err, session.ErrAnswerShape),
		errors.Is(err, session.ErrUnknownOption),
		errors.Is(err, session.ErrSectionOutOfRange),
		errors.Is(err, session.ErrFormMismatch):
		status = http.StatusBadRequest
	}

	if status >= http.StatusInternalServerError {
		log.WithFields(log.Fields{"method": r.Method, "path": r.URL.Path}).WithError(err).Error("request failed")
		if status == http.StatusInternalServerError {
			body["error"] = "internal error"
		}
	}
	writeJSON(w, status, body)
}
