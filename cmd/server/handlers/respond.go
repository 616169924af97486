package handlers

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/kimhsiao/taskline/internal/errors"
	"github.com/kimhsiao/taskline/internal/logging"
)

// messageBody is the JSON body used for confirmations and all error paths.
type messageBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.WithFields(map[string]interface{}{"error": err.Error()}).
			Error("failed to encode response")
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageBody{Message: message})
}

// writeError maps an application error to its HTTP status and renders the
// {message} body.
func writeError(w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		logging.WithFields(map[string]interface{}{"error": err.Error()}).
			Error("request failed")
	}
	writeMessage(w, status, apperrors.UserMessage(err))
}
