package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/atinyakov/GophDate/internal/datemath"
	"github.com/atinyakov/GophDate/internal/models"
	"github.com/atinyakov/GophDate/internal/service"
)

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var parseErr *datemath.DateParseError
	switch {
	case errors.As(err, &parseErr),
		errors.Is(err, datemath.ErrInvalidArgument),
		errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrDuplicateUser):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// writeError answers with the status of err. Internal failures are not
// described to the caller.
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	http.Error(w, msg, status)
}

// HistoryWarningHeader is set when a calculation succeeded but was not
// added to the history.
const HistoryWarningHeader = "X-History-Warning"

// respond writes v, or the error when the calculation itself failed.
func respond(w http.ResponseWriter, v any, err error) {
	var notSaved *service.NotSavedError
	if errors.As(err, &notSaved) {
		w.Header().Set(HistoryWarningHeader, "calculation not saved to history")
		err = nil
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, v)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
