package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/hperssn/unibalance/internal/domain"
	"github.com/hperssn/unibalance/internal/exercise"
	"github.com/hperssn/unibalance/internal/media"
	"github.com/hperssn/unibalance/internal/quiz"
	"github.com/hperssn/unibalance/internal/runner"
)

func respondJSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// respondErr picks the status from the error. Permission problems carry a
// retry flag so the client knows it may ask the user again.
func respondErr(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("request failed: %v", err)
	}
	if errors.Is(err, media.ErrPermissionDenied) {
		respondJSON(w, map[string]any{"error": err.Error(), "retry": true}, status)
		return
	}
	respondError(w, err.Error(), status)
}

func statusFor(err error) int {
	var tooBig *http.MaxBytesError
	switch {
	case errors.As(err, &tooBig):
		return http.StatusRequestEntityTooLarge

	case errors.Is(err, runner.ErrSessionNotFound),
		errors.Is(err, quiz.ErrQuizNotFound),
		errors.Is(err, media.ErrClipNotFound):
		return http.StatusNotFound

	case errors.Is(err, exercise.ErrUnknownExercise),
		errors.Is(err, exercise.ErrInvalidMinutes),
		errors.Is(err, exercise.ErrInvalidSpeed),
		errors.Is(err, quiz.ErrInvalidOption),
		errors.Is(err, domain.ErrInvalidTotal),
		errors.Is(err, media.ErrEmptyClip):
		return http.StatusBadRequest

	case errors.Is(err, media.ErrPermissionDenied):
		return http.StatusForbidden

	case errors.Is(err, runner.ErrAlreadyRunning),
		errors.Is(err, runner.ErrNotRunning),
		errors.Is(err, runner.ErrNotResizable),
		errors.Is(err, runner.ErrStopped),
		errors.Is(err, domain.ErrCountdownFinished),
		errors.Is(err, domain.ErrQuizFinished),
		errors.Is(err, quiz.ErrInProgress),
		errors.Is(err, media.ErrInvalidState):
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
