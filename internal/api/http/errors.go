package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/campusgrid/assessment-service/internal/core"
)

// writeErr maps the domain error taxonomy onto HTTP statuses. Validation
// kinds carry field detail through as-is; everything untyped is a 500.
func writeErr(w http.ResponseWriter, err error) {
	var e *core.Error
	if !errors.As(err, &e) {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	status := http.StatusInternalServerError
	switch e.Kind {
	case core.KindValidation, core.KindNoCorrectOption, core.KindInvalidDateRange,
		core.KindScoreOutOfRange, core.KindIndexOutOfRange, core.KindIncompleteAnswers:
		status = http.StatusUnprocessableEntity
	case core.KindInvalidTransition, core.KindConcurrentModification:
		status = http.StatusConflict
	case core.KindNotFound:
		status = http.StatusNotFound
	}
	writeJSON(w, status, e)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
