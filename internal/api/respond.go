package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dgallion1/docnav/internal/hvd"
	"github.com/dgallion1/docnav/internal/logging"
	"github.com/dgallion1/docnav/internal/navtree"
	"github.com/dgallion1/docnav/internal/vartree"
	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// decodeJSON reads a JSON request body into v.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("%w: body exceeds %d bytes", errBodyTooLarge, maxErr.Limit)
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

var (
	errBadRequest   = errors.New("invalid request body")
	errBodyTooLarge = errors.New("request body too large")
)

// writeError maps domain errors onto status codes.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, navtree.ErrNotFound), errors.Is(err, hvd.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, vartree.ErrInvalidKey), errors.Is(err, vartree.ErrDuplicateKey):
		code = http.StatusUnprocessableEntity
	case errors.Is(err, errBodyTooLarge):
		code = http.StatusRequestEntityTooLarge
	case errors.Is(err, errBadRequest):
		code = http.StatusBadRequest
	}
	if code >= http.StatusInternalServerError {
		logging.FromContext(r.Context()).Error("request failed", zap.Error(err))
		jsonError(w, "internal server error", code)
		return
	}
	jsonError(w, err.Error(), code)
}
