package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gogpu/retouch"
	rimage "github.com/gogpu/retouch/internal/image"
	"github.com/gogpu/retouch/raster"
	"github.com/gogpu/retouch/region"
)

var (
	errSessionNotFound = errors.New("server: session not found")
	errBadRequest      = errors.New("server: bad request")
)

// statusOf maps domain errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, errSessionNotFound), errors.Is(err, retouch.ErrStickerNotFound):
		return http.StatusNotFound
	case errors.Is(err, retouch.ErrExternalOperation):
		// checked before ErrDecode, which an undecodable reply also matches
		return http.StatusBadGateway
	case errors.Is(err, errBadRequest),
		errors.Is(err, raster.ErrDecode),
		errors.Is(err, raster.ErrUnsupportedFormat):
		return http.StatusBadRequest
	case errors.Is(err, region.ErrInvalidRegion), errors.Is(err, rimage.ErrInvalidSize):
		return http.StatusUnprocessableEntity
	case errors.Is(err, retouch.ErrBusy), errors.Is(err, retouch.ErrEmptyHistory):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return http.StatusRequestEntityTooLarge
		}
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusOf(err), map[string]string{"error": err.Error()})
}

// decodeJSON reads a JSON request body into v.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}
