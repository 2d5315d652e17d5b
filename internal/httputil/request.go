package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// maxBodyBytes limits request bodies; chat history is the largest payload
const maxBodyBytes = 1 << 20

// ParseJSON decodes JSON from the request body into the given destination.
// The body is capped at 1 MB and must be a single object without unknown fields.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if decoder.More() {
		return errors.New("invalid JSON: body must hold a single object")
	}

	return nil
}
