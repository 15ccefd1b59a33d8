package handlers

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"sandbox-delivery-service/internal/api/dto"
	"sandbox-delivery-service/internal/apperr"
	"sandbox-delivery-service/internal/platform/obs"
)

// writeJSON encodes v before writing the header so an encode failure
// becomes a 500 instead of an empty success.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		log.Printf("encode failed: request_id=%s method=%s path=%s err=%v", obs.RequestID(r.Context()), r.Method, r.URL.Path, err)
		status = http.StatusInternalServerError
		buf.Reset()
		_ = json.NewEncoder(&buf).Encode(dto.ErrorResponse{Error: "internal server error", Kind: "internal"})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("write failed: request_id=%s method=%s path=%s err=%v", obs.RequestID(r.Context()), r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, dto.ErrorResponse{Error: msg})
}

// writeAppError maps a store error to its HTTP status and payload.
func writeAppError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("request_id=%s %s failed: %v", obs.RequestID(r.Context()), op, err)
	}

	writeJSON(w, r, status, dto.ErrorResponse{
		Error: apperr.Message(err),
		Kind:  apperr.Kind(err),
	})
}
