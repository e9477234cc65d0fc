package http

import (
	"encoding/json"
	"net/http"
)

// errorBody is the envelope every non-2xx JSON response carries. Type is one
// of the log.ErrorType* categories so clients can branch without parsing
// messages.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeJSONBytes sends an already-marshaled payload, used by the response
// cache to skip re-encoding.
func writeJSONBytes(w http.ResponseWriter, payload []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, errType, message string) {
	writeJSON(w, status, errorBody{Error: errorDetail{
		Type:      errType,
		Message:   message,
		RequestID: requestIDFromContext(r.Context()),
	}})
}
