package httpapi

import (
	"encoding/json"
	"net/http"
)

// errorDetail is the wire shape of every non-2xx response. Codes are
// short machine-readable strings ("scrape_running", "bad_status") so
// clients can branch without parsing the message.
type errorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

type errorResponse struct {
	Error errorDetail `json:"error"`
}

// WriteJSON encodes v with an explicit status. Encoding errors are not
// recoverable once the header is written, so they are ignored.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError sends the standard error envelope, stamped with the
// request id so a client can quote it when reporting a problem.
func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	WriteJSON(w, status, errorResponse{Error: errorDetail{
		Code:      code,
		Message:   message,
		RequestID: RequestIDFrom(r.Context()),
	}})
}
