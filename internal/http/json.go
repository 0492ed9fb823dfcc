package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// DecodeJSON decodes JSON from the request body into the destination and handles errors.
// Returns true if successful, false if there was an error (error response already written).
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_json", Err: err})
		return false
	}

	return true
}

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		// Response writer errors (e.g., client disconnect) can't be recovered from here.
		return
	}
}

// genericServerErrorMessage is the only message 5xx responses may carry.
// Internal error detail stays in the logs.
const genericServerErrorMessage = "An unexpected error occurred. Please try again later."

// ErrorParams groups parameters for WriteError to adhere to the ≤3 params guideline.
type ErrorParams struct {
	Code    int
	ErrCode string // machine-readable code for the "code" field
	Message string // human-readable message; derived from Err on 4xx when empty
	Err     error
}

// errorBody is the wire shape for error responses: "error" carries the
// human-readable message, "code" the machine-readable classification.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// WriteError writes a JSON error response using ErrorParams. Server-side
// failures (5xx) never expose Err to the client; callers log the detail.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	msg := p.Message
	if msg == "" {
		switch {
		case p.Code >= http.StatusInternalServerError:
			msg = genericServerErrorMessage
		case p.Err != nil:
			msg = p.Err.Error()
		default:
			msg = http.StatusText(p.Code)
		}
	}
	WriteJSON(w, p.Code, errorBody{Error: msg, Code: p.ErrCode})
}
