package utils

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/awantoch/gemini-proxy/constants"
)

// ErrorBody is the envelope every locally generated error uses:
// {"error":{"message":"..."}}.
type ErrorBody struct {
	Error ErrorMessage `json:"error"`
}

type ErrorMessage struct {
	Message string `json:"message"`
}

// NewErrorBody builds the envelope for message.
func NewErrorBody(message string) ErrorBody {
	return ErrorBody{Error: ErrorMessage{Message: message}}
}

// WriteHTTPJSON marshals v and writes it with the given status.
func WriteHTTPJSON(w http.ResponseWriter, status int, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return WriteRawJSON(w, status, data)
}

// WriteRawJSON writes already-encoded JSON with the given status.
func WriteRawJSON(w http.ResponseWriter, status int, data []byte) error {
	w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	w.WriteHeader(status)
	_, err := w.Write(data)
	return err
}

// RedactURL drops the query string, which is where the upstream key travels.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid url>"
	}
	u.RawQuery = ""
	u.User = nil
	return u.String()
}
