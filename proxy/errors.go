package proxy

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/awantoch/gemini-proxy/constants"
	"github.com/awantoch/gemini-proxy/utils"
)

// Kind classifies a failed request.
type Kind int

const (
	// KindMethod is a request with a method other than POST.
	KindMethod Kind = iota + 1
	// KindConfig means the API key could not be resolved.
	KindConfig
	// KindUpstream is a completed upstream call with a non-2xx status.
	KindUpstream
	// KindTransport covers everything else: bad JSON in either direction,
	// network failures, unreadable bodies.
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindMethod:
		return "method"
	case KindConfig:
		return "config"
	case KindUpstream:
		return "upstream"
	case KindTransport:
		return "transport"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is the single error type the handler converts into a response.
// Body holds the upstream's raw JSON error body and is set only for KindUpstream.
type Error struct {
	Kind   Kind
	Status int
	Body   json.RawMessage
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindUpstream:
		return fmt.Sprintf("upstream returned status %d", e.Status)
	case e.Err != nil:
		return e.Kind.String() + ": " + e.Err.Error()
	default:
		return e.Kind.String() + ": " + e.message()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) message() string {
	switch e.Kind {
	case KindMethod:
		return constants.ResponseMethodNotAllowed
	case KindConfig:
		return constants.ResponseAPIKeyNotConfigured
	default:
		return constants.ResponseInternalError
	}
}

// ResponseBody is what the caller sees: the upstream body verbatim for
// KindUpstream, otherwise {"error":{"message":...}}.
func (e *Error) ResponseBody() ([]byte, error) {
	if e.Kind == KindUpstream {
		return e.Body, nil
	}
	return json.Marshal(utils.NewErrorBody(e.message()))
}

func methodError(method string) *Error {
	return &Error{Kind: KindMethod, Status: http.StatusMethodNotAllowed, Err: fmt.Errorf("method %s not allowed", method)}
}

func configError(cause error) *Error {
	return &Error{Kind: KindConfig, Status: http.StatusInternalServerError, Err: cause}
}

func upstreamError(status int, body json.RawMessage) *Error {
	return &Error{Kind: KindUpstream, Status: status, Body: body}
}

func transportError(cause error) *Error {
	return &Error{Kind: KindTransport, Status: http.StatusInternalServerError, Err: cause}
}
