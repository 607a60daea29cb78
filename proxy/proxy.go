// Package proxy forwards generateContent requests to the Gemini API with a
// server-held key and relays the answer.
package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/awantoch/gemini-proxy/config"
	"github.com/awantoch/gemini-proxy/constants"
	"github.com/awantoch/gemini-proxy/secrets"
	"github.com/awantoch/gemini-proxy/telemetry"
	"github.com/awantoch/gemini-proxy/utils"
)

// Handler is the proxy endpoint. It holds no per-request state and is safe
// for concurrent use.
type Handler struct {
	client   *http.Client
	base     http.RoundTripper
	secrets  secrets.SecretsProvider
	endpoint string
	keyName  string
}

var _ http.Handler = (*Handler)(nil)

// Option configures a Handler.
type Option func(*Handler)

// WithTransport replaces the round tripper that performs upstream calls. The
// key is still added by the proxy and tracing still wraps it.
func WithTransport(rt http.RoundTripper) Option {
	return func(h *Handler) {
		if rt != nil {
			h.base = rt
		}
	}
}

// New builds a Handler for the upstream described by cfg. The API key is looked
// up through provider on every request.
func New(cfg config.UpstreamConfig, provider secrets.SecretsProvider, opts ...Option) (*Handler, error) {
	if provider == nil {
		return nil, errors.New("proxy: secrets provider is required")
	}
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = constants.DefaultUpstreamBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = constants.DefaultModel
	}
	keyName := cfg.APIKeyName
	if keyName == "" {
		keyName = constants.EnvAPIKey
	}
	h := &Handler{
		base:     http.DefaultTransport,
		secrets:  provider,
		endpoint: Endpoint(baseURL, model),
		keyName:  keyName,
	}
	for _, opt := range opts {
		opt(h)
	}
	// Tracing sits above keyTransport so spans only see the keyless URL.
	h.client = &http.Client{
		Timeout:   timeout,
		Transport: telemetry.NewTransport(&keyTransport{base: h.base}),
	}
	return h, nil
}

// Endpoint returns the generateContent URL for model, without the key.
func Endpoint(baseURL, model string) string {
	return fmt.Sprintf("%s/%s/models/%s:%s",
		baseURL, constants.UpstreamAPIVersion, url.PathEscape(model), constants.UpstreamMethod)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := h.Handle(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := utils.WriteRawJSON(w, http.StatusOK, body); err != nil {
		utils.WarnCtx(r.Context(), constants.LogFailedWriteResponse, "error", err)
	}
}

// Handle runs the proxy for one request and returns the upstream success body.
// Any failure is returned as *Error.
func (h *Handler) Handle(r *http.Request) (json.RawMessage, error) {
	if r.Method != http.MethodPost {
		return nil, methodError(r.Method)
	}

	ctx := r.Context()
	apiKey, err := h.secrets.GetSecret(ctx, h.keyName)
	if err != nil {
		return nil, configError(err)
	}
	if apiKey == "" {
		return nil, configError(fmt.Errorf("secret %s is empty", h.keyName))
	}

	payload, err := readPayload(r.Body)
	if err != nil {
		return nil, transportError(err)
	}

	return h.forward(ctx, payload, apiKey)
}

// readPayload decodes the inbound body as opaque JSON and re-serializes it.
func readPayload(body io.Reader) ([]byte, error) {
	if body == nil {
		return nil, errors.New("request body is empty")
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	var payload json.RawMessage
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode request body: %w", err)
	}
	out, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}
	return out, nil
}

func (h *Handler) forward(ctx context.Context, payload []byte, apiKey string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(withAPIKey(ctx, apiKey), http.MethodPost, h.endpoint, bytes.NewReader(payload))
	if err != nil {
		telemetry.ObserveUpstream(constants.OutcomeTransportError)
		return nil, transportError(fmt.Errorf("failed to build upstream request: %w", redactErr(err)))
	}
	req.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)

	utils.DebugCtx(ctx, "forwarding to upstream", "url", h.endpoint, "bytes", len(payload))
	resp, err := h.client.Do(req)
	if err != nil {
		telemetry.ObserveUpstream(constants.OutcomeTransportError)
		return nil, transportError(fmt.Errorf("upstream request failed: %w", redactErr(err)))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		telemetry.ObserveUpstream(constants.OutcomeTransportError)
		return nil, transportError(fmt.Errorf("failed to read upstream response: %w", err))
	}
	if !json.Valid(data) {
		telemetry.ObserveUpstream(constants.OutcomeTransportError)
		return nil, transportError(fmt.Errorf("upstream returned non-JSON body with status %d", resp.StatusCode))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		telemetry.ObserveUpstream(constants.OutcomeUpstreamError)
		return nil, upstreamError(resp.StatusCode, data)
	}
	telemetry.ObserveUpstream(constants.OutcomeOK)
	return data, nil
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	var perr *Error
	if !errors.As(err, &perr) {
		perr = transportError(err)
	}

	switch perr.Kind {
	case KindMethod:
		utils.DebugCtx(ctx, "rejected request", "method", r.Method)
		w.Header().Set(constants.HeaderAllow, http.MethodPost)
	case KindConfig:
		utils.ErrorCtx(ctx, constants.LogAPIKeyMissing, "key", h.keyName, "error", perr.Err)
	case KindUpstream:
		utils.ErrorCtx(ctx, constants.LogUpstreamError, "status", perr.Status, "body", string(perr.Body))
	default:
		utils.ErrorCtx(ctx, constants.LogInternalError, "error", perr.Err)
	}

	body, mErr := perr.ResponseBody()
	if mErr != nil {
		utils.ErrorCtx(ctx, constants.LogInternalError, "error", mErr)
		perr = transportError(mErr)
		body = []byte(`{"error":{"message":"` + constants.ResponseInternalError + `"}}`)
	}
	if err := utils.WriteRawJSON(w, perr.Status, body); err != nil {
		utils.WarnCtx(ctx, constants.LogFailedWriteResponse, "error", err)
	}
}

type apiKeyCtxKey struct{}

func withAPIKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, apiKeyCtxKey{}, key)
}

// keyTransport adds the key query parameter to a copy of the request right
// before it leaves the process.
type keyTransport struct {
	base http.RoundTripper
}

func (t *keyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	key, _ := req.Context().Value(apiKeyCtxKey{}).(string)
	if key == "" {
		return t.base.RoundTrip(req)
	}
	out := req.Clone(req.Context())
	q := out.URL.Query()
	q.Set(constants.UpstreamKeyParam, key)
	out.URL.RawQuery = q.Encode()
	return t.base.RoundTrip(out)
}

// redactErr strips the key from errors that echo the request URL, such as *url.Error.
func redactErr(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return &url.Error{Op: uerr.Op, URL: utils.RedactURL(uerr.URL), Err: uerr.Err}
	}
	return err
}
