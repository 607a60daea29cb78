package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/awantoch/gemini-proxy/config"
	"github.com/awantoch/gemini-proxy/constants"
	"github.com/awantoch/gemini-proxy/proxy"
	"github.com/awantoch/gemini-proxy/secrets"
	"github.com/awantoch/gemini-proxy/telemetry"
	"github.com/awantoch/gemini-proxy/utils"
)

const shutdownTimeout = 10 * time.Second

// NewHandler wires the secrets provider, the proxy and its middleware for cfg.
// The returned close func releases the secrets provider.
func NewHandler(ctx context.Context, cfg *config.Config) (http.Handler, func() error, error) {
	provider, err := secrets.NewSecretsProvider(ctx, &cfg.Secrets)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize secrets provider: %w", err)
	}
	p, err := proxy.New(cfg.Upstream, provider)
	if err != nil {
		provider.Close()
		return nil, nil, fmt.Errorf("failed to initialize proxy: %w", err)
	}
	utils.Debug("proxy ready: model=%s secrets=%s", cfg.Upstream.Model, provider.Type())
	return RequestID(telemetry.WrapHandler("gemini", p)), provider.Close, nil
}

// NewMux routes the proxy plus health and metrics endpoints.
func NewMux(proxyHandler http.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle(constants.RouteGemini, proxyHandler)
	mux.HandleFunc(constants.RouteHealthz, healthHandler)
	mux.Handle(constants.RouteMetrics, telemetry.MetricsHandler())
	return mux
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	if err := utils.WriteRawJSON(w, http.StatusOK, []byte(constants.ResponseHealthy)); err != nil {
		utils.Warn("%s: %v", constants.LogFailedWriteHealth, err)
	}
}

// StartServer serves the mux on cfg.HTTP until ctx is cancelled, then drains
// in-flight requests.
func StartServer(ctx context.Context, cfg *config.Config) error {
	shutdownTracing, err := telemetry.Init(cfg)
	if err != nil {
		return err
	}
	defer shutdownTracing(context.Background())
	defer utils.Sync()

	h, closeSecrets, err := NewHandler(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSecrets()

	ln, err := net.Listen("tcp", cfg.HTTP.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.HTTP.Addr(), err)
	}
	srv := &http.Server{
		Handler:           NewMux(h),
		ReadHeaderTimeout: 10 * time.Second,
	}
	utils.Info("gemini-proxy listening on http://%s%s", ln.Addr(), constants.RouteGemini)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		utils.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
