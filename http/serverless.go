package http

import (
	"context"
	"net/http"
	"sync"

	"github.com/awantoch/gemini-proxy/config"
	"github.com/awantoch/gemini-proxy/constants"
	"github.com/awantoch/gemini-proxy/telemetry"
	"github.com/awantoch/gemini-proxy/utils"
)

var (
	initServerless    sync.Once
	initErr           error
	serverlessHandler http.Handler
	shutdownTracing   func(context.Context) error
	handlerMutex      sync.RWMutex
)

// ServerlessHandler is the function body shared by the Vercel and Lambda entry
// points. The handler stack is built from environment config on first use.
func ServerlessHandler(w http.ResponseWriter, r *http.Request) {
	handlerMutex.RLock()
	defer handlerMutex.RUnlock()

	initServerless.Do(func() {
		cfg, err := config.FromEnv()
		if err != nil {
			initErr = err
			return
		}
		shutdown, err := telemetry.InitServerless(cfg)
		if err != nil {
			utils.Warn("tracing disabled: %v", err)
		}
		shutdownTracing = shutdown
		serverlessHandler, _, initErr = NewHandler(context.Background(), cfg)
	})

	if initErr != nil || serverlessHandler == nil {
		utils.ErrorCtx(r.Context(), constants.LogInternalError, "error", initErr)
		if err := utils.WriteHTTPJSON(w, http.StatusInternalServerError, utils.NewErrorBody(constants.ResponseInternalError)); err != nil {
			utils.Warn("%s: %v", constants.LogFailedWriteResponse, err)
		}
		return
	}

	serverlessHandler.ServeHTTP(w, r)
}

// ResetServerlessHandler drops the cached handler (for testing)
func ResetServerlessHandler() {
	handlerMutex.Lock()
	defer handlerMutex.Unlock()

	if shutdownTracing != nil {
		if err := shutdownTracing(context.Background()); err != nil {
			utils.Warn("failed to flush traces: %v", err)
		}
	}
	// Reset the Once so initialization can happen again
	initServerless = sync.Once{}
	shutdownTracing = nil
	initErr = nil
	serverlessHandler = nil
}
