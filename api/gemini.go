package handler

import (
	"net/http"

	proxyhttp "github.com/awantoch/gemini-proxy/http"
)

// Handler is the entry point for the Vercel serverless function at /api/gemini.
// It delegates to the shared ServerlessHandler.
func Handler(w http.ResponseWriter, r *http.Request) {
	proxyhttp.ServerlessHandler(w, r)
}
