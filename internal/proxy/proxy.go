// Package proxy is the local development reverse proxy: requests under a
// prefix (default /api) lose the prefix and are forwarded to the backend.
package proxy

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

const (
	DefaultPrefix = "/api"
	DefaultListen = ":5173"
	DefaultTarget = "http://localhost:8080"
)

// NewRouter builds the proxy routes. The Host header is rewritten to the
// target so virtual-hosted backends answer.
func NewRouter(target *url.URL, prefix string) *mux.Router {
	prefix = "/" + strings.Trim(prefix, "/")

	rp := httputil.NewSingleHostReverseProxy(target)
	direct := rp.Director
	rp.Director = func(req *http.Request) {
		direct(req)
		req.Host = target.Host
	}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", healthHandler).Methods(http.MethodGet)
	r.PathPrefix(prefix + "/").Handler(http.StripPrefix(prefix, rp))
	return r
}

// NewHandler wraps the proxy routes with access logging to w.
func NewHandler(targetURL, prefix string, w io.Writer) (http.Handler, error) {
	target, err := url.Parse(targetURL)
	if err != nil {
		return nil, fmt.Errorf("parse target: %w", err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("target %q must be an absolute URL", targetURL)
	}
	return handlers.LoggingHandler(w, NewRouter(target, prefix)), nil
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = io.WriteString(w, "ok")
}
