// Package router is a small method-aware mux with wildcard segments and
// structured request logging. It exists so the API layer can register
// routes like /api/v1/excluded-terms/* without pulling in a framework.
package router

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

type HandlerFunc func(http.ResponseWriter, *http.Request)

type Router struct {
	mux    *http.ServeMux
	routes map[string]HandlerFunc // key = METHOD:PATH
	paths  map[string]bool
	log    *zap.Logger
}

func New(log *zap.Logger) *Router {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Router{
		mux:    http.NewServeMux(),
		routes: make(map[string]HandlerFunc),
		paths:  make(map[string]bool),
		log:    log,
	}

	r.mux.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		lrw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		r.dispatch(lrw, req)

		r.log.Info("request",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Int("status", lrw.status),
			zap.Duration("elapsed", time.Since(start)),
		)
	})

	return r
}

func (r *Router) dispatch(w http.ResponseWriter, req *http.Request) {
	if h, ok := r.routes[req.Method+":"+req.URL.Path]; ok {
		h(w, req)
		return
	}

	for pattern := range r.paths {
		if !strings.Contains(pattern, "*") || !matchWildcard(req.URL.Path, pattern) {
			continue
		}
		if h, ok := r.routes[req.Method+":"+pattern]; ok {
			h(w, req)
			return
		}
	}

	if r.paths[req.URL.Path] {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	http.Error(w, "Not Found", http.StatusNotFound)
}

// matchWildcard reports whether path matches pattern. A "*" segment matches
// exactly one segment; a trailing "*" matches the rest of the path.
func matchWildcard(path, pattern string) bool {
	pathSegs := strings.Split(strings.Trim(path, "/"), "/")
	patternSegs := strings.Split(strings.Trim(pattern, "/"), "/")

	if n := len(patternSegs); n > 0 && patternSegs[n-1] == "*" {
		if len(pathSegs) < n-1 {
			return false
		}
		for i := 0; i < n-1; i++ {
			if patternSegs[i] != "*" && pathSegs[i] != patternSegs[i] {
				return false
			}
		}
		return true
	}

	if len(pathSegs) != len(patternSegs) {
		return false
	}
	for i, seg := range patternSegs {
		if seg != "*" && pathSegs[i] != seg {
			return false
		}
	}
	return true
}

func (r *Router) register(method, path string, handler HandlerFunc) {
	r.routes[method+":"+path] = handler
	r.paths[path] = true
}

func (r *Router) GET(path string, handler HandlerFunc)  { r.register(http.MethodGet, path, handler) }
func (r *Router) POST(path string, handler HandlerFunc) { r.register(http.MethodPost, path, handler) }
func (r *Router) PUT(path string, handler HandlerFunc)  { r.register(http.MethodPut, path, handler) }
func (r *Router) DELETE(path string, handler HandlerFunc) {
	r.register(http.MethodDelete, path, handler)
}

// Mount registers an http.Handler under a trailing-wildcard path, used for
// the swagger UI.
func (r *Router) Mount(path string, handler http.Handler) {
	r.register(http.MethodGet, path, handler.ServeHTTP)
}

// Routes exposes the registered table for tests.
func (r *Router) Routes() map[string]HandlerFunc {
	return r.routes
}

// Handler returns the root handler for use with an http.Server.
func (r *Router) Handler() http.Handler {
	return r.mux
}

func (r *Router) Start(addr string) error {
	r.log.Info("server listening", zap.String("addr", addr))
	return http.ListenAndServe(addr, r.mux)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}
