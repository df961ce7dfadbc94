package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/tendant/simple-graph/pkg/contentgraph"
	"github.com/tendant/simple-graph/pkg/contentgraph/api"
	"github.com/tendant/simple-graph/pkg/contentgraph/config"
)

// HTTPServer wraps the content graph service for HTTP access
type HTTPServer struct {
	handler *api.GraphHandler
	config  *config.ServerConfig
}

// NewHTTPServer creates a new HTTP server wrapper
func NewHTTPServer(service contentgraph.Service, serverConfig *config.ServerConfig) *HTTPServer {
	return &HTTPServer{
		handler: api.NewGraphHandler(service, serverConfig.StreamBuffer),
		config:  serverConfig,
	}
}

// Routes sets up the HTTP routes. There is no request timeout middleware:
// subscription streams stay open until the client leaves.
func (s *HTTPServer) Routes() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	// CORS for development
	if s.config.Environment == "development" {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Access-Control-Allow-Origin", "*")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusOK)
					return
				}

				next.ServeHTTP(w, r)
			})
		})
	}

	r.Mount("/", s.handler.Routes())

	return r
}
