// Package api provides the HTTP surface of the listing bot.
//
// It exposes the Twilio webhook that drives the conversation state machine,
// a read endpoint for persisted listings, and a health check.
package api

import (
	"log/slog"
	"net/http"

	"github.com/MuhammetEnesDemirkol/real-estate-wp-gpt-bot/internal/flow"
	"github.com/MuhammetEnesDemirkol/real-estate-wp-gpt-bot/internal/models"
	"github.com/MuhammetEnesDemirkol/real-estate-wp-gpt-bot/internal/store"
)

// DefaultAddr is the default HTTP listen address.
const DefaultAddr = ":8000"

// Opts holds configuration options for the API server.
type Opts struct {
	Addr string
}

// Option defines a configuration option for the API server.
type Option func(*Opts)

// WithAddr sets the HTTP listen address.
func WithAddr(addr string) Option {
	return func(o *Opts) { o.Addr = addr }
}

// Server wires the dialogue engine and listing store to HTTP handlers.
type Server struct {
	engine   *flow.Engine
	listings store.Store
	addr     string
}

// NewServer creates an API server.
func NewServer(engine *flow.Engine, listings store.Store, opts ...Option) *Server {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	return &Server{engine: engine, listings: listings, addr: cfg.Addr}
}

// Handler returns the HTTP handler with all routes registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/webhook", s.webhookHandler)
	mux.HandleFunc("/listings", s.listingsHandler)
	mux.HandleFunc("/health", s.healthHandler)
	return mux
}

// Run starts the HTTP server and blocks until it exits.
func (s *Server) Run() error {
	slog.Info("Listing bot API running", "addr", s.addr)
	return http.ListenAndServe(s.addr, s.Handler())
}

// listingsHandler returns all persisted listings as JSON.
func (s *Server) listingsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONResponse(w, http.StatusMethodNotAllowed, models.Error("method not allowed"))
		return
	}
	listings, err := s.listings.GetListings()
	if err != nil {
		slog.Error("Server.listingsHandler: failed to fetch listings", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("failed to fetch listings"))
		return
	}
	if listings == nil {
		listings = []models.Listing{}
	}
	writeJSONResponse(w, http.StatusOK, models.Success(listings))
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, models.Success("ok"))
}
