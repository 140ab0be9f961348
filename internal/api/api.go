package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/yieldlabs-io/yield-ledger/internal/config"
	"github.com/yieldlabs-io/yield-ledger/internal/services"
)

const (
	requestTimeout = 15 * time.Second
	idleTimeout    = 30 * time.Second
)

// Server exposes the ledger operations over HTTP. Mutations are
// serialized by the service layer; the server itself is stateless.
type Server struct {
	httpServer *http.Server
	svc        *services.Service
}

func New(cfg *config.ApiConfig, svc *services.Service) *Server {
	srv := &Server{svc: svc}

	r := chi.NewRouter()
	r.Get("/healthcheck", srv.handleHealthcheck)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/deposits", srv.handleDeposit)
		r.Post("/settlements/{address}", srv.handleSettle)
		r.Post("/claims/{address}", srv.handleClaim)
		r.Post("/balance-changes", srv.handleBalanceChange)

		r.Post("/intermediaries/{address}", srv.handleRegisterIntermediary)
		r.Delete("/intermediaries/{address}", srv.handleUnregisterIntermediary)
		r.Post("/intermediaries/{address}/orders", srv.handleRegisterPendingOrder)
		r.Post("/intermediaries/{address}/orders/release", srv.handleReleasePendingOrder)

		r.Get("/holders/{address}", srv.handleGetHolder)
		r.Get("/intermediaries/{address}", srv.handleGetIntermediary)
		r.Get("/deposits/{timestamp}", srv.handleGetDeposit)
		r.Get("/supply", srv.handleGetSupply)
		r.Get("/stats", srv.handleGetStats)
	})

	srv.httpServer = &http.Server{
		Addr:         cfg.Address(),
		Handler:      r,
		ReadTimeout:  requestTimeout,
		WriteTimeout: requestTimeout,
		IdleTimeout:  idleTimeout,
	}

	return srv
}

// Start serves requests until ListenAndServe fails or Stop is called.
func (s *Server) Start() error {
	log.Info().Msgf("Starting API server on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
