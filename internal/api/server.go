// SPDX-License-Identifier: MIT

// Package api serves the operational HTTP endpoints: probes, metrics and the
// Telegram webhook.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vpolyany/polyansky-bot/internal/health"
	"github.com/vpolyany/polyansky-bot/internal/log"
)

// secretTokenHeader carries the value registered with setWebhook.
const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

var webhookRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "polyansky",
	Name:      "webhook_requests_total",
	Help:      "Webhook deliveries by outcome (ok, bad_secret, bad_payload)",
}, []string{"outcome"})

// Options configures the ops server.
type Options struct {
	Addr   string
	Health *health.Manager

	// Webhook delivery. Updates is called for every decoded update; leave
	// nil to disable the webhook route (long polling mode).
	WebhookPath   string
	WebhookSecret string
	Updates       func(update tgbotapi.Update)

	// Requests per minute per client IP. Zero means a default of 120.
	RequestLimit int
}

// Server is the operational HTTP server.
type Server struct {
	srv  *http.Server
	opts Options
}

// New builds the server with its full middleware stack and routes.
func New(opts Options) *Server {
	if opts.RequestLimit <= 0 {
		opts.RequestLimit = 120
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(httprate.Limit(
		opts.RequestLimit,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
	))

	r.Get("/healthz", opts.Health.ServeHealth)
	r.Get("/readyz", opts.Health.ServeReady)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	if opts.Updates != nil && opts.WebhookPath != "" {
		r.Post(opts.WebhookPath, webhookHandler(opts.WebhookSecret, opts.Updates))
	}

	return &Server{
		srv: &http.Server{
			Addr:              opts.Addr,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
		},
		opts: opts,
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	logger := log.WithComponent("ops-server")

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", s.srv.Addr).Str("event", "ops.listen").Msg("ops server listening")
		if err := s.srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func webhookHandler(secret string, deliver func(tgbotapi.Update)) http.HandlerFunc {
	logger := log.WithComponent("webhook")

	return func(w http.ResponseWriter, r *http.Request) {
		if secret != "" && r.Header.Get(secretTokenHeader) != secret {
			webhookRequestsTotal.WithLabelValues("bad_secret").Inc()
			logger.Warn().Str("event", "webhook.bad_secret").Msg("webhook request with wrong secret token")
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		var update tgbotapi.Update
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			webhookRequestsTotal.WithLabelValues("bad_payload").Inc()
			logger.Warn().Err(err).Str("event", "webhook.bad_payload").Msg("undecodable webhook payload")
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		webhookRequestsTotal.WithLabelValues("ok").Inc()
		deliver(update)
		w.WriteHeader(http.StatusOK)
	}
}
