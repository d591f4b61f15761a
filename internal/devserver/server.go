// Package devserver is a local backend speaking the same contract as
// production (chat messages, product catalog, sign-up), for running the
// client without the real service.
package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/khedut-saathi/khedut/internal/channel"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

type Options struct {
	Addr          string
	AllowedOrigin string
	Responder     Responder
	// Market serves the catalog and sign-up endpoints; DemoMarket when nil.
	Market *Market
	Logger *zap.Logger
}

type Server struct {
	router    *chi.Mux
	addr      string
	responder Responder
	market    *Market
	logger    *zap.Logger
}

func New(opts Options) (*Server, error) {
	if opts.Responder == nil {
		return nil, errors.New("devserver: responder is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	market := opts.Market
	if market == nil {
		market = DemoMarket()
	}
	origin := opts.AllowedOrigin
	if origin == "" {
		origin = "*"
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{origin},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	s := &Server{
		router:    r,
		addr:      opts.Addr,
		responder: opts.Responder,
		market:    market,
		logger:    logger,
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Post("/messages", s.handleMessage)
	s.router.Get("/products", s.handleProducts)
	s.router.Get("/users/email/{email}", s.handleUserByEmail)
	s.router.Post("/signup", s.handleSignup)
}

func (s *Server) Router() http.Handler { return s.router }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("development backend listening", zap.String("addr", s.addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down development backend")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	requestID := r.Header.Get("X-Request-ID")

	var req channel.MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	answer, err := s.responder.Respond(r.Context(), req.Message)
	if err != nil {
		s.logger.Error("responder failed", zap.String("request_id", requestID), zap.Error(err))
		s.writeError(w, http.StatusBadGateway, "failed to generate an answer")
		return
	}

	s.logger.Debug("answered message",
		zap.String("request_id", requestID),
		zap.Int("message_len", len(req.Message)),
		zap.Int("answer_len", len(answer)))
	writeJSON(w, http.StatusOK, channel.MessageResponse{Answer: &answer})
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, channel.ErrorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
