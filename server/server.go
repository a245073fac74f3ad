package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"uct/config"
	"uct/game/tictactoe"
	"uct/searcher"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// MaxBodyBytes bounds the size of a /findmove request body
const MaxBodyBytes = 1 << 16

type FindMoveRequest struct {
	Board      string `json:"board"`                // 9 cells, row major, as accepted by tictactoe.Parse
	Player     int8   `json:"player"`               // Mark to move, 1 or -1
	Iterations int    `json:"iterations,omitempty"` // 0 uses the configured default
	Seed       uint64 `json:"seed,omitempty"`       // 0 uses the configured seed
}

type FindMoveResponse struct {
	Move       int         `json:"move"`
	Visits     map[int]int `json:"visits"`
	Iterations int         `json:"iterations"`
}

type handler struct {
	cfg    config.Config
	logger zerolog.Logger
}

// New returns the move server router. Every request searches its own tree.
func New(cfg config.Config, logger zerolog.Logger) http.Handler {
	h := &handler{cfg: cfg, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.handleHealth)
	r.Post("/findmove", h.handleFindMove)
	return r
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(h.logger, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) handleFindMove(w http.ResponseWriter, r *http.Request) {
	var payload FindMoveRequest
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSONError(h.logger, w, http.StatusRequestEntityTooLarge, err.Error())
			return
		}
		writeJSONError(h.logger, w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	board, err := tictactoe.Parse(payload.Board, payload.Player)
	if err != nil {
		writeJSONError(h.logger, w, http.StatusBadRequest, err.Error())
		return
	}
	iterations := payload.Iterations
	if iterations == 0 {
		iterations = h.cfg.Iterations
	}
	if iterations < 0 || iterations > h.cfg.MaxIterations {
		writeJSONError(h.logger, w, http.StatusBadRequest, fmt.Sprintf("iterations must be in [1, %d], got %d", h.cfg.MaxIterations, iterations))
		return
	}

	options := []searcher.Option{
		searcher.WithExplorationConstant(h.cfg.Exploration),
		searcher.WithLogger(h.logger),
	}
	if seed := payload.Seed; seed > 0 {
		options = append(options, searcher.WithSeed(seed))
	} else if h.cfg.Seed > 0 {
		options = append(options, searcher.WithSeed(h.cfg.Seed))
	}
	mcts := searcher.NewMCTS[int](options...)

	analysis, err := mcts.Analyze(r.Context(), board, iterations)
	if err != nil {
		writeJSONError(h.logger, w, statusOf(err), err.Error())
		return
	}

	visits := make(map[int]int, len(analysis.Children))
	for _, child := range analysis.Children {
		visits[child.Move] = child.Visits
	}
	writeJSON(h.logger, w, http.StatusOK, FindMoveResponse{
		Move:       analysis.Move,
		Visits:     visits,
		Iterations: analysis.Visits,
	})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, searcher.ErrTerminalRoot), errors.Is(err, searcher.ErrInvalidIterations):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Info().
					Str("request_id", middleware.GetReqID(r.Context())).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Int("status", ww.Status()).
					Dur("duration", time.Since(start)).
					Msg("request")
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

func writeJSON(logger zerolog.Logger, w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error().Err(err).Msg("failed to encode response")
	}
}

func writeJSONError(logger zerolog.Logger, w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
	logger.Debug().Int("status", status).Msgf("rejected request: %s", msg)
}
