// Package server exposes Index/Find/Query over HTTP, per spec §1's
// "optional HTTP server... calls the same core operations" line. It starts
// the watcher internally rather than relying on a CLI-driven auto-refresh
// before each request (spec §4.6's "HTTP server path handles refresh via a
// background watcher and a debounced re-index").
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/maharajah/maharajah/internal/indexer"
	"github.com/maharajah/maharajah/internal/retriever"
	"github.com/maharajah/maharajah/internal/watcher"
)

// Config wires a Server to its collaborators.
type Config struct {
	Addr      string
	RootDir   string
	Indexer   *indexer.Indexer
	Retriever *retriever.Retriever
	Watcher   *watcher.Watcher // may be nil to disable the background watcher
}

// Server answers POST /index, GET /find, and GET /query against a shared
// Indexer and Retriever, tagging every request with a uuid for its log
// line the way the corpus tags rows and files elsewhere.
type Server struct {
	addr      string
	indexer   *indexer.Indexer
	retriever *retriever.Retriever
	watcher   *watcher.Watcher
	http      *http.Server
}

func New(cfg Config) *Server {
	s := &Server{
		addr:      cfg.Addr,
		indexer:   cfg.Indexer,
		retriever: cfg.Retriever,
		watcher:   cfg.Watcher,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /index", s.withRequestID(s.handleIndex))
	mux.HandleFunc("GET /find", s.withRequestID(s.handleFind))
	mux.HandleFunc("GET /query", s.withRequestID(s.handleQuery))

	s.http = &http.Server{
		Addr:         cfg.Addr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	return s
}

// Serve starts the watcher (if configured) and the HTTP server, and blocks
// until ctx is cancelled or a SIGINT/SIGTERM arrives.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if s.watcher != nil {
		s.watcher.Start(ctx)
		defer s.watcher.Stop()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("maharajah server listening on %s", s.addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-sigCh:
		log.Println("received shutdown signal, stopping gracefully...")
	case err := <-errCh:
		cancel()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return s.http.Shutdown(shutdownCtx)
}

// withRequestID tags each request with a uuid for its log line, matching
// the corpus's use of google/uuid for row and file identifiers elsewhere.
func (s *Server) withRequestID(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		start := time.Now()
		next(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, reqID)))
		log.Printf("[%s] %s %s %s", reqID, r.Method, r.URL.Path, time.Since(start))
	}
}

type requestIDKey struct{}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Reindex bool `json:"reindex"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("decode request body: %w", err))
			return
		}
	}

	report, err := s.indexer.Index(r.Context(), indexer.Options{Reindex: body.Reindex, Quiet: true})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleFind(w http.ResponseWriter, r *http.Request) {
	s.handleRetrieve(w, r, s.retriever.Find)
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	s.handleRetrieve(w, r, s.retriever.Query)
}

func (s *Server) handleRetrieve(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, queryText string, k int, minScore *float64) ([]retriever.Result, error)) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("query parameter 'q' is required"))
		return
	}

	k, err := parseIntParam(r, "k", 10)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var minScore *float64
	if raw := r.URL.Query().Get("min_score"); raw != "" {
		v, err := parseFloatParam(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid min_score: %w", err))
			return
		}
		minScore = &v
	}

	results, err := fn(r.Context(), q, k, minScore)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}
