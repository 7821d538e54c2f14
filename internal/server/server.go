// Package server exposes the latest analysis over a local JSON API for
// the report/UI layer.
package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vaultdedup/internal/match"
	"vaultdedup/internal/models"
	"vaultdedup/internal/storage"
)

// Server serves read-only views over the stored analysis plus a
// retention preview. It never deletes anything.
type Server struct {
	storage    *storage.Storage
	port       int
	httpServer *http.Server
}

// New creates a Server over the database at dbPath.
func New(dbPath string, port int) (*Server, error) {
	store, err := storage.NewStorage(dbPath)
	if err != nil {
		return nil, err
	}
	return &Server{storage: store, port: port}, nil
}

// Start serves until SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/analysis", s.handleAnalysis)
	mux.HandleFunc("/api/files", s.handleFiles)
	mux.HandleFunc("/api/retention", s.handleRetention)

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	fmt.Printf("Serving on http://localhost:%d\n", s.port)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	return s.storage.Close()
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	analysis, err := s.storage.LatestAnalysis()
	if errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "no analysis stored yet", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("failed to load analysis: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, analysis)
}

func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	files, err := s.storage.GetAllFiles()
	if err != nil {
		log.Printf("failed to load files: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if files == nil {
		files = []*models.FileRecord{}
	}
	writeJSON(w, files)
}

// handleRetention previews retention decisions for the latest analysis
// under the requested strategy. Deletion stays with the CLI.
func (s *Server) handleRetention(w http.ResponseWriter, r *http.Request) {
	strategy := models.RetentionStrategy(r.URL.Query().Get("strategy"))
	if !models.ValidRetentionStrategy(strategy) {
		http.Error(w, "unknown strategy (want newest|oldest|largest|smallest)", http.StatusBadRequest)
		return
	}

	analysis, err := s.storage.LatestAnalysis()
	if errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "no analysis stored yet", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("failed to load analysis: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	files, err := s.storage.GetAllFiles()
	if err != nil {
		log.Printf("failed to load files: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	policy := match.NewRetentionPolicy(files)
	decisions := make([]*models.RetentionDecision, 0, len(analysis.Groups))
	for _, g := range analysis.Groups {
		decision, err := policy.SelectForCleanup(g, strategy)
		if err != nil {
			// Stale group referencing a removed file; skip it.
			log.Printf("skipping group %s: %v", g.ID, err)
			continue
		}
		decisions = append(decisions, decision)
	}
	writeJSON(w, decisions)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}
