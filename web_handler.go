package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pivolan/eda_dashboard/config"
	"github.com/pivolan/eda_dashboard/dashboard"
	"github.com/pivolan/eda_dashboard/domain/models"
	"github.com/pivolan/eda_dashboard/ingest"
	"github.com/pivolan/eda_dashboard/logger"
)

type server struct {
	cfg    *config.Config
	store  *sessionStore
	router *chi.Mux
}

func newServer(cfg *config.Config, store *sessionStore) *server {
	s := &server{cfg: cfg, store: store, router: chi.NewRouter()}
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	s.router.Get("/", s.handleIndex)
	s.router.Post("/upload", s.handleUpload)
	s.router.Get("/healthz", s.handleHealth)
	return s
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) {
	id := s.store.sessionID(w, r)
	t, ok := s.store.Get(id)
	if !ok {
		s.render(w, http.StatusOK, nil, "")
		return
	}

	q := r.URL.Query()
	sel := models.Selection{Numeric: q.Get("num"), Categorical: q.Get("cat")}
	view, err := dashboard.BuildWithOptions(t, sel, dashboard.Options{PreviewRows: s.cfg.PreviewRows})
	if err != nil {
		logger.Error("build dashboard for %s: %v", t.Name, err)
		http.Error(w, "Error building dashboard", http.StatusInternalServerError)
		return
	}
	s.render(w, http.StatusOK, view, "")
}

func (s *server) handleUpload(w http.ResponseWriter, r *http.Request) {
	id := s.store.sessionID(w, r)
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes())

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		msg := "Error uploading file: choose a file to analyze."
		if errors.As(err, &tooLarge) {
			msg = fmt.Sprintf("File is larger than the %d MB upload limit.", s.cfg.MaxUploadMB)
		}
		logger.Warn("upload: %v", err)
		s.render(w, http.StatusBadRequest, nil, msg)
		return
	}
	defer file.Close()

	t, err := ingest.Read(file, header.Filename, ingest.Options{MaxRows: s.cfg.MaxRows, MaxUnpackedBytes: s.cfg.MaxUnpackedBytes()})
	if err != nil {
		logger.Warn("upload %s: %v", header.Filename, err)
		s.store.Delete(id)
		s.render(w, http.StatusBadRequest, nil, "Could not read the file: "+err.Error())
		return
	}
	logger.Info("session %s loaded %s (%d rows, %d columns)", id, t.Name, t.Rows, len(t.Columns))

	s.store.Put(id, t)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, "ok")
}

// render buffers the page so a template failure can still produce a 500.
func (s *server) render(w http.ResponseWriter, status int, view *dashboard.View, errMsg string) {
	var buf bytes.Buffer
	if err := dashboard.Page(&buf, view, errMsg); err != nil {
		logger.Error("render page: %v", err)
		http.Error(w, "Error rendering page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// serve runs the dashboard until ctx is cancelled, then shuts down gracefully.
func serve(ctx context.Context, cfg *config.Config) error {
	store := newSessionStore(cfg.SessionTTL)
	go store.sweep(ctx, sweepInterval(cfg.SessionTTL))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newServer(cfg, store),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Minute,
		WriteTimeout:      2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listen on: http://localhost%s", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
