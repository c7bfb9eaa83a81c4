package server

import (
	"context"
	"docproxy/internal/config"
	"docproxy/internal/http/handlers/docs"
	"docproxy/internal/http/middleware"
	"docproxy/internal/models"
	httperrors "docproxy/internal/utils/http_errors"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

func StartServer(
	ctx context.Context,
	cfg *config.HTTPServer,
	log *slog.Logger,
	lifecycle LifecycleService,
) error {
	r := mux.NewRouter()

	r.Use(middleware.Logger(log))

	setupRoutes(r, log, lifecycle)

	srv := &http.Server{
		Addr:         cfg.Address,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
		IdleTimeout:  cfg.IdleTimeout,
		Handler:      r,
	}

	errChan := make(chan error, 1)

	go func() {
		log.Info("server started", slog.String("address", cfg.Address))
		if err := srv.ListenAndServe(); err != nil {
			if errors.Is(err, http.ErrServerClosed) {
				log.Info("server closed gracefully")
			} else {
				log.Error("could not start server:", "error", err)
				errChan <- err
			}
		}
	}()
	select {
	case <-ctx.Done():
		log.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("error shutting down server", "error", err)
			return err
		}
		log.Info("server exited gracefully")
		return nil
	case err := <-errChan:
		return err
	}
}

func setupRoutes(r *mux.Router, log *slog.Logger, lifecycle LifecycleService) {
	// GET cached bytes, gated by the access key; the editing service calls
	// this with the key from the payload, so no identity header is present.
	r.HandleFunc("/api/docs/{id}/download", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		docID := vars["id"]
		docs.Download(ctx, log, w, r, docID, lifecycle)
	}).Methods(http.MethodGet)

	// POST editing-service status callback
	r.HandleFunc("/api/docs/{id}/callback", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		docID := vars["id"]
		docs.Callback(ctx, log, w, r, docID, lifecycle, lifecycle)
	}).Methods(http.MethodPost)

	protected := r.NewRoute().Subrouter()

	protected.Use(middleware.Identity(log))

	// GET editor config (fetches into the cache first)
	protected.HandleFunc("/api/docs/{id}/config", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		docID := vars["id"]
		docs.Config(ctx, log, w, r, docID, lifecycle, lifecycle, lifecycle)
	}).Methods(http.MethodGet)

	// DELETE doc by id (explicit invalidation)
	protected.HandleFunc("/api/docs/{id}", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		vars := mux.Vars(r)
		docID := vars["id"]
		docs.Delete(ctx, log, w, r, docID, lifecycle)
	}).Methods(http.MethodDelete)

	// Not allowed
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httperrors.WriteJSONError(w, http.StatusMethodNotAllowed, models.ErrMethodNotAllowed.Error())
	})
}
