package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Genesy-AI/backend-technical-task-joe/internal/model"
	"github.com/Genesy-AI/backend-technical-task-joe/internal/progress"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the job-submission and progress HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

type submitJobRequest struct {
	Leads      []model.Lead      `json:"leads"`
	Operations []model.Operation `json:"operations"`
}

type submitJobResponse struct {
	JobID string `json:"jobId"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	env, err := initEnv(ctx)
	if err != nil {
		return eris.Wrap(err, "serve: init environment")
	}
	defer func() { _ = env.Close() }()

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: false,
	}))

	r.Post("/jobs", handleSubmitJob(env))
	r.Get("/jobs/{jobId}", handleGetJob(env))
	r.Get("/ws/jobs/{jobId}", handleJobProgressWS(env))
	r.Get("/providers", handleListProviders(env))

	srv := &http.Server{
		Addr:    ":" + strconv.Itoa(cfg.Server.Port),
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("serve: listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		zap.L().Info("serve: shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return eris.Wrap(err, "serve: listen")
	}
}

// handleSubmitJob dispatches the batch in the background and returns the
// jobId immediately (§7), so a client that connects to GET /ws/jobs/{jobId}
// right after this response can still observe every progress event —
// SubmitAsync creates the job record before returning, well before the
// first cell runs.
func handleSubmitJob(env *runtimeEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req submitJobRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		jobID := env.orchestrator.SubmitAsync(r.Context(), req.Leads, req.Operations)
		writeJSON(w, http.StatusAccepted, submitJobResponse{JobID: jobID})
	}
}

func handleGetJob(env *runtimeEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID := chi.URLParam(r, "jobId")
		job, ok := env.tracker.GetJob(jobID)
		if !ok {
			http.Error(w, "job not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, job)
	}
}

func handleListProviders(env *runtimeEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, env.registry.Stats())
	}
}

// handleJobProgressWS upgrades to a websocket and relays a job's room
// (§4.7) to the client verbatim, one JSON frame per event, until the
// connection drops or the job finishes.
func handleJobProgressWS(env *runtimeEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID := chi.URLParam(r, "jobId")

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			zap.L().Warn("serve: websocket upgrade failed", zap.Error(err))
			return
		}
		defer func() { _ = conn.Close() }()

		sub := env.bus.Subscribe(jobID)
		defer sub.Close()

		for {
			select {
			case <-r.Context().Done():
				return
			case evt, ok := <-sub.Events():
				if !ok {
					return
				}
				if err := conn.WriteJSON(wsFrame{Type: string(evt.Type), Payload: evt.Payload}); err != nil {
					return
				}
				if evt.Type == progress.EventJobComplete {
					return
				}
			}
		}
	}
}

type wsFrame struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
