// Package web 記録とイベント一覧をローカルに公開する HTTP API
package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/k-negishi/timely/internal/calendar"
	"github.com/k-negishi/timely/internal/domain"
	"github.com/k-negishi/timely/internal/recorder"
	"github.com/k-negishi/timely/internal/state"
)

// Tracker HTTP API が使う記録・イベント操作
type Tracker interface {
	Days() []calendar.Day
	DateStart() (time.Time, bool)
	StartRecording() (time.Time, error)
	StopRecording(ctx context.Context) (domain.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	RenameEvent(ctx context.Context, id, title string) (domain.Event, bool, error)
	Operation(op state.Operation) state.OperationStatus
}

// Server HTTP API サーバー
type Server struct {
	tracker  Tracker
	gatherer prometheus.Gatherer
	clock    func() time.Time
	router   chi.Router
}

// NewServer ルーティングを組み立てたサーバーを返す
// gatherer が nil なら /metrics は公開しない。
func NewServer(tracker Tracker, gatherer prometheus.Gatherer) *Server {
	s := &Server{
		tracker:  tracker,
		gatherer: gatherer,
		clock:    time.Now,
		router:   chi.NewRouter(),
	}
	s.registerRoutes()
	return s
}

// Handler http.Server に渡すハンドラー
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe ctx がキャンセルされるまで addr で待ち受ける
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP API を起動しました", "addr", addr)
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
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes() {
	r := s.router
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/events", s.handleListEvents)
		r.Patch("/events/{id}", s.handleRenameEvent)
		r.Delete("/events/{id}", s.handleDeleteEvent)

		r.Get("/recorder", s.handleRecorderStatus)
		r.Post("/recorder/start", s.handleRecorderStart)
		r.Post("/recorder/stop", s.handleRecorderStop)

		r.Get("/operations", s.handleOperations)
	})

	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
}

type dayResponse struct {
	Key    string         `json:"key"`
	Events []domain.Event `json:"events"`
}

type eventsResponse struct {
	Days []dayResponse `json:"days"`
}

type recorderResponse struct {
	Recording bool   `json:"recording"`
	DateStart string `json:"date_start,omitempty"`
	Elapsed   string `json:"elapsed"`
}

type operationResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type renameRequest struct {
	Title *string `json:"title"`
}

type renameResponse struct {
	Event   domain.Event `json:"event"`
	Changed bool         `json:"changed"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListEvents(w http.ResponseWriter, _ *http.Request) {
	days := s.tracker.Days()
	resp := eventsResponse{Days: make([]dayResponse, 0, len(days))}
	for _, day := range days {
		resp.Days = append(resp.Days, dayResponse{Key: day.Key, Events: day.Events})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRenameEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == nil {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	event, changed, err := s.tracker.RenameEvent(r.Context(), id, *req.Title)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, renameResponse{Event: event, Changed: changed})
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.DeleteEvent(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRecorderStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.recorderStatus())
}

func (s *Server) handleRecorderStart(w http.ResponseWriter, r *http.Request) {
	if _, err := s.tracker.StartRecording(); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.recorderStatus())
}

func (s *Server) handleRecorderStop(w http.ResponseWriter, r *http.Request) {
	event, err := s.tracker.StopRecording(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

func (s *Server) recorderStatus() recorderResponse {
	startedAt, ok := s.tracker.DateStart()
	if !ok {
		return recorderResponse{Elapsed: recorder.Duration{}.String()}
	}
	return recorderResponse{
		Recording: true,
		DateStart: domain.FormatTimestamp(startedAt),
		Elapsed:   recorder.Split(s.clock().Sub(startedAt)).String(),
	}
}

// handleOperations 実行済みの操作ごとに直近の状態と失敗メッセージを返す
func (s *Server) handleOperations(w http.ResponseWriter, _ *http.Request) {
	resp := make(map[string]operationResponse, len(state.Operations))
	for _, op := range state.Operations {
		status := s.tracker.Operation(op)
		if status.Status == state.StatusIdle {
			continue
		}
		resp[string(op)] = operationResponse{Status: string(status.Status), Error: status.Error}
	}
	writeJSON(w, http.StatusOK, resp)
}

// writeDomainError ドメインエラーを HTTP ステータスに変換して返す
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrEventNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyRecording), errors.Is(err, domain.ErrNotRecording):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrInvalidRange):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "リクエストの処理に失敗しました",
			"request_id", middleware.GetReqID(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
	}
	writeError(w, status, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("JSON レスポンスの書き込みに失敗しました", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
