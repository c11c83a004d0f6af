// Package server is the HTTP transport for bundle upload and retrieval, plus
// a server-side timeline query endpoint over normalized bundles.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/vincentbai/sessionlens/internal/classify"
	"github.com/vincentbai/sessionlens/internal/models"
	"github.com/vincentbai/sessionlens/internal/normalize"
	"github.com/vincentbai/sessionlens/internal/store"
	"github.com/vincentbai/sessionlens/internal/timeline"
)

// maxUploadBytes bounds one bundle upload (payload plus recording).
const maxUploadBytes = 256 << 20

type Server struct {
	store   *store.Store
	address string
	server  *http.Server
}

func NewServer(st *store.Store, address string) *Server {
	return &Server{
		store:   st,
		address: address,
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Write([]byte("ok"))
}

// handleBundles serves POST /bundles (upload) and GET /bundles (listing).
func (s *Server) handleBundles(w http.ResponseWriter, request *http.Request) {
	switch request.Method {
	case http.MethodPost:
		s.handleUpload(w, request)
	case http.MethodGet:
		infos, err := s.store.List()
		if err != nil {
			slog.Error("failed to list bundles", "error", err)
			http.Error(w, "Failed to list bundles", http.StatusInternalServerError)
			return
		}
		writeJSON(w, infos)
	default:
		http.Error(w, "GET or POST only", http.StatusMethodNotAllowed)
	}
}

// handleUpload accepts either a raw JSON bundle body or a multipart form with
// a "bundle" JSON part and an optional "video" part.
func (s *Server) handleUpload(w http.ResponseWriter, request *http.Request) {
	request.Body = http.MaxBytesReader(w, request.Body, maxUploadBytes)

	var payload, video []byte
	contentType := request.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/") {
		if err := request.ParseMultipartForm(maxUploadBytes); err != nil {
			http.Error(w, "Invalid multipart form", http.StatusBadRequest)
			return
		}
		payload = []byte(request.FormValue("bundle"))
		if file, _, err := request.FormFile("video"); err == nil {
			defer file.Close()
			video, err = io.ReadAll(file)
			if err != nil {
				http.Error(w, "Failed to read video part", http.StatusBadRequest)
				return
			}
		}
	} else {
		var err error
		payload, err = io.ReadAll(request.Body)
		if err != nil {
			http.Error(w, "Failed to read request body", http.StatusBadRequest)
			return
		}
	}

	if !json.Valid(payload) {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}
	id, err := s.store.Put(payload, video)
	if err != nil {
		slog.Error("failed to store bundle", "error", err)
		http.Error(w, "Failed to store bundle", http.StatusInternalServerError)
		return
	}
	slog.Info("bundle stored", "id", id, "payload_bytes", len(payload), "video_bytes", len(video))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(map[string]string{"id": id}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// handleBundle routes /bundles/{id}, /bundles/{id}/video, and
// /bundles/{id}/timeline.
func (s *Server) handleBundle(w http.ResponseWriter, request *http.Request) {
	if request.Method != http.MethodGet && request.Method != http.MethodDelete {
		http.Error(w, "GET or DELETE only", http.StatusMethodNotAllowed)
		return
	}
	rest := strings.TrimPrefix(request.URL.Path, "/bundles/")
	id, sub, _ := strings.Cut(rest, "/")
	if id == "" {
		http.Error(w, "Missing bundle id", http.StatusBadRequest)
		return
	}

	if request.Method == http.MethodDelete {
		if sub != "" {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}
		if err := s.store.Delete(id); err != nil {
			slog.Error("failed to delete bundle", "id", id, "error", err)
			http.Error(w, "Failed to delete bundle", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	switch sub {
	case "":
		payload, err := s.store.Get(id)
		if s.storeError(w, id, err) {
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(payload)
	case "video":
		video, err := s.store.GetVideoBlob(id)
		if s.storeError(w, id, err) {
			return
		}
		w.Header().Set("Content-Type", "video/webm")
		w.Write(video)
	case "timeline":
		s.handleTimeline(w, request, id)
	default:
		http.Error(w, "Not found", http.StatusNotFound)
	}
}

// timelineResponse is the server-side correlation result for one playback
// position.
type timelineResponse struct {
	Session models.Session                       `json:"session"`
	Console timeline.Result[models.ConsoleEvent] `json:"console"`
	Network timeline.Result[models.NetworkEvent] `json:"network"`
	Markers []models.Marker                      `json:"markers"`
	Summary string                               `json:"summary"`
}

func (s *Server) handleTimeline(w http.ResponseWriter, request *http.Request, id string) {
	payload, err := s.store.Get(id)
	if s.storeError(w, id, err) {
		return
	}
	var raw normalize.RawBundle
	if err := json.Unmarshal(payload, &raw); err != nil {
		slog.Error("stored bundle is not decodable", "id", id, "error", err)
		http.Error(w, "Stored bundle is malformed", http.StatusInternalServerError)
		return
	}
	bundle := normalize.Normalize(raw)

	playbackMs, err := strconv.ParseInt(request.URL.Query().Get("t"), 10, 64)
	if err != nil || playbackMs < 0 {
		http.Error(w, "Query parameter t must be a non-negative integer", http.StatusBadRequest)
		return
	}
	filter := classify.Category(request.URL.Query().Get("filter"))
	if filter == "" {
		filter = classify.All
	}
	if !classify.Valid(filter) {
		http.Error(w, "Unknown filter category", http.StatusBadRequest)
		return
	}
	level := request.URL.Query().Get("level")
	if level == "" {
		level = "all"
	}

	network := timeline.QueryNetwork(bundle.Network, playbackMs, filter)
	response := timelineResponse{
		Session: bundle.Session,
		Console: timeline.QueryConsole(bundle.Console, playbackMs, level),
		Network: network,
		Markers: timeline.Markers(bundle.Console, bundle.Network),
		Summary: timeline.Summary(len(network.VisibleList), len(bundle.Network), filter, len(bundle.Sockets)),
	}
	writeJSON(w, response)
}

// storeError translates store failures to HTTP responses. Reports true when
// the response has been written.
func (s *Server) storeError(w http.ResponseWriter, id string, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "Bundle not found", http.StatusNotFound)
		return true
	}
	slog.Error("store read failed", "id", id, "error", err)
	http.Error(w, "Failed to read bundle", http.StatusInternalServerError)
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/bundles", s.handleBundles)
	mux.HandleFunc("/bundles/", s.handleBundle)
	return mux
}

func (s *Server) Start() error {
	mux := s.setupRoutes()
	s.server = &http.Server{
		Addr:         s.address,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// Graceful shutdown
	shutdownChannel := make(chan os.Signal, 1)
	signal.Notify(shutdownChannel, syscall.SIGINT, syscall.SIGTERM)

	errChannel := make(chan error, 1)
	go func() {
		slog.Info("sessionlens agent listening", "address", s.address)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChannel <- err
		}
	}()

	select {
	case err := <-errChannel:
		return err
	case <-shutdownChannel:
	}
	slog.Info("shutting down server")

	shutdownContext, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.server.Shutdown(shutdownContext); err != nil {
		return err
	}

	slog.Info("server exited")
	return nil
}

// Handler exposes the routed mux for tests.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}
