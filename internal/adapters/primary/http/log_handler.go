package http

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	wsAdapter "github.com/marcosaraujo-dev/RelatorioProjetos/internal/adapters/primary/websocket"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/auth"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/config"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/infrastructure/logging"
)

// LogHandler exposes the in-memory log ring for diagnostics, as a JSON
// snapshot and as a websocket tail.
type LogHandler struct {
	ring     *logging.RingBuffer
	hub      *wsAdapter.Hub
	tm       *auth.TokenManager
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewLogHandler creates the diagnostics handler. A nil TokenManager leaves
// the stream unauthenticated.
func NewLogHandler(
	ring *logging.RingBuffer,
	hub *wsAdapter.Hub,
	tm *auth.TokenManager,
	cfg *config.Config,
	logger *slog.Logger,
) *LogHandler {
	handler := &LogHandler{
		ring:   ring,
		hub:    hub,
		tm:     tm,
		logger: logger.With("handler", "logs"),
	}

	handler.upgrader = websocket.Upgrader{
		ReadBufferSize:  cfg.WebSocket.ReadBufferSize,
		WriteBufferSize: cfg.WebSocket.WriteBufferSize,
		CheckOrigin:     handler.makeOriginChecker(cfg),
	}

	return handler
}

// RegisterRoutes mounts /logs and /logs/stream. The stream authenticates
// itself because browsers cannot set headers on websocket requests.
func (h *LogHandler) RegisterRoutes(r chi.Router, protect func(http.Handler) http.Handler) {
	r.With(protect).Get("/logs", h.HandleListLogs)
	r.Get("/logs/stream", h.HandleStream)
}

// HandleListLogs returns the buffered entries, newest last. Optional
// query parameters: level (minimum level) and limit.
func (h *LogHandler) HandleListLogs(w http.ResponseWriter, r *http.Request) {
	entries := h.ring.Entries()

	if raw := r.URL.Query().Get("level"); raw != "" {
		min, ok := wsAdapter.ParseLevel(raw)
		if !ok {
			WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Unknown log level", Code: "BAD_REQUEST"})
			return
		}
		filtered := entries[:0]
		for _, e := range entries {
			if level, ok := wsAdapter.ParseLevel(e.Level); !ok || level >= min {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit > 0 && limit < len(entries) {
		entries = entries[len(entries)-limit:]
	}

	WriteList(w, entries)
}

// makeOriginChecker creates an origin checking function based on configuration
func (h *LogHandler) makeOriginChecker(cfg *config.Config) func(r *http.Request) bool {
	allowedOrigins := cfg.WebSocket.AllowedOrigins

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")

		// In development mode, allow all origins
		if cfg.IsDevelopment() {
			return true
		}

		// No origin header (same-origin request or non-browser client)
		if origin == "" {
			return true
		}

		parsedOrigin, err := url.Parse(origin)
		if err != nil {
			h.logger.Warn("failed to parse websocket origin", "origin", origin, "error", err)
			return false
		}

		originHost := parsedOrigin.Host

		for _, allowed := range allowedOrigins {
			// Support wildcard subdomains like "*.example.com"
			if strings.HasPrefix(allowed, "*.") {
				suffix := allowed[1:]
				if strings.HasSuffix(originHost, suffix) || originHost == allowed[2:] {
					return true
				}
			} else if originHost == allowed {
				return true
			}
		}

		h.logger.Warn("websocket connection rejected due to origin",
			"origin", origin,
			"remote_addr", r.RemoteAddr,
		)
		return false
	}
}

// HandleStream upgrades to a websocket that replays the buffer and then
// follows new entries.
func (h *LogHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	subject := "anonymous"
	if h.tm != nil {
		tokenString := r.URL.Query().Get("token")
		if tokenString == "" {
			http.Error(w, "Missing authentication token", http.StatusUnauthorized)
			return
		}

		claims, err := h.tm.ValidateToken(tokenString)
		if err != nil {
			h.logger.WarnContext(ctx, "log stream rejected: invalid token",
				"remote_addr", r.RemoteAddr,
				"error", err,
			)
			http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}
		subject = claims.Subject
	}

	minLevel := slog.LevelDebug
	if raw := r.URL.Query().Get("level"); raw != "" {
		if level, ok := wsAdapter.ParseLevel(raw); ok {
			minLevel = level
		}
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to upgrade websocket connection", "error", err)
		return
	}

	client := wsAdapter.NewClient(h.hub, conn, subject, h.hub.Backlog(), minLevel, h.logger)
	if !h.hub.Attach(client) {
		_ = conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}
