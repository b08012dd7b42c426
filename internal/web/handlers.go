package web

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"dashlink/internal/config"
	"dashlink/internal/hub"
)

type Handlers struct {
	config   *config.Config
	logger   *zap.Logger
	hub      *hub.Hub
	upgrader websocket.Upgrader
}

func New(config *config.Config, logger *zap.Logger, h *hub.Hub) *Handlers {
	handlers := &Handlers{
		config: config,
		logger: logger,
		hub:    h,
	}
	handlers.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     handlers.checkOrigin,
	}
	return handlers
}

// HandleWS upgrades the connection and hands it to the hub. The client
// declares its role on the URL (?role=device|viewer); anything else counts
// as a viewer. Any peer is accepted, there is no authentication.
func (h *Handlers) HandleWS(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	role := hub.ParseRole(r.URL.Query().Get("role"))

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.String("remote", r.RemoteAddr), zap.Error(err))
		return
	}

	client := hub.NewClient(h.hub, conn, role, h.logger)
	h.hub.Register(client)
	client.Start()
}

func (h *Handlers) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// HandleStatic serves the viewer single-page app. Unknown paths fall back to
// index.html so client-side routes resolve after a hard reload.
func (h *Handlers) HandleStatic(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if path == "/" {
		path = "/index.html"
	}

	filePath := filepath.Join(h.config.StaticDir, path)

	if !strings.HasPrefix(filepath.Clean(filePath), filepath.Clean(h.config.StaticDir)) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	if info, err := os.Stat(filePath); err != nil || info.IsDir() {
		filePath = filepath.Join(h.config.StaticDir, "index.html")
	}

	http.ServeFile(w, r, filePath)
}

func (h *Handlers) RequestLoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()
		start := time.Now()

		ip := h.extractIP(r)

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)

		h.logger.Info("request",
			zap.String("request_id", requestID),
			zap.String("ip", ip),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", wrapped.statusCode),
			zap.Int64("bytes", wrapped.bytesWritten),
			zap.Int64("duration_ms", duration.Milliseconds()),
		)
	})
}

func (h *Handlers) CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowedOrigin := "*"
		if h.config.AllowedOrigin != "" {
			allowedOrigin = h.config.AllowedOrigin
		} else if origin != "" {
			allowedOrigin = origin
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// checkOrigin mirrors the CORS policy for the upgrade handshake. With no
// configured origin any peer may connect.
func (h *Handlers) checkOrigin(r *http.Request) bool {
	if h.config.AllowedOrigin == "" {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return origin == h.config.AllowedOrigin
}

// Not for real production use due to potential spoofing
// but it's fine behind a trusted proxy
func (h *Handlers) extractIP(r *http.Request) string {
	ip := r.Header.Get("X-Real-Ip")
	if ip != "" {
		return strings.Split(ip, ":")[0]
	}

	addr := r.RemoteAddr
	if addr != "" {
		return strings.Split(addr, ":")[0]
	}

	return "unknown"
}

type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += int64(n)
	return n, err
}

// Hijack lets the websocket upgrade take over the connection while the
// logging wrapper is in place.
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return hj.Hijack()
}
