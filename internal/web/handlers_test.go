package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dashlink/internal/config"
	"dashlink/internal/hub"
	"dashlink/internal/tilestore"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	staticDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "index.html"), []byte("<html>viewer</html>"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "app.js"), []byte("console.log('app')"), 0644))

	cfg := &config.Config{
		Port:           0,
		LogLevel:       "error",
		StaticDir:      staticDir,
		CacheType:      "memory",
		PendingTimeout: 0,
		SendBuffer:     64,
		MaxMessageSize: 1 << 20,
	}

	store := tilestore.NewStore(tilestore.NewMemoryCache(), cfg.PendingTimeout, zap.NewNop())
	t.Cleanup(store.Close)

	relay := hub.New(store, cfg.SendBuffer, cfg.MaxMessageSize, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go relay.Run(ctx)

	handlers := New(cfg, zap.NewNop(), relay)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", handlers.HandleWS)
	mux.HandleFunc("/healthz", handlers.HandleHealthz)
	mux.HandleFunc("/", handlers.HandleStatic)

	srv := httptest.NewServer(handlers.CORSMiddleware(handlers.RequestLoggingMiddleware(mux)))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, role string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?role=" + role
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	// Every client is welcomed first.
	env := readEnvelope(t, conn)
	require.Equal(t, hub.EventMessage, env.Event)
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) hub.Envelope {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var env hub.Envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	return env
}

func writeEnvelope(t *testing.T, conn *websocket.Conn, env hub.Envelope) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(env))
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestStaticServesFilesAndFallsBack(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/", "/index.html", "/some/client/route"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err, path)
		body := readBody(t, resp)
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
		require.Contains(t, body, "viewer", path)
	}

	resp, err := http.Get(srv.URL + "/app.js")
	require.NoError(t, err)
	body := readBody(t, resp)
	require.Contains(t, body, "console.log")
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://example.com")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "http://example.com", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestWebSocketRelayEndToEnd(t *testing.T) {
	srv := newTestServer(t)

	device := dial(t, srv, "device")
	viewer := dial(t, srv, "viewer")

	// A media event passes straight through under its outbound name.
	writeEnvelope(t, device, hub.Envelope{
		Event: hub.EventSongChange,
		Data:  json.RawMessage(`{"data":"Artist - Title"}`),
	})

	for _, conn := range []*websocket.Conn{device, viewer} {
		env := readEnvelope(t, conn)
		require.Equal(t, hub.EventUpdateText, env.Event)
		require.JSONEq(t, `{"data":"Artist - Title"}`, string(env.Data))
	}

	// Tile round trip: request goes to the device, the response is cached
	// and fanned out.
	writeEnvelope(t, viewer, hub.Envelope{
		Event: hub.EventRequestTile,
		Data:  json.RawMessage(`{"x":1,"y":2,"zoom":5}`),
	})
	for _, conn := range []*websocket.Conn{device, viewer} {
		env := readEnvelope(t, conn)
		require.Equal(t, hub.EventAndroidRequestTile, env.Event)
	}

	writeEnvelope(t, device, hub.Envelope{
		Event: hub.EventTileData,
		Data:  json.RawMessage(`{"x":1,"y":2,"zoom":5,"image":"dGlsZQ=="}`),
	})
	for _, conn := range []*websocket.Conn{device, viewer} {
		env := readEnvelope(t, conn)
		require.Equal(t, hub.EventWebMapTile, env.Event)
	}

	// A viewer arriving later gets the same tile straight from cache.
	late := dial(t, srv, "viewer")
	writeEnvelope(t, late, hub.Envelope{
		Event: hub.EventRequestTile,
		Data:  json.RawMessage(`{"x":1,"y":2,"zoom":5}`),
	})
	env := readEnvelope(t, late)
	require.Equal(t, hub.EventWebMapTile, env.Event)
	require.JSONEq(t, `{"x":1,"y":2,"zoom":5,"image":"dGlsZQ=="}`, string(env.Data))
}

func TestWebSocketMalformedFrameIgnored(t *testing.T) {
	srv := newTestServer(t)

	device := dial(t, srv, "device")
	viewer := dial(t, srv, "viewer")

	require.NoError(t, viewer.WriteMessage(websocket.TextMessage, []byte("not json")))

	// The connection stays up and the relay keeps working.
	writeEnvelope(t, viewer, hub.Envelope{
		Event: hub.EventSkipSong,
	})
	env := readEnvelope(t, device)
	require.Equal(t, hub.EventSkipSong, env.Event)
}

func TestWSRejectsNonGet(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/ws", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
