package notify

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialHub(t *testing.T, hub *Hub, tenantUID string) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, hub.Serve(w, r, tenantUID))
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readState(t *testing.T, conn *websocket.Conn) StateMessage {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg StateMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestHub_PushesStateToTenantClients(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	broadcast := NewBroadcast()
	hub := NewHub(broadcast, logger)

	first := dialHub(t, hub, "tenant-a")
	second := dialHub(t, hub, "tenant-a")

	broadcast.Publish("tenant-a", true)

	assert.True(t, readState(t, first).Closed)
	assert.True(t, readState(t, second).Closed)

	broadcast.Publish("tenant-a", false)

	assert.False(t, readState(t, first).Closed)
	assert.False(t, readState(t, second).Closed)
}

func TestHub_DoesNotLeakAcrossTenants(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	broadcast := NewBroadcast()
	hub := NewHub(broadcast, logger)

	other := dialHub(t, hub, "tenant-b")

	broadcast.Publish("tenant-a", true)

	require.NoError(t, other.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	var msg StateMessage
	err := other.ReadJSON(&msg)
	assert.Error(t, err, "client of another tenant must not receive the event")
}

func TestHub_SendsKnownStateOnConnect(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	broadcast := NewBroadcast()
	hub := NewHub(broadcast, logger)

	broadcast.Publish("tenant-a", true)

	conn := dialHub(t, hub, "tenant-a")

	assert.True(t, readState(t, conn).Closed)
}
