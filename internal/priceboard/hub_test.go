package priceboard

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func dialHub(t *testing.T, hub *Hub) (*websocket.Conn, chan error) {
	t.Helper()

	handled := make(chan error, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handled <- hub.HandleConnection(w, r)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn, handled
}

func TestHubBroadcastsToSubscriber(t *testing.T) {
	hub := NewHub(zap.NewNop())
	defer hub.Stop()

	conn, _ := dialHub(t, hub)

	msg := BoardMessage{Type: "snapshot", Timestamp: time.Now()}

	// Registration races the dial; keep broadcasting until the frame lands.
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-done:
				return
			default:
				hub.Broadcast(msg)
				time.Sleep(10 * time.Millisecond)
			}
		}
	}()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got BoardMessage
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "snapshot", got.Type)
}

func TestHandleConnectionAfterStopReturns(t *testing.T) {
	hub := NewHub(zap.NewNop())
	hub.Stop()

	_, handled := dialHub(t, hub)

	select {
	case err := <-handled:
		assert.ErrorIs(t, err, errHubStopped)
	case <-time.After(2 * time.Second):
		t.Fatal("subscription against a stopped hub never returned")
	}
}
