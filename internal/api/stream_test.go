package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gigscout/pkg/explore"
)

func TestStreamHandler(t *testing.T) {
	ctrl := newTestController()
	h := NewStreamHandler(ctrl)

	svr := httptest.NewServer(http.HandlerFunc(h.Handle))
	defer svr.Close()

	wsURL := "ws" + strings.TrimPrefix(svr.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Give the server a moment to register the client before mutating
	require.Eventually(t, func() bool {
		h.mu.Lock()
		defer h.mu.Unlock()
		return len(h.clients) == 1
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, ctrl.Start())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var snap explore.Snapshot
	require.NoError(t, conn.ReadJSON(&snap))
	assert.Equal(t, explore.PhaseAwaitingPermission, snap.Phase)
}

func TestStreamHandler_DropsDisconnectedClient(t *testing.T) {
	ctrl := newTestController()
	h := NewStreamHandler(ctrl)

	svr := httptest.NewServer(http.HandlerFunc(h.Handle))
	defer svr.Close()

	wsURL := "ws" + strings.TrimPrefix(svr.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	conn.Close()

	assert.Eventually(t, func() bool {
		h.mu.Lock()
		defer h.mu.Unlock()
		return len(h.clients) == 0
	}, time.Second, 5*time.Millisecond)
}
