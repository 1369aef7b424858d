package monitor

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialHub(t *testing.T, h *Hub) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(h.HandleWS))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHubSendsTopologyOnConnect(t *testing.T) {
	h := NewHub(Topology{PanelWidth: 8, PanelHeight: 8, PanelCount: 2})
	conn := dialHub(t, h)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var top Topology
	require.NoError(t, json.Unmarshal(msg, &top))
	assert.Equal(t, 8, top.PanelWidth)
	assert.Equal(t, 2, top.PanelCount)
}

func TestHubBroadcast(t *testing.T) {
	h := NewHub(Topology{PanelWidth: 2, PanelHeight: 1, PanelCount: 1})
	conn := dialHub(t, h)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage() // topology
	require.NoError(t, err)

	// The client registers asynchronously during the upgrade; wait
	// until the hub sees it before broadcasting.
	require.Eventually(t, func() bool { return h.ClientCount() == 1 },
		2*time.Second, 10*time.Millisecond)

	h.Broadcast(&CompleteFrame{
		Source:   "10.0.0.1:5000",
		Payloads: [][]byte{{0xFF, 0x00, 0x00, 0x00, 0xFF, 0x00}},
	})

	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var frame struct {
		FrameID uint64 `json:"frame_id"`
		Source  string `json:"source"`
		Pixels  []byte `json:"pixels"`
	}
	require.NoError(t, json.Unmarshal(msg, &frame))
	assert.Equal(t, uint64(1), frame.FrameID)
	assert.Equal(t, "10.0.0.1:5000", frame.Source)
	assert.Equal(t, []byte{0xFF, 0x00, 0x00, 0x00, 0xFF, 0x00}, frame.Pixels)
}

func TestHubDropsClosedClients(t *testing.T) {
	h := NewHub(Topology{PanelWidth: 1, PanelHeight: 1, PanelCount: 1})
	conn := dialHub(t, h)

	require.Eventually(t, func() bool { return h.ClientCount() == 1 },
		2*time.Second, 10*time.Millisecond)

	conn.Close()

	// Broadcasting into a closed connection prunes it sooner or later.
	require.Eventually(t, func() bool {
		h.Broadcast(&CompleteFrame{Source: "s", Payloads: [][]byte{{1, 2, 3}}})
		return h.ClientCount() == 0
	}, 2*time.Second, 10*time.Millisecond)
}
