package monitor

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// writeTimeout bounds how long a slow preview client can stall a
// broadcast before being dropped.
const writeTimeout = 200 * time.Millisecond

// Topology describes the wall geometry sent to a preview client on
// connect.
type Topology struct {
	PanelWidth  int `json:"panel_width"`
	PanelHeight int `json:"panel_height"`
	PanelCount  int `json:"panel_count"`
}

// Hub broadcasts received frames to WebSocket preview clients.
type Hub struct {
	topology Topology

	mu      sync.RWMutex
	clients map[*websocket.Conn]bool
	frameID uint64
}

// NewHub creates a Hub for the given wall geometry.
func NewHub(topology Topology) *Hub {
	return &Hub{
		topology: topology,
		clients:  map[*websocket.Conn]bool{},
	}
}

// HandleWS upgrades an HTTP request to a WebSocket preview session.
// The topology is sent immediately; frames follow via Broadcast.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()
	h.sendTopology(conn)

	go func() {
		defer func() {
			h.mu.Lock()
			delete(h.clients, conn)
			h.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// ClientCount returns the number of connected preview clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends one completed frame to all preview clients. Clients
// that fail to accept the frame within the write timeout are dropped.
func (h *Hub) Broadcast(frame *CompleteFrame) {
	type wireFrame struct {
		T       int64  `json:"t"`
		FrameID uint64 `json:"frame_id"`
		Source  string `json:"source"`
		Pixels  []byte `json:"pixels"`
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.frameID++
	b, _ := json.Marshal(wireFrame{
		T:       time.Now().UnixNano(),
		FrameID: h.frameID,
		Source:  frame.Source,
		Pixels:  frame.Pixels(),
	})

	for c := range h.clients {
		c.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			log.Debug().Err(err).Msg("write frame")
			delete(h.clients, c)
			c.Close()
		}
	}
}

func (h *Hub) sendTopology(conn *websocket.Conn) {
	b, _ := json.Marshal(h.topology)
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	_ = conn.WriteMessage(websocket.TextMessage, b)
}
