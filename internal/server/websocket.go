package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/ft8dec/ft8dec/internal/ft8"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // allow all origins for local development
	},
}

// WSMessage is the envelope every dashboard event is sent in.
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// DecodePayload mirrors one ft8.DecodedMessage for the dashboard.
type DecodePayload struct {
	Payload77 []int   `json:"payload77"`
	FreqHz    float64 `json:"freqHz"`
	TimeSec   float64 `json:"timeSec"`
	SNRdB     float64 `json:"snrDb"`
	Pass      int     `json:"pass"`
	ViaOSD    bool    `json:"viaOsd"`
}

// PassStatusPayload reports per-pass bookkeeping for the dashboard.
type PassStatusPayload struct {
	Pass          int `json:"pass"`
	NumCandidates int `json:"numCandidates"`
	NumNewDecodes int `json:"numNewDecodes"`
}

// WSHub manages WebSocket connections and broadcasts decode events.
type WSHub struct {
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewWSHub creates a new WebSocket hub.
func NewWSHub() *WSHub {
	return &WSHub{
		clients: make(map[*websocket.Conn]bool),
	}
}

// AddClient registers a new WebSocket connection.
func (h *WSHub) AddClient(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = true
	log.Printf("dashboard client connected (%d total)", len(h.clients))
}

// RemoveClient removes a WebSocket connection.
func (h *WSHub) RemoveClient(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
	conn.Close()
	log.Printf("dashboard client disconnected (%d remaining)", len(h.clients))
}

// Broadcast sends a message to all connected clients.
func (h *WSHub) Broadcast(msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("dashboard marshal error: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("dashboard write error: %v", err)
			go h.RemoveClient(conn)
		}
	}
}

// BroadcastDecode sends one decoded message to every client.
func (h *WSHub) BroadcastDecode(m ft8.DecodedMessage) {
	h.Broadcast(WSMessage{
		Type: "decode",
		Payload: DecodePayload{
			Payload77: m.Payload[:],
			FreqHz:    m.FreqHz,
			TimeSec:   m.TimeSec,
			SNRdB:     m.SNRdB,
			Pass:      m.Pass,
			ViaOSD:    m.ViaOSD,
		},
	})
}

// BroadcastPassStatus sends a per-pass summary to every client.
func (h *WSHub) BroadcastPassStatus(pass, numCandidates, numNewDecodes int) {
	h.Broadcast(WSMessage{
		Type: "pass_status",
		Payload: PassStatusPayload{
			Pass:          pass,
			NumCandidates: numCandidates,
			NumNewDecodes: numNewDecodes,
		},
	})
}

// BroadcastLog sends a log line to every client.
func (h *WSHub) BroadcastLog(level, message string) {
	h.Broadcast(WSMessage{
		Type: "log",
		Payload: map[string]string{
			"level":   level,
			"message": message,
		},
	})
}
