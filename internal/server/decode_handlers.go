package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/ft8dec/ft8dec/internal/audio"
)

// Handlers holds the HTTP API handlers for the decode dashboard.
type Handlers struct {
	wsHub *WSHub

	mu          sync.Mutex
	lastSlotAt  time.Time
	totalSlots  int
	totalDecode int
}

// NewHandlers creates new API handlers backed by hub.
func NewHandlers(hub *WSHub) *Handlers {
	return &Handlers{wsHub: hub}
}

// NotifySlot records that a slot finished decoding, for HandleStatus.
func (h *Handlers) NotifySlot(numDecodes int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastSlotAt = time.Now()
	h.totalSlots++
	h.totalDecode += numDecodes
}

// HandleWebSocket upgrades the connection and registers it with the hub.
func (h *Handlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}

	h.wsHub.AddClient(conn)

	go func() {
		defer h.wsHub.RemoveClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

// HandleStatus reports basic liveness and decode counters.
func (h *Handlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":        "running",
		"totalSlots":    h.totalSlots,
		"totalDecodes":  h.totalDecode,
		"lastSlotAtUTC": h.lastSlotAt.UTC().Format(time.RFC3339),
	})
}

// HandleDevices lists available capture devices.
func (h *Handlers) HandleDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := audio.ListDevices()
	if err != nil {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"devices": devices,
	})
}

// HandleIndex serves a minimal inline dashboard page, so ft8dec -serve
// needs no separate static asset directory.
func (h *Handlers) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, dashboardHTML)
}

const dashboardHTML = `<!DOCTYPE html>
<html>
<head><title>ft8dec</title></head>
<body>
<h1>ft8dec live decodes</h1>
<table id="decodes"><thead><tr><th>UTC</th><th>Pass</th><th>Freq (Hz)</th><th>dt (s)</th><th>SNR (dB)</th><th>OSD</th></tr></thead><tbody></tbody></table>
<script>
const ws = new WebSocket("ws://" + location.host + "/ws");
ws.onmessage = (ev) => {
  const msg = JSON.parse(ev.data);
  if (msg.type !== "decode") return;
  const row = document.createElement("tr");
  const p = msg.payload;
  row.innerHTML = "<td>" + new Date().toISOString() + "</td><td>" + p.pass + "</td><td>" +
    p.freqHz.toFixed(1) + "</td><td>" + p.timeSec.toFixed(2) + "</td><td>" +
    p.snrDb.toFixed(1) + "</td><td>" + p.viaOsd + "</td>";
  document.querySelector("#decodes tbody").prepend(row);
};
</script>
</body>
</html>`
