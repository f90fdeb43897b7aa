package turn

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	turnmodel "github.com/Shianndri-Zanniko/Ai-tutor/internal/model/turn"
)

// WebSocketHandler runs a turn over a websocket so the UI can show live
// per-stage progress instead of one long request.
type WebSocketHandler struct {
	svc      TurnService
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates the websocket turn handler.
func NewWebSocketHandler(svc TurnService) *WebSocketHandler {
	return &WebSocketHandler{
		svc: svc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the websocket endpoint.
func (h *WebSocketHandler) RegisterRoutes(r chi.Router) {
	r.Get("/turn/ws", h.handleWebSocket)
}

type inboundMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// audioMessage is the single inbound payload: one complete recording.
type audioMessage struct {
	Audio  []byte `json:"audio"`
	Format string `json:"format"`
}

type outboundMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

type stageEvent struct {
	Stage turnmodel.Stage `json:"stage"`
}

// handleWebSocket reads one audio envelope, runs the turn, and streams a
// stage event as each step starts, followed by the final result.
func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	var inbound inboundMessage
	if err := conn.ReadJSON(&inbound); err != nil {
		h.send(conn, "error", map[string]string{"message": "invalid message: " + err.Error()})
		return
	}
	if inbound.Type != "audio" {
		h.send(conn, "error", map[string]string{"message": "expected an audio message"})
		return
	}

	var audio audioMessage
	if err := json.Unmarshal(inbound.Data, &audio); err != nil {
		h.send(conn, "error", map[string]string{"message": "invalid audio payload: " + err.Error()})
		return
	}

	clip := &turnmodel.AudioClip{Data: audio.Audio, Format: audio.Format}

	result := h.svc.HandleTurnObserved(r.Context(), clip, func(stage turnmodel.Stage) {
		h.send(conn, "stage", stageEvent{Stage: stage})
	})

	h.send(conn, "result", toResponse(result))

	deadline := time.Now().Add(5 * time.Second)
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
}

func (h *WebSocketHandler) send(conn *websocket.Conn, msgType string, data interface{}) {
	msg := outboundMessage{
		Type:      msgType,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	}
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("[ws] write failed: %v", err)
	}
}
