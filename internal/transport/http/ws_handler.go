package http

import (
	"encoding/json"
	"log"
	"net/http"

	"quizgenius/internal/app"
	"github.com/gorilla/websocket"
)

// WSHandler plays one quiz session per websocket connection.
type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type selectPayload struct {
	Option *int `json:"option"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

// ServeWS upgrades the request, starts a session for ?quizId= and applies inbound
// select/submit/next/restart messages until the client disconnects.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	quizID := r.URL.Query().Get("quizId")
	if quizID == "" {
		http.Error(w, "missing quizId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	snap, err := h.service.StartSession(ctx, quizID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer h.service.EndSession(ctx, snap.SessionID)

	if err := conn.WriteJSON(outboundMessage[app.Snapshot]{Type: "state", Payload: snap}); err != nil {
		return
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}

		var next app.Snapshot
		switch inbound.Type {
		case "select":
			var payload selectPayload
			if jsonErr := json.Unmarshal(inbound.Payload, &payload); jsonErr != nil || payload.Option == nil {
				if err := h.writeError(conn, "invalid select payload"); err != nil {
					return
				}
				continue
			}
			next, err = h.service.Select(ctx, snap.SessionID, *payload.Option)
		case "submit":
			next, err = h.service.Submit(ctx, snap.SessionID)
		case "next":
			next, err = h.service.Advance(ctx, snap.SessionID)
		case "restart":
			next, err = h.service.Restart(ctx, snap.SessionID)
		default:
			if err := h.writeError(conn, "unsupported message type"); err != nil {
				return
			}
			continue
		}

		if err != nil {
			if err := h.writeError(conn, err.Error()); err != nil {
				return
			}
			continue
		}
		if err := conn.WriteJSON(outboundMessage[app.Snapshot]{Type: "state", Payload: next}); err != nil {
			log.Printf("ws write error: %v", err)
			return
		}
	}
}

func (h *WSHandler) writeError(conn *websocket.Conn, message string) error {
	return conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: message}})
}
