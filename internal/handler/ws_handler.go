package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/shivrajcodez/Real-Time-Chat-App/internal/broker"
	"github.com/shivrajcodez/Real-Time-Chat-App/internal/chat"
	"github.com/shivrajcodez/Real-Time-Chat-App/internal/config"
	"github.com/shivrajcodez/Real-Time-Chat-App/internal/domain"
	"github.com/shivrajcodez/Real-Time-Chat-App/internal/hub"
	"github.com/shivrajcodez/Real-Time-Chat-App/pkg/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSHandler accepts WebSocket connections and dispatches inbound frames
// to the coordinator. Clients subscribe to topics explicitly; a client
// that wants room traffic subscribes to the room topics before joining,
// so its own join notice arrives after the history delivery.
type WSHandler struct {
	hub         *hub.Hub
	coordinator chat.Coordinator
	wsCfg       config.WebSocketConfig
}

func NewWSHandler(h *hub.Hub, coord chat.Coordinator, wsCfg config.WebSocketConfig) *WSHandler {
	return &WSHandler{
		hub:         h,
		coordinator: coord,
		wsCfg:       wsCfg,
	}
}

func (h *WSHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		l := log.L()
		l.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := hub.NewClient(uuid.New().String(), h.hub, conn, h.wsCfg)

	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump(h.handleMessage, h.handleDisconnect)
}

func (h *WSHandler) handleDisconnect(client *hub.Client) {
	if err := h.coordinator.HandleDisconnect(context.Background(), client.ID); err != nil {
		l := log.L()
		l.Warn().Err(err).Str(log.FieldConnID, client.ID).Msg("disconnect handling failed")
	}
}

func (h *WSHandler) handleMessage(client *hub.Client, message []byte) {
	var base domain.BaseMessage
	if err := json.Unmarshal(message, &base); err != nil {
		h.sendError(client, "Invalid message format")
		return
	}

	ctx := context.Background()
	l := log.L()

	switch base.Type {
	case domain.MsgTypeSubscribe:
		var msg domain.SubscribeRequest
		if err := json.Unmarshal(message, &msg); err != nil || msg.Topic == "" {
			h.sendError(client, "Invalid subscribe message")
			return
		}
		h.hub.Subscribe(client, msg.Topic)

	case domain.MsgTypeUnsubscribe:
		var msg domain.SubscribeRequest
		if err := json.Unmarshal(message, &msg); err != nil || msg.Topic == "" {
			h.sendError(client, "Invalid unsubscribe message")
			return
		}
		h.hub.Unsubscribe(client, msg.Topic)

	case domain.MsgTypeJoin:
		var msg domain.JoinRequest
		if err := json.Unmarshal(message, &msg); err != nil {
			h.sendError(client, "Invalid join message")
			return
		}
		if err := h.coordinator.HandleJoin(ctx, client.ID, msg); err != nil {
			l.Warn().Err(err).Str(log.FieldConnID, client.ID).Msg("join failed")
		}

	case domain.MsgTypeSend:
		var msg domain.SendRequest
		if err := json.Unmarshal(message, &msg); err != nil {
			h.sendError(client, "Invalid send message")
			return
		}
		if err := h.coordinator.HandleSend(ctx, msg); err != nil {
			l.Warn().Err(err).Str(log.FieldConnID, client.ID).Msg("send failed")
		}

	case domain.MsgTypeTyping:
		var ev domain.TypingEvent
		if err := json.Unmarshal(message, &ev); err != nil {
			h.sendError(client, "Invalid typing message")
			return
		}
		if err := h.coordinator.HandleTyping(ctx, ev); err != nil {
			l.Warn().Err(err).Str(log.FieldConnID, client.ID).Msg("typing relay failed")
		}

	case domain.MsgTypeLeave:
		var msg domain.LeaveRequest
		if err := json.Unmarshal(message, &msg); err != nil {
			h.sendError(client, "Invalid leave message")
			return
		}
		if err := h.coordinator.HandleLeave(ctx, client.ID, msg); err != nil {
			l.Warn().Err(err).Str(log.FieldConnID, client.ID).Msg("leave failed")
		}

	case domain.MsgTypePing:
		h.hub.PublishToConn(client.ID, domain.MsgTypePong, map[string]string{"type": domain.MsgTypePong})

	default:
		h.sendError(client, "Unknown message type")
	}
}

func (h *WSHandler) sendError(client *hub.Client, message string) {
	h.hub.PublishToConn(client.ID, broker.SubchannelErrors,
		domain.NewErrorPayload(domain.ErrCodeBadRequest, message))
}

func (h *WSHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/ws", h.HandleWebSocket)
}
