package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/shivrajcodez/Real-Time-Chat-App/internal/domain"
	"github.com/shivrajcodez/Real-Time-Chat-App/internal/history"
	"github.com/shivrajcodez/Real-Time-Chat-App/internal/presence"
	"github.com/shivrajcodez/Real-Time-Chat-App/internal/room"
	"github.com/shivrajcodez/Real-Time-Chat-App/pkg/log"
)

// HTTPHandler serves the thin REST surface: room catalog, history reads,
// rosters, and stats.
type HTTPHandler struct {
	rooms        room.Directory
	history      *history.Service
	presence     *presence.Registry
	historyLimit int
}

func NewHTTPHandler(rooms room.Directory, hist *history.Service, reg *presence.Registry, historyLimit int) *HTTPHandler {
	if historyLimit <= 0 {
		historyLimit = 50
	}
	return &HTTPHandler{
		rooms:        rooms,
		history:      hist,
		presence:     reg,
		historyLimit: historyLimit,
	}
}

func (h *HTTPHandler) RegisterRoutes(r *mux.Router) {
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/rooms", h.ListRooms).Methods(http.MethodGet)
	api.HandleFunc("/rooms", h.CreateRoom).Methods(http.MethodPost)
	api.HandleFunc("/rooms/{room_id}/messages", h.GetRoomMessages).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{room_id}/users", h.GetRoomUsers).Methods(http.MethodGet)
	api.HandleFunc("/stats", h.GetStats).Methods(http.MethodGet)
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
}

// ListRooms handles GET /api/rooms — all rooms with live online counts.
func (h *HTTPHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.rooms.List(r.Context())
	if err != nil {
		h.serverError(w, r, err, "failed to list rooms")
		return
	}

	payload := make([]domain.RoomPayload, 0, len(rooms))
	for _, rm := range rooms {
		payload = append(payload, domain.RoomPayload{
			ID:          rm.ID,
			Name:        rm.Name,
			Description: rm.Description,
			OnlineCount: h.presence.OnlineCountInRoom(rm.ID),
		})
	}
	writeJSON(w, http.StatusOK, payload)
}

// CreateRoom handles POST /api/rooms.
func (h *HTTPHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Name is required"})
		return
	}

	created, err := h.rooms.Create(r.Context(), body.Name, body.Name, body.Description)
	if err != nil {
		h.serverError(w, r, err, "failed to create room")
		return
	}
	writeJSON(w, http.StatusOK, created)
}

// GetRoomMessages handles GET /api/rooms/{room_id}/messages.
func (h *HTTPHandler) GetRoomMessages(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["room_id"]
	if !h.roomExists(w, r, roomID) {
		return
	}

	messages, err := h.history.Recent(r.Context(), roomID, h.historyLimit)
	if err != nil {
		h.serverError(w, r, err, "failed to read history")
		return
	}
	if messages == nil {
		messages = []domain.ChatMessage{}
	}
	writeJSON(w, http.StatusOK, messages)
}

// GetRoomUsers handles GET /api/rooms/{room_id}/users.
func (h *HTTPHandler) GetRoomUsers(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["room_id"]
	if !h.roomExists(w, r, roomID) {
		return
	}

	users := h.presence.UsersInRoom(roomID)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"room_id": roomID,
		"users":   users,
		"count":   len(users),
	})
}

// GetStats handles GET /api/stats.
func (h *HTTPHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.rooms.List(r.Context())
	if err != nil {
		h.serverError(w, r, err, "failed to list rooms")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total_online": h.presence.TotalOnlineCount(),
		"rooms":        len(rooms),
	})
}

// HealthCheck handles GET /health.
func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) roomExists(w http.ResponseWriter, r *http.Request, roomID string) bool {
	exists, err := h.rooms.Exists(r.Context(), roomID)
	if err != nil {
		h.serverError(w, r, err, "failed to check room")
		return false
	}
	if !exists {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "room not found"})
		return false
	}
	return true
}

func (h *HTTPHandler) serverError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	l := log.Ctx(r.Context())
	l.Error().Err(err).Str(log.FieldPath, r.URL.Path).Msg(msg)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
