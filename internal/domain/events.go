package domain

// WebSocket message types from client.
const (
	MsgTypeSubscribe   = "subscribe"
	MsgTypeUnsubscribe = "unsubscribe"
	MsgTypeJoin        = "join"
	MsgTypeSend        = "send"
	MsgTypeTyping      = "typing"
	MsgTypeLeave       = "leave"
	MsgTypePing        = "ping"
)

// WebSocket message types to client.
const (
	MsgTypePong = "pong"
)

// Error codes surfaced on the private error channel.
const (
	ErrCodeBadRequest    = "BAD_REQUEST"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// BaseMessage is the base structure for all inbound WebSocket messages.
type BaseMessage struct {
	Type string `json:"type"`
}

// Client -> Server messages

type SubscribeRequest struct {
	Type  string `json:"type"`
	Topic string `json:"topic"`
}

type JoinRequest struct {
	Type     string `json:"type"`
	Username string `json:"username"`
	RoomID   string `json:"room_id"`
}

type SendRequest struct {
	Type    string `json:"type"`
	Content string `json:"content"`
	Sender  string `json:"sender"`
	RoomID  string `json:"room_id"`
}

// TypingEvent is relayed to the room typing topic verbatim.
type TypingEvent struct {
	Username string `json:"username"`
	RoomID   string `json:"room_id"`
	Typing   bool   `json:"typing"`
}

type LeaveRequest struct {
	Type     string `json:"type"`
	Username string `json:"username"`
	RoomID   string `json:"room_id"`
}

// Server -> Client payloads

// HistoryPayload delivers recent room messages to a joining connection.
type HistoryPayload struct {
	RoomID   string        `json:"room_id"`
	Messages []ChatMessage `json:"messages"`
}

// UsersPayload is the sorted, deduplicated roster of a room.
type UsersPayload struct {
	RoomID string   `json:"room_id"`
	Users  []string `json:"users"`
}

// OnlineCountPayload carries the process-wide distinct user count.
type OnlineCountPayload struct {
	Count int `json:"count"`
}

// RoomPayload is the REST representation of a room.
type RoomPayload struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	OnlineCount int    `json:"online_count"`
}

// ErrorPayload is delivered on the private error channel only, never broadcast.
type ErrorPayload struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

func NewErrorPayload(code, message string) *ErrorPayload {
	return &ErrorPayload{
		Message: message,
		Code:    code,
	}
}
