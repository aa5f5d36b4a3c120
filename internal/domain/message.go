package domain

import "time"

// MessageType classifies a chat message.
type MessageType string

const (
	MessageChat   MessageType = "CHAT"   // regular chat message
	MessageJoin   MessageType = "JOIN"   // user joined room
	MessageLeave  MessageType = "LEAVE"  // user left room
	MessageSystem MessageType = "SYSTEM" // system notification
)

// SystemSender is the display name used for server-generated notices.
const SystemSender = "System"

// ChatMessage is one unit of room communication. ID is zero until the
// message has been persisted; live broadcasts never carry an ID, only
// history reads do. The broadcast copy and the persisted copy of the same
// message may carry different timestamps because persistence is decoupled
// from delivery.
type ChatMessage struct {
	ID        int64       `json:"id,omitempty"`
	Content   string      `json:"content"`
	Sender    string      `json:"sender"`
	RoomID    string      `json:"room_id"`
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewSystemMessage builds an unpersisted server notice for a room.
func NewSystemMessage(content, roomID string, typ MessageType) ChatMessage {
	return ChatMessage{
		Content:   content,
		Sender:    SystemSender,
		RoomID:    roomID,
		Type:      typ,
		Timestamp: time.Now().UTC(),
	}
}

// Room describes a chat room. Rooms are owned by the Room Directory; the
// chat core only resolves existence and derives topic names from the ID.
type Room struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
