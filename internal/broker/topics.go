package broker

import "fmt"

// Topic naming conventions. These strings are the wire contract clients
// subscribe against and must be preserved bit-exact.
const (
	topicRoom       = "room.%s"
	topicRoomTyping = "room.%s.typing"
	topicRoomUsers  = "room.%s.users"

	// TopicOnlineCount carries process-wide distinct-user count updates.
	TopicOnlineCount = "global.online-count"

	// Private per-connection subchannels, framed as queue.* topics.
	SubchannelHistory = "history"
	SubchannelErrors  = "errors"
)

// RoomTopic returns the chat-message topic for a room. Join/leave system
// notices are published here too.
func RoomTopic(roomID string) string {
	return fmt.Sprintf(topicRoom, roomID)
}

// RoomTypingTopic returns the typing-indicator topic for a room.
func RoomTypingTopic(roomID string) string {
	return fmt.Sprintf(topicRoomTyping, roomID)
}

// RoomUsersTopic returns the presence-roster topic for a room.
func RoomUsersTopic(roomID string) string {
	return fmt.Sprintf(topicRoomUsers, roomID)
}

// QueueTopic returns the frame topic for a private subchannel delivery.
func QueueTopic(subchannel string) string {
	return "queue." + subchannel
}
