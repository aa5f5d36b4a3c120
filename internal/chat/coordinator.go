package chat

import (
	"context"
	"time"

	"github.com/shivrajcodez/Real-Time-Chat-App/internal/audit"
	"github.com/shivrajcodez/Real-Time-Chat-App/internal/broker"
	"github.com/shivrajcodez/Real-Time-Chat-App/internal/domain"
	"github.com/shivrajcodez/Real-Time-Chat-App/internal/history"
	"github.com/shivrajcodez/Real-Time-Chat-App/internal/presence"
	"github.com/shivrajcodez/Real-Time-Chat-App/internal/room"
	"github.com/shivrajcodez/Real-Time-Chat-App/internal/storage"
	"github.com/shivrajcodez/Real-Time-Chat-App/pkg/log"
)

type coordinator struct {
	presence     *presence.Registry
	rooms        room.Directory
	history      *history.Service
	writer       storage.Writer
	broker       broker.Broker
	historyLimit int
}

func NewCoordinator(
	reg *presence.Registry,
	rooms room.Directory,
	hist *history.Service,
	writer storage.Writer,
	b broker.Broker,
	historyLimit int,
) Coordinator {
	if historyLimit <= 0 {
		historyLimit = 50
	}
	return &coordinator{
		presence:     reg,
		rooms:        rooms,
		history:      hist,
		writer:       writer,
		broker:       b,
		historyLimit: historyLimit,
	}
}

// HandleJoin registers the session, delivers history to the joiner, then
// broadcasts the join notice and the updated roster — in that order, so
// the joiner sees history before the notice their own join caused.
func (c *coordinator) HandleJoin(ctx context.Context, connID string, req domain.JoinRequest) error {
	username := sanitize(req.Username)
	roomID := req.RoomID

	if username == "" || !c.roomExists(ctx, roomID) {
		audit.Log(ctx, audit.ActionJoinFailed, username, roomID, "join rejected")
		return c.sendError(connID, domain.ErrCodeBadRequest, "Invalid username or room ID")
	}

	c.presence.Add(connID, username, roomID)

	messages, err := c.history.Recent(ctx, roomID, c.historyLimit)
	if err != nil {
		l := log.Ctx(ctx)
		l.Error().Err(err).Str(log.FieldRoomID, roomID).Msg("failed to load room history")
	}
	if messages == nil {
		messages = []domain.ChatMessage{}
	}
	c.publishToConn(connID, broker.SubchannelHistory, &domain.HistoryPayload{
		RoomID:   roomID,
		Messages: messages,
	})

	notice := domain.NewSystemMessage(username+" joined the room", roomID, domain.MessageJoin)
	c.writer.Enqueue(notice)
	c.publishTopic(broker.RoomTopic(roomID), notice)

	c.broadcastRoster(roomID)

	audit.Log(ctx, audit.ActionJoinRoom, username, roomID, "user joined room")
	return nil
}

// HandleSend persists asynchronously and broadcasts immediately with a
// send-time timestamp; the broadcast never waits for the persisted ID.
// The room is deliberately not checked against the directory here, only
// on join.
func (c *coordinator) HandleSend(ctx context.Context, req domain.SendRequest) error {
	content := sanitize(req.Content)
	sender := sanitize(req.Sender)
	if content == "" || sender == "" {
		return nil
	}

	msg := domain.ChatMessage{
		Content:   content,
		Sender:    sender,
		RoomID:    req.RoomID,
		Type:      domain.MessageChat,
		Timestamp: time.Now().UTC(),
	}

	c.writer.Enqueue(msg)
	c.publishTopic(broker.RoomTopic(req.RoomID), msg)
	return nil
}

// HandleTyping relays the event verbatim to the room typing topic. No
// validation, no persistence, no presence mutation.
func (c *coordinator) HandleTyping(_ context.Context, ev domain.TypingEvent) error {
	c.publishTopic(broker.RoomTypingTopic(ev.RoomID), ev)
	return nil
}

// HandleLeave removes the session by connection identifier regardless of
// the username in the request, then broadcasts the leave notice and the
// updated roster.
func (c *coordinator) HandleLeave(ctx context.Context, connID string, req domain.LeaveRequest) error {
	c.presence.Remove(connID)

	username := sanitize(req.Username)
	notice := domain.NewSystemMessage(username+" left the room", req.RoomID, domain.MessageLeave)
	c.writer.Enqueue(notice)
	c.publishTopic(broker.RoomTopic(req.RoomID), notice)

	c.broadcastRoster(req.RoomID)

	audit.Log(ctx, audit.ActionLeaveRoom, username, req.RoomID, "user left room")
	return nil
}

// HandleDisconnect handles abrupt connection loss. Only the identity
// stashed at join time is available; a connection that never joined is a
// no-op. Unlike an explicit leave, no chat-visible notice is broadcast —
// only the roster and the global count are updated.
func (c *coordinator) HandleDisconnect(ctx context.Context, connID string) error {
	sess, ok := c.presence.Lookup(connID)
	c.presence.Remove(connID)
	if !ok {
		return nil
	}

	c.broadcastRoster(sess.RoomID)
	c.publishTopic(broker.TopicOnlineCount, &domain.OnlineCountPayload{
		Count: c.presence.TotalOnlineCount(),
	})

	audit.Log(ctx, audit.ActionDisconnect, sess.Username, sess.RoomID, "user disconnected")
	return nil
}

func (c *coordinator) broadcastRoster(roomID string) {
	c.publishTopic(broker.RoomUsersTopic(roomID), &domain.UsersPayload{
		RoomID: roomID,
		Users:  c.presence.UsersInRoom(roomID),
	})
}

func (c *coordinator) roomExists(ctx context.Context, roomID string) bool {
	if roomID == "" {
		return false
	}
	exists, err := c.rooms.Exists(ctx, roomID)
	if err != nil {
		l := log.Ctx(ctx)
		l.Error().Err(err).Str(log.FieldRoomID, roomID).Msg("room directory lookup failed")
		return false
	}
	return exists
}

func (c *coordinator) sendError(connID, code, message string) error {
	return c.publishToConn(connID, broker.SubchannelErrors, domain.NewErrorPayload(code, message))
}

// publishTopic logs and swallows fabric failures: a failed broadcast never
// fails the state transition that triggered it.
func (c *coordinator) publishTopic(topic string, payload interface{}) {
	if err := c.broker.PublishTopic(topic, payload); err != nil {
		l := log.L()
		l.Error().Err(err).Str(log.FieldTopic, topic).Msg("topic publish failed")
	}
}

func (c *coordinator) publishToConn(connID, subchannel string, payload interface{}) error {
	if err := c.broker.PublishToConn(connID, subchannel, payload); err != nil {
		l := log.L()
		l.Error().Err(err).Str(log.FieldConnID, connID).Msg("private delivery failed")
		return err
	}
	return nil
}
