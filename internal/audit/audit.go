package audit

import (
	"context"

	"github.com/shivrajcodez/Real-Time-Chat-App/pkg/log"
)

// Audit actions for the chat lifecycle.
const (
	ActionJoinRoom   = "chat.join_room"
	ActionJoinFailed = "chat.join_failed"
	ActionLeaveRoom  = "chat.leave_room"
	ActionDisconnect = "chat.disconnect"
)

const fieldAction = "action"

// Log emits a structured audit log entry via the context logger.
func Log(ctx context.Context, action, username, roomID, msg string) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(fieldAction, action).
		Str(log.FieldUsername, username).
		Str(log.FieldRoomID, roomID).
		Msg(msg)
}
