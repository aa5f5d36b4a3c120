package log

const (
	// Request
	FieldMethod   = "method"
	FieldPath     = "path"
	FieldStatus   = "status"
	FieldClientIP = "client_ip"

	// Chat
	FieldConnID   = "conn_id"
	FieldUsername = "username"
	FieldRoomID   = "room_id"
	FieldTopic    = "topic"

	// Service
	FieldService = "service"

	// Log type (for audit log)
	FieldLogType = "log_type"
	LogTypeAudit = "audit"
)
