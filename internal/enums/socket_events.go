package enums

const (
	SOCKET_EVENT_SEND_MESSAGE    = "send_message"
	SOCKET_EVENT_OPEN_THREAD     = "open_thread"
	SOCKET_EVENT_REFRESH         = "refresh"
	SOCKET_EVENT_MESSAGE_CREATED = "message_created"
	SOCKET_EVENT_THREAD          = "thread"
	SOCKET_EVENT_CONVERSATIONS   = "conversations"
)
