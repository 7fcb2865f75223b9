package irc

// Event types emitted by the chat client
const (
	EventMessageReceived       = "message.received" // every parsed line, full Message
	EventChatMessage           = "chat.message"     // PRIVMSG lines reduced to channel/user/text
	EventMessageSent           = "message.sent"
	EventChannelJoined         = "channel.joined"
	EventChannelJoinAbandoned  = "channel.join.abandoned"
	EventChannelParted         = "channel.parted"
	EventConnectionEstablished = "connection.established"
	EventConnectionLost        = "connection.lost"
	EventError                 = "error"
)
