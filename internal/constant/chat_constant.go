package constant

const (
	// SentinelTitle is assigned at conversation creation and replaced
	// exactly once by title generation.
	SentinelTitle = "New conversation"

	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"
)

// Stream markers let the client distinguish "message body complete" from
// "connection complete": an optional title payload may follow the body
// on the same connection.
const (
	MessageEndMarker = "\n\n__MESSAGE_END__\n\n"
	TitleStartMarker = "__TITLE_START__\n"
	TitleEndMarker   = "\n__TITLE_END__\n"
)
