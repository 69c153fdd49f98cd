package constant

const (
	DefaultSystemPrompt = "You are a helpful assistant."
	DefaultSessionTitle = "New Chat"

	// Auto-generated titles keep this many whitespace-separated words of the first message.
	SessionTitleWordCount = 5
	SessionTitleSuffix    = "..."
)

const (
	ModuleConversation = "CONVERSATION"
	ModuleHistory      = "HISTORY"
	ModuleUser         = "USER"
	ModuleTranscript   = "TRANSCRIPT"
	ModuleHTTP         = "HTTP"
)
