package core

// Role identifies the author of a conversation message.
type Role string

// Recognized message roles. RoleTool marks a message carrying the serialized
// result of a tool invocation back into the conversation.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is the immutable unit of conversation context. Messages are only
// ever appended to a conversation, never edited or removed, so the sequence
// passed to a model provider can only grow across loop steps.
//
// Name is set only for RoleTool messages and carries the tool name the
// content originated from. Metadata is optional producer-provided data
// (the tool-protocol prompt uses it to attach the advertised specs).
type Message struct {
	Role     Role           `json:"role"`
	Content  string         `json:"content"`
	Name     string         `json:"name,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// NewSystemMessage builds a system-role message.
func NewSystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// NewUserMessage builds a user-role message.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// NewAssistantMessage builds an assistant-role message.
func NewAssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// NewToolMessage builds a tool-role message tagged with the producing tool's name.
func NewToolMessage(name, content string) Message {
	return Message{Role: RoleTool, Content: content, Name: name}
}

// ModelResponse is a provider's reply. Content is the only field the loop
// interprets; Raw preserves the provider-specific payload for callers that
// want to inspect it.
type ModelResponse struct {
	Content string `json:"content"`
	Raw     any    `json:"-"`
}
