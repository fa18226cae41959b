package core

// Role identifies the author of a Message.
type Role string

const (
	// RoleSystem marks instructions that steer the model.
	RoleSystem Role = "system"
	// RoleUser marks caller supplied input.
	RoleUser Role = "user"
	// RoleAssistant marks model output.
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the supported roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	default:
		return false
	}
}

// Message is a single role/content pair exchanged with the model. Messages are
// values; treat them as immutable once constructed.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// NewSystemMessage builds a system-role message.
func NewSystemMessage(content string) Message { return Message{Role: RoleSystem, Content: content} }

// NewUserMessage builds a user-role message.
func NewUserMessage(content string) Message { return Message{Role: RoleUser, Content: content} }

// NewAssistantMessage builds an assistant-role message.
func NewAssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}
