package chat

import "errors"

// Role identifies the speaker of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ErrInvalidMessage rejects messages with empty content or an unknown role.
var ErrInvalidMessage = errors.New("message requires content and a known role")

// Message is one conversation entry. Immutable once appended; insertion order
// is the only meaningful index, Seq exists for stable list rendering.
type Message struct {
	Seq     int    `json:"seq,omitempty"`
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Validate checks the append preconditions for the conversation log.
func (m Message) Validate() error {
	if m.Content == "" {
		return ErrInvalidMessage
	}
	switch m.Role {
	case RoleUser, RoleAssistant:
		return nil
	}
	return ErrInvalidMessage
}
