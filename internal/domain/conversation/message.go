// Package conversation holds the domain types for a dialogue turn and the
// structured intent extracted from it (C4's output).
package conversation

import (
	"time"

	"github.com/flavorgraph/sous-chef/pkg/errors"
)

// Role identifies who spoke a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is one immutable dialogue turn.
type Message struct {
	role      Role
	content   string
	timestamp time.Time
}

// NewMessage validates and constructs a Message.
func NewMessage(role Role, content string, timestamp time.Time) (Message, error) {
	switch role {
	case RoleUser, RoleAssistant, RoleSystem:
	default:
		return Message{}, errors.NewInvalidInputError("message role must be one of user, assistant, system")
	}
	return Message{role: role, content: content, timestamp: timestamp}, nil
}

// Role returns the speaker role.
func (m Message) Role() Role { return m.role }

// Content returns the turn's text.
func (m Message) Content() string { return m.content }

// Timestamp returns when the message was recorded; zero if unset.
func (m Message) Timestamp() time.Time { return m.timestamp }

// Dialogue is an ordered sequence of Messages.
type Dialogue struct {
	messages []Message
}

// NewDialogue builds a Dialogue from already-validated Messages.
func NewDialogue(messages []Message) Dialogue {
	return Dialogue{messages: messages}
}

// Messages returns all turns in order.
func (d Dialogue) Messages() []Message { return d.messages }

// Len returns the number of turns.
func (d Dialogue) Len() int { return len(d.messages) }

// Last returns the most recent n turns (or all of them if fewer than n
// exist). Older turns may be discarded by the analyzer per spec §3.
func (d Dialogue) Last(n int) []Message {
	if n <= 0 || len(d.messages) == 0 {
		return nil
	}
	if len(d.messages) <= n {
		return d.messages
	}
	return d.messages[len(d.messages)-n:]
}

// LastUserMessage returns the content of the most recent user turn, or ""
// if the dialogue has none.
func (d Dialogue) LastUserMessage() string {
	for i := len(d.messages) - 1; i >= 0; i-- {
		if d.messages[i].role == RoleUser {
			return d.messages[i].content
		}
	}
	return ""
}
