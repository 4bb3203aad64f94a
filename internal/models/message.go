// Package models contains data types and constants for the MCP chat client.
package models

import "time"

// Role identifies the author of a chat message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single entry in the conversation. It is never mutated
// after creation; conversation order is append order.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// NewMessage creates a message stamped with the given time
func NewMessage(role Role, content string, at time.Time) Message {
	return Message{Role: role, Content: content, CreatedAt: at}
}

// IsUser reports whether the message was typed by the user
func (m Message) IsUser() bool {
	return m.Role == RoleUser
}

// ConnectionState is the last known reachability of the MCP server
type ConnectionState struct {
	Connected     bool      `json:"connected"`
	LastCheckedAt time.Time `json:"last_checked_at"`
}

// Checked reports whether at least one probe has completed
func (s ConnectionState) Checked() bool {
	return !s.LastCheckedAt.IsZero()
}

// StatusText returns the label shown by the status indicator
func (s ConnectionState) StatusText() string {
	switch {
	case !s.Checked():
		return StatusChecking
	case s.Connected:
		return StatusConnected
	default:
		return StatusDisconnected
	}
}

// Reply is the decoded body of a POST to the messages endpoint
type Reply struct {
	Role    Role
	Content string
	Raw     string
}
