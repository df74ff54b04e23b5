package transcript

import (
	"time"

	"chemchat/internal/params"
)

// Role identifies who a message is attributed to.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleError     Role = "error"
)

// Message is one entry in the visible log. Messages are never modified after creation.
type Message struct {
	ID     string
	Role   Role
	Text   string
	SentAt time.Time
}

// Exchange is a completed prompt/response pair with the parameters that produced it.
type Exchange struct {
	UserText      string          `json:"user"`
	AssistantText string          `json:"assistant"`
	SentAt        time.Time       `json:"timestamp"`
	Parameters    params.Snapshot `json:"parameters"`
}

// Snapshot is the exportable history document.
type Snapshot struct {
	ExportedAt time.Time  `json:"timestamp"`
	Model      string     `json:"model"`
	Exchanges  []Exchange `json:"chat_history"`
}
