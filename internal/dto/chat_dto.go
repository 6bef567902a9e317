// FILE: internal/dto/chat_dto.go
package dto

// ChatMessage is a single turn in the conversation history.
type ChatMessage struct {
	Role    string `json:"role" validate:"required,oneof=user assistant system model"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Messages    []ChatMessage `json:"messages" validate:"required,min=1,dive"`
	Model       string        `json:"model,omitempty"`
	Temperature *float64      `json:"temperature,omitempty" validate:"omitempty,gte=0,lte=2"`
	MaxTokens   int           `json:"max_tokens,omitempty" validate:"omitempty,gte=0"`
	UseRAG      *bool         `json:"use_rag,omitempty"`
	SessionId   string        `json:"session_id,omitempty"`
}

// Augment reports whether retrieval augmentation is requested.
// Absent means on: clients opt out explicitly.
func (r *ChatRequest) Augment() bool {
	return r.UseRAG == nil || *r.UseRAG
}

// LastUserMessage returns the most recent message with role "user",
// or nil when the history has none.
func (r *ChatRequest) LastUserMessage() *ChatMessage {
	for i := len(r.Messages) - 1; i >= 0; i-- {
		if r.Messages[i].Role == "user" {
			return &r.Messages[i]
		}
	}
	return nil
}
