// Package llm provides a unified interface for LLM providers using CloudWeGo Eino.
package llm

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

// ProviderInfo identifies which backend answered a request.
type ProviderInfo struct {
	Provider string `json:"provider" yaml:"provider"`
	Model    string `json:"model" yaml:"model"`
}

// Role is the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of an ordered chat transcript.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// SystemMessage builds a system message.
func SystemMessage(content string) Message { return Message{Role: RoleSystem, Content: content} }

// UserMessage builds a user message.
func UserMessage(content string) Message { return Message{Role: RoleUser, Content: content} }

// Schema describes the structured output a caller expects.
// Definition is a JSON-schema-like document shown to the model;
// Validate is run locally on the decoded value and is the source of truth.
type Schema struct {
	Name       string
	Definition map[string]any
	Validate   func(v any) error
}

// Provider turns an ordered message list into free text or a validated
// structured object. Implementations map transport failures into
// ProviderTimeoutError, ProviderAuthError and ProviderBadRequestError.
type Provider interface {
	Info() ProviderInfo
	SupportsStructuredOutput() bool
	Complete(ctx context.Context, messages []Message) (string, error)
	// CompleteWithStructuredOutput decodes the response into out (a pointer)
	// and validates it against s. Shape failures return *OutputError.
	CompleteWithStructuredOutput(ctx context.Context, messages []Message, s Schema, out any) error
}

// toEino converts messages to the eino wire representation.
func toEino(messages []Message) []*schema.Message {
	out := make([]*schema.Message, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			out = append(out, schema.SystemMessage(m.Content))
		case RoleAssistant:
			out = append(out, schema.AssistantMessage(m.Content, nil))
		default:
			out = append(out, schema.UserMessage(m.Content))
		}
	}
	return out
}
