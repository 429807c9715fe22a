// Package llm unifies two incompatible generation backends behind a single
// Generate operation: the Gemini multi-turn contents API and the OpenAI
// chat/responses API. Which backend serves an engine invocation is resolved
// once, up front, from a layered precedence of explicit override,
// environment variable, credential-derived fallback, and a hard-coded
// default.
package llm

import "context"

// Role tags a conversation turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Turn is one role-tagged message in a conversation.
type Turn struct {
	Role Role
	Text string
}

// Conversation is an ordered sequence of turns. It is a value type: the
// With* helpers return an extended copy, so an append-only history and a
// rebuilt-from-scratch history are both explicit constructions rather than
// mutations of a shared slice.
type Conversation struct {
	Turns []Turn
}

// WithUser returns the conversation extended by one user turn.
func (c Conversation) WithUser(text string) Conversation {
	return c.with(Turn{Role: RoleUser, Text: text})
}

// WithModel returns the conversation extended by one model turn.
func (c Conversation) WithModel(text string) Conversation {
	return c.with(Turn{Role: RoleModel, Text: text})
}

func (c Conversation) with(t Turn) Conversation {
	turns := make([]Turn, 0, len(c.Turns)+1)
	turns = append(turns, c.Turns...)
	turns = append(turns, t)
	return Conversation{Turns: turns}
}

// Len returns the number of turns.
func (c Conversation) Len() int { return len(c.Turns) }

// Generator is the operation every engine stage consumes. Implementations
// return the model's plain-text reply; errors are propagated untouched for
// the caller's run loop to record.
type Generator interface {
	Generate(ctx context.Context, systemInstruction string, conv Conversation) (string, error)
}
