package llm

import (
	"context"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Option allows for optional parameters like Temperature, Model, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	Model       string // Override default model
	UserName    string // Display name injected into the synthesized system preamble
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithUserName(name string) Option {
	return func(o *Options) {
		o.UserName = name
	}
}

// ChunkHandler receives incremental assistant text fragments, in arrival
// order, exactly once per fragment.
type ChunkHandler func(chunk string)

// ChatProvider defines the contract for the upstream completion API.
type ChatProvider interface {
	// Chat sends a chat history to the model and returns the full response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// ChatStream relays the response incrementally through onChunk and
	// returns the concatenation of all fragments in delivery order. On a
	// connection-level failure the text accumulated so far is returned
	// alongside the error.
	ChatStream(ctx context.Context, history []Message, onChunk ChunkHandler, options ...Option) (string, error)
}
