package title

import (
	"context"
	"strings"

	"github.com/changzhiho/mini-chatgpt/internal/pkg/logger"
	"github.com/changzhiho/mini-chatgpt/pkg/llm"
)

const (
	systemInstruction = "You generate short conversation titles. " +
		"Given the first exchange of a conversation, reply with a concise title " +
		"of at most 50 characters that captures its topic. " +
		"Reply with the title only: no quotes, no punctuation at the end, no explanation."

	closingInstruction = "Now generate a title for this conversation:"
)

// Generator produces a one-shot conversation title from the first
// exchange.
type Generator struct {
	provider llm.ChatProvider
	logger   logger.ILogger
}

func NewGenerator(provider llm.ChatProvider, log logger.ILogger) *Generator {
	return &Generator{provider: provider, logger: log}
}

// Generate asks the default model for a title. A failure is logged and
// reported as an empty string; the caller keeps the sentinel title.
func (g *Generator) Generate(ctx context.Context, userMessage, assistantReply string) string {
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: systemInstruction},
		{Role: llm.RoleUser, Content: userMessage},
		{Role: llm.RoleAssistant, Content: assistantReply},
		{Role: llm.RoleUser, Content: closingInstruction},
	}

	generated, err := g.provider.Chat(ctx, messages)
	if err != nil {
		g.logger.Warn("title", "title generation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return ""
	}

	return strings.TrimSpace(generated)
}
