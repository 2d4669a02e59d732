package prompt

import (
	"strings"

	"github.com/changzhiho/mini-chatgpt/pkg/llm"
)

// Instructions carries the user's persisted customization fields.
type Instructions struct {
	About string
	Style string
}

// Builder assembles the outbound model payload from persisted history
// and the processed form of the latest user message.
type Builder struct{}

func NewBuilder() *Builder {
	return &Builder{}
}

// Build prepends an optional custom-instructions system message, then
// replays the persisted history. History stores the raw user text, so
// every user message whose content equals the original text is swapped
// for the processed form. The match is on content, not position: other
// user messages with identical text are substituted too.
func (b *Builder) Build(history []llm.Message, processedText, originalText string, instr Instructions) []llm.Message {
	messages := make([]llm.Message, 0, len(history)+1)

	if preamble := instructionsPreamble(instr); preamble != "" {
		messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: preamble})
	}

	for _, m := range history {
		content := m.Content
		if m.Role == llm.RoleUser && content == originalText {
			content = processedText
		}
		messages = append(messages, llm.Message{Role: m.Role, Content: content})
	}

	return messages
}

func instructionsPreamble(instr Instructions) string {
	about := strings.TrimSpace(instr.About)
	style := strings.TrimSpace(instr.Style)
	if about == "" && style == "" {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Custom user instructions:\n")
	if about != "" {
		sb.WriteString("About the user: " + about + "\n")
	}
	if style != "" {
		sb.WriteString("Preferred response style: " + style + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
