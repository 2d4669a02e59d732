package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/changzhiho/mini-chatgpt/pkg/llm"
)

func TestBuildSubstitution(t *testing.T) {
	b := NewBuilder()

	history := []llm.Message{
		{Role: llm.RoleUser, Content: "/translate bonjour"},
		{Role: llm.RoleAssistant, Content: "hello"},
		{Role: llm.RoleUser, Content: "/translate bonjour"},
	}

	got := b.Build(history, "Translate the following text to English bonjour", "/translate bonjour", Instructions{})

	assert.Len(t, got, 3)
	// Matching is by content, so both identical user messages are swapped.
	assert.Equal(t, "Translate the following text to English bonjour", got[0].Content)
	assert.Equal(t, "hello", got[1].Content)
	assert.Equal(t, "Translate the following text to English bonjour", got[2].Content)
}

func TestBuildLeavesAssistantMessagesAlone(t *testing.T) {
	b := NewBuilder()

	history := []llm.Message{
		{Role: llm.RoleUser, Content: "echo"},
		{Role: llm.RoleAssistant, Content: "echo"},
	}

	got := b.Build(history, "expanded", "echo", Instructions{})

	assert.Equal(t, "expanded", got[0].Content)
	assert.Equal(t, "echo", got[1].Content)
}

func TestBuildInstructionsPreamble(t *testing.T) {
	b := NewBuilder()
	history := []llm.Message{{Role: llm.RoleUser, Content: "hi"}}

	tests := []struct {
		name         string
		instructions Instructions
		wantPreamble string
	}{
		{
			name:         "no instructions, no system message",
			instructions: Instructions{},
			wantPreamble: "",
		},
		{
			name:         "about only",
			instructions: Instructions{About: "I am a nurse"},
			wantPreamble: "Custom user instructions:\nAbout the user: I am a nurse",
		},
		{
			name:         "style only",
			instructions: Instructions{Style: "Short answers"},
			wantPreamble: "Custom user instructions:\nPreferred response style: Short answers",
		},
		{
			name:         "both fields",
			instructions: Instructions{About: "I am a nurse", Style: "Short answers"},
			wantPreamble: "Custom user instructions:\nAbout the user: I am a nurse\nPreferred response style: Short answers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := b.Build(history, "hi", "hi", tt.instructions)

			if tt.wantPreamble == "" {
				assert.Len(t, got, 1)
				assert.Equal(t, llm.RoleUser, got[0].Role)
				return
			}

			assert.Len(t, got, 2)
			assert.Equal(t, llm.RoleSystem, got[0].Role)
			assert.Equal(t, tt.wantPreamble, got[0].Content)
		})
	}
}
