package openrouter

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/changzhiho/mini-chatgpt/internal/pkg/logger"
	"github.com/changzhiho/mini-chatgpt/pkg/llm"
)

const (
	ssePrefix = "data: "
	sseDone   = "data: [DONE]"
)

// Provider talks to the OpenRouter chat-completion API (OpenAI
// compatible wire format).
type Provider struct {
	baseURL string
	apiKey  string
	client  *http.Client
	catalog *Catalog
	logger  logger.ILogger
	nowFn   func() time.Time
}

// Ensure Provider implements ChatProvider
var _ llm.ChatProvider = &Provider{}

func NewProvider(baseURL, apiKey, defaultModel string, log logger.ILogger) *Provider {
	p := &Provider{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
		logger: log,
		nowFn:  time.Now,
	}
	p.catalog = NewCatalog(p.fetchModels, time.Now, defaultModel)
	return p
}

// Catalog exposes the shared model snapshot cache.
func (p *Provider) Catalog() *Catalog {
	return p.catalog
}

// --- Request/Response structs (Internal to this package) ---

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []llm.Message `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	Stream      bool          `json:"stream,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type streamChunk struct {
	Choices []struct {
		Delta struct {
			// Pointer distinguishes "absent" from an empty fragment.
			Content *string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

type modelsResponse struct {
	Data []struct {
		Id            string `json:"id"`
		Name          string `json:"name"`
		ContextLength int    `json:"context_length"`
		TopProvider   struct {
			MaxCompletionTokens int `json:"max_completion_tokens"`
		} `json:"top_provider"`
		Pricing ModelPricing `json:"pricing"`
	} `json:"data"`
}

// --- Interface Implementation ---

func (p *Provider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	opts := applyOptions(options)

	model, err := p.catalog.Resolve(ctx, opts.Model)
	if err != nil {
		return "", fmt.Errorf("resolve model: %w", err)
	}

	reqBody := chatRequest{
		Model:       model,
		Messages:    p.withPreamble(history, opts.UserName),
		Temperature: opts.Temperature,
	}

	resp, err := p.post(ctx, "/chat/completions", reqBody)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openrouter error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(bodyBytes, &chatResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if chatResp.Error != nil {
		return "", fmt.Errorf("openrouter returned error: %s", chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("empty choices from openrouter")
	}

	return chatResp.Choices[0].Message.Content, nil
}

// ChatStream reads the event stream line by line. Partial lines split
// across network reads are buffered by the reader and only complete
// lines are parsed; a malformed line is logged and skipped, never fatal
// to the stream.
func (p *Provider) ChatStream(ctx context.Context, history []llm.Message, onChunk llm.ChunkHandler, options ...llm.Option) (string, error) {
	opts := applyOptions(options)

	model, err := p.catalog.Resolve(ctx, opts.Model)
	if err != nil {
		return "", fmt.Errorf("resolve model: %w", err)
	}

	reqBody := chatRequest{
		Model:       model,
		Messages:    p.withPreamble(history, opts.UserName),
		Temperature: opts.Temperature,
		Stream:      true,
	}

	resp, err := p.post(ctx, "/chat/completions", reqBody)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("openrouter error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var full strings.Builder
	reader := bufio.NewReader(resp.Body)

	for {
		line, readErr := reader.ReadString('\n')

		// An unterminated tail at EOF is still a complete event.
		if line != "" {
			if done := p.handleLine(line, onChunk, &full); done {
				break
			}
		}

		if readErr != nil {
			if readErr == io.EOF {
				break
			}
			// Connection-level failure: whatever was already delivered
			// stays delivered, return the accumulated text with the error.
			return full.String(), fmt.Errorf("read stream: %w", readErr)
		}
	}

	return full.String(), nil
}

// handleLine parses one event line, forwarding its fragment. Returns
// true on the end-of-stream sentinel.
func (p *Provider) handleLine(line string, onChunk llm.ChunkHandler, full *strings.Builder) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if line == sseDone {
		return true
	}
	if !strings.HasPrefix(line, ssePrefix) {
		return false
	}

	var chunk streamChunk
	if err := json.Unmarshal([]byte(line[len(ssePrefix):]), &chunk); err != nil {
		p.logger.Warn("openrouter", "skipping malformed stream line", map[string]interface{}{
			"line":  line,
			"error": err.Error(),
		})
		return false
	}

	if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != nil {
		fragment := *chunk.Choices[0].Delta.Content
		full.WriteString(fragment)
		onChunk(fragment)
	}
	return false
}

func (p *Provider) post(ctx context.Context, path string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openrouter request failed: %w", err)
	}
	return resp, nil
}

// fetchModels backs the catalog: GET /models sorted by display name.
func (p *Provider) fetchModels(ctx context.Context) ([]ModelInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/models", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openrouter request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openrouter error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var parsed modelsResponse
	if err := json.Unmarshal(bodyBytes, &parsed); err != nil {
		return nil, fmt.Errorf("decode models: %w", err)
	}

	models := make([]ModelInfo, 0, len(parsed.Data))
	for _, m := range parsed.Data {
		models = append(models, ModelInfo{
			Id:                  m.Id,
			Name:                m.Name,
			ContextLength:       m.ContextLength,
			MaxCompletionTokens: m.TopProvider.MaxCompletionTokens,
			Pricing:             m.Pricing,
		})
	}
	sort.Slice(models, func(i, j int) bool {
		return models[i].Name < models[j].Name
	})

	return models, nil
}

// withPreamble prepends the synthesized system message. It is kept out
// of persisted history so stored context is never polluted by it.
func (p *Provider) withPreamble(history []llm.Message, userName string) []llm.Message {
	now := p.nowFn()
	content := fmt.Sprintf(
		"You are a chat assistant. The current date and time is %s.\nYou are currently talking to %s.",
		now.Format("Monday 02 January 2006 15:04"),
		userName,
	)
	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: content})
	return append(messages, history...)
}

func applyOptions(options []llm.Option) *llm.Options {
	opts := &llm.Options{
		Temperature: 0.7, // Default
	}
	for _, o := range options {
		o(opts)
	}
	return opts
}
