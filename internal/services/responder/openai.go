package responder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/supporthub/conversation-service/internal/domain/models"
)

// DefaultMaxHistory is the number of trailing history messages forwarded to
// the completion backend.
const DefaultMaxHistory = 12

// OpenAIConfig holds the configuration for the OpenAI completer.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	MaxHistory  int
	Temperature float32
}

// OpenAICompleter composes replies through the OpenAI chat completion API.
type OpenAICompleter struct {
	client      *openai.Client
	model       string
	maxHistory  int
	temperature float32
}

// NewOpenAICompleter creates a new OpenAI-backed completer.
func NewOpenAICompleter(cfg *OpenAIConfig) (*OpenAICompleter, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	c := &OpenAICompleter{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		maxHistory:  cfg.MaxHistory,
		temperature: cfg.Temperature,
	}
	if c.model == "" {
		c.model = openai.GPT4oMini
	}
	if c.maxHistory <= 0 {
		c.maxHistory = DefaultMaxHistory
	}
	return c, nil
}

// Model identifies the backend for message metadata.
func (c *OpenAICompleter) Model() string {
	return c.model
}

// Complete returns the full reply text.
func (c *OpenAICompleter) Complete(ctx context.Context, req Request) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    c.buildMessages(req),
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// CompleteStream delivers the reply incrementally through emit.
func (c *OpenAICompleter) CompleteStream(ctx context.Context, req Request, emit func(chunk string) error) (string, error) {
	stream, err := c.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    c.buildMessages(req),
		Temperature: c.temperature,
		Stream:      true,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion stream failed: %w", err)
	}
	defer stream.Close()

	var full strings.Builder
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return full.String(), fmt.Errorf("chat completion stream read failed: %w", err)
		}
		if len(resp.Choices) == 0 {
			continue
		}
		chunk := resp.Choices[0].Delta.Content
		if chunk == "" {
			continue
		}
		full.WriteString(chunk)
		if err := emit(chunk); err != nil {
			return full.String(), err
		}
	}
	return full.String(), nil
}

func (c *OpenAICompleter) buildMessages(req Request) []openai.ChatCompletionMessage {
	msgs := make([]openai.ChatCompletionMessage, 0, c.maxHistory+2)
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: c.systemPrompt(req),
	})

	if req.Context != nil {
		history := req.Context.Messages
		if len(history) > c.maxHistory {
			history = history[len(history)-c.maxHistory:]
		}
		for _, m := range history {
			role := openai.ChatMessageRoleUser
			switch m.Type {
			case models.MessageTypeAssistant:
				role = openai.ChatMessageRoleAssistant
			case models.MessageTypeSystem:
				role = openai.ChatMessageRoleSystem
			}
			msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: m.Content})
		}
	}

	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Text,
	})
	return msgs
}

func (c *OpenAICompleter) systemPrompt(req Request) string {
	var b strings.Builder
	b.WriteString("You are a friendly customer support assistant for a SaaS product.")

	if req.Context != nil {
		if req.Context.Preferences.ResponseStyle == "detailed" {
			b.WriteString(" Give thorough answers with concrete steps.")
		} else {
			b.WriteString(" Keep answers short and to the point.")
		}
		if lang := req.Context.Preferences.Language; lang != "" && lang != "en" {
			fmt.Fprintf(&b, " Reply in the language with code %q.", lang)
		}
	}

	fmt.Fprintf(&b, " The user's message was classified as %q with confidence %.2f.",
		req.Classification.Intent, req.Classification.Confidence)

	if len(req.Classification.RelevantKnowledge) > 0 {
		b.WriteString("\nGround your answer in these knowledge base entries when relevant:")
		for _, ranked := range req.Classification.RelevantKnowledge {
			fmt.Fprintf(&b, "\n- Q: %s A: %s", ranked.Entry.Question, ranked.Entry.Answer)
		}
	}
	return b.String()
}
