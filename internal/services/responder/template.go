package responder

import (
	"context"
	"strings"

	"github.com/supporthub/conversation-service/internal/domain/models"
)

// templateModel labels replies produced without a completion backend.
const templateModel = "template"

// streamChunkSize is the rune count per emitted chunk when the template
// completer simulates streaming.
const streamChunkSize = 48

// TemplateCompleter composes replies deterministically from the
// classification and the ranked knowledge entries. It is the fallback when
// no completion backend is configured or the configured one fails.
type TemplateCompleter struct{}

// NewTemplateCompleter creates a new template completer.
func NewTemplateCompleter() *TemplateCompleter {
	return &TemplateCompleter{}
}

// Model identifies the backend for message metadata.
func (t *TemplateCompleter) Model() string {
	return templateModel
}

// Complete returns the composed reply text.
func (t *TemplateCompleter) Complete(_ context.Context, req Request) (string, error) {
	return t.compose(req), nil
}

// CompleteStream delivers the composed reply in fixed-size chunks.
func (t *TemplateCompleter) CompleteStream(_ context.Context, req Request, emit func(chunk string) error) (string, error) {
	reply := t.compose(req)
	for _, chunk := range splitChunks(reply, streamChunkSize) {
		if err := emit(chunk); err != nil {
			return reply, err
		}
	}
	return reply, nil
}

func (t *TemplateCompleter) compose(req Request) string {
	detailed := req.Context != nil && req.Context.Preferences.ResponseStyle == "detailed"

	var top *models.KnowledgeEntry
	if len(req.Classification.RelevantKnowledge) > 0 {
		top = &req.Classification.RelevantKnowledge[0].Entry
	}

	var reply string
	switch req.Classification.Intent {
	case models.IntentFAQ:
		if top != nil {
			reply = top.Answer
		} else {
			reply = "Happy to help. Could you share a bit more detail about what you're trying to do?"
		}
	case models.IntentTroubleshooting:
		if top != nil {
			reply = "Let's get that sorted. " + top.Answer
		} else {
			reply = "Let's get that sorted. Tell me what exactly is not working and I'll walk you through some fixes."
		}
	case models.IntentOnboarding:
		reply = "Welcome! Say \"get started\" whenever you're ready and I'll walk you through the basics step by step."
	case models.IntentProduct:
		if top != nil {
			reply = top.Answer
		} else {
			reply = "I can help with plans and features. Which one are you curious about?"
		}
	default:
		reply = "Thanks for reaching out! I can answer questions, walk you through getting started, or help fix an issue. What would you like to do?"
	}

	if detailed {
		reply += relatedTopics(req.Classification.RelevantKnowledge)
	}
	return reply
}

// relatedTopics lists the questions of the runner-up knowledge entries.
func relatedTopics(entries []models.RankedEntry) string {
	if len(entries) <= 1 {
		return ""
	}
	questions := make([]string, 0, len(entries)-1)
	for _, ranked := range entries[1:] {
		questions = append(questions, ranked.Entry.Question)
	}
	return "\n\nRelated topics: " + strings.Join(questions, " | ")
}

func splitChunks(text string, size int) []string {
	if size <= 0 {
		size = streamChunkSize
	}
	runes := []rune(text)
	chunks := make([]string, 0, len(runes)/size+1)
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
