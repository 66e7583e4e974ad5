// Package responder composes assistant replies for classified user messages
// and runs the message intake pipeline around them.
package responder

import (
	"context"

	"github.com/supporthub/conversation-service/internal/domain/models"
)

// Request carries everything a completion backend may use to compose a
// reply: the raw text, the session context it arrived in, and the
// classification already computed for it.
type Request struct {
	Text           string
	Context        *models.ConversationContext
	Classification models.Classification
}

// Completer produces the assistant reply for a classified user message.
type Completer interface {
	// Complete returns the full reply text.
	Complete(ctx context.Context, req Request) (string, error)

	// CompleteStream delivers the reply incrementally through emit and
	// returns the full accumulated text. Implementations stop and return
	// the text so far when emit returns an error.
	CompleteStream(ctx context.Context, req Request, emit func(chunk string) error) (string, error)

	// Model identifies the backend for message metadata.
	Model() string
}
