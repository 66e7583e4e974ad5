package responder

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/supporthub/conversation-service/internal/core/knowledge"
	"github.com/supporthub/conversation-service/internal/core/store"
	"github.com/supporthub/conversation-service/internal/domain/models"
	"github.com/supporthub/conversation-service/internal/services/classifier"
	"github.com/supporthub/conversation-service/internal/services/conversation"
	"github.com/supporthub/conversation-service/internal/services/flows"
	"github.com/supporthub/conversation-service/internal/services/triggers"
)

// Reply is the outcome of one message intake: the reply message recorded in
// the session plus the supporting signals the caller may surface.
type Reply struct {
	// Message is the reply recorded in the session history: the flow's
	// system message when a trigger fired, the assistant message otherwise.
	Message models.Message `json:"message"`
	// Classification is set on the scored path.
	Classification *models.Classification `json:"classification,omitempty"`
	// FlowResult is set when a keyword trigger drove the orchestrator.
	FlowResult *flows.Result `json:"flowResult,omitempty"`
	// Suggestions are the ranked knowledge entries for the scored path.
	Suggestions []models.RankedEntry `json:"suggestions,omitempty"`
	// LatencyMs is the end-to-end intake latency.
	LatencyMs int64 `json:"latencyMs"`
}

// Responder runs the message intake pipeline: keyword triggers first, then
// classification, persistence and reply composition. A missing session
// yields a nil reply, never an error.
type Responder interface {
	// Respond handles one user message and returns the recorded reply.
	Respond(ctx context.Context, sessionID, text string) (*Reply, error)

	// RespondStream behaves like Respond but delivers the reply text
	// incrementally through emit before returning the full reply.
	RespondStream(ctx context.Context, sessionID, text string, emit func(chunk string) error) (*Reply, error)
}

// Config holds the configuration for the responder.
type Config struct {
	Store      store.Store
	Manager    conversation.Manager
	Classifier classifier.Classifier
	Detector   triggers.Detector
	// Knowledge is optional; without it classification runs entry-less.
	Knowledge knowledge.Provider
	// Completer is optional; without it replies come from the template
	// completer, which also backs up a failing configured backend.
	Completer Completer
	Clock     func() time.Time
	Logger    *zerolog.Logger
}

// responder implements the Responder interface.
type responder struct {
	store      store.Store
	manager    conversation.Manager
	classifier classifier.Classifier
	detector   triggers.Detector
	knowledge  knowledge.Provider
	primary    Completer
	fallback   *TemplateCompleter
	clock      func() time.Time
	logger     zerolog.Logger
}

// NewResponder creates a new message intake responder.
func NewResponder(cfg *Config) (Responder, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if cfg.Manager == nil {
		return nil, fmt.Errorf("manager is required")
	}
	if cfg.Classifier == nil {
		return nil, fmt.Errorf("classifier is required")
	}
	if cfg.Detector == nil {
		return nil, fmt.Errorf("detector is required")
	}

	r := &responder{
		store:      cfg.Store,
		manager:    cfg.Manager,
		classifier: cfg.Classifier,
		detector:   cfg.Detector,
		knowledge:  cfg.Knowledge,
		primary:    cfg.Completer,
		fallback:   NewTemplateCompleter(),
		clock:      cfg.Clock,
		logger:     log.Logger,
	}
	if r.clock == nil {
		r.clock = time.Now
	}
	if cfg.Logger != nil {
		r.logger = *cfg.Logger
	}
	return r, nil
}

// Respond handles one user message and returns the recorded reply.
func (r *responder) Respond(ctx context.Context, sessionID, text string) (*Reply, error) {
	return r.respond(ctx, sessionID, text, nil)
}

// RespondStream delivers the reply incrementally through emit.
func (r *responder) RespondStream(ctx context.Context, sessionID, text string, emit func(chunk string) error) (*Reply, error) {
	if emit == nil {
		return nil, fmt.Errorf("emit callback is required")
	}
	return r.respond(ctx, sessionID, text, emit)
}

func (r *responder) respond(ctx context.Context, sessionID, text string, emit func(chunk string) error) (*Reply, error) {
	started := r.clock()

	sess, err := r.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	if sess == nil {
		return nil, nil
	}

	userRecorded := false
	if trig := r.detector.Match(sess, text); trig != nil {
		if _, err := r.manager.RecordMessage(ctx, sessionID, models.NewUserMessage(sessionID, text)); err != nil {
			return nil, fmt.Errorf("failed to record user message for session %s: %w", sessionID, err)
		}
		userRecorded = true

		result, err := r.detector.Apply(ctx, sessionID, trig)
		if err != nil {
			return nil, err
		}
		if result != nil && result.Applied && result.Message != nil {
			if emit != nil {
				if err := emit(result.Message.Content); err != nil {
					return nil, err
				}
			}
			return &Reply{
				Message:    *result.Message,
				FlowResult: result,
				LatencyMs:  r.clock().Sub(started).Milliseconds(),
			}, nil
		}
		r.logger.Debug().Str("sessionId", sessionID).Msg("matched flow trigger did not apply, composing scored reply")
	}

	entries := r.loadKnowledge(ctx)
	classification := r.classifier.Classify(text, &sess.Context, entries)

	if !userRecorded {
		userMsg := models.NewUserMessage(sessionID, text)
		userMsg.Metadata = &models.MessageMetadata{
			Intent:     classification.Intent,
			Confidence: classification.Confidence,
		}
		updated, err := r.manager.RecordMessage(ctx, sessionID, userMsg)
		if err != nil {
			return nil, fmt.Errorf("failed to record user message for session %s: %w", sessionID, err)
		}
		if updated == nil {
			return nil, nil
		}
	}

	req := Request{Text: text, Context: &sess.Context, Classification: classification}
	replyText, model := r.complete(ctx, req, emit)

	latency := r.clock().Sub(started).Milliseconds()
	assistant := models.NewAssistantMessage(sessionID, replyText)
	assistant.Metadata = &models.MessageMetadata{
		Intent:    classification.Intent,
		LatencyMs: latency,
		Model:     model,
	}
	if _, err := r.manager.RecordMessage(ctx, sessionID, assistant); err != nil {
		return nil, fmt.Errorf("failed to record assistant message for session %s: %w", sessionID, err)
	}

	return &Reply{
		Message:        assistant,
		Classification: &classification,
		Suggestions:    classification.RelevantKnowledge,
		LatencyMs:      latency,
	}, nil
}

// complete runs the configured backend and falls back to the template
// completer when the backend fails before any chunk reached the caller.
func (r *responder) complete(ctx context.Context, req Request, emit func(chunk string) error) (string, string) {
	if r.primary == nil {
		text, _ := r.run(ctx, r.fallback, req, emit)
		return text, r.fallback.Model()
	}

	emitted := false
	wrapped := emit
	if emit != nil {
		wrapped = func(chunk string) error {
			emitted = true
			return emit(chunk)
		}
	}

	text, err := r.run(ctx, r.primary, req, wrapped)
	if err == nil {
		return text, r.primary.Model()
	}
	if emitted || text != "" {
		// Part of the reply is already on the wire; keep what we have
		// rather than re-emitting a different one.
		r.logger.Warn().Err(err).Msg("completion backend failed mid-reply")
		return text, r.primary.Model()
	}

	r.logger.Warn().Err(err).Msg("completion backend failed, using template reply")
	text, _ = r.run(ctx, r.fallback, req, emit)
	return text, r.fallback.Model()
}

func (r *responder) run(ctx context.Context, c Completer, req Request, emit func(chunk string) error) (string, error) {
	if emit == nil {
		return c.Complete(ctx, req)
	}
	return c.CompleteStream(ctx, req, emit)
}

func (r *responder) loadKnowledge(ctx context.Context) []models.KnowledgeEntry {
	if r.knowledge == nil {
		return nil
	}
	entries, err := r.knowledge.List(ctx)
	if err != nil {
		r.logger.Warn().Err(err).Msg("knowledge lookup failed, classifying without entries")
		return nil
	}
	return entries
}
