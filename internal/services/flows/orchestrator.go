// Package flows drives the guided onboarding and troubleshooting dialogues
// over a session's flow state.
package flows

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/supporthub/conversation-service/internal/core/store"
	"github.com/supporthub/conversation-service/internal/domain/models"
	"github.com/supporthub/conversation-service/internal/services/conversation"
)

// DefaultMaxEscalation caps how many times troubleshooting may exhaust its
// solution list before handing the conversation to human support.
const DefaultMaxEscalation = 3

// Canned flow messages.
const (
	resolutionMessage   = "Great, glad that solved it! Is there anything else I can help you with?"
	humanSupportMessage = "I'm sorry we couldn't resolve this together. I'm escalating your case to our human support team, and they'll follow up with you shortly."
	recoveryMessage     = "Sorry, something went wrong on my end. Let's start over. How can I help?"
)

func solutionPrompt(s Solution) string {
	return fmt.Sprintf("Let's try this: %s Tell me if that worked or didn't work.", s.Instruction)
}

func differentApproachPrompt(issue string) string {
	return fmt.Sprintf("That didn't do it either. Let me look at \"%s\" from a different angle and walk through the options again.", issue)
}

// Result describes the outcome of one orchestrator operation on a session.
type Result struct {
	// Applied is false when the operation did not apply to the session's
	// current flow state (for example advancing while not onboarding).
	Applied bool `json:"applied"`
	// Completed is true when the operation terminated its flow.
	Completed bool `json:"completed"`
	// Escalated is true when troubleshooting exhausted its solutions.
	Escalated bool `json:"escalated"`
	// Message is the system message emitted, if any.
	Message *models.Message `json:"message,omitempty"`
	// Step is the onboarding step now active, if any.
	Step *OnboardingStep `json:"step,omitempty"`
	// Solution is the troubleshooting solution now offered, if any.
	Solution *Solution `json:"solution,omitempty"`
	// Flow is the session's flow state after the operation.
	Flow models.FlowState `json:"flow"`
}

// OnboardingStatus is the recomputed read-model of an active onboarding flow.
// The persisted truth is only the step index.
type OnboardingStatus struct {
	StepIndex   int              `json:"stepIndex"`
	TotalSteps  int              `json:"totalSteps"`
	Completion  float64          `json:"completion"`
	CurrentStep OnboardingStep   `json:"currentStep"`
	Steps       []OnboardingStep `json:"steps"`
}

// TroubleshootingStatus is the read-model of an active troubleshooting flow.
type TroubleshootingStatus struct {
	State          models.TroubleshootingState `json:"state"`
	TotalSolutions int                         `json:"totalSolutions"`
	NextSolution   *Solution                   `json:"nextSolution,omitempty"`
}

// Status is the on-demand read-model of a session's flow state.
type Status struct {
	SessionID       string                 `json:"sessionId"`
	Mode            models.FlowMode        `json:"mode"`
	CurrentIntent   string                 `json:"currentIntent,omitempty"`
	Onboarding      *OnboardingStatus      `json:"onboarding,omitempty"`
	Troubleshooting *TroubleshootingStatus `json:"troubleshooting,omitempty"`
}

// Orchestrator drives the guided flows. Operations follow the store's
// not-found convention: a missing session yields a nil result, never an
// error, so callers can branch without special error handling.
type Orchestrator interface {
	// StartOnboarding puts the session at step zero of the flow type's
	// catalog and emits the welcome message. Returns (nil, nil) for an
	// unknown flow type or a missing session.
	StartOnboarding(ctx context.Context, sessionID, flowType string) (*Result, error)

	// AdvanceOnboarding moves the session to the next step, or completes
	// the flow when the catalog is exhausted. Not applicable (Applied=false)
	// while the session is not onboarding.
	AdvanceOnboarding(ctx context.Context, sessionID string) (*Result, error)

	// StartTroubleshooting begins the escalation flow for the given issue
	// and offers the first solution. Returns (nil, nil) for empty issue text
	// or a missing session.
	StartTroubleshooting(ctx context.Context, sessionID, issue string) (*Result, error)

	// ReportOutcome records whether the offered solution worked. Success
	// terminates the flow; failure offers the next solution or escalates.
	// Not applicable while the session is not troubleshooting.
	ReportOutcome(ctx context.Context, sessionID string, worked bool) (*Result, error)

	// Transition dispatches a generic mode change: into onboarding
	// re-initializes the default walkthrough, into idle clears all flow
	// state, into troubleshooting is a placeholder. Returns false only when
	// the session does not exist.
	Transition(ctx context.Context, sessionID string, from, to models.FlowMode) (bool, error)

	// RecoverFromError emits an apologetic message and forces the session
	// to idle. Returns false when the session is missing or persistence
	// fails.
	RecoverFromError(ctx context.Context, sessionID string, cause error) (bool, error)

	// PreserveHistory asks the context manager to rewrite an over-long
	// history while keeping flow-related messages.
	PreserveHistory(ctx context.Context, sessionID string) (bool, error)

	// Status recomputes the transient flow read-model for a session.
	Status(ctx context.Context, sessionID string) (*Status, error)
}

// Config holds the configuration for the orchestrator.
type Config struct {
	Store         store.Store
	Manager       conversation.Manager
	MaxEscalation int
	Logger        *zerolog.Logger
}

// orchestrator implements the Orchestrator interface.
type orchestrator struct {
	store         store.Store
	manager       conversation.Manager
	maxEscalation int
	logger        zerolog.Logger
}

// NewOrchestrator creates a new flow orchestrator.
func NewOrchestrator(cfg *Config) (Orchestrator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if cfg.Manager == nil {
		return nil, fmt.Errorf("manager is required")
	}

	o := &orchestrator{
		store:         cfg.Store,
		manager:       cfg.Manager,
		maxEscalation: cfg.MaxEscalation,
		logger:        log.Logger,
	}
	if o.maxEscalation <= 0 {
		o.maxEscalation = DefaultMaxEscalation
	}
	if cfg.Logger != nil {
		o.logger = *cfg.Logger
	}
	return o, nil
}

// StartOnboarding puts the session at step zero and emits the welcome prompt.
func (o *orchestrator) StartOnboarding(ctx context.Context, sessionID, flowType string) (*Result, error) {
	steps, ok := CatalogFor(flowType)
	if !ok {
		return nil, nil
	}

	sess, err := o.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	if sess == nil {
		return nil, nil
	}

	msg, err := o.emit(ctx, sessionID, steps[0].Prompt, models.IntentOnboarding)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, nil
	}

	flow := models.OnboardingFlow(0)
	intent := models.IntentOnboarding
	if _, err := o.store.UpdateContext(ctx, sessionID, models.ContextPatch{CurrentIntent: &intent, Flow: &flow}); err != nil {
		return nil, fmt.Errorf("failed to persist onboarding state for session %s: %w", sessionID, err)
	}

	o.logger.Debug().Str("sessionId", sessionID).Msg("onboarding started")
	step := steps[0]
	return &Result{Applied: true, Message: msg, Step: &step, Flow: flow}, nil
}

// AdvanceOnboarding moves the session one step forward, completing the flow
// once the next step is the catalog's completion marker.
func (o *orchestrator) AdvanceOnboarding(ctx context.Context, sessionID string) (*Result, error) {
	sess, err := o.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	if sess == nil {
		return nil, nil
	}

	stepIndex, ok := sess.Context.Flow.OnboardingStep()
	if !ok {
		return &Result{Applied: false, Flow: sess.Context.Flow}, nil
	}

	steps, _ := CatalogFor(DefaultFlowType)
	next := stepIndex + 1

	if next >= len(steps)-1 {
		msg, err := o.emit(ctx, sessionID, steps[len(steps)-1].Prompt, models.IntentOnboarding)
		if err != nil {
			return nil, err
		}
		if msg == nil {
			return nil, nil
		}
		if err := o.clearFlow(ctx, sessionID); err != nil {
			return nil, err
		}
		o.logger.Debug().Str("sessionId", sessionID).Msg("onboarding completed")
		return &Result{Applied: true, Completed: true, Message: msg, Flow: models.IdleFlow()}, nil
	}

	msg, err := o.emit(ctx, sessionID, steps[next].Prompt, models.IntentOnboarding)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, nil
	}

	flow := models.OnboardingFlow(next)
	if _, err := o.store.UpdateContext(ctx, sessionID, models.ContextPatch{Flow: &flow}); err != nil {
		return nil, fmt.Errorf("failed to persist onboarding step for session %s: %w", sessionID, err)
	}

	step := steps[next]
	return &Result{Applied: true, Message: msg, Step: &step, Flow: flow}, nil
}

// StartTroubleshooting begins the escalation flow for the given issue.
func (o *orchestrator) StartTroubleshooting(ctx context.Context, sessionID, issue string) (*Result, error) {
	issue = strings.TrimSpace(issue)
	if issue == "" {
		return nil, nil
	}

	sess, err := o.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	if sess == nil {
		return nil, nil
	}

	solutions := SolutionsFor(issue)
	first := solutions[0]

	msg, err := o.emit(ctx, sessionID, solutionPrompt(first), models.IntentTroubleshooting)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, nil
	}

	state := models.TroubleshootingState{Issue: issue, AttemptedSolutions: []string{}}
	flow := models.TroubleshootingFlow(state)
	intent := models.IntentTroubleshooting
	if _, err := o.store.UpdateContext(ctx, sessionID, models.ContextPatch{CurrentIntent: &intent, Flow: &flow}); err != nil {
		return nil, fmt.Errorf("failed to persist troubleshooting state for session %s: %w", sessionID, err)
	}

	o.logger.Debug().Str("sessionId", sessionID).Str("issue", issue).Msg("troubleshooting started")
	return &Result{Applied: true, Message: msg, Solution: &first, Flow: flow}, nil
}

// ReportOutcome records the outcome of the last offered solution.
func (o *orchestrator) ReportOutcome(ctx context.Context, sessionID string, worked bool) (*Result, error) {
	sess, err := o.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	if sess == nil {
		return nil, nil
	}

	state, ok := sess.Context.Flow.Troubleshooting()
	if !ok {
		return &Result{Applied: false, Flow: sess.Context.Flow}, nil
	}

	if worked {
		msg, err := o.emit(ctx, sessionID, resolutionMessage, models.IntentTroubleshooting)
		if err != nil {
			return nil, err
		}
		if msg == nil {
			return nil, nil
		}
		if err := o.clearFlow(ctx, sessionID); err != nil {
			return nil, err
		}
		o.logger.Debug().Str("sessionId", sessionID).Msg("troubleshooting resolved")
		return &Result{Applied: true, Completed: true, Message: msg, Flow: models.IdleFlow()}, nil
	}

	solutions := SolutionsFor(state.Issue)
	attempted := state.AttemptedSolutions
	if len(attempted) < len(solutions) {
		attempted = append(attempted, solutions[len(attempted)].ID)
	}

	if len(attempted) >= len(solutions) {
		// Solution list exhausted: escalate.
		level := state.EscalationLevel + 1
		if level >= o.maxEscalation {
			msg, err := o.emit(ctx, sessionID, humanSupportMessage, models.IntentTroubleshooting)
			if err != nil {
				return nil, err
			}
			if msg == nil {
				return nil, nil
			}
			if err := o.clearFlow(ctx, sessionID); err != nil {
				return nil, err
			}
			o.logger.Info().Str("sessionId", sessionID).Str("issue", state.Issue).Msg("troubleshooting escalated to human support")
			return &Result{Applied: true, Completed: true, Escalated: true, Message: msg, Flow: models.IdleFlow()}, nil
		}

		msg, err := o.emit(ctx, sessionID, differentApproachPrompt(state.Issue), models.IntentTroubleshooting)
		if err != nil {
			return nil, err
		}
		if msg == nil {
			return nil, nil
		}
		next := models.TroubleshootingState{Issue: state.Issue, AttemptedSolutions: attempted, EscalationLevel: level}
		flow := models.TroubleshootingFlow(next)
		if _, err := o.store.UpdateContext(ctx, sessionID, models.ContextPatch{Flow: &flow}); err != nil {
			return nil, fmt.Errorf("failed to persist escalation for session %s: %w", sessionID, err)
		}
		return &Result{Applied: true, Escalated: true, Message: msg, Flow: flow}, nil
	}

	nextSolution := solutions[len(attempted)]
	msg, err := o.emit(ctx, sessionID, solutionPrompt(nextSolution), models.IntentTroubleshooting)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, nil
	}
	next := models.TroubleshootingState{Issue: state.Issue, AttemptedSolutions: attempted, EscalationLevel: state.EscalationLevel}
	flow := models.TroubleshootingFlow(next)
	if _, err := o.store.UpdateContext(ctx, sessionID, models.ContextPatch{Flow: &flow}); err != nil {
		return nil, fmt.Errorf("failed to persist troubleshooting progress for session %s: %w", sessionID, err)
	}
	return &Result{Applied: true, Message: msg, Solution: &nextSolution, Flow: flow}, nil
}

// Transition dispatches a generic conversational mode change.
func (o *orchestrator) Transition(ctx context.Context, sessionID string, from, to models.FlowMode) (bool, error) {
	sess, err := o.store.Get(ctx, sessionID)
	if err != nil {
		return false, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	if sess == nil {
		return false, nil
	}

	o.logger.Debug().
		Str("sessionId", sessionID).
		Str("from", string(from)).
		Str("to", string(to)).
		Msg("flow transition")

	switch to {
	case models.FlowOnboarding:
		result, err := o.StartOnboarding(ctx, sessionID, DefaultFlowType)
		if err != nil {
			return false, err
		}
		return result != nil, nil
	case models.FlowIdle:
		if err := o.clearFlow(ctx, sessionID); err != nil {
			return false, err
		}
		return true, nil
	default:
		// Troubleshooting needs issue text; its initializer runs separately.
		return true, nil
	}
}

// RecoverFromError apologizes and forces the session back to idle.
func (o *orchestrator) RecoverFromError(ctx context.Context, sessionID string, cause error) (bool, error) {
	o.logger.Warn().
		Str("sessionId", sessionID).
		AnErr("cause", cause).
		Msg("recovering conversation from error")

	msg, err := o.emit(ctx, sessionID, recoveryMessage, models.IntentErrorRecovery)
	if err != nil {
		return false, err
	}
	if msg == nil {
		return false, nil
	}
	if err := o.clearFlow(ctx, sessionID); err != nil {
		return false, err
	}
	return true, nil
}

// PreserveHistory rewrites an over-long history keeping flow messages.
func (o *orchestrator) PreserveHistory(ctx context.Context, sessionID string) (bool, error) {
	preserved, err := o.manager.PreserveHistory(ctx, sessionID)
	if err != nil {
		return false, err
	}
	return preserved != nil, nil
}

// Status recomputes the transient flow read-model.
func (o *orchestrator) Status(ctx context.Context, sessionID string) (*Status, error) {
	sess, err := o.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	if sess == nil {
		return nil, nil
	}

	status := &Status{
		SessionID:     sessionID,
		Mode:          sess.Context.Flow.Mode(),
		CurrentIntent: sess.Context.CurrentIntent,
	}

	if stepIndex, ok := sess.Context.Flow.OnboardingStep(); ok {
		steps, _ := CatalogFor(DefaultFlowType)
		completion := 0.0
		if len(steps) > 1 {
			completion = float64(stepIndex) / float64(len(steps)-1) * 100
		}
		if completion > 100 {
			completion = 100
		}
		current := steps[len(steps)-1]
		if stepIndex < len(steps) {
			current = steps[stepIndex]
		}
		status.Onboarding = &OnboardingStatus{
			StepIndex:   stepIndex,
			TotalSteps:  len(steps),
			Completion:  completion,
			CurrentStep: current,
			Steps:       steps,
		}
	}

	if state, ok := sess.Context.Flow.Troubleshooting(); ok {
		solutions := SolutionsFor(state.Issue)
		ts := &TroubleshootingStatus{State: state, TotalSolutions: len(solutions)}
		if len(state.AttemptedSolutions) < len(solutions) {
			next := solutions[len(state.AttemptedSolutions)]
			ts.NextSolution = &next
		}
		status.Troubleshooting = ts
	}

	return status, nil
}

// emit records a system message through the context manager. A nil message
// with nil error means the session disappeared.
func (o *orchestrator) emit(ctx context.Context, sessionID, content, intent string) (*models.Message, error) {
	msg := models.NewSystemMessage(sessionID, content, intent)
	recorded, err := o.manager.RecordMessage(ctx, sessionID, msg)
	if err != nil {
		return nil, fmt.Errorf("failed to record flow message for session %s: %w", sessionID, err)
	}
	if recorded == nil {
		return nil, nil
	}
	return &msg, nil
}

// clearFlow clears the current intent, which also resets the flow to idle.
func (o *orchestrator) clearFlow(ctx context.Context, sessionID string) error {
	clear := ""
	if _, err := o.store.UpdateContext(ctx, sessionID, models.ContextPatch{CurrentIntent: &clear}); err != nil {
		return fmt.Errorf("failed to clear flow state for session %s: %w", sessionID, err)
	}
	return nil
}
