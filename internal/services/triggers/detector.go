// Package triggers inspects raw user text for coarse flow phrases and
// drives the orchestrator directly, so obvious requests never wait on the
// scored classifier. Matching is deliberately crude: lowercase substring
// checks for multi-word phrases, whole-word checks for single words.
package triggers

import (
	"context"
	"fmt"
	"strings"

	"github.com/supporthub/conversation-service/internal/domain/models"
	"github.com/supporthub/conversation-service/internal/services/flows"
)

var (
	onboardingPhrases = []string{
		"help me get started",
		"get started",
		"getting started",
		"how do i begin",
		"walk me through",
		"new here",
		"set up my account",
	}
	troubleshootingPhrases = []string{
		"not working",
		"doesn't work",
		"does not work",
		"doesnt work",
		"is broken",
		"keeps crashing",
		"something went wrong",
		"i have a problem",
		"having trouble",
	}
	// negativeOutcomePhrases run before positiveOutcomePhrases so that
	// "hasn't worked" never reads as success.
	negativeOutcomePhrases = []string{
		"didn't work",
		"did not work",
		"didnt work",
		"hasn't worked",
		"hasnt worked",
		"still not working",
		"still broken",
		"didn't help",
		"did not help",
		"no luck",
	}
	positiveOutcomePhrases = []string{
		"that worked",
		"it worked",
		"worked",
		"that fixed it",
		"fixed it",
		"solved",
		"all good now",
	}
	advancePhrases = []string{
		"next step",
		"what's next",
		"whats next",
		"next",
		"continue",
		"done",
		"ready",
	}
)

// Kind enumerates the orchestrator operations a trigger can fire.
type Kind string

const (
	KindStartOnboarding      Kind = "start_onboarding"
	KindStartTroubleshooting Kind = "start_troubleshooting"
	KindAdvanceOnboarding    Kind = "advance_onboarding"
	KindReportOutcome        Kind = "report_outcome"
)

// Trigger is a matched flow phrase, carrying the parameters the
// orchestrator operation needs.
type Trigger struct {
	Kind   Kind
	Issue  string
	Worked bool
}

// Detector scans user text for coarse flow triggers. Match is pure so
// callers can sequence their own persistence between matching and acting.
type Detector interface {
	// Match scans the text against the session's current flow mode.
	// Returns nil when no trigger fires.
	Match(sess *models.Session, text string) *Trigger

	// Apply runs the matched trigger's orchestrator operation.
	Apply(ctx context.Context, sessionID string, trig *Trigger) (*flows.Result, error)
}

// Config holds the configuration for the trigger detector.
type Config struct {
	Orchestrator flows.Orchestrator
}

// detector implements the Detector interface.
type detector struct {
	orchestrator flows.Orchestrator
}

// NewDetector creates a new keyword-trigger detector.
func NewDetector(cfg *Config) (Detector, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Orchestrator == nil {
		return nil, fmt.Errorf("orchestrator is required")
	}
	return &detector{orchestrator: cfg.Orchestrator}, nil
}

// Match checks the mode-appropriate phrase tables. Outcome phrases only
// count while troubleshooting and advance phrases only while onboarding, so
// ordinary chat does not bounce the flow state around.
func (d *detector) Match(sess *models.Session, text string) *Trigger {
	if sess == nil || strings.TrimSpace(text) == "" {
		return nil
	}
	lowered := strings.ToLower(text)

	switch sess.Context.Flow.Mode() {
	case models.FlowTroubleshooting:
		if matchesAny(lowered, negativeOutcomePhrases) {
			return &Trigger{Kind: KindReportOutcome, Worked: false}
		}
		if matchesAny(lowered, positiveOutcomePhrases) {
			return &Trigger{Kind: KindReportOutcome, Worked: true}
		}
		return nil

	case models.FlowOnboarding:
		if matchesAny(lowered, advancePhrases) {
			return &Trigger{Kind: KindAdvanceOnboarding}
		}
		return nil

	default:
		if matchesAny(lowered, onboardingPhrases) {
			return &Trigger{Kind: KindStartOnboarding}
		}
		if matchesAny(lowered, troubleshootingPhrases) {
			return &Trigger{Kind: KindStartTroubleshooting, Issue: strings.TrimSpace(text)}
		}
		return nil
	}
}

// Apply dispatches the trigger to the orchestrator.
func (d *detector) Apply(ctx context.Context, sessionID string, trig *Trigger) (*flows.Result, error) {
	if trig == nil {
		return nil, nil
	}
	switch trig.Kind {
	case KindStartOnboarding:
		return d.orchestrator.StartOnboarding(ctx, sessionID, flows.DefaultFlowType)
	case KindStartTroubleshooting:
		return d.orchestrator.StartTroubleshooting(ctx, sessionID, trig.Issue)
	case KindAdvanceOnboarding:
		return d.orchestrator.AdvanceOnboarding(ctx, sessionID)
	case KindReportOutcome:
		return d.orchestrator.ReportOutcome(ctx, sessionID, trig.Worked)
	default:
		return nil, fmt.Errorf("unknown trigger kind %q", trig.Kind)
	}
}

func matchesAny(lowered string, phrases []string) bool {
	var words []string
	for _, phrase := range phrases {
		if strings.Contains(phrase, " ") {
			if strings.Contains(lowered, phrase) {
				return true
			}
			continue
		}
		if words == nil {
			words = strings.Fields(lowered)
		}
		for _, word := range words {
			if strings.Trim(word, ".,!?;:\"'") == phrase {
				return true
			}
		}
	}
	return false
}
