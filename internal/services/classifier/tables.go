package classifier

import "github.com/supporthub/conversation-service/internal/domain/models"

// Scoring constants. Scores accumulate per keyword hit and per boost; the
// final confidence is clamped to 1.0.
const (
	// generalBase seeds the general accumulator so a winner always exists.
	generalBase = 0.1
	// currentIntentBoost rewards the accumulator matching the context's
	// current intent.
	currentIntentBoost = 0.2
	// onboardingStepBoost rewards onboarding while a step is active.
	onboardingStepBoost = 0.3
	// troubleshootingBoost rewards troubleshooting while an issue is active.
	troubleshootingBoost = 0.3
)

// Knowledge ranking constants.
const (
	// categoryMatchBoost rewards entries whose category equals the winning
	// intent.
	categoryMatchBoost = 0.5
	// keywordOverlapBoost is added once per entry keyword that overlaps a
	// message word.
	keywordOverlapBoost = 0.3
	// entityPresenceFactor scales an entity's confidence when its value
	// appears in the entry's question or answer.
	entityPresenceFactor = 0.2
	// bagOfWordsFactor scales the word-overlap ratio between the message and
	// the entry's question.
	bagOfWordsFactor = 0.4
	// relevanceFloor drops entries scoring at or below it.
	relevanceFloor = 0.3
	// maxSuggestions truncates the ranked entry list.
	maxSuggestions = 5
)

// resolutionMinMessages is the history length below which a conversation is
// never considered to be resolving.
const resolutionMinMessages = 6

// closingPhrases mark an assistant message as concluding the conversation.
var closingPhrases = []string{"help", "anything else"}

// entityPattern ties a group of recognizable terms to an entity type and the
// fixed confidence every match of that type carries.
type entityPattern struct {
	entityType string
	confidence float64
	terms      []string
}

// entityPatterns are scanned in order against the normalized text. Matches
// deduplicate by (type, value).
var entityPatterns = []entityPattern{
	{
		entityType: models.EntityError,
		confidence: 0.9,
		terms: []string{
			"error", "bug", "broken", "crash", "failed", "failure",
			"not working", "doesn t work", "problem", "issue",
		},
	},
	{
		entityType: models.EntityProduct,
		confidence: 0.8,
		terms: []string{
			"dashboard", "app", "application", "platform", "workspace",
			"account", "premium", "plan",
		},
	},
	{
		entityType: models.EntityFeature,
		confidence: 0.7,
		terms: []string{
			"export", "import", "sync", "notification", "report",
			"integration", "search", "settings",
		},
	},
	{
		entityType: models.EntityStep,
		confidence: 0.6,
		terms: []string{
			"step", "guide", "tutorial", "walkthrough", "setup",
			"getting started", "first time", "next",
		},
	},
}

// intentKeywords holds one intent accumulator's keyword list and the
// increment added per keyword hit.
type intentKeywords struct {
	intent    string
	increment float64
	keywords  []string
}

// intentTable fixes both the scoring vocabulary and the enumeration order
// used for winner selection. On a tie the earlier row wins; changing the
// order changes classification results.
var intentTable = []intentKeywords{
	{
		intent:    models.IntentFAQ,
		increment: 0.2,
		keywords: []string{
			"how", "what", "where", "when", "why", "can i", "how do",
			"question", "explain",
		},
	},
	{
		intent:    models.IntentTroubleshooting,
		increment: 0.3,
		keywords: []string{
			"error", "problem", "issue", "broken", "not working", "failed",
			"crash", "fix", "wrong",
		},
	},
	{
		intent:    models.IntentOnboarding,
		increment: 0.25,
		keywords: []string{
			"start", "setup", "begin", "new", "first time", "get started",
			"guide", "tutorial", "onboard",
		},
	},
	{
		intent:    models.IntentProduct,
		increment: 0.2,
		keywords: []string{
			"feature", "price", "pricing", "plan", "upgrade", "premium",
			"subscription", "integration",
		},
	},
	{
		intent:    models.IntentGeneral,
		increment: 0,
		keywords:  nil,
	},
}

// entityBoost routes an extracted entity type into intent score boosts,
// scaled by the entity's confidence.
type entityBoost struct {
	entityType string
	intents    []string
	factor     float64
}

var entityBoosts = []entityBoost{
	{entityType: models.EntityError, intents: []string{models.IntentTroubleshooting}, factor: 0.4},
	{entityType: models.EntityStep, intents: []string{models.IntentOnboarding}, factor: 0.3},
	{entityType: models.EntityProduct, intents: []string{models.IntentProduct}, factor: 0.3},
	{entityType: models.EntityFeature, intents: []string{models.IntentFAQ, models.IntentProduct}, factor: 0.2},
}
