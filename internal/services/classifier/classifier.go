// Package classifier assigns an intent category to raw user text through
// deterministic keyword and entity scoring, biased by conversation context.
package classifier

import (
	"sort"
	"strings"
	"unicode"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/supporthub/conversation-service/internal/domain/models"
)

// Classifier scores raw user text against the intent tables.
type Classifier interface {
	// Classify runs the scoring pipeline. It never panics; any internal
	// failure degrades to a low-confidence general classification.
	Classify(text string, convCtx *models.ConversationContext, entries []models.KnowledgeEntry) models.Classification
}

// classifier implements the Classifier interface.
type classifier struct {
	logger zerolog.Logger
}

// New creates a classifier.
func New() Classifier {
	return &classifier{logger: log.Logger}
}

// NewWithLogger creates a classifier with a custom logger.
func NewWithLogger(logger zerolog.Logger) Classifier {
	return &classifier{logger: logger}
}

// Classify runs normalization, entity extraction, intent scoring, winner
// selection, contextual analysis and knowledge ranking over the given text.
func (c *classifier) Classify(text string, convCtx *models.ConversationContext, entries []models.KnowledgeEntry) (result models.Classification) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error().
				Interface("panic", r).
				Msg("classification failed, falling back to general")
			result = fallbackClassification()
		}
	}()

	normalized := normalize(text)
	entities := extractEntities(normalized)
	scores := scoreIntents(normalized, entities, convCtx)
	intent, confidence := selectWinner(scores)

	return models.Classification{
		Intent:            intent,
		Confidence:        confidence,
		Keywords:          matchedKeywords(intent, normalized),
		Entities:          entities,
		Contextual:        buildContextualInfo(intent, convCtx),
		RelevantKnowledge: rankEntries(normalized, intent, entities, entries),
	}
}

// fallbackClassification is the documented degradation for any pipeline
// failure.
func fallbackClassification() models.Classification {
	return models.Classification{
		Intent:     models.IntentGeneral,
		Confidence: generalBase,
		Keywords:   []string{},
		Entities:   []models.Entity{},
		Contextual: models.ContextualInfo{ConversationStage: models.StageInitial},
	}
}

// normalize lower-cases the text, turns punctuation into whitespace and
// collapses whitespace runs.
func normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// extractEntities matches the pattern groups against the normalized text,
// deduplicating by (type, value) and sorting by descending confidence.
func extractEntities(normalized string) []models.Entity {
	type dedupKey struct {
		entityType string
		value      string
	}
	seen := make(map[dedupKey]bool)
	entities := []models.Entity{}

	for _, group := range entityPatterns {
		for _, term := range group.terms {
			if !strings.Contains(normalized, term) {
				continue
			}
			key := dedupKey{group.entityType, term}
			if seen[key] {
				continue
			}
			seen[key] = true
			entities = append(entities, models.Entity{
				Type:       group.entityType,
				Value:      term,
				Confidence: group.confidence,
			})
		}
	}

	sort.SliceStable(entities, func(i, j int) bool {
		return entities[i].Confidence > entities[j].Confidence
	})
	return entities
}

// scoreIntents fills the five accumulators from keyword hits, entity boosts
// and context boosts.
func scoreIntents(normalized string, entities []models.Entity, convCtx *models.ConversationContext) map[string]float64 {
	scores := make(map[string]float64, len(intentTable))
	for _, row := range intentTable {
		scores[row.intent] = 0
	}
	scores[models.IntentGeneral] = generalBase

	for _, row := range intentTable {
		for _, keyword := range row.keywords {
			if strings.Contains(normalized, keyword) {
				scores[row.intent] += row.increment
			}
		}
	}

	for _, entity := range entities {
		for _, boost := range entityBoosts {
			if boost.entityType != entity.Type {
				continue
			}
			for _, intent := range boost.intents {
				scores[intent] += boost.factor * entity.Confidence
			}
		}
	}

	if convCtx != nil {
		if current := convCtx.CurrentIntent; current != "" {
			if _, ok := scores[current]; ok {
				scores[current] += currentIntentBoost
			}
		}
		if _, ok := convCtx.Flow.OnboardingStep(); ok {
			scores[models.IntentOnboarding] += onboardingStepBoost
		}
		if state, ok := convCtx.Flow.Troubleshooting(); ok && state.Issue != "" {
			scores[models.IntentTroubleshooting] += troubleshootingBoost
		}
	}

	return scores
}

// selectWinner returns the first strict maximum in table order. The order is
// part of the contract; ties resolve to the earlier row.
func selectWinner(scores map[string]float64) (string, float64) {
	intent := models.IntentGeneral
	best := -1.0
	for _, row := range intentTable {
		if scores[row.intent] > best {
			intent = row.intent
			best = scores[row.intent]
		}
	}
	if best > 1 {
		best = 1
	}
	return intent, best
}

// matchedKeywords re-scans the winning intent's keyword list and returns
// every match, deduplicated.
func matchedKeywords(intent, normalized string) []string {
	keywords := []string{}
	seen := make(map[string]bool)
	for _, row := range intentTable {
		if row.intent != intent {
			continue
		}
		for _, keyword := range row.keywords {
			if !seen[keyword] && strings.Contains(normalized, keyword) {
				seen[keyword] = true
				keywords = append(keywords, keyword)
			}
		}
	}
	return keywords
}

// buildContextualInfo derives the follow-up flag, the previous intent and the
// conversation stage from the context.
func buildContextualInfo(intent string, convCtx *models.ConversationContext) models.ContextualInfo {
	info := models.ContextualInfo{ConversationStage: models.StageInitial}
	if convCtx == nil {
		return info
	}

	info.IsFollowUp = convCtx.MessageCount() > 1
	info.PreviousIntent = convCtx.CurrentIntent

	switch {
	case convCtx.MessageCount() == 0:
		info.ConversationStage = models.StageInitial
	case convCtx.MessageCount() >= resolutionMinMessages && hasClosingPhrase(convCtx):
		info.ConversationStage = models.StageResolution
	default:
		info.ConversationStage = models.StageOngoing
	}
	return info
}

// hasClosingPhrase reports whether the latest assistant message sounds like
// the conversation is wrapping up.
func hasClosingPhrase(convCtx *models.ConversationContext) bool {
	last, ok := convCtx.LastMessageOfType(models.MessageTypeAssistant)
	if !ok {
		return false
	}
	content := strings.ToLower(last.Content)
	for _, phrase := range closingPhrases {
		if strings.Contains(content, phrase) {
			return true
		}
	}
	return false
}

// rankEntries scores every knowledge entry for relevance to the classified
// question, keeping entries above the floor, best first, at most five.
func rankEntries(normalized, intent string, entities []models.Entity, entries []models.KnowledgeEntry) []models.RankedEntry {
	if len(entries) == 0 {
		return nil
	}

	messageWords := strings.Fields(normalized)
	var ranked []models.RankedEntry

	for _, entry := range entries {
		score := 0.0
		if entry.Category == intent {
			score += categoryMatchBoost
		}

		for _, keyword := range entry.Keywords {
			lowered := strings.ToLower(keyword)
			for _, word := range messageWords {
				if strings.Contains(lowered, word) || strings.Contains(word, lowered) {
					score += keywordOverlapBoost
					break
				}
			}
		}

		haystack := strings.ToLower(entry.Question + " " + entry.Answer)
		for _, entity := range entities {
			if strings.Contains(haystack, entity.Value) {
				score += entityPresenceFactor * entity.Confidence
			}
		}

		score += bagOfWordsOverlap(messageWords, entry.Question) * bagOfWordsFactor

		if score > relevanceFloor {
			ranked = append(ranked, models.RankedEntry{Entry: entry, Score: score})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > maxSuggestions {
		ranked = ranked[:maxSuggestions]
	}
	return ranked
}

// bagOfWordsOverlap returns |shared distinct words| / |distinct message
// words| between the message and the entry's question.
func bagOfWordsOverlap(messageWords []string, question string) float64 {
	if len(messageWords) == 0 {
		return 0
	}

	distinct := make(map[string]bool, len(messageWords))
	for _, word := range messageWords {
		distinct[word] = true
	}

	questionWords := make(map[string]bool)
	for _, word := range strings.Fields(normalize(question)) {
		questionWords[word] = true
	}

	shared := 0
	for word := range distinct {
		if questionWords[word] {
			shared++
		}
	}
	return float64(shared) / float64(len(distinct))
}
