package conversation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/supporthub/conversation-service/internal/domain/models"
)

// maxSummaryTopics caps how many topic keywords a summary digest mentions.
const maxSummaryTopics = 5

// topicVocabulary is the fixed set of topics a summary digest may mention,
// scanned in order against the dropped messages.
var topicVocabulary = []string{
	"password", "login", "account", "setup", "error", "sync",
	"dashboard", "export", "billing", "notification",
}

// CompactMessages bounds an over-long history. Histories at or below
// maxMessages are returned unchanged. Longer histories keep their most recent
// maxMessages entries verbatim and gain a single system summary message, with
// intent "summary", digesting everything older. The result therefore has at
// most maxMessages+1 entries. An earlier summary that falls past the cutoff
// is absorbed into the new digest.
func CompactMessages(sessionID string, messages []models.Message, maxMessages int) []models.Message {
	if maxMessages <= 0 || len(messages) <= maxMessages {
		return messages
	}

	cut := len(messages) - maxMessages
	older := messages[:cut]
	recent := messages[cut:]

	summary := models.NewSystemMessage(sessionID, summarize(older), models.IntentSummary)

	out := make([]models.Message, 0, maxMessages+1)
	out = append(out, summary)
	out = append(out, recent...)
	return out
}

// summarize builds the digest for messages dropped by compaction: author
// counts, up to five vocabulary topics, and any intent labels present.
func summarize(older []models.Message) string {
	userCount := 0
	assistantCount := 0
	var joined strings.Builder
	intentSeen := make(map[string]bool)
	var intents []string

	for _, msg := range older {
		switch msg.Type {
		case models.MessageTypeUser:
			userCount++
		case models.MessageTypeAssistant:
			assistantCount++
		}
		if intent := msg.Intent(); intent != "" && !intentSeen[intent] {
			intentSeen[intent] = true
			intents = append(intents, intent)
		}
		joined.WriteString(strings.ToLower(msg.Content))
		joined.WriteByte(' ')
	}

	text := joined.String()
	topics := make([]string, 0, maxSummaryTopics)
	for _, topic := range topicVocabulary {
		if strings.Contains(text, topic) {
			topics = append(topics, topic)
			if len(topics) == maxSummaryTopics {
				break
			}
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Conversation summary: %d user and %d assistant messages.", userCount, assistantCount)
	if len(topics) > 0 {
		fmt.Fprintf(&b, " Topics: %s.", strings.Join(topics, ", "))
	}
	if len(intents) > 0 {
		fmt.Fprintf(&b, " Intents: %s.", strings.Join(intents, ", "))
	}
	return b.String()
}

// PreserveMessages applies the preservation policy: the union of the most
// recent recentCount messages with every system-authored or guided-flow
// message, deduplicated by ID and re-sorted by timestamp. Unlike compaction
// it produces no synthetic summary.
func PreserveMessages(messages []models.Message, recentCount int) []models.Message {
	if recentCount < 0 {
		recentCount = 0
	}

	keep := make(map[string]bool, len(messages))
	cut := len(messages) - recentCount
	if cut < 0 {
		cut = 0
	}
	for _, msg := range messages[cut:] {
		keep[msg.ID] = true
	}
	for _, msg := range messages {
		if msg.IsFlowRelated() {
			keep[msg.ID] = true
		}
	}

	seen := make(map[string]bool, len(keep))
	out := make([]models.Message, 0, len(keep))
	for _, msg := range messages {
		if keep[msg.ID] && !seen[msg.ID] {
			seen[msg.ID] = true
			out = append(out, msg)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
