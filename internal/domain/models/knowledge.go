package models

// KnowledgeEntry is a single searchable item in the support knowledge base.
// Category matches the intent taxonomy (faq, troubleshooting, onboarding,
// product) so classification results can narrow retrieval.
type KnowledgeEntry struct {
	ID       string   `json:"id" bson:"_id"`
	Category string   `json:"category" bson:"category"`
	Question string   `json:"question" bson:"question"`
	Answer   string   `json:"answer" bson:"answer"`
	Keywords []string `json:"keywords" bson:"keywords"`
}

// RankedEntry pairs a knowledge entry with its relevance score for a
// classified question.
type RankedEntry struct {
	Entry KnowledgeEntry `json:"entry"`
	Score float64        `json:"score"`
}
