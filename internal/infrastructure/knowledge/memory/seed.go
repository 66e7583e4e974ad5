package memory

import "github.com/supporthub/conversation-service/internal/domain/models"

// defaultEntries is the built-in support catalog used when no external
// knowledge backend is configured.
func defaultEntries() []models.KnowledgeEntry {
	return []models.KnowledgeEntry{
		{
			ID:       "kb_001",
			Category: "faq",
			Question: "How do I reset my password?",
			Answer:   "Open Settings, choose Security, and select Reset password. A reset link is sent to your registered email address.",
			Keywords: []string{"password", "reset", "login", "security"},
		},
		{
			ID:       "kb_002",
			Category: "faq",
			Question: "How do I change the email address on my account?",
			Answer:   "Go to Settings, open Account, and edit the email field. The change takes effect after you confirm it from the new address.",
			Keywords: []string{"email", "account", "change", "settings"},
		},
		{
			ID:       "kb_003",
			Category: "faq",
			Question: "Where can I find the user guide?",
			Answer:   "The full user guide lives under Help in the main menu, including a searchable FAQ and step-by-step tutorials.",
			Keywords: []string{"guide", "documentation", "help", "manual"},
		},
		{
			ID:       "kb_004",
			Category: "troubleshooting",
			Question: "The app shows a sync error",
			Answer:   "Check your network connection first, then force a manual sync from Settings. If the error persists, sign out and back in to refresh your sync token.",
			Keywords: []string{"sync", "error", "failed", "connection"},
		},
		{
			ID:       "kb_005",
			Category: "troubleshooting",
			Question: "Login keeps failing with valid credentials",
			Answer:   "Clear the app cache and retry. Repeated failures usually mean a stale auth token; resetting your password forces a fresh one.",
			Keywords: []string{"login", "failed", "credentials", "crash"},
		},
		{
			ID:       "kb_006",
			Category: "troubleshooting",
			Question: "The dashboard is not loading",
			Answer:   "A dashboard stuck on the loading screen is usually a cached asset problem. Reload with a hard refresh; if it is still broken, check the status page for ongoing incidents.",
			Keywords: []string{"dashboard", "loading", "broken", "stuck"},
		},
		{
			ID:       "kb_007",
			Category: "onboarding",
			Question: "How do I get started?",
			Answer:   "The guided walkthrough takes about five minutes: create your profile, connect your first data source, and run the sample task. Say \"help me get started\" any time to launch it.",
			Keywords: []string{"start", "setup", "guide", "tutorial"},
		},
		{
			ID:       "kb_008",
			Category: "onboarding",
			Question: "What happens during account setup?",
			Answer:   "Account setup configures your profile, workspace name, and notification preferences. You can revisit any step later from Settings.",
			Keywords: []string{"account", "setup", "profile", "first"},
		},
		{
			ID:       "kb_009",
			Category: "product",
			Question: "What does the premium plan include?",
			Answer:   "Premium adds unlimited projects, priority support, and the full integration catalog on top of everything in the standard plan.",
			Keywords: []string{"premium", "plan", "pricing", "subscription"},
		},
		{
			ID:       "kb_010",
			Category: "product",
			Question: "Does the dashboard support exporting data?",
			Answer:   "Yes. Every dashboard widget can export to CSV or JSON from its context menu, and scheduled exports are available on premium plans.",
			Keywords: []string{"dashboard", "export", "feature", "csv"},
		},
	}
}
