package flows

import (
	"sort"
	"strings"
)

// Solution is one troubleshooting suggestion. SuccessRate and Difficulty
// drive the order solutions are offered in.
type Solution struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Instruction string  `json:"instruction"`
	SuccessRate float64 `json:"successRate"`
	Difficulty  string  `json:"difficulty"`
}

// difficultyRank orders easy < medium < hard for tie-breaking.
var difficultyRank = map[string]int{
	"easy":   0,
	"medium": 1,
	"hard":   2,
}

// solutionCategories routes issue text to a solution list by keyword.
var solutionCategories = []struct {
	category string
	keywords []string
}{
	{category: "connection", keywords: []string{"sync", "connection", "network", "offline", "timeout"}},
	{category: "login", keywords: []string{"login", "log in", "password", "sign in", "signin", "auth"}},
}

// solutionCatalog holds the per-category solution lists plus the generic
// fallback. Lists are stored unordered; SolutionsFor applies the ordering.
var solutionCatalog = map[string][]Solution{
	"connection": {
		{ID: "check-network", Title: "Check your connection", Instruction: "Make sure you're online, then retry.", SuccessRate: 0.65, Difficulty: "easy"},
		{ID: "force-sync", Title: "Force a manual sync", Instruction: "Open Settings and trigger a manual sync.", SuccessRate: 0.55, Difficulty: "easy"},
		{ID: "refresh-session", Title: "Refresh your session", Instruction: "Sign out and back in to refresh your sync token.", SuccessRate: 0.50, Difficulty: "medium"},
	},
	"login": {
		{ID: "reset-password", Title: "Reset your password", Instruction: "Use the reset link on the login screen to set a new password.", SuccessRate: 0.70, Difficulty: "easy"},
		{ID: "clear-cookies", Title: "Clear cookies", Instruction: "Clear your browser's cookies for this site and retry.", SuccessRate: 0.45, Difficulty: "medium"},
		{ID: "check-status", Title: "Check the status page", Instruction: "An ongoing incident can block sign-in. Check the status page.", SuccessRate: 0.30, Difficulty: "easy"},
	},
	"generic": {
		{ID: "restart-app", Title: "Restart the app", Instruction: "Close the application completely and reopen it.", SuccessRate: 0.55, Difficulty: "easy"},
		{ID: "clear-cache", Title: "Clear the cache", Instruction: "Clear the app cache from Settings, then retry.", SuccessRate: 0.50, Difficulty: "easy"},
		{ID: "reinstall-app", Title: "Reinstall the app", Instruction: "Uninstall the app and install the latest version fresh.", SuccessRate: 0.45, Difficulty: "hard"},
		{ID: "update-app", Title: "Update the app", Instruction: "Install the latest version from your app store.", SuccessRate: 0.45, Difficulty: "medium"},
	},
}

// SolutionsFor returns the solution list for an issue, ordered by descending
// success rate with ties broken by ascending difficulty. Issues that match no
// category keyword get the generic list.
func SolutionsFor(issue string) []Solution {
	lowered := strings.ToLower(issue)
	category := "generic"
	for _, route := range solutionCategories {
		for _, keyword := range route.keywords {
			if strings.Contains(lowered, keyword) {
				category = route.category
				break
			}
		}
		if category != "generic" {
			break
		}
	}

	solutions := append([]Solution(nil), solutionCatalog[category]...)
	sort.SliceStable(solutions, func(i, j int) bool {
		if solutions[i].SuccessRate == solutions[j].SuccessRate {
			return difficultyRank[solutions[i].Difficulty] < difficultyRank[solutions[j].Difficulty]
		}
		return solutions[i].SuccessRate > solutions[j].SuccessRate
	})
	return solutions
}
