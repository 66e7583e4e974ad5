package flows

// DefaultFlowType selects the standard onboarding walkthrough.
const DefaultFlowType = "default"

// OnboardingStep describes one step of a guided onboarding walkthrough. The
// final step of every catalog is the completion marker: reaching it ends the
// flow, and its prompt becomes the completion message.
type OnboardingStep struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Prompt string `json:"prompt"`
}

// onboardingCatalogs maps a flow type to its ordered step list.
var onboardingCatalogs = map[string][]OnboardingStep{
	DefaultFlowType: {
		{
			ID:     "welcome",
			Title:  "Welcome",
			Prompt: "Welcome! I'll walk you through getting set up. It only takes a few minutes. Ready when you are: say \"next\" to continue.",
		},
		{
			ID:     "account-setup",
			Title:  "Account setup",
			Prompt: "First, let's finish your account. Open Settings and fill in your profile name and workspace. Say \"next\" once that's done.",
		},
		{
			ID:     "feature-overview",
			Title:  "Feature overview",
			Prompt: "Here's a quick tour: the dashboard shows your activity, every widget can export its data, and the search bar finds anything. Say \"next\" to keep going.",
		},
		{
			ID:     "first-task",
			Title:  "First task",
			Prompt: "Time to try it yourself: create your first project from the dashboard's plus button. Say \"next\" when you've created one.",
		},
		{
			ID:     "completion",
			Title:  "All done",
			Prompt: "That's everything! You're fully set up. Ask me anything else you need.",
		},
	},
}

// CatalogFor returns the step list for a flow type. The empty type selects
// the default walkthrough.
func CatalogFor(flowType string) ([]OnboardingStep, bool) {
	if flowType == "" {
		flowType = DefaultFlowType
	}
	steps, ok := onboardingCatalogs[flowType]
	return steps, ok
}
