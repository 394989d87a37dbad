package relevance

import (
	"fmt"

	"github.com/hussienjaafar/mojo-digital-wins/internal/org"
)

// PassesThresholds compares a relevance score and a separately computed
// urgency score against an organization's minimums. Without preferences
// everything passes. Relevance is checked first, so when both scores are
// low only the relevance failure is reported.
func PassesThresholds(relevanceScore, urgencyScore float64, prefs *org.AlertPreferences) Verdict {
	if prefs == nil {
		return Verdict{Passes: true}
	}

	if relevanceScore < prefs.MinRelevanceScore {
		return Verdict{
			Passes: false,
			Reason: fmt.Sprintf("Relevance score %s is below minimum %s",
				formatNumber(relevanceScore), formatNumber(prefs.MinRelevanceScore)),
		}
	}

	if urgencyScore < prefs.MinUrgencyScore {
		return Verdict{
			Passes: false,
			Reason: fmt.Sprintf("Urgency score %s is below minimum %s",
				formatNumber(urgencyScore), formatNumber(prefs.MinUrgencyScore)),
		}
	}

	return Verdict{Passes: true}
}
