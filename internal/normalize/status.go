package normalize

import (
	"strings"

	"github.com/dennisdiepolder/monti/analytics/internal/types"
)

// answeredTokens are substrings that mark a status as answered across the
// English and Portuguese exports we ingest
var answeredTokens = []string{"answer", "atendid", "complet", "resolv"}

// NormalizeStatus maps a free-text call outcome onto a canonical Outcome.
//
// Matching is case-insensitive and ordered: abandon, transfer, answered.
// An empty status counts as abandoned while any other unrecognized text
// counts as answered. Both defaults feed historical abandonment figures and
// must not be changed.
func NormalizeStatus(raw string) types.Outcome {
	s := strings.ToLower(strings.TrimSpace(raw))

	switch {
	case strings.Contains(s, "abandon"):
		return types.OutcomeAbandoned
	case strings.Contains(s, "transfer"):
		return types.OutcomeTransferred
	case containsAny(s, answeredTokens):
		return types.OutcomeAnswered
	case s == "":
		return types.OutcomeAbandoned
	default:
		return types.OutcomeAnswered
	}
}

func containsAny(s string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
