package routing

import "strings"

// Matches reports whether an executor type serves a provider hint. Beyond
// equality, the hint must touch a hyphen inside the type: "baidu" matches
// "baidu-prod" and "cn-baidu", but "ai" does not match "paint". Both inputs
// are expected to be normalized already.
func Matches(executorType, hint string) bool {
	if hint == "" {
		return false
	}
	if executorType == hint {
		return true
	}
	return strings.HasPrefix(executorType, hint+"-") ||
		strings.HasSuffix(executorType, "-"+hint) ||
		strings.Contains(executorType, hint+"-") ||
		strings.Contains(executorType, "-"+hint)
}

// MatchesAny reports whether executorType matches at least one hint.
func MatchesAny(executorType string, hints []string) bool {
	for _, h := range hints {
		if Matches(executorType, h) {
			return true
		}
	}
	return false
}
