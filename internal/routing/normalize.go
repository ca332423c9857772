package routing

import (
	"regexp"
	"strings"

	"abilityctl/internal/utils"
)

var separatorRun = regexp.MustCompile(`[\s_]+`)

// NormalizeToken trims and lower-cases s and joins its words with hyphens,
// so "My Tag" and "my_tag" both become "my-tag".
func NormalizeToken(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = separatorRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// NormalizeTokens turns a free-text provider or tag value into a set of
// comparable tokens, in first-seen order. A single string is split on commas
// and semicolons; list elements are coerced to strings one by one. nil
// yields an empty set.
func NormalizeTokens(value interface{}) []string {
	var raw []string
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		raw = utils.SplitList(v, ",;")
	default:
		if items, ok := utils.List(v); ok {
			for _, item := range items {
				if s, ok := utils.String(item); ok {
					raw = append(raw, s)
				}
			}
		} else if s, ok := utils.String(v); ok {
			raw = []string{s}
		}
	}

	seen := make(map[string]struct{}, len(raw))
	tokens := make([]string, 0, len(raw))
	for _, r := range raw {
		tok := NormalizeToken(r)
		if tok == "" {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		tokens = append(tokens, tok)
	}
	return tokens
}

// tokenSet indexes tokens for superset checks.
func tokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}
