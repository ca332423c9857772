// Package routing decides which executors may serve an ability.
//
// Resolution combines three pieces: provider/tag normalization
// (NormalizeTokens), hyphen-token matching of executor types against the
// ability's hints (Matches), and the routing decision parsed from ability
// metadata (ParseDecision). Resolve applies them in a fixed order and
// returns the eligible executors, pinned executor first.
//
// Everything in this package is a pure function of its inputs and is safe
// to call concurrently. An empty result is not an error; the caller decides
// whether to block the call or honor Decision.FallbackToDefault.
package routing
