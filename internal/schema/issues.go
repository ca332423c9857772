package schema

import (
	"abilityctl/internal/api"
)

// Issue messages reported by DetectIssues.
const (
	IssueNoFields        = "input schema defines no fields"
	IssueNoMetadata      = "metadata is empty"
	IssueNoDefaultParams = "default params are empty"
	IssueNoPricing       = "pricing is not configured"
	IssueInvalidSchema   = "input schema is not valid JSON"
)

// DetectIssues lists configuration gaps of an ability. The list is advisory
// and never blocks invocation.
func DetectIssues(ability *api.Ability) []string {
	if ability == nil {
		return nil
	}
	var issues []string

	fields, err := Parse(ability.InputSchema)
	switch {
	case err != nil:
		issues = append(issues, IssueInvalidSchema)
	case len(fields) == 0:
		issues = append(issues, IssueNoFields)
	}

	if len(ability.Metadata) == 0 {
		issues = append(issues, IssueNoMetadata)
	}
	if len(ability.DefaultParams) == 0 {
		issues = append(issues, IssueNoDefaultParams)
	}
	if _, ok := api.ResolvePricing(ability.Metadata[api.MetaPricing]); !ok {
		issues = append(issues, IssueNoPricing)
	}
	return issues
}
