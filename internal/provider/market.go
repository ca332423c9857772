package provider

import (
	"encoding/json"
	"strings"

	"abilityctl/internal/api"
	"abilityctl/internal/routing"
	"abilityctl/internal/utils"
)

// Market api types with a known image target.
const (
	MarketImageToImage = "market_image_to_image"
	MarketTextToVideo  = "market_text_to_video"
)

// MarketRequest is the payload of async task markets.
type MarketRequest struct {
	APIType     string                 `json:"api_type"`
	Model       string                 `json:"model"`
	CallBackURL string                 `json:"callBackUrl,omitempty"`
	Input       map[string]interface{} `json:"input"`
}

// MarketRoute infers an api type from a provider and category pair.
type MarketRoute struct {
	Provider string
	Category string
}

// DefaultMarketRoutes are the only inferred api types. Anything else needs
// metadata.api_type.
var DefaultMarketRoutes = map[MarketRoute]string{
	{Provider: "kie", Category: "image"}: MarketImageToImage,
	{Provider: "kie", Category: "video"}: MarketTextToVideo,
}

// marketImageTargets maps an api type to the input key holding image URLs.
var marketImageTargets = map[string]string{
	MarketImageToImage: "input_urls",
	MarketTextToVideo:  "image_urls",
}

var marketKeys = []string{"model", "api_type", "callBackUrl", "image_url"}

// MarketAdapter serves the market family.
type MarketAdapter struct {
	routes map[MarketRoute]string
}

// NewMarketAdapter creates the adapter. A nil route table uses
// DefaultMarketRoutes.
func NewMarketAdapter(routes map[MarketRoute]string) *MarketAdapter {
	if routes == nil {
		routes = DefaultMarketRoutes
	}
	return &MarketAdapter{routes: routes}
}

func (a *MarketAdapter) Family() Family { return FamilyMarket }

// APIType resolves the api type of an ability.
func (a *MarketAdapter) APIType(ability *api.Ability) string {
	if t := ability.ParsedMetadata().APIType; t != "" {
		return t
	}
	return a.routes[MarketRoute{
		Provider: routing.NormalizeToken(ability.Provider),
		Category: routing.NormalizeToken(ability.Category),
	}]
}

func (a *MarketAdapter) BuildRequest(in BuildInput) (*Request, error) {
	ability, err := requireAbility(in)
	if err != nil {
		return nil, err
	}
	params, err := MergeParams(in)
	if err != nil {
		return nil, err
	}
	known, input := PickKnown(params, marketKeys...)

	req := MarketRequest{
		APIType:     a.APIType(ability),
		Model:       stringParam(known, "model"),
		CallBackURL: stringParam(known, "callBackUrl"),
		Input:       input,
	}
	if req.APIType == "" {
		return nil, api.NewValidationError("api_type", "cannot determine market api type for provider %q category %q",
			ability.Provider, ability.Category)
	}
	if req.Model == "" {
		req.Model = ability.ParsedMetadata().ModelID
	}
	if req.Model == "" {
		return nil, api.NewValidationError("model", "model is required")
	}

	image := in.ImageURL
	if image == "" {
		image = stringParam(known, "image_url")
	}
	if target, ok := marketImageTargets[req.APIType]; ok {
		urls := ParseImageList(input[target])
		if len(urls) == 0 && image != "" {
			urls = []string{image}
		}
		if len(urls) > 0 {
			input[target] = urls
		} else {
			delete(input, target)
		}
	}
	return newRequest(FamilyMarket, in, req), nil
}

// ParseImageList accepts a list, a JSON array string, or text separated by
// newlines or commas.
func ParseImageList(v interface{}) []string {
	s, ok := v.(string)
	if !ok {
		return utils.StringList(v)
	}
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "[") {
		var items []interface{}
		if err := json.Unmarshal([]byte(s), &items); err == nil {
			return utils.StringList(items)
		}
	}
	return utils.SplitList(s, ",\n")
}

func (a *MarketAdapter) Normalize(provider string, raw interface{}) api.InvocationResult {
	doc := decodeRaw(raw)
	r := normalizeGeneric(provider, doc)
	if r.TaskID == "" {
		r.TaskID = lookupString(doc, "data.taskId", "data.task_id")
	}
	if r.State == "" {
		r.State = lookupString(doc, "data.state", "data.status")
	}
	if len(r.ResultURLs) == 0 {
		r.ResultURLs = lookupStrings(doc, "data.resultUrls", "data.result_urls")
	}
	// Completed tasks carry their outputs as an embedded JSON string.
	if len(r.ResultURLs) == 0 {
		if embedded := lookupString(doc, "data.resultJson", "resultJson"); embedded != "" {
			var inner interface{}
			if json.Unmarshal([]byte(embedded), &inner) == nil {
				r.ResultURLs = lookupStrings(inner, "resultUrls", "result_urls")
			}
		}
	}
	return r
}
