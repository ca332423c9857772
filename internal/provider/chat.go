package provider

import (
	"strings"

	"abilityctl/internal/api"
)

// ChatMode distinguishes text completion from image generation.
type ChatMode string

const (
	ChatModeText  ChatMode = "chat"
	ChatModeImage ChatMode = "image"
)

// ChatRequest is the payload of chat and image generation APIs.
type ChatRequest struct {
	Mode           ChatMode               `json:"mode"`
	Model          string                 `json:"model"`
	Prompt         string                 `json:"prompt"`
	SystemPrompt   string                 `json:"system_prompt,omitempty"`
	NegativePrompt string                 `json:"negative_prompt,omitempty"`
	Size           string                 `json:"size,omitempty"`
	ResponseFormat string                 `json:"response_format,omitempty"`
	ImageURL       string                 `json:"image_url,omitempty"`
	Params         map[string]interface{} `json:"params,omitempty"`
}

var (
	chatKeys      = []string{"model", "prompt", "system_prompt", "image_url"}
	chatImageKeys = []string{"negative_prompt", "size", "response_format"}
)

// ChatAdapter serves the chat family.
type ChatAdapter struct{}

func NewChatAdapter() *ChatAdapter { return &ChatAdapter{} }

func (a *ChatAdapter) Family() Family { return FamilyChat }

// isImageAbility reports whether the ability generates images rather than
// text.
func isImageAbility(ability *api.Ability) bool {
	return strings.Contains(strings.ToLower(ability.Category), "image") ||
		strings.Contains(strings.ToLower(ability.CapabilityKey), "image")
}

func (a *ChatAdapter) BuildRequest(in BuildInput) (*Request, error) {
	ability, err := requireAbility(in)
	if err != nil {
		return nil, err
	}
	params, err := MergeParams(in)
	if err != nil {
		return nil, err
	}

	mode := ChatModeText
	keys := chatKeys
	if isImageAbility(ability) {
		mode = ChatModeImage
		keys = append(append([]string{}, chatKeys...), chatImageKeys...)
	}
	known, extras := PickKnown(params, keys...)

	req := ChatRequest{
		Mode:         mode,
		Model:        stringParam(known, "model"),
		Prompt:       stringParam(known, "prompt"),
		SystemPrompt: stringParam(known, "system_prompt"),
		ImageURL:     in.ImageURL,
		Params:       nonEmpty(extras),
	}
	if req.ImageURL == "" {
		req.ImageURL = stringParam(known, "image_url")
	}
	if mode == ChatModeImage {
		req.NegativePrompt = stringParam(known, "negative_prompt")
		req.Size = stringParam(known, "size")
		req.ResponseFormat = stringParam(known, "response_format")
	}

	if req.Prompt == "" {
		return nil, api.NewValidationError("prompt", "prompt is required")
	}
	if req.Model == "" {
		req.Model = ability.ParsedMetadata().ModelID
	}
	if req.Model == "" {
		return nil, api.NewValidationError("model", "model is required")
	}
	return newRequest(FamilyChat, in, req), nil
}

func (a *ChatAdapter) Normalize(provider string, raw interface{}) api.InvocationResult {
	doc := decodeRaw(raw)
	r := normalizeGeneric(provider, doc)
	if r.Text == "" {
		r.Text = lookupString(doc, "choices.0.message.content", "choices.0.text", "output.text")
	}
	if r.ImageURL == "" {
		r.ImageURL = lookupString(doc, "data.0.url")
	}
	if r.ImageBase64 == "" {
		r.ImageBase64 = lookupString(doc, "data.0.b64_json")
	}
	return r
}
