package provider

import (
	"abilityctl/internal/api"
	"abilityctl/internal/routing"
)

// ImageProcessRequest is the payload of image processing APIs: one image and
// an operation key.
type ImageProcessRequest struct {
	Operation   string                 `json:"operation"`
	ImageURL    string                 `json:"image_url,omitempty"`
	ImageBase64 string                 `json:"image_base64,omitempty"`
	Params      map[string]interface{} `json:"params,omitempty"`
}

var imageProcessKeys = []string{"operation", "image_url", "image_base64"}

// ImageProcessAdapter serves the image_process family.
type ImageProcessAdapter struct {
	// imageRequired lists providers that always need an input image.
	imageRequired map[string]bool
}

// NewImageProcessAdapter creates the adapter. Calls for the named providers
// always require an image.
func NewImageProcessAdapter(imageProviders ...string) *ImageProcessAdapter {
	a := &ImageProcessAdapter{imageRequired: make(map[string]bool)}
	for _, p := range imageProviders {
		a.imageRequired[routing.NormalizeToken(p)] = true
	}
	return a
}

func (a *ImageProcessAdapter) Family() Family { return FamilyImageProcess }

func (a *ImageProcessAdapter) BuildRequest(in BuildInput) (*Request, error) {
	ability, err := requireAbility(in)
	if err != nil {
		return nil, err
	}
	params, err := MergeParams(in)
	if err != nil {
		return nil, err
	}
	known, extras := PickKnown(params, imageProcessKeys...)
	meta := ability.ParsedMetadata()

	req := ImageProcessRequest{
		Operation: stringParam(known, "operation"),
		Params:    nonEmpty(extras),
	}
	if req.Operation == "" {
		req.Operation = meta.Operation
	}
	if req.Operation == "" {
		req.Operation = ability.CapabilityKey
	}
	if req.Operation == "" {
		return nil, api.NewValidationError("operation", "operation is required")
	}

	switch {
	case in.ImageBase64 != "":
		req.ImageBase64 = in.ImageBase64
	case in.ImageURL != "":
		req.ImageURL = in.ImageURL
	default:
		req.ImageURL = stringParam(known, "image_url")
		req.ImageBase64 = stringParam(known, "image_base64")
	}

	needsImage := meta.RequiresImageInput || a.imageRequired[routing.NormalizeToken(ability.Provider)]
	if needsImage && req.ImageURL == "" && req.ImageBase64 == "" {
		return nil, api.NewValidationError("image_url", "an input image is required")
	}
	return newRequest(FamilyImageProcess, in, req), nil
}

func (a *ImageProcessAdapter) Normalize(provider string, raw interface{}) api.InvocationResult {
	doc := decodeRaw(raw)
	r := normalizeGeneric(provider, doc)
	if r.ImageBase64 == "" {
		r.ImageBase64 = lookupString(doc, "image", "result.image", "data.image")
	}
	if r.ImageURL == "" {
		r.ImageURL = lookupString(doc, "result.image_url", "data.image_url")
	}
	return r
}
