package provider

import (
	"abilityctl/internal/api"
	"abilityctl/internal/comfyui"
)

// ImageRef is one input image of a workflow submission.
type ImageRef struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

// ComfyUIRequest is the payload of a workflow submission.
type ComfyUIRequest struct {
	WorkflowKey   string                            `json:"workflow_key"`
	WorkflowID    string                            `json:"workflow_id,omitempty"`
	Params        map[string]interface{}            `json:"params"`
	ExtraParams   map[string]interface{}            `json:"extra_params,omitempty"`
	ImageList     []ImageRef                        `json:"imageList,omitempty"`
	SubmitOnly    bool                              `json:"submit_only"`
	NodeOverrides map[string]map[string]interface{} `json:"node_overrides,omitempty"`
	OutputNodeIDs []string                          `json:"output_node_ids,omitempty"`
}

var comfyParamKeys = []string{
	"prompt", "negative_prompt", "pattern", "resolution",
	"output_width", "output_height", "width", "height",
	"lora_name", "seed", "steps",
}

// ComfyUIAdapter serves the comfyui family.
type ComfyUIAdapter struct{}

func NewComfyUIAdapter() *ComfyUIAdapter { return &ComfyUIAdapter{} }

func (a *ComfyUIAdapter) Family() Family { return FamilyComfyUI }

func (a *ComfyUIAdapter) BuildRequest(in BuildInput) (*Request, error) {
	ability, err := requireAbility(in)
	if err != nil {
		return nil, err
	}
	params, err := MergeParams(in)
	if err != nil {
		return nil, err
	}
	meta := ability.ParsedMetadata()
	known, extras := PickKnown(params, comfyParamKeys...)

	// width and height are aliases of the output dimensions.
	for alias, target := range map[string]string{"width": "output_width", "height": "output_height"} {
		v, ok := known[alias]
		if !ok {
			continue
		}
		delete(known, alias)
		if _, set := known[target]; !set {
			known[target] = v
		}
	}

	req := ComfyUIRequest{
		WorkflowKey: meta.WorkflowKey,
		WorkflowID:  ability.WorkflowID,
		Params:      known,
		ExtraParams: nonEmpty(extras),
		SubmitOnly:  in.SubmitOnly,
	}
	if req.WorkflowKey == "" {
		req.WorkflowKey = ability.CapabilityKey
	}
	if req.WorkflowKey == "" {
		return nil, api.NewValidationError("workflow_key", "workflow key is required")
	}

	image := in.ImageURL
	if image == "" {
		image = stringParam(params, "image_url")
	}
	if image != "" {
		req.ImageList = append(req.ImageList, ImageRef{Type: "url", Data: image})
	}
	if in.ImageBase64 != "" {
		req.ImageList = append(req.ImageList, ImageRef{Type: "base64", Data: in.ImageBase64})
	}

	inputs, outputs := comfyui.MappingFromMetadata(ability.Metadata)
	if len(inputs) > 0 {
		overrides, err := comfyui.NodeOverrides(inputs, params)
		if err != nil {
			return nil, err
		}
		if len(overrides) > 0 {
			req.NodeOverrides = overrides
		}
	}
	req.OutputNodeIDs = outputs

	return newRequest(FamilyComfyUI, in, req), nil
}

func (a *ComfyUIAdapter) Normalize(provider string, raw interface{}) api.InvocationResult {
	doc := decodeRaw(raw)
	r := normalizeGeneric(provider, doc)
	if r.TaskID == "" {
		r.TaskID = lookupString(doc, "prompt_id", "promptId")
	}
	if len(r.ResultURLs) == 0 {
		r.ResultURLs = lookupStrings(doc, "images", "outputs")
	}
	return r
}
