package provider

import (
	"encoding/json"
	"strconv"
	"strings"

	"abilityctl/internal/api"
	"abilityctl/internal/utils"
)

// decodeRaw turns a JSON body into a document. Other values pass through.
func decodeRaw(raw interface{}) interface{} {
	var data []byte
	switch r := raw.(type) {
	case []byte:
		data = r
	case json.RawMessage:
		data = r
	case string:
		data = []byte(r)
	default:
		return raw
	}
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return string(data)
	}
	return doc
}

// normalizeGeneric extracts the fields every family reports the same way.
// A bare string response becomes the text.
func normalizeGeneric(provider string, doc interface{}) api.InvocationResult {
	r := api.InvocationResult{Provider: provider, Raw: doc}
	if s, ok := doc.(string); ok {
		r.Text = strings.TrimSpace(s)
		return r
	}

	r.Model = lookupString(doc, "model", "data.model")
	r.TaskID = lookupString(doc, "task_id", "taskId")
	r.State = lookupString(doc, "state", "status")
	r.Text = lookupString(doc, "text", "content", "output_text", "data.text")
	r.ImageURL = lookupString(doc, "image_url", "imageUrl", "url")
	r.ImageBase64 = lookupString(doc, "image_base64", "imageBase64", "b64_json")
	r.StoredURL = lookupString(doc, "stored_url", "storedUrl")
	r.ResultURLs = lookupStrings(doc, "result_urls", "resultUrls")
	r.Assets = parseAssets(lookupAny(doc, "stored_assets", "storedAssets", "assets"))

	if r.StoredURL == "" && len(r.Assets) > 0 {
		r.StoredURL = r.Assets[0].URL
	}
	return r
}

func parseAssets(v interface{}) []api.Asset {
	items, ok := utils.List(v)
	if !ok {
		return nil
	}
	var assets []api.Asset
	for _, item := range items {
		m, ok := utils.Map(item)
		if !ok {
			if s, ok := utils.TrimmedString(item); ok {
				assets = append(assets, api.Asset{URL: s})
			}
			continue
		}
		asset := api.Asset{
			URL:         lookupString(m, "url", "stored_url"),
			Key:         lookupString(m, "key", "object_key"),
			Tag:         lookupString(m, "tag"),
			ContentType: lookupString(m, "content_type", "contentType"),
		}
		if size, ok := utils.Float(m["size"]); ok {
			asset.Size = int64(size)
		}
		if asset.URL != "" {
			assets = append(assets, asset)
		}
	}
	return assets
}

// lookup follows a dotted path through maps and lists. Numeric segments
// index lists.
func lookup(doc interface{}, path string) (interface{}, bool) {
	cur := doc
	for _, seg := range strings.Split(path, ".") {
		if m, ok := utils.Map(cur); ok {
			v, ok := m[seg]
			if !ok {
				return nil, false
			}
			cur = v
			continue
		}
		if items, ok := utils.List(cur); ok {
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(items) {
				return nil, false
			}
			cur = items[i]
			continue
		}
		return nil, false
	}
	return cur, cur != nil
}

func lookupAny(doc interface{}, paths ...string) interface{} {
	for _, p := range paths {
		if v, ok := lookup(doc, p); ok {
			return v
		}
	}
	return nil
}

func lookupString(doc interface{}, paths ...string) string {
	for _, p := range paths {
		v, ok := lookup(doc, p)
		if !ok {
			continue
		}
		if s, ok := utils.TrimmedString(v); ok {
			return s
		}
	}
	return ""
}

// lookupStrings reads a list of URLs. Object entries contribute their url.
func lookupStrings(doc interface{}, paths ...string) []string {
	for _, p := range paths {
		v, ok := lookup(doc, p)
		if !ok {
			continue
		}
		items, ok := utils.List(v)
		if !ok {
			if s, ok := utils.TrimmedString(v); ok {
				return []string{s}
			}
			continue
		}
		var out []string
		for _, item := range items {
			if m, ok := utils.Map(item); ok {
				item = lookupAny(m, "url", "image_url", "stored_url")
			}
			if s, ok := utils.TrimmedString(item); ok {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}
