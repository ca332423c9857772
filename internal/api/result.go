package api

// Asset is an output file that the provider adapter copied to object
// storage.
type Asset struct {
	URL         string `json:"url"`
	Key         string `json:"key,omitempty"`
	Tag         string `json:"tag,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Size        int64  `json:"size,omitempty"`
}

// InvocationResult is the provider-neutral outcome of one invocation attempt.
// Only Raw may carry provider-shaped data.
type InvocationResult struct {
	Provider    string      `json:"provider"`
	Model       string      `json:"model,omitempty"`
	TaskID      string      `json:"task_id,omitempty"`
	State       string      `json:"state,omitempty"`
	Text        string      `json:"text,omitempty"`
	ImageURL    string      `json:"image_url,omitempty"`
	ImageBase64 string      `json:"image_base64,omitempty"`
	StoredURL   string      `json:"stored_url,omitempty"`
	ResultURLs  []string    `json:"result_urls,omitempty"`
	Assets      []Asset     `json:"assets,omitempty"`
	Raw         interface{} `json:"raw,omitempty"`
}

// NoPreviewMessage describes a completed call with nothing to display.
const NoPreviewMessage = "completed with no previewable output"

// PreviewKind names which field Preview picked.
type PreviewKind string

const (
	PreviewNone      PreviewKind = ""
	PreviewBase64    PreviewKind = "base64"
	PreviewStored    PreviewKind = "stored_url"
	PreviewURL       PreviewKind = "image_url"
	PreviewResultURL PreviewKind = "result_url"
)

// Preview returns the image reference to display: inline base64 first, then
// the stored object URL, then the provider URL, then the first result URL.
func (r InvocationResult) Preview() (PreviewKind, string) {
	switch {
	case r.ImageBase64 != "":
		return PreviewBase64, r.ImageBase64
	case r.StoredURL != "":
		return PreviewStored, r.StoredURL
	case r.ImageURL != "":
		return PreviewURL, r.ImageURL
	case len(r.ResultURLs) > 0:
		return PreviewResultURL, r.ResultURLs[0]
	}
	return PreviewNone, ""
}

// IsPending reports an async task that has not produced output yet.
func (r InvocationResult) IsPending() bool {
	return r.TaskID != "" && !r.HasOutput()
}

// HasOutput reports whether the result carries text or an image reference.
func (r InvocationResult) HasOutput() bool {
	kind, _ := r.Preview()
	return kind != PreviewNone || r.Text != ""
}

// Summary is a one-line human description used by the CLI and log sinks.
func (r InvocationResult) Summary() string {
	if r.IsPending() {
		state := r.State
		if state == "" {
			state = "submitted"
		}
		return "task " + r.TaskID + " " + state
	}
	if kind, ref := r.Preview(); kind != PreviewNone {
		if kind == PreviewBase64 {
			return "image (inline)"
		}
		return "image " + ref
	}
	if r.Text != "" {
		text := []rune(r.Text)
		if len(text) > 80 {
			return string(text[:80]) + "…"
		}
		return r.Text
	}
	return NoPreviewMessage
}
