package provider

import (
	"testing"

	"abilityctl/internal/api"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

type normalizeCase struct {
	name string
	raw  interface{}
	want api.InvocationResult
}

func runNormalize(t *testing.T, a Adapter, provider string, tests []normalizeCase) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.want.Provider = provider
			got := a.Normalize(provider, tt.raw)
			if diff := cmp.Diff(tt.want, got, cmpopts.IgnoreFields(api.InvocationResult{}, "Raw")); diff != "" {
				t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalize_Chat(t *testing.T) {
	runNormalize(t, NewChatAdapter(), "openai", []normalizeCase{
		{
			name: "completion text",
			raw:  `{"model":"gpt-4o","choices":[{"message":{"content":" hi there "}}]}`,
			want: api.InvocationResult{Model: "gpt-4o", Text: "hi there"},
		},
		{
			name: "generated image",
			raw:  []byte(`{"data":[{"url":"https://img.example/1.png","b64_json":"AAAA"}]}`),
			want: api.InvocationResult{ImageURL: "https://img.example/1.png", ImageBase64: "AAAA"},
		},
		{
			name: "stored assets fill the stored url",
			raw: map[string]interface{}{
				"stored_assets": []interface{}{
					map[string]interface{}{
						"url": "https://cdn.example/a.png", "key": "out/a.png", "tag": "output",
						"content_type": "image/png", "size": float64(2048),
					},
					"https://cdn.example/b.png",
					map[string]interface{}{"key": "no-url"},
				},
			},
			want: api.InvocationResult{
				StoredURL: "https://cdn.example/a.png",
				Assets: []api.Asset{
					{URL: "https://cdn.example/a.png", Key: "out/a.png", Tag: "output", ContentType: "image/png", Size: 2048},
					{URL: "https://cdn.example/b.png"},
				},
			},
		},
		{
			name: "explicit stored url wins over assets",
			raw:  `{"storedUrl":"https://cdn.example/x.png","assets":[{"url":"https://cdn.example/a.png"}]}`,
			want: api.InvocationResult{
				StoredURL: "https://cdn.example/x.png",
				Assets:    []api.Asset{{URL: "https://cdn.example/a.png"}},
			},
		},
		{
			name: "bare string",
			raw:  "  plain answer \n",
			want: api.InvocationResult{Text: "plain answer"},
		},
		{
			name: "unparseable body",
			raw:  []byte(`{not json`),
			want: api.InvocationResult{Text: "{not json"},
		},
	})
}

func TestNormalize_Market(t *testing.T) {
	runNormalize(t, NewMarketAdapter(nil), "kie", []normalizeCase{
		{
			name: "submitted task keeps id and state verbatim",
			raw:  `{"code":200,"msg":"success","data":{"taskId":"Task_AbC-01","state":"waiting"}}`,
			want: api.InvocationResult{TaskID: "Task_AbC-01", State: "waiting"},
		},
		{
			name: "completed task with embedded result json",
			raw: map[string]interface{}{
				"data": map[string]interface{}{
					"taskId":     "t-1",
					"state":      "success",
					"resultJson": `{"resultUrls":["https://r.example/1.mp4","https://r.example/2.mp4"]}`,
				},
			},
			want: api.InvocationResult{
				TaskID: "t-1", State: "success",
				ResultURLs: []string{"https://r.example/1.mp4", "https://r.example/2.mp4"},
			},
		},
		{
			name: "result urls under data",
			raw:  `{"data":{"task_id":"t-2","status":"success","resultUrls":["https://r.example/3.png"]}}`,
			want: api.InvocationResult{TaskID: "t-2", State: "success", ResultURLs: []string{"https://r.example/3.png"}},
		},
		{
			name: "malformed embedded result json",
			raw:  `{"data":{"taskId":"t-3","resultJson":"{oops"}}`,
			want: api.InvocationResult{TaskID: "t-3"},
		},
	})
}

func TestNormalize_ComfyUI(t *testing.T) {
	runNormalize(t, NewComfyUIAdapter(), "comfyui", []normalizeCase{
		{
			name: "prompt id and images",
			raw:  `{"prompt_id":"p-123","status":"completed","images":[{"url":"https://c.example/out.png"},"https://c.example/out2.png"]}`,
			want: api.InvocationResult{
				TaskID: "p-123", State: "completed",
				ResultURLs: []string{"https://c.example/out.png", "https://c.example/out2.png"},
			},
		},
		{
			name: "queued only",
			raw:  `{"promptId":"p-9"}`,
			want: api.InvocationResult{TaskID: "p-9"},
		},
	})
}

func TestNormalize_ImageProcess(t *testing.T) {
	runNormalize(t, NewImageProcessAdapter(), "baidu", []normalizeCase{
		{
			name: "bare image field is base64",
			raw:  `{"log_id":123,"image":"iVBORw0KGgo="}`,
			want: api.InvocationResult{ImageBase64: "iVBORw0KGgo="},
		},
		{
			name: "nested result url",
			raw:  `{"result":{"image_url":"https://b.example/1.png"}}`,
			want: api.InvocationResult{ImageURL: "https://b.example/1.png"},
		},
		{
			name: "error page body",
			raw:  []byte("<html>bad gateway</html>"),
			want: api.InvocationResult{Text: "<html>bad gateway</html>"},
		},
	})
}
