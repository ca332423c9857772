package invoke

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"abilityctl/internal/api"
	"abilityctl/internal/config"
	"abilityctl/internal/credentials"
	"abilityctl/internal/provider"
	"abilityctl/pkg/logging"
)

// maxResponseBytes caps how much of a provider response is read.
const maxResponseBytes = 8 << 20

// Invoker sends a built request to the provider backend and returns the raw
// response document.
type Invoker interface {
	Call(ctx context.Context, req *provider.Request) (interface{}, error)
}

// InvokerFunc adapts a function to Invoker.
type InvokerFunc func(ctx context.Context, req *provider.Request) (interface{}, error)

func (f InvokerFunc) Call(ctx context.Context, req *provider.Request) (interface{}, error) {
	return f(ctx, req)
}

// HTTPInvoker posts requests as JSON to one endpoint per family.
type HTTPInvoker struct {
	client    *http.Client
	baseURL   string
	endpoints map[string]string
	creds     *credentials.Cache
}

// NewHTTPInvoker creates an invoker. creds may be nil for unauthenticated
// backends.
func NewHTTPInvoker(cfg config.InvokerConfig, creds *credentials.Cache, client *http.Client) *HTTPInvoker {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPInvoker{
		client:    client,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		endpoints: cfg.Endpoints,
		creds:     creds,
	}
}

// URL returns the endpoint a family posts to.
func (h *HTTPInvoker) URL(family provider.Family) (string, error) {
	path, ok := h.endpoints[string(family)]
	if !ok || path == "" {
		return "", fmt.Errorf("no invoker endpoint configured for family %s", family)
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path, nil
	}
	return h.baseURL + "/" + strings.TrimLeft(path, "/"), nil
}

func (h *HTTPInvoker) Call(ctx context.Context, req *provider.Request) (interface{}, error) {
	url, err := h.URL(req.Family)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s request: %w", req.Family, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if h.creds != nil {
		token, err := h.creds.Token(ctx)
		if err != nil {
			return nil, err
		}
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	logging.Debug("Invoker", "POST %s for ability %s", url, req.Context.AbilityID)
	resp, err := h.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &api.ProviderError{Provider: req.Provider, Timeout: true, Err: context.DeadlineExceeded}
		}
		return nil, &api.ProviderError{Provider: req.Provider, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &api.ProviderError{Provider: req.Provider, StatusCode: resp.StatusCode, Message: err.Error(), Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized && h.creds != nil {
		h.creds.Invalidate()
	}
	if resp.StatusCode >= 300 {
		return nil, &api.ProviderError{
			Provider:   req.Provider,
			StatusCode: resp.StatusCode,
			Message:    ErrorMessage(data),
		}
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return string(data), nil
	}
	return doc, nil
}

// ErrorMessage extracts a human message from an error body: the message,
// error or msg field of a JSON object, or a nested error.message. It returns
// "" when nothing usable is present.
func ErrorMessage(body []byte) string {
	var doc map[string]interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return ""
	}
	for _, key := range []string{"message", "error", "msg", "detail"} {
		switch v := doc[key].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case map[string]interface{}:
			if s, ok := v["message"].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}
