package builtin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/smilemakc/flowcore/pkg/skill"
)

// HTTPRequest performs a real net/http request per method/url/headers/body,
// grounded on the teacher's HTTPExecutor (pkg/executor/builtin/http.go).
type HTTPRequest struct {
	skill.BaseSkill
	client *http.Client
}

// NewHTTPRequest builds a fresh http_request skill instance.
func NewHTTPRequest() *HTTPRequest {
	return &HTTPRequest{client: &http.Client{Timeout: 30 * time.Second}}
}

func (s *HTTPRequest) Definition() skill.Definition {
	return skill.Definition{
		ID:          "http_request",
		Name:        "HTTP Request",
		Description: "Performs an HTTP request against an external endpoint.",
		Category:    skill.CategoryWeb,
		Parameters: []skill.Parameter{
			{Name: "url", Type: "string", Required: true, Description: "Target URL"},
			{Name: "method", Type: "string", Required: false, Default: "GET", Description: "HTTP method",
				AllowedValues: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD"}},
			{Name: "headers", Type: "object", Required: false, Description: "Request headers"},
			{Name: "body", Type: "any", Required: false, Description: "Request body"},
		},
		Outputs: []skill.Output{
			{Name: "status", Type: "number", Description: "Response status code"},
			{Name: "headers", Type: "object", Description: "Response headers"},
			{Name: "body", Type: "any", Description: "Parsed response body"},
		},
		TimeoutSeconds: 30,
		RetryCount:     1,
		Icon:           "globe",
		Color:          "#2563eb",
	}
}

func (s *HTTPRequest) ValidateInputs(inputs map[string]any) []string {
	return skill.ValidateRequired(s.Definition(), inputs)
}

func (s *HTTPRequest) Execute(ctx context.Context, ic *skill.InvocationContext) skill.Result {
	start := time.Now()
	url, _ := s.GetString(ic.Inputs, "url")
	method := s.GetStringDefault(ic.Inputs, "method", "GET")

	var body io.Reader
	if raw, ok := ic.Inputs["body"]; ok && raw != nil {
		switch v := raw.(type) {
		case string:
			body = bytes.NewReader([]byte(v))
		default:
			data, err := json.Marshal(v)
			if err != nil {
				return s.fail(fmt.Errorf("failed to marshal request body: %w", err), start)
			}
			body = bytes.NewReader(data)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return s.fail(fmt.Errorf("failed to build request: %w", err), start)
	}

	if headers, ok := s.GetMap(ic.Inputs, "headers"); ok {
		for k, v := range headers {
			if sv, ok := v.(string); ok {
				req.Header.Set(k, sv)
			}
		}
	}
	if req.Header.Get("Content-Type") == "" && body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return s.fail(fmt.Errorf("request failed: %w", err), start)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return s.fail(fmt.Errorf("failed to read response: %w", err), start)
	}

	headers := map[string]any{}
	for k, v := range resp.Header {
		if len(v) > 0 {
			headers[k] = v[0]
		}
	}

	var parsed any
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &parsed); err != nil {
			parsed = string(respBody)
		}
	}

	outputs := map[string]any{
		"status":  resp.StatusCode,
		"headers": headers,
		"body":    parsed,
	}
	logs := []string{fmt.Sprintf("%s %s -> %d", method, url, resp.StatusCode)}
	return skill.Result{
		Status:     skill.StatusSuccess,
		Outputs:    outputs,
		Logs:       logs,
		DurationMs: time.Since(start).Milliseconds(),
	}
}

func (s *HTTPRequest) fail(err error, start time.Time) skill.Result {
	r := skill.Failed(err)
	r.DurationMs = time.Since(start).Milliseconds()
	return r
}
