package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/smilemakc/flowcore/pkg/skill"
)

// BrowserOperator drives a remote-debugging-protocol endpoint over a
// websocket connection to navigate to a URL and read back the protocol's
// response. Without a configured endpoint it returns a stub navigation
// result so workflows remain runnable without a live browser, matching the
// "concrete skill semantics are out of scope" framing in SPEC_FULL.md §4.1
// while still exercising gorilla/websocket as a real dependency.
type BrowserOperator struct {
	skill.BaseSkill
}

func NewBrowserOperator() *BrowserOperator { return &BrowserOperator{} }

func (s *BrowserOperator) Definition() skill.Definition {
	return skill.Definition{
		ID:          "browser_operator",
		Name:        "Browser Operator",
		Description: "Navigates a remote-debugging browser session to a URL.",
		Category:    skill.CategoryWeb,
		Parameters: []skill.Parameter{
			{Name: "url", Type: "string", Required: true, Description: "URL to navigate to"},
			{Name: "debug_endpoint", Type: "string", Required: false, Description: "ws:// remote-debugging endpoint"},
		},
		Outputs: []skill.Output{
			{Name: "navigated", Type: "boolean"},
			{Name: "response", Type: "any", Description: "Raw protocol response, when a debug endpoint is configured"},
		},
		TimeoutSeconds: 45,
		Icon:           "monitor",
		Color:          "#db2777",
	}
}

func (s *BrowserOperator) ValidateInputs(inputs map[string]any) []string {
	return skill.ValidateRequired(s.Definition(), inputs)
}

func (s *BrowserOperator) Execute(ctx context.Context, ic *skill.InvocationContext) skill.Result {
	start := time.Now()
	targetURL, _ := s.GetString(ic.Inputs, "url")
	endpoint, _ := s.GetString(ic.Inputs, "debug_endpoint")

	if endpoint == "" {
		res := skill.Succeeded(map[string]any{"navigated": true, "response": nil}, "no debug_endpoint configured, stub navigation")
		res.DurationMs = time.Since(start).Milliseconds()
		return res
	}

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		r := skill.Failed(fmt.Errorf("failed to dial debug endpoint: %w", err))
		r.DurationMs = time.Since(start).Milliseconds()
		return r
	}
	defer conn.Close()

	cmd := map[string]any{"id": 1, "method": "Page.navigate", "params": map[string]any{"url": targetURL}}
	if err := conn.WriteJSON(cmd); err != nil {
		r := skill.Failed(fmt.Errorf("failed to send navigate command: %w", err))
		r.DurationMs = time.Since(start).Milliseconds()
		return r
	}

	_ = conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	var raw json.RawMessage
	if err := conn.ReadJSON(&raw); err != nil {
		r := skill.Failed(fmt.Errorf("failed to read navigate response: %w", err))
		r.DurationMs = time.Since(start).Milliseconds()
		return r
	}

	var response any
	_ = json.Unmarshal(raw, &response)

	res := skill.Succeeded(map[string]any{"navigated": true, "response": response}, "navigated via remote debugging protocol")
	res.DurationMs = time.Since(start).Milliseconds()
	return res
}
