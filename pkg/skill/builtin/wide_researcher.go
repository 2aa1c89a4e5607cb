package builtin

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/smilemakc/flowcore/pkg/skill"
)

var errMissingURLs = errors.New(`missing required parameter "urls"`)

// WideResearcher fans out HTTP GETs across a list of URLs concurrently,
// summarizing status/latency per source. Grounded on the teacher's
// HTTPExecutor (pkg/executor/builtin/http.go) for the request shape,
// generalized to concurrent fan-out per SPEC_FULL.md §4.7.
type WideResearcher struct {
	skill.BaseSkill
	client *http.Client
}

func NewWideResearcher() *WideResearcher {
	return &WideResearcher{client: &http.Client{Timeout: 15 * time.Second}}
}

func (s *WideResearcher) Definition() skill.Definition {
	return skill.Definition{
		ID:          "wide_researcher",
		Name:        "Wide Researcher",
		Description: "Fans out GET requests across multiple URLs and summarizes each source.",
		Category:    skill.CategoryWeb,
		Parameters: []skill.Parameter{
			{Name: "urls", Type: "array", Required: true, Description: "List of URLs to query"},
		},
		Outputs: []skill.Output{
			{Name: "sources", Type: "array", Description: "Per-source {url, status, latency_ms, error?}"},
		},
		TimeoutSeconds: 60,
		Icon:           "search",
		Color:          "#ea580c",
	}
}

func (s *WideResearcher) ValidateInputs(inputs map[string]any) []string {
	return skill.ValidateRequired(s.Definition(), inputs)
}

type sourceResult struct {
	URL       string `json:"url"`
	Status    int    `json:"status"`
	LatencyMs int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

func (s *WideResearcher) Execute(ctx context.Context, ic *skill.InvocationContext) skill.Result {
	start := time.Now()
	urls := toStringSlice(ic.Inputs["urls"])
	if len(urls) == 0 {
		r := skill.Failed(errMissingURLs)
		r.DurationMs = time.Since(start).Milliseconds()
		return r
	}

	results := make([]sourceResult, len(urls))
	var wg sync.WaitGroup
	for i, u := range urls {
		wg.Add(1)
		go func(idx int, url string) {
			defer wg.Done()
			results[idx] = s.fetchOne(ctx, url)
		}(i, u)
	}
	wg.Wait()

	out := make([]any, len(results))
	for i, r := range results {
		m := map[string]any{"url": r.URL, "status": r.Status, "latency_ms": r.LatencyMs}
		if r.Error != "" {
			m["error"] = r.Error
		}
		out[i] = m
	}

	res := skill.Succeeded(map[string]any{"sources": out}, "queried "+strconv.Itoa(len(urls))+" source(s)")
	res.DurationMs = time.Since(start).Milliseconds()
	return res
}

func (s *WideResearcher) fetchOne(ctx context.Context, url string) sourceResult {
	begin := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return sourceResult{URL: url, Error: err.Error()}
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return sourceResult{URL: url, Error: err.Error(), LatencyMs: time.Since(begin).Milliseconds()}
	}
	defer resp.Body.Close()
	return sourceResult{URL: url, Status: resp.StatusCode, LatencyMs: time.Since(begin).Milliseconds()}
}
