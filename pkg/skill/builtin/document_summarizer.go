package builtin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/smilemakc/flowcore/pkg/skill"
)

// DocumentSummarizer summarizes a text payload (it does not fetch URLs),
// calling the configured
// LLM when an API key is present and otherwise falling back to a
// deterministic extractive summary (first N sentences), grounded on the
// teacher's LLMExecutor provider-selection pattern
// (pkg/executor/builtin/llm.go) simplified to a single OpenAI path.
type DocumentSummarizer struct {
	skill.BaseSkill
}

func NewDocumentSummarizer() *DocumentSummarizer { return &DocumentSummarizer{} }

func (s *DocumentSummarizer) Definition() skill.Definition {
	return skill.Definition{
		ID:          "document_summarizer",
		Name:        "Document Summarizer",
		Description: "Summarizes an input document, optionally using a configured LLM.",
		Category:    skill.CategoryCognitive,
		Parameters: []skill.Parameter{
			{Name: "text", Type: "string", Required: true, Description: "Document text to summarize"},
			{Name: "openai_api_key", Type: "string", Required: false},
			{Name: "model", Type: "string", Required: false, Default: "gpt-4o-mini"},
			{Name: "max_sentences", Type: "number", Required: false, Default: 3},
		},
		Outputs: []skill.Output{
			{Name: "summary", Type: "string", Description: "The generated summary"},
			{Name: "method", Type: "string", Description: "llm or extractive"},
		},
		TimeoutSeconds: 60,
		Icon:           "file-text",
		Color:          "#0891b2",
	}
}

func (s *DocumentSummarizer) ValidateInputs(inputs map[string]any) []string {
	return skill.ValidateRequired(s.Definition(), inputs)
}

func (s *DocumentSummarizer) Execute(ctx context.Context, ic *skill.InvocationContext) skill.Result {
	start := time.Now()
	text, _ := s.GetString(ic.Inputs, "text")
	if text == "" {
		r := skill.Failed(fmt.Errorf("missing required parameter %q", "text"))
		r.DurationMs = time.Since(start).Milliseconds()
		return r
	}

	apiKey, _ := s.GetString(ic.Inputs, "openai_api_key")
	if apiKey != "" {
		summary, err := s.summarizeWithLLM(ctx, apiKey, s.GetStringDefault(ic.Inputs, "model", "gpt-4o-mini"), text)
		if err != nil {
			r := skill.Failed(err)
			r.DurationMs = time.Since(start).Milliseconds()
			return r
		}
		res := skill.Succeeded(map[string]any{"summary": summary, "method": "llm"}, "summarized via llm")
		res.DurationMs = time.Since(start).Milliseconds()
		return res
	}

	maxSentences := s.GetIntDefault(ic.Inputs, "max_sentences", 3)
	summary := extractiveSummary(text, maxSentences)
	res := skill.Succeeded(map[string]any{"summary": summary, "method": "extractive"}, "summarized via extractive fallback")
	res.DurationMs = time.Since(start).Milliseconds()
	return res
}

func (s *DocumentSummarizer) summarizeWithLLM(ctx context.Context, apiKey, model, text string) (string, error) {
	client := openai.NewClient(apiKey)
	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "Summarize the user's document in at most three sentences."},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai summarization failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// extractiveSummary returns the first n sentences of text, split on
// '.', '!' and '?'.
func extractiveSummary(text string, n int) string {
	if n <= 0 {
		n = 1
	}
	var sentences []string
	var cur strings.Builder
	for _, r := range text {
		cur.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			sentences = append(sentences, strings.TrimSpace(cur.String()))
			cur.Reset()
			if len(sentences) >= n {
				break
			}
		}
	}
	if cur.Len() > 0 && len(sentences) < n {
		sentences = append(sentences, strings.TrimSpace(cur.String()))
	}
	return strings.Join(sentences, " ")
}
