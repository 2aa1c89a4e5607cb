package builtin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smilemakc/flowcore/pkg/skill"
)

func TestDocumentSummarizer_ExtractiveFallback(t *testing.T) {
	s := NewDocumentSummarizer()
	res := s.Execute(context.Background(), &skill.InvocationContext{
		Inputs: map[string]any{
			"text":          "First sentence. Second sentence. Third sentence. Fourth sentence.",
			"max_sentences": 2,
		},
	})
	assert.Equal(t, skill.StatusSuccess, res.Status)
	assert.Equal(t, "extractive", res.Outputs["method"])
	assert.Equal(t, "First sentence. Second sentence.", res.Outputs["summary"])
}

func TestDocumentSummarizer_MissingText(t *testing.T) {
	s := NewDocumentSummarizer()
	res := s.Execute(context.Background(), &skill.InvocationContext{Inputs: map[string]any{}})
	assert.Equal(t, skill.StatusFailed, res.Status)
}

func TestExtractiveSummary(t *testing.T) {
	assert.Equal(t, "One.", extractiveSummary("One. Two. Three.", 1))
	assert.Equal(t, "One. Two.", extractiveSummary("One. Two. Three.", 2))
}
