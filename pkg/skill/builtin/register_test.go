package builtin

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/smilemakc/flowcore/pkg/skill"
)

func TestRegisterBuiltins_SeedsAllElevenSkills(t *testing.T) {
	registry := skill.NewRegistry(zerolog.Nop())
	RegisterBuiltins(registry)

	want := []string{
		"dynamic_planner", "data_extractor", "document_summarizer", "browser_operator",
		"wide_researcher", "http_request", "python_sandbox", "bash_commander",
		"file_manager", "n8n_webhook", "database_operator",
	}
	for _, id := range want {
		assert.True(t, registry.Has(id), "expected %s to be registered", id)
	}
	assert.Len(t, registry.ListAll(), len(want))
}
