// Package builtin provides the eleven standard skill implementations seeded
// into the registry at startup, grounded on the teacher's
// pkg/executor/builtin package (BaseExecutor embedding, one file per
// executor, a single RegisterBuiltins entry point).
package builtin

import "github.com/smilemakc/flowcore/pkg/skill"

// RegisterBuiltins seeds every standard skill factory into registry, per
// SPEC_FULL.md §4.1's "the registry seeds eleven standard skill definitions
// at startup".
func RegisterBuiltins(registry *skill.Registry) {
	registry.Register(func() skill.Skill { return NewDynamicPlanner() })
	registry.Register(func() skill.Skill { return NewDataExtractor() })
	registry.Register(func() skill.Skill { return NewDocumentSummarizer() })
	registry.Register(func() skill.Skill { return NewBrowserOperator() })
	registry.Register(func() skill.Skill { return NewWideResearcher() })
	registry.Register(func() skill.Skill { return NewHTTPRequest() })
	registry.Register(func() skill.Skill { return NewPythonSandbox() })
	registry.Register(func() skill.Skill { return NewBashCommander() })
	registry.Register(func() skill.Skill { return NewFileManager() })
	registry.Register(func() skill.Skill { return NewN8NWebhook() })
	registry.Register(func() skill.Skill { return NewDatabaseOperator() })
}
