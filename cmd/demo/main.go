// Command demo is the composition root: it wires config, logging, the
// skill registry, the runner, and the manager together and runs a sample
// diamond-shaped workflow end to end, streaming its progress to stdout.
// Grounded on examples/parallel-workflow/main.go's plain-main,
// no-web-framework demo style.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/smilemakc/flowcore/internal/config"
	"github.com/smilemakc/flowcore/internal/logging"
	"github.com/smilemakc/flowcore/pkg/engine"
	"github.com/smilemakc/flowcore/pkg/manager"
	"github.com/smilemakc/flowcore/pkg/models"
	"github.com/smilemakc/flowcore/pkg/skill"
	"github.com/smilemakc/flowcore/pkg/skill/builtin"
)

func main() {
	var configPath = flag.String("config", "", "optional YAML config overlay")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(logging.Config{Level: cfg.LogLevel, Prefix: "flowcore-demo"})
	log.Info().Int("max_parallel_nodes", cfg.MaxParallelNodes).Msg("starting flowcore demo")

	registry := skill.NewRegistry(log)
	builtin.RegisterBuiltins(registry)
	log.Info().Int("skill_count", len(registry.ListAll())).Msg("skill registry seeded")

	runner := engine.NewRunner(registry, log, engine.Config{
		MaxParallelNodes:  cfg.MaxParallelNodes,
		IdleInterval:      cfg.NodeIdleInterval,
		HeartbeatInterval: cfg.HeartbeatInterval,
	})
	mgr := manager.New(runner, log)

	wf := diamondWorkflow()
	if errs := manager.ValidateWorkflow(wf); len(errs) > 0 {
		for _, e := range errs {
			log.Error().Str("workflow_id", wf.ID).Msg(e)
		}
		os.Exit(1)
	}

	if _, err := mgr.SaveWorkflow(wf); err != nil {
		log.Fatal().Err(err).Msg("failed to save workflow")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	updates, err := mgr.RunWorkflowStream(ctx, wf.ID, map[string]any{"value": 10.0})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start workflow")
	}

	for u := range updates {
		switch u.Kind {
		case engine.UpdateExecutionStart:
			fmt.Printf("▶ execution %s started for workflow %s\n", u.ExecutionID, u.WorkflowID)
		case engine.UpdateNode:
			fmt.Printf("  node %-12s -> %-8s outputs=%v\n", u.NodeID, u.Status, u.Outputs)
		case engine.UpdateHeartbeat:
			fmt.Println("  …")
		case engine.UpdateExecutionComplete:
			fmt.Printf("✓ execution %s finished: %s\n", u.ExecutionID, u.Status)
			if u.Error != "" {
				fmt.Printf("  error: %s\n", u.Error)
			}
		}
	}

}

// diamondWorkflow builds A -> B, A -> C, B -> D, C -> D: two independent
// HTTP requests fanning out from a trigger and rejoining at a data
// extraction node, the canonical fork/join shape testable property S2
// describes.
func diamondWorkflow() *models.Workflow {
	return &models.Workflow{
		ID:   "demo_diamond",
		Name: "Diamond fan-out/fan-in demo",
		Nodes: []*models.Node{
			{ID: "a", Name: "Start", Type: models.NodeKindTrigger},
			{
				ID: "b", Name: "Fetch left", Type: models.NodeKindSkill, SkillID: "http_request",
				Parameters: map[string]any{"url": "https://example.com/left", "method": "GET"},
			},
			{
				ID: "c", Name: "Fetch right", Type: models.NodeKindSkill, SkillID: "http_request",
				Parameters: map[string]any{"url": "https://example.com/right", "method": "GET"},
			},
			{
				ID: "d", Name: "Merge", Type: models.NodeKindMerge, SkillID: "data_extractor",
				Parameters: map[string]any{"paths": []string{"b.status", "c.status"}},
			},
		},
		Edges: []*models.Edge{
			{ID: "e1", Source: "a", Target: "b"},
			{ID: "e2", Source: "a", Target: "c"},
			{ID: "e3", Source: "b", Target: "d"},
			{ID: "e4", Source: "c", Target: "d"},
		},
		Triggers: []string{"a"},
	}
}
