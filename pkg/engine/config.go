package engine

import "time"

// Config tunes the scheduler's concurrency and polling behavior. Zero
// values are replaced by DefaultConfig's defaults by NewRunner.
type Config struct {
	// MaxParallelNodes bounds concurrent node dispatch per execution.
	MaxParallelNodes int
	// IdleInterval is how long the scheduling loop sleeps when the ready
	// set is empty but nodes are still running.
	IdleInterval time.Duration
	// HeartbeatInterval is how long the streaming bus waits for a
	// node_update before synthesizing a heartbeat record.
	HeartbeatInterval time.Duration
}

// DefaultConfig matches SPEC_FULL.md's defaults: 5 concurrent nodes, a
// 100ms idle poll, a 500ms heartbeat cadence.
func DefaultConfig() Config {
	return Config{
		MaxParallelNodes:  5,
		IdleInterval:      100 * time.Millisecond,
		HeartbeatInterval: 500 * time.Millisecond,
	}
}

func (c Config) withDefaults() Config {
	if c.MaxParallelNodes <= 0 {
		c.MaxParallelNodes = DefaultConfig().MaxParallelNodes
	}
	if c.IdleInterval <= 0 {
		c.IdleInterval = DefaultConfig().IdleInterval
	}
	if c.HeartbeatInterval <= 0 {
		c.HeartbeatInterval = DefaultConfig().HeartbeatInterval
	}
	return c
}
