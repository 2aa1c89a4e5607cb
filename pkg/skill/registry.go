package skill

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/smilemakc/flowcore/pkg/models"
)

// Registry is the process-wide mapping from skill id to a factory that
// yields a fresh Skill instance per invocation. It is safe for concurrent
// use; the scheduler calls Get from many goroutines at once while
// registration happens once at startup.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	order     []string
	logger    zerolog.Logger
}

// NewRegistry builds an empty registry. The logger is an explicit
// collaborator, not a package-level global, per the composition-root
// wiring convention this project follows throughout.
func NewRegistry(logger zerolog.Logger) *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		logger:    logger,
	}
}

// Register inserts a skill factory under definition.ID, building one
// throwaway instance to read its Definition. Last write wins on a
// duplicate id.
func (r *Registry) Register(factory Factory) {
	sample := factory()
	def := sample.Definition()

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[def.ID]; exists {
		r.logger.Warn().Str("skill_id", def.ID).Err(models.ErrSkillExists).Msg("overwriting previously registered skill")
	} else {
		r.order = append(r.order, def.ID)
	}
	r.factories[def.ID] = factory
	r.logger.Info().Str("skill_id", def.ID).Str("category", string(def.Category)).Msg("skill registered")
}

// Get returns a fresh Skill instance for id, or nil, false if unknown.
func (r *Registry) Get(id string) (Skill, bool) {
	r.mu.RLock()
	factory, ok := r.factories[id]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return factory(), true
}

// Has reports whether a skill id is registered.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[id]
	return ok
}

// ListAll returns every registered SkillDefinition in registration order.
func (r *Registry) ListAll() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Definition, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.factories[id]().Definition())
	}
	return out
}

// ListByCategory returns every registered Definition in the given category,
// preserving registration order.
func (r *Registry) ListByCategory(cat Category) []Definition {
	all := r.ListAll()
	out := make([]Definition, 0, len(all))
	for _, d := range all {
		if d.Category == cat {
			out = append(out, d)
		}
	}
	return out
}

// Unregister removes a skill id, returning whether it had been present.
func (r *Registry) Unregister(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[id]; !ok {
		return false
	}
	delete(r.factories, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}
