package skill

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSkill struct {
	BaseSkill
	id       string
	category Category
}

func (s *stubSkill) Definition() Definition {
	cat := s.category
	if cat == "" {
		cat = CategoryExecution
	}
	return Definition{ID: s.id, Name: s.id, Category: cat}
}
func (s *stubSkill) ValidateInputs(map[string]any) []string { return nil }
func (s *stubSkill) Execute(context.Context, *InvocationContext) Result {
	return Succeeded(map[string]any{"ok": true})
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry(zerolog.Nop())
	r.Register(func() Skill { return &stubSkill{id: "echo"} })

	assert.True(t, r.Has("echo"))
	s, ok := r.Get("echo")
	require.True(t, ok)
	assert.Equal(t, "echo", s.Definition().ID)

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestRegistry_ListAll_PreservesOrder(t *testing.T) {
	r := NewRegistry(zerolog.Nop())
	r.Register(func() Skill { return &stubSkill{id: "first"} })
	r.Register(func() Skill { return &stubSkill{id: "second"} })

	defs := r.ListAll()
	require.Len(t, defs, 2)
	assert.Equal(t, "first", defs[0].ID)
	assert.Equal(t, "second", defs[1].ID)
}

func TestRegistry_Unregister(t *testing.T) {
	r := NewRegistry(zerolog.Nop())
	r.Register(func() Skill { return &stubSkill{id: "echo"} })

	assert.True(t, r.Unregister("echo"))
	assert.False(t, r.Has("echo"))
	assert.False(t, r.Unregister("echo"))
}

func TestRegistry_GetReturnsFreshInstance(t *testing.T) {
	r := NewRegistry(zerolog.Nop())
	r.Register(func() Skill { return &stubSkill{id: "echo"} })

	a, _ := r.Get("echo")
	b, _ := r.Get("echo")
	assert.NotSame(t, a, b)
}

func TestRegistry_RegisterDuplicate_LastWriteWinsWithoutDuplicateOrderEntry(t *testing.T) {
	r := NewRegistry(zerolog.Nop())
	r.Register(func() Skill { return &stubSkill{id: "echo", category: CategoryExecution} })
	r.Register(func() Skill { return &stubSkill{id: "echo", category: CategoryWeb} })

	assert.Len(t, r.ListAll(), 1, "re-registering an id must not duplicate it in order")
	s, ok := r.Get("echo")
	require.True(t, ok)
	assert.Equal(t, CategoryWeb, s.Definition().Category, "the later registration wins")
}

func TestRegistry_ListByCategory(t *testing.T) {
	r := NewRegistry(zerolog.Nop())
	r.Register(func() Skill { return &stubSkill{id: "a", category: CategoryExecution} })
	r.Register(func() Skill { return &stubSkill{id: "b", category: CategoryWeb} })
	r.Register(func() Skill { return &stubSkill{id: "c", category: CategoryExecution} })

	execs := r.ListByCategory(CategoryExecution)
	require.Len(t, execs, 2)
	assert.Equal(t, "a", execs[0].ID)
	assert.Equal(t, "c", execs[1].ID)

	assert.Empty(t, r.ListByCategory(CategoryIntegration))
}
