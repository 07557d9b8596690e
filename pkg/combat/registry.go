package combat

import "fmt"

// CharacterBuilder constructs a fresh Character of a given roster kind,
// given the id/name to assign and a level override (0 means "use the
// kit's default level").
type CharacterBuilder func(id, name string, level int) *Character

// Registry maps a roster kind name to its CharacterBuilder. It is a
// static map populated by a host at startup (pkg/combat/roster does
// this for its sample kit) — never a reflection-based or
// directory-scanning mechanism, per spec's "host supplies a registry"
// non-goal and REDESIGN FLAGS' "no reflection" note.
type Registry struct {
	builders map[string]CharacterBuilder
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{builders: make(map[string]CharacterBuilder)}
}

// Register adds kind to the registry. Registering the same kind twice
// overwrites the previous builder, matching a host's expectation that
// re-registration during setup is a normal override, not an error.
func (r *Registry) Register(kind string, builder CharacterBuilder) {
	r.builders[kind] = builder
}

// Build constructs a Character of the given kind, or returns
// ErrUnknownReference if kind was never registered.
func (r *Registry) Build(kind, id, name string, level int) (*Character, error) {
	builder, ok := r.builders[kind]
	if !ok {
		return nil, fmt.Errorf("%w: character kind %q", ErrUnknownReference, kind)
	}
	return builder(id, name, level), nil
}

// Kinds returns every registered kind name.
func (r *Registry) Kinds() []string {
	out := make([]string, 0, len(r.builders))
	for k := range r.builders {
		out = append(out, k)
	}
	return out
}
