package scene

import "github.com/Carmen-Shannon/oxy-badge/engine/params"

// Builder memoizes Build on the visual part of the parameters. It returns exactly what Build
// would; the cache only skips re-deriving an unchanged graph.
type Builder struct {
	last   params.Parameters
	graph  Graph
	valid  bool
	builds int
}

// NewBuilder creates an empty memoizing builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build returns the graph for p, reusing the previous graph when p renders identically.
//
// Parameters:
//   - p: the validated customization parameters
//
// Returns:
//   - Graph: the scene graph
func (b *Builder) Build(p params.Parameters) Graph {
	key := p.Visual()
	if b.valid && key == b.last {
		return b.graph
	}
	b.graph = Build(p)
	b.last = key
	b.valid = true
	b.builds++
	return b.graph
}

// Builds returns how many graphs were actually derived.
func (b *Builder) Builds() int {
	return b.builds
}

// Invalidate drops the cached graph.
func (b *Builder) Invalidate() {
	b.valid = false
}
