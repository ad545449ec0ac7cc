package shader

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// shader is the implementation of the Shader interface.
type shader struct {
	key           string
	source        string
	declarations  []Annotation
	layouts       map[int]wgpu.BindGroupLayoutDescriptor
	vertexLayouts []wgpu.VertexBufferLayout
	vertexEntry   string
	fragmentEntry string
}

// Shader is a pre-processed render shader together with the pipeline information parsed from it.
type Shader interface {
	// Key returns the shader's identifier, used as the module label.
	Key() string

	// Source returns the expanded WGSL source.
	Source() string

	// Declarations returns the group and provider annotations of the shader, in source order.
	Declarations() []Annotation

	// BindGroupLayoutDescriptor returns the layout of one bind group.
	//
	// Parameters:
	//   - group: the bind group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the descriptor, empty if the group is not declared
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// GroupCount returns one past the highest declared bind group index.
	GroupCount() int

	// Binding finds the slot declared by a provider annotation.
	//
	// Parameters:
	//   - identity: the provider identity, e.g. "face"
	//   - role: the binding role, e.g. "content_texture"
	//
	// Returns:
	//   - int: the group index
	//   - uint32: the binding index
	//   - bool: false if no provider annotation matches
	Binding(identity, role string) (int, uint32, bool)

	// VertexLayouts returns the vertex buffer layouts of the vertex stage.
	VertexLayouts() []wgpu.VertexBufferLayout

	// VertexEntryPoint returns the name of the @vertex function.
	VertexEntryPoint() string

	// FragmentEntryPoint returns the name of the @fragment function.
	FragmentEntryPoint() string
}

var _ Shader = &shader{}

// NewShader expands the annotations of source and parses its bindings, vertex input and entry
// points.
//
// Parameters:
//   - key: the shader identifier
//   - source: the annotated WGSL source
//   - pp: the pre-processor holding the struct registry; nil uses NewPreProcessor()
//
// Returns:
//   - Shader: the parsed shader
//   - error: error if pre-processing fails or the source lacks a vertex or fragment entry point
func NewShader(key, source string, pp PreProcessor) (Shader, error) {
	if pp == nil {
		pp = NewPreProcessor()
	}
	expanded, err := pp.Process(source)
	if err != nil {
		return nil, fmt.Errorf("failed to pre-process shader %s: %w", key, err)
	}

	s := &shader{
		key:           key,
		source:        expanded,
		declarations:  append([]Annotation(nil), pp.Declarations()...),
		layouts:       buildLayouts(key, expanded, pp.TypeSize),
		vertexEntry:   entryPoint(vertexEntryRegex, expanded),
		fragmentEntry: entryPoint(fragmentEntryRegex, expanded),
	}
	if s.vertexEntry == "" || s.fragmentEntry == "" {
		return nil, fmt.Errorf("shader %s needs a @vertex and a @fragment entry point", key)
	}
	if layout, ok := buildVertexLayout(expanded); ok {
		s.vertexLayouts = []wgpu.VertexBufferLayout{layout}
	}
	return s, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) Declarations() []Annotation {
	return s.declarations
}

func (s *shader) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return s.layouts[group]
}

func (s *shader) GroupCount() int {
	n := 0
	for g := range s.layouts {
		n = max(n, g+1)
	}
	return n
}

func (s *shader) Binding(identity, role string) (int, uint32, bool) {
	for _, a := range s.declarations {
		if a.Type != AnnotationTypeProvider || string(a.Args[0]) != identity {
			continue
		}
		if len(a.Args) > 1 && string(a.Args[1]) == role {
			return *a.Group, uint32(*a.Binding), true
		}
	}
	return 0, 0, false
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

func (s *shader) VertexEntryPoint() string {
	return s.vertexEntry
}

func (s *shader) FragmentEntryPoint() string {
	return s.fragmentEntry
}
