package shader

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-badge/engine/camera"
	"github.com/Carmen-Shannon/oxy-badge/engine/light"
	"github.com/Carmen-Shannon/oxy-badge/engine/renderer/material"
)

// registryEntry pairs a WGSL struct source with the type name it declares and the byte size of
// its Go counterpart.
type registryEntry struct {
	Source string
	Type   string
	Size   uint64
}

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	structRegistry map[AnnotationArg]registryEntry
	declarations   []Annotation
}

// PreProcessor replaces @oxy: annotations in WGSL source with the registered struct sources and
// generated binding declarations.
type PreProcessor interface {
	// Process expands every annotation of source. The declarations list is reset first.
	//
	// Parameters:
	//   - source: the annotated WGSL source
	//
	// Returns:
	//   - string: the expanded WGSL source
	//   - error: error if an annotation is malformed or names an unregistered struct
	Process(source string) (string, error)

	// Declarations returns the group and provider annotations of the last Process call, in
	// source order.
	Declarations() []Annotation

	// TypeSize returns the byte size registered for a WGSL struct type name.
	//
	// Parameters:
	//   - typeName: the WGSL type, e.g. "Camera"
	//
	// Returns:
	//   - uint64: the size in bytes
	//   - bool: false if no registered struct declares the type
	TypeSize(typeName string) (uint64, bool)
}

var _ PreProcessor = &preProcessor{}

// PreProcessorOption is a functional option applied by NewPreProcessor.
type PreProcessorOption func(*preProcessor)

// WithStruct registers a struct source under key, replacing any entry with the same key.
//
// Parameters:
//   - key: the name used by include and group annotations
//   - typeName: the WGSL type the source declares
//   - source: the WGSL source
//   - size: the byte size of the matching Go GPU type
//
// Returns:
//   - PreProcessorOption: a function that registers the struct
func WithStruct(key AnnotationArg, typeName, source string, size uint64) PreProcessorOption {
	return func(p *preProcessor) {
		p.structRegistry[key] = registryEntry{Source: source, Type: typeName, Size: size}
	}
}

// NewPreProcessor creates a PreProcessor with the camera, light and material structs registered.
//
// Parameters:
//   - options: additional struct registrations
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor
func NewPreProcessor(options ...PreProcessorOption) PreProcessor {
	var cam camera.GPUCameraUniform
	var lt light.GPULight
	var mat material.GPUPhysical
	p := &preProcessor{
		structRegistry: map[AnnotationArg]registryEntry{
			AnnotationArgCamera:   {Source: camera.GPUCameraUniformSource, Type: "Camera", Size: uint64(cam.Size())},
			AnnotationArgLight:    {Source: light.GPULightSource, Type: "Light", Size: uint64(lt.Size())},
			AnnotationArgMaterial: {Source: material.GPUPhysicalSource, Type: "Material", Size: uint64(mat.Size())},
		},
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *preProcessor) Process(source string) (string, error) {
	p.declarations = p.declarations[:0]
	included := make(map[AnnotationArg]bool)

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", err
		}
		if a == nil {
			out = append(out, line)
			continue
		}

		switch a.Type {
		case annotationTypeInclude:
			key := a.Args[0]
			entry, ok := p.structRegistry[key]
			if !ok {
				return "", fmt.Errorf("line %d: unknown @oxy:include argument %q", a.Line, key)
			}
			if included[key] {
				continue
			}
			included[key] = true
			out = append(out, strings.TrimRight(entry.Source, "\n"))
		case AnnotationTypeBindingGroup:
			entry, ok := p.structRegistry[a.Args[2]]
			if !ok {
				return "", fmt.Errorf("line %d: unknown struct %q in @oxy:group", a.Line, a.Args[2])
			}
			out = append(out, fmt.Sprintf("@group(%d) @binding(%d) %s %s: %s;",
				*a.Group, *a.Binding, addressSpaces[a.Args[0]], a.Args[1], entry.Type))
			p.declarations = append(p.declarations, *a)
		case AnnotationTypeProvider:
			p.declarations = append(p.declarations, *a)
		}
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Declarations() []Annotation {
	return p.declarations
}

func (p *preProcessor) TypeSize(typeName string) (uint64, bool) {
	for _, entry := range p.structRegistry {
		if entry.Type == typeName {
			return entry.Size, true
		}
	}
	return 0, false
}
