// annotations.go defines the @oxy: annotations understood by the badge shader pre-processor.
// Annotations are single-line WGSL comments that inject registered struct sources and declare
// bind group entries so the renderer can build its layouts from the shader itself.
package shader

import (
	"fmt"
	"strconv"
	"strings"
)

// annotationPrefix marks an annotation inside a WGSL comment line.
const annotationPrefix = "@oxy:"

// AnnotationType identifies the kind of annotation parsed from a WGSL comment line.
type AnnotationType string

const (
	// annotationTypeInclude injects the WGSL source of a registered struct. Each struct is
	// injected at most once per shader.
	//
	// Syntax: //@oxy:include <struct_key>
	//
	// Example: //@oxy:include camera
	annotationTypeInclude AnnotationType = "include"

	// AnnotationTypeBindingGroup generates a @group/@binding buffer declaration for a registered
	// struct and records it in the declarations list.
	//
	// Syntax: //@oxy:group <group> <binding> <address_space> <var_name> <struct_key>
	//
	// Example: //@oxy:group 0 0 uniform scene scene
	AnnotationTypeBindingGroup AnnotationType = "group"

	// AnnotationTypeProvider records the owner and role of a hand-written binding (textures and
	// samplers) without generating any WGSL.
	//
	// Syntax: //@oxy:provider <group> <binding> <provider_identity> [<binding_role>]
	//
	// Example: //@oxy:provider 1 1 face content_texture
	AnnotationTypeProvider AnnotationType = "provider"
)

// Annotation is one parsed @oxy: annotation.
type Annotation struct {
	// Type identifies which annotation was parsed.
	Type AnnotationType

	// Args holds the annotation's arguments:
	//   - include:  [0] = struct key
	//   - group:    [0] = address space, [1] = var name, [2] = struct key
	//   - provider: [0] = provider identity, [1] = binding role (optional)
	Args []AnnotationArg

	// Line is the 1-based source line of the annotation.
	Line int

	// Group is the @group index for group and provider annotations. Nil for include.
	Group *int

	// Binding is the @binding index for group and provider annotations. Nil for include.
	Binding *int
}

// AnnotationArg is a single annotation argument.
type AnnotationArg string

// Built-in struct keys.
const (
	AnnotationArgCamera   AnnotationArg = "camera"
	AnnotationArgLight    AnnotationArg = "light"
	AnnotationArgMaterial AnnotationArg = "material"
)

// Address spaces accepted by group annotations.
const (
	annotationArgUniform          AnnotationArg = "uniform"
	annotationArgStorageRead      AnnotationArg = "storage_read"
	annotationArgStorageReadWrite AnnotationArg = "storage_read_write"
)

var addressSpaces = map[AnnotationArg]string{
	annotationArgUniform:          "var<uniform>",
	annotationArgStorageRead:      "var<storage, read>",
	annotationArgStorageReadWrite: "var<storage, read_write>",
}

// parseAnnotation parses one source line. Lines without the annotation prefix yield nil.
// Struct keys are checked later against the pre-processor registry.
//
// Parameters:
//   - line: the raw source line
//   - lineNum: its 1-based line number, for errors
//
// Returns:
//   - *Annotation: the parsed annotation, or nil if the line is not one
//   - error: error if the annotation is malformed
func parseAnnotation(line string, lineNum int) (*Annotation, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "//") {
		return nil, nil
	}
	_, after, ok := strings.Cut(trimmed, annotationPrefix)
	if !ok {
		return nil, nil
	}

	args := strings.Fields(after)
	if len(args) == 0 {
		return nil, fmt.Errorf("line %d: empty @oxy annotation", lineNum)
	}

	switch AnnotationType(args[0]) {
	case annotationTypeInclude:
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: @oxy include annotation requires exactly one argument", lineNum)
		}
		return &Annotation{
			Type: annotationTypeInclude,
			Args: []AnnotationArg{AnnotationArg(args[1])},
			Line: lineNum,
		}, nil
	case AnnotationTypeBindingGroup:
		if len(args) != 6 {
			return nil, fmt.Errorf("line %d: @oxy group annotation requires group, binding, address space, name and struct", lineNum)
		}
		group, binding, err := parseSlot(args[1], args[2], lineNum)
		if err != nil {
			return nil, err
		}
		if _, ok := addressSpaces[AnnotationArg(args[3])]; !ok {
			return nil, fmt.Errorf("line %d: unknown address space %q in @oxy group annotation", lineNum, args[3])
		}
		return &Annotation{
			Type:    AnnotationTypeBindingGroup,
			Args:    []AnnotationArg{AnnotationArg(args[3]), AnnotationArg(args[4]), AnnotationArg(args[5])},
			Line:    lineNum,
			Group:   &group,
			Binding: &binding,
		}, nil
	case AnnotationTypeProvider:
		if len(args) < 4 || len(args) > 5 {
			return nil, fmt.Errorf("line %d: @oxy provider annotation requires group, binding, identity and an optional role", lineNum)
		}
		group, binding, err := parseSlot(args[1], args[2], lineNum)
		if err != nil {
			return nil, err
		}
		a := &Annotation{
			Type:    AnnotationTypeProvider,
			Args:    []AnnotationArg{AnnotationArg(args[3])},
			Line:    lineNum,
			Group:   &group,
			Binding: &binding,
		}
		if len(args) == 5 {
			a.Args = append(a.Args, AnnotationArg(args[4]))
		}
		return a, nil
	default:
		return nil, fmt.Errorf("line %d: unknown annotation type %q", lineNum, args[0])
	}
}

func parseSlot(group, binding string, lineNum int) (int, int, error) {
	g, err := strconv.Atoi(group)
	if err != nil || g < 0 {
		return 0, 0, fmt.Errorf("line %d: invalid group number %q", lineNum, group)
	}
	b, err := strconv.Atoi(binding)
	if err != nil || b < 0 {
		return 0, 0, fmt.Errorf("line %d: invalid binding number %q", lineNum, binding)
	}
	return g, b, nil
}
