package shader

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// vertexFormatInfo is the wgpu format and byte size of a WGSL vertex attribute type.
type vertexFormatInfo struct {
	format wgpu.VertexFormat
	size   uint64
}

// wgslVertexFormatMap maps WGSL type names to their vertex format and byte size
var wgslVertexFormatMap = map[string]vertexFormatInfo{
	"f32":       {wgpu.VertexFormatFloat32, 4},
	"vec2f":     {wgpu.VertexFormatFloat32x2, 8},
	"vec2<f32>": {wgpu.VertexFormatFloat32x2, 8},
	"vec3f":     {wgpu.VertexFormatFloat32x3, 12},
	"vec3<f32>": {wgpu.VertexFormatFloat32x3, 12},
	"vec4f":     {wgpu.VertexFormatFloat32x4, 16},
	"vec4<f32>": {wgpu.VertexFormatFloat32x4, 16},
	"u32":       {wgpu.VertexFormatUint32, 4},
	"vec2<u32>": {wgpu.VertexFormatUint32x2, 8},
	"vec4<u32>": {wgpu.VertexFormatUint32x4, 16},
}

// wgslTextureDimMap maps sampled texture base names to their view dimension
var wgslTextureDimMap = map[string]wgpu.TextureViewDimension{
	"texture_1d":       wgpu.TextureViewDimension1D,
	"texture_2d":       wgpu.TextureViewDimension2D,
	"texture_2d_array": wgpu.TextureViewDimension2DArray,
	"texture_3d":       wgpu.TextureViewDimension3D,
	"texture_cube":     wgpu.TextureViewDimensionCube,
}

// wgslSampleTypeMap maps texture scalar parameters to their sample type
var wgslSampleTypeMap = map[string]wgpu.TextureSampleType{
	"f32": wgpu.TextureSampleTypeFloat,
	"i32": wgpu.TextureSampleTypeSint,
	"u32": wgpu.TextureSampleTypeUint,
}

var (
	// bindingRegex matches a binding declaration and captures group, binding, address space,
	// variable name and type.
	bindingRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]+)>)?\s+(\w+)\s*:\s*([^;]+);`)

	// structBlockRegex matches struct declarations and captures the name and body
	structBlockRegex = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)

	// locationFieldRegex matches "@location(N) name: type"
	locationFieldRegex = regexp.MustCompile(`^@location\((\d+)\)\s*(\w+)\s*:\s*(.+)$`)

	vertexEntryRegex   = regexp.MustCompile(`(?s)@vertex\b.*?\bfn\s+(\w+)`)
	fragmentEntryRegex = regexp.MustCompile(`(?s)@fragment\b.*?\bfn\s+(\w+)`)
)

// parsedBinding is one binding declaration found in expanded source.
type parsedBinding struct {
	group        int
	binding      uint32
	addressSpace string
	name         string
	typeName     string
}

// parseBindings returns every binding declaration of source in source order.
func parseBindings(source string) []parsedBinding {
	var out []parsedBinding
	for _, m := range bindingRegex.FindAllStringSubmatch(stripLineComments(source), -1) {
		group, _ := strconv.Atoi(m[1])
		binding, _ := strconv.Atoi(m[2])
		out = append(out, parsedBinding{
			group:        group,
			binding:      uint32(binding),
			addressSpace: strings.TrimSpace(m[3]),
			name:         m[4],
			typeName:     strings.TrimSpace(m[5]),
		})
	}
	return out
}

// classifyResource builds the layout entry of one binding. Buffers are visible to both stages;
// textures and samplers only to the fragment stage.
//
// Parameters:
//   - b: the parsed binding
//   - sizeOf: resolves the byte size of a buffer's struct type
//
// Returns:
//   - wgpu.BindGroupLayoutEntry: the layout entry
func classifyResource(b parsedBinding, sizeOf func(string) (uint64, bool)) wgpu.BindGroupLayoutEntry {
	entry := wgpu.BindGroupLayoutEntry{Binding: b.binding}

	if b.addressSpace != "" {
		entry.Visibility = wgpu.ShaderStageVertex | wgpu.ShaderStageFragment
		switch {
		case b.addressSpace == "uniform":
			entry.Buffer.Type = wgpu.BufferBindingTypeUniform
		case strings.Contains(b.addressSpace, "read_write"):
			entry.Buffer.Type = wgpu.BufferBindingTypeStorage
		default:
			entry.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
		}
		if size, ok := sizeOf(b.typeName); ok {
			entry.Buffer.MinBindingSize = size
		}
		return entry
	}

	entry.Visibility = wgpu.ShaderStageFragment
	switch {
	case b.typeName == "sampler":
		entry.Sampler.Type = wgpu.SamplerBindingTypeFiltering
	case b.typeName == "sampler_comparison":
		entry.Sampler.Type = wgpu.SamplerBindingTypeComparison
	case strings.HasPrefix(b.typeName, "texture_"):
		base, param := splitTypeParams(b.typeName)
		entry.Texture.ViewDimension = wgslTextureDimMap[base]
		entry.Texture.SampleType = wgslSampleTypeMap[param]
	}
	return entry
}

// buildLayouts groups the bindings of source into layout descriptors keyed by group index.
func buildLayouts(key, source string, sizeOf func(string) (uint64, bool)) map[int]wgpu.BindGroupLayoutDescriptor {
	layouts := make(map[int]wgpu.BindGroupLayoutDescriptor)
	for _, b := range parseBindings(source) {
		desc := layouts[b.group]
		if desc.Label == "" {
			desc.Label = key + " group " + strconv.Itoa(b.group)
		}
		desc.Entries = append(desc.Entries, classifyResource(b, sizeOf))
		layouts[b.group] = desc
	}
	for g, desc := range layouts {
		sort.Slice(desc.Entries, func(i, j int) bool { return desc.Entries[i].Binding < desc.Entries[j].Binding })
		layouts[g] = desc
	}
	return layouts
}

// buildVertexLayout builds a tightly packed vertex buffer layout from the first struct whose
// fields all carry @location.
//
// Returns:
//   - wgpu.VertexBufferLayout: the layout
//   - bool: false if no such struct exists or a field type is not a vertex format
func buildVertexLayout(source string) (wgpu.VertexBufferLayout, bool) {
	for _, m := range structBlockRegex.FindAllStringSubmatch(stripLineComments(source), -1) {
		var attrs []wgpu.VertexAttribute
		var offset uint64
		valid := true
		fields := 0
		for _, field := range strings.Split(m[2], ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			fields++
			fm := locationFieldRegex.FindStringSubmatch(field)
			if fm == nil {
				valid = false
				break
			}
			info, ok := wgslVertexFormatMap[strings.TrimSpace(fm[3])]
			if !ok {
				valid = false
				break
			}
			loc, _ := strconv.Atoi(fm[1])
			attrs = append(attrs, wgpu.VertexAttribute{Format: info.format, Offset: offset, ShaderLocation: uint32(loc)})
			offset += info.size
		}
		if valid && fields > 0 {
			return wgpu.VertexBufferLayout{
				ArrayStride: offset,
				StepMode:    wgpu.VertexStepModeVertex,
				Attributes:  attrs,
			}, true
		}
	}
	return wgpu.VertexBufferLayout{}, false
}

func entryPoint(re *regexp.Regexp, source string) string {
	if m := re.FindStringSubmatch(source); m != nil {
		return m[1]
	}
	return ""
}

// splitTypeParams splits "texture_2d<f32>" into "texture_2d" and "f32".
func splitTypeParams(typeName string) (base string, params string) {
	before, after, ok := strings.Cut(typeName, "<")
	if !ok {
		return typeName, ""
	}
	return before, strings.TrimSuffix(after, ">")
}

func stripLineComments(source string) string {
	lines := strings.Split(source, "\n")
	for i, line := range lines {
		if idx := strings.Index(line, "//"); idx >= 0 {
			lines[i] = line[:idx]
		}
	}
	return strings.Join(lines, "\n")
}
