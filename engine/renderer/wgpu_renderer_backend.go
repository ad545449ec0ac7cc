package renderer

import (
	_ "embed"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-badge/common"
	"github.com/Carmen-Shannon/oxy-badge/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-badge/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed assets/badge.wgsl
var badgeShaderSource string

// Groups of the badge shader.
const (
	sceneGroup = 0
	faceGroup  = 1
)

// NewBadgeShader pre-processes the face shader with the Scene and Face structs registered.
//
// Returns:
//   - shader.Shader: the parsed shader
//   - error: error if the shader source is malformed
func NewBadgeShader() (shader.Shader, error) {
	pp := shader.NewPreProcessor(
		shader.WithStruct("scene", "Scene", GPUSceneUniformSource, SceneUniformSize),
		shader.WithStruct("face", "Face", GPUFaceUniformSource, FaceUniformSize),
	)
	return shader.NewShader("badge", badgeShaderSource, pp)
}

// faceQuad is a unit quad in the face plane: position xy followed by uv, counter-clockwise from
// the bottom-left corner. Texture row 0 is the top edge of the face.
var faceQuad = [...]float32{
	-0.5, -0.5, 0, 1,
	0.5, -0.5, 1, 1,
	0.5, 0.5, 1, 0,
	-0.5, 0.5, 0, 0,
}

var faceQuadIndices = [...]uint32{0, 1, 2, 0, 2, 3}

// wgpuFaceResources holds the GPU objects of one cube face.
type wgpuFaceResources struct {
	uniform   *wgpu.Buffer
	texture   *wgpu.Texture
	view      *wgpu.TextureView
	bindGroup *wgpu.BindGroup
}

func (f *wgpuFaceResources) releaseTexture() {
	if f.bindGroup != nil {
		f.bindGroup.Release()
		f.bindGroup = nil
	}
	if f.view != nil {
		f.view.Release()
		f.view = nil
	}
	if f.texture != nil {
		f.texture.Release()
		f.texture = nil
	}
}

// wgpuRendererBackendImpl is the WebGPU implementation of RendererBackend.
type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat        *wgpu.TextureFormat
	msaaTexture          *wgpu.Texture
	msaaTextureView      *wgpu.TextureView
	depthTexture         *wgpu.Texture
	depthTextureView     *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor

	presentMode wgpu.PresentMode
	sampleCount MSAASampleCount
	configured  bool

	pipeline       *wgpu.RenderPipeline
	sceneLayout    *wgpu.BindGroupLayout
	faceLayout     *wgpu.BindGroupLayout
	sceneBuffer    *wgpu.Buffer
	sceneBindGroup *wgpu.BindGroup
	vertexBuffer   *wgpu.Buffer
	indexBuffer    *wgpu.Buffer
	sampler        *wgpu.Sampler

	contentTextureBinding uint32
	contentSamplerBinding uint32

	faces map[scene.FaceID]*wgpuFaceResources
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

// newWGPURendererBackend creates the WebGPU instance, adapter, device and queue for the window
// surface. Pipeline objects are created on the first ConfigureSurface, once the surface format
// is known.
//
// Parameters:
//   - surfaceDescriptor: the platform surface of the window
//   - forceFallbackAdapter: request a software adapter
//   - sampleCount: the MSAA sample count of the main pass
//
// Returns:
//   - *wgpuRendererBackendImpl: the backend
//   - error: error if no adapter or device is available
func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, sampleCount MSAASampleCount) (*wgpuRendererBackendImpl, error) {
	runtime.LockOSThread()
	b := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeFifo,
		sampleCount: sampleCount,
		faces:       make(map[scene.FaceID]*wgpuFaceResources),
	}
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to request adapter: %w", err)
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Badge Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to request device: %w", err)
	}
	b.device = d
	b.queue = d.GetQueue()

	return b, nil
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if width <= 0 || height <= 0 {
		// minimized; keep the previous configuration until the next resize
		return nil
	}

	capabilities := b.surface.GetCapabilities(b.adapter)
	if len(capabilities.Formats) == 0 || len(capabilities.AlphaModes) == 0 {
		return errors.New("surface reports no supported formats")
	}
	b.surfaceFormat = &capabilities.Formats[0]

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      *b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	b.releaseAttachments()

	count := uint32(b.sampleCount)
	msaaEnabled := count > 1

	if msaaEnabled {
		msaaTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label: "MSAA Texture",
			Size: wgpu.Extent3D{
				Width:              uint32(width),
				Height:             uint32(height),
				DepthOrArrayLayers: 1,
			},
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        *b.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			return fmt.Errorf("failed to create msaa texture: %w", err)
		}
		b.msaaTexture = msaaTexture
		b.msaaTextureView, err = msaaTexture.CreateView(nil)
		if err != nil {
			return err
		}
	}

	// depth sample count must match the color attachment
	depthTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   count,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("failed to create depth texture: %w", err)
	}
	b.depthTexture = depthTexture
	b.depthTextureView, err = depthTexture.CreateView(nil)
	if err != nil {
		return err
	}

	// With MSAA the multisampled texture is the View and the swapchain view becomes the
	// ResolveTarget each frame; without it the swapchain view is the View.
	storeOp := wgpu.StoreOpStore
	if msaaEnabled {
		storeOp = wgpu.StoreOpDiscard
	}
	b.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:    b.msaaTextureView,
				LoadOp:  wgpu.LoadOpClear,
				StoreOp: storeOp,
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}

	if b.pipeline == nil {
		if err := b.createPipeline(); err != nil {
			return err
		}
	}
	b.configured = true
	return nil
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeUncapped:
		b.presentMode = wgpu.PresentModeImmediate
	case PresentModeVSync:
		fallthrough
	default:
		b.presentMode = wgpu.PresentModeFifo
	}
}

func (b *wgpuRendererBackendImpl) UploadFaceTexture(face scene.FaceID, texture common.TextureStagingData) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.pipeline == nil {
		return errors.New("surface not configured")
	}
	res, err := b.faceResources(face)
	if err != nil {
		return err
	}
	return b.writeFaceTexture(face, res, texture)
}

func (b *wgpuRendererBackendImpl) DrawFrame(frame GPUFrame) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.configured {
		return nil
	}

	b.queue.WriteBuffer(b.sceneBuffer, 0, frame.Scene.Marshal())
	draws := make([]*wgpuFaceResources, 0, len(frame.Faces))
	for _, f := range frame.Faces {
		res, err := b.faceResources(f.Face)
		if err != nil {
			return err
		}
		b.queue.WriteBuffer(res.uniform, 0, f.Uniform.Marshal())
		draws = append(draws, res)
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("failed to acquire surface texture: %w", err)
	}
	defer surfaceTexture.Release()

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		return err
	}
	defer view.Release()

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	attachment := &b.renderPassDescriptor.ColorAttachments[0]
	if b.sampleCount > 1 {
		attachment.ResolveTarget = view
	} else {
		attachment.View = view
	}
	attachment.ClearValue = wgpu.Color{
		R: float64(frame.ClearColor[0]),
		G: float64(frame.ClearColor[1]),
		B: float64(frame.ClearColor[2]),
		A: float64(frame.ClearColor[3]),
	}

	pass := encoder.BeginRenderPass(b.renderPassDescriptor)
	pass.SetPipeline(b.pipeline)
	pass.SetBindGroup(0, b.sceneBindGroup, nil)
	pass.SetVertexBuffer(0, b.vertexBuffer, 0, wgpu.WholeSize)
	pass.SetIndexBuffer(b.indexBuffer, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	for _, res := range draws {
		pass.SetBindGroup(1, res.bindGroup, nil)
		pass.DrawIndexed(uint32(len(faceQuadIndices)), 1, 0, 0, 0)
	}
	pass.End()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("failed to finish frame: %w", err)
	}
	b.queue.Submit(commandBuffer)
	commandBuffer.Release()

	b.surface.Present()
	return nil
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, res := range b.faces {
		res.releaseTexture()
		res.uniform.Release()
		delete(b.faces, id)
	}
	b.releaseAttachments()
	releaseIf(b.sceneBindGroup)
	releaseIf(b.sceneBuffer)
	releaseIf(b.vertexBuffer)
	releaseIf(b.indexBuffer)
	releaseIf(b.sampler)
	releaseIf(b.pipeline)
	releaseIf(b.faceLayout)
	releaseIf(b.sceneLayout)
	releaseIf(b.queue)
	releaseIf(b.device)
	releaseIf(b.adapter)
	releaseIf(b.surface)
	releaseIf(b.instance)
	b.pipeline = nil
	b.configured = false
}

func releaseIf[T any, P interface {
	*T
	Release()
}](r P) {
	if r != nil {
		r.Release()
	}
}

func (b *wgpuRendererBackendImpl) releaseAttachments() {
	if b.msaaTextureView != nil {
		b.msaaTextureView.Release()
		b.msaaTextureView = nil
	}
	if b.msaaTexture != nil {
		b.msaaTexture.Release()
		b.msaaTexture = nil
	}
	if b.depthTextureView != nil {
		b.depthTextureView.Release()
		b.depthTextureView = nil
	}
	if b.depthTexture != nil {
		b.depthTexture.Release()
		b.depthTexture = nil
	}
}

// createPipeline builds the face pipeline, its layouts and the shared buffers.
func (b *wgpuRendererBackendImpl) createPipeline() error {
	sh, err := NewBadgeShader()
	if err != nil {
		return err
	}
	var ok bool
	if _, b.contentTextureBinding, ok = sh.Binding("face", "content_texture"); !ok {
		return errors.New("badge shader declares no face content texture")
	}
	if _, b.contentSamplerBinding, ok = sh.Binding("face", "content_sampler"); !ok {
		return errors.New("badge shader declares no face content sampler")
	}

	module, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: sh.Key(),
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: sh.Source(),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to compile badge shader: %w", err)
	}
	defer module.Release()

	sceneDesc := sh.BindGroupLayoutDescriptor(sceneGroup)
	b.sceneLayout, err = b.device.CreateBindGroupLayout(&sceneDesc)
	if err != nil {
		return err
	}

	faceDesc := sh.BindGroupLayoutDescriptor(faceGroup)
	b.faceLayout, err = b.device.CreateBindGroupLayout(&faceDesc)
	if err != nil {
		return err
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Badge Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{b.sceneLayout, b.faceLayout},
	})
	if err != nil {
		return err
	}
	defer pipelineLayout.Release()

	b.pipeline, err = b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "Badge Face Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: sh.VertexEntryPoint(),
			Buffers:    sh.VertexLayouts(),
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: sh.FragmentEntryPoint(),
			Targets: []wgpu.ColorTargetState{
				{
					Format:    *b.surfaceFormat,
					WriteMask: wgpu.ColorWriteMaskAll,
					Blend: &wgpu.BlendState{
						Color: wgpu.BlendComponent{
							SrcFactor: wgpu.BlendFactorSrcAlpha,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
							Operation: wgpu.BlendOperationAdd,
						},
						Alpha: wgpu.BlendComponent{
							SrcFactor: wgpu.BlendFactorOne,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
							Operation: wgpu.BlendOperationAdd,
						},
					},
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeBack,
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(b.sampleCount),
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create face pipeline: %w", err)
	}

	b.vertexBuffer, err = b.createBuffer("Face Quad Vertex Buffer", float32Bytes(faceQuad[:]), wgpu.BufferUsageVertex|wgpu.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	b.indexBuffer, err = b.createBuffer("Face Quad Index Buffer", uint32Bytes(faceQuadIndices[:]), wgpu.BufferUsageIndex|wgpu.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	b.sceneBuffer, err = b.createBuffer("Scene Uniform Buffer", make([]byte, SceneUniformSize), wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
	if err != nil {
		return err
	}

	b.sceneBindGroup, err = b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Scene Bind Group",
		Layout: b.sceneLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: b.sceneBuffer, Offset: 0, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return err
	}

	b.sampler, err = b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Face Content Sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	return err
}

// faceResources returns the GPU objects of a face, creating its uniform buffer and a blank
// texture on first use.
func (b *wgpuRendererBackendImpl) faceResources(face scene.FaceID) (*wgpuFaceResources, error) {
	if res, ok := b.faces[face]; ok {
		return res, nil
	}

	uniform, err := b.createBuffer(face.String()+" Face Uniform Buffer", make([]byte, FaceUniformSize), wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}
	res := &wgpuFaceResources{uniform: uniform}
	blank := common.TextureStagingData{Pixels: make([]byte, 4), Width: 1, Height: 1}
	if err := b.writeFaceTexture(face, res, blank); err != nil {
		uniform.Release()
		return nil, err
	}
	b.faces[face] = res
	return res, nil
}

// writeFaceTexture replaces the content texture of a face and rebuilds its bind group.
func (b *wgpuRendererBackendImpl) writeFaceTexture(face scene.FaceID, res *wgpuFaceResources, stagingData common.TextureStagingData) error {
	if stagingData.Width == 0 || stagingData.Height == 0 || len(stagingData.Pixels) < int(stagingData.Width*stagingData.Height*4) {
		return fmt.Errorf("invalid %s face texture %dx%d", face, stagingData.Width, stagingData.Height)
	}

	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     face.String() + " Face Texture",
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              stagingData.Width,
			Height:             stagingData.Height,
			DepthOrArrayLayers: 1,
		},
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return err
	}

	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		stagingData.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  stagingData.Width * 4,
			RowsPerImage: stagingData.Height,
		},
		&wgpu.Extent3D{
			Width:              stagingData.Width,
			Height:             stagingData.Height,
			DepthOrArrayLayers: 1,
		},
	)

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return err
	}

	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  face.String() + " Face Bind Group",
		Layout: b.faceLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: res.uniform, Offset: 0, Size: wgpu.WholeSize},
			{Binding: b.contentTextureBinding, TextureView: view},
			{Binding: b.contentSamplerBinding, Sampler: b.sampler},
		},
	})
	if err != nil {
		view.Release()
		tex.Release()
		return err
	}

	res.releaseTexture()
	res.texture, res.view, res.bindGroup = tex, view, bindGroup
	return nil
}

func (b *wgpuRendererBackendImpl) createBuffer(label string, data []byte, usage wgpu.BufferUsage) (*wgpu.Buffer, error) {
	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            label,
		Size:             uint64(len(data)),
		Usage:            usage,
		MappedAtCreation: false,
	})
	if err != nil {
		return nil, err
	}
	b.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

func float32Bytes(values []float32) []byte {
	buf := make([]byte, len(values)*4)
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func uint32Bytes(values []uint32) []byte {
	buf := make([]byte, len(values)*4)
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:], v)
	}
	return buf
}
