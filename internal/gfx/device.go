// Package gfx defines the graphics API boundary the renderer is written against.
//
// Every GPU command the engine issues goes through Device. The OpenGL backend
// lives in internal/engine/renderer; tests use gfxtest.Recorder.
package gfx

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Handle identifies a GPU object. Zero is never a valid object.
type Handle uint32

// NoHandle is the zero handle; binding it restores the default object.
const NoHandle Handle = 0

// Primitive is the topology used by draw calls.
type Primitive int

const (
	Triangles Primitive = iota
	Quads
	Lines
	Points
)

func (p Primitive) String() string {
	switch p {
	case Triangles:
		return "triangles"
	case Quads:
		return "quads"
	case Lines:
		return "lines"
	case Points:
		return "points"
	default:
		return "unknown"
	}
}

// TextureTarget selects between 2D textures and cube maps.
type TextureTarget int

const (
	Texture2D TextureTarget = iota
	TextureCubeMap
)

// CubeFace addresses one face of a cube map. The order matches
// GL_TEXTURE_CUBE_MAP_POSITIVE_X + i.
type CubeFace int

const (
	FacePositiveX CubeFace = iota
	FaceNegativeX
	FacePositiveY
	FaceNegativeY
	FacePositiveZ
	FaceNegativeZ
)

// CubeFaces lists all six faces in upload order.
var CubeFaces = [6]CubeFace{
	FacePositiveX, FaceNegativeX,
	FacePositiveY, FaceNegativeY,
	FacePositiveZ, FaceNegativeZ,
}

func (f CubeFace) String() string {
	switch f {
	case FacePositiveX:
		return "+x"
	case FaceNegativeX:
		return "-x"
	case FacePositiveY:
		return "+y"
	case FaceNegativeY:
		return "-y"
	case FacePositiveZ:
		return "+z"
	case FaceNegativeZ:
		return "-z"
	default:
		return "?"
	}
}

// PixelFormat describes texture storage.
type PixelFormat int

const (
	RGBA PixelFormat = iota
	Depth
)

// Filter is the texture sampling filter.
type Filter int

const (
	Linear Filter = iota
	Nearest
)

// Wrap is the texture coordinate wrap mode.
type Wrap int

const (
	Repeat Wrap = iota
	ClampToEdge
	ClampToBorder
)

// Sampling holds the sampler parameters applied to a texture.
type Sampling struct {
	Wrap   Wrap
	Filter Filter
	Border [4]float32 // only used with ClampToBorder
}

// ShaderStage is a programmable pipeline stage.
type ShaderStage int

const (
	VertexStage ShaderStage = iota
	FragmentStage
)

func (s ShaderStage) String() string {
	if s == VertexStage {
		return "vertex"
	}
	return "fragment"
}

// ClearMask selects the buffers cleared by Device.Clear.
type ClearMask uint8

const (
	ClearColor ClearMask = 1 << iota
	ClearDepth
)

// Attachment is a framebuffer attachment point.
type Attachment int

const (
	ColorAttachment Attachment = iota
	DepthAttachment
)

// CullMode selects which faces are culled.
type CullMode int

const (
	CullBack CullMode = iota
	CullFront
	CullNone
)

// Viewport is a rectangle in window pixels.
type Viewport struct {
	X, Y          int32
	Width, Height int32
}

// Device is the capability set the engine needs from a graphics backend.
// All calls must be made from the thread that owns the context.
type Device interface {
	CreateVertexArray() Handle
	BindVertexArray(vao Handle)
	DeleteVertexArray(vao Handle)

	// CreateBuffer allocates a buffer object.
	CreateBuffer() Handle
	// VertexAttribData uploads data into buf and wires it to attribute slot
	// of the bound vertex array, components floats per vertex.
	VertexAttribData(buf Handle, slot uint32, components int32, data []float32)
	// IndexData uploads element indices into buf for the bound vertex array.
	IndexData(buf Handle, indices []uint32)
	DeleteBuffer(buf Handle)

	CreateTexture(target TextureTarget) Handle
	// BindTexture activates texture unit and binds tex to target on it.
	BindTexture(unit uint32, target TextureTarget, tex Handle)
	// TexImage allocates (and optionally fills) storage for the texture bound
	// to target. face is ignored for Texture2D. pixels may be nil.
	TexImage(target TextureTarget, face CubeFace, width, height int32, format PixelFormat, pixels []byte)
	TexSampling(target TextureTarget, s Sampling)
	DeleteTexture(tex Handle)

	CompileShader(stage ShaderStage, source string) (Handle, error)
	DeleteShader(sh Handle)
	CreateProgram() Handle
	AttachShader(prog, sh Handle)
	BindAttribLocation(prog Handle, slot uint32, name string)
	LinkProgram(prog Handle) error
	UseProgram(prog Handle)
	DeleteProgram(prog Handle)
	// UniformLocation returns -1 when the program has no active uniform name.
	UniformLocation(prog Handle, name string) int32

	Uniform1i(loc int32, v int32)
	Uniform1f(loc int32, v float32)
	Uniform2f(loc int32, v mgl32.Vec2)
	Uniform3f(loc int32, v mgl32.Vec3)
	Uniform4f(loc int32, v mgl32.Vec4)
	UniformMatrix3(loc int32, transpose bool, m mgl32.Mat3)
	UniformMatrix4(loc int32, transpose bool, m mgl32.Mat4)

	DrawElements(mode Primitive, count int32)
	DrawArrays(mode Primitive, first, count int32)

	CreateFramebuffer() Handle
	// BindFramebuffer makes fb the render target; NoHandle is the window.
	BindFramebuffer(fb Handle)
	// FramebufferTexture attaches a texture level (or cube face) to the bound
	// framebuffer.
	FramebufferTexture(att Attachment, target TextureTarget, face CubeFace, tex Handle)
	// CreateDepthBuffer allocates a depth renderbuffer and attaches it to the
	// bound framebuffer.
	CreateDepthBuffer(width, height int32) Handle
	DeleteDepthBuffer(rb Handle)
	// CheckFramebuffer reports whether the bound framebuffer is complete.
	CheckFramebuffer() error
	DeleteFramebuffer(fb Handle)

	SetClearColor(r, g, b, a float32)
	Clear(mask ClearMask)
	SetViewport(v Viewport)
	Viewport() Viewport
	SetCullMode(m CullMode)
	SetWireframe(on bool)
	// ReadPixels returns RGBA rows bottom-up from the bound framebuffer.
	ReadPixels(v Viewport) []byte
}
