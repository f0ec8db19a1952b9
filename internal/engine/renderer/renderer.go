// Package renderer implements gfx.Device on OpenGL 4.1 core.
package renderer

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/glscene/internal/gfx"
	"github.com/Faultbox/glscene/internal/logger"
)

// Renderer issues gfx.Device calls to the current OpenGL context.
type Renderer struct {
	viewport gfx.Viewport
}

var _ gfx.Device = (*Renderer)(nil)

// New loads the GL entry points and sets the default pipeline state.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(width, height int32) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	gl.Enable(gl.DEPTH_TEST)
	// LEQUAL lets the skybox pass at the far plane.
	gl.DepthFunc(gl.LEQUAL)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.Enable(gl.TEXTURE_CUBE_MAP_SEAMLESS)

	r := &Renderer{}
	r.SetViewport(gfx.Viewport{Width: width, Height: height})
	return r, nil
}

func primitive(p gfx.Primitive) uint32 {
	switch p {
	case gfx.Lines:
		return gl.LINES
	case gfx.Points:
		return gl.POINTS
	default:
		// The core profile has no quads; quad meshes are uploaded as
		// triangle pairs.
		return gl.TRIANGLES
	}
}

func textureTarget(t gfx.TextureTarget) uint32 {
	if t == gfx.TextureCubeMap {
		return gl.TEXTURE_CUBE_MAP
	}
	return gl.TEXTURE_2D
}

func imageTarget(t gfx.TextureTarget, face gfx.CubeFace) uint32 {
	if t == gfx.TextureCubeMap {
		return gl.TEXTURE_CUBE_MAP_POSITIVE_X + uint32(face)
	}
	return gl.TEXTURE_2D
}

func (r *Renderer) CreateVertexArray() gfx.Handle {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return gfx.Handle(vao)
}

func (r *Renderer) BindVertexArray(vao gfx.Handle) {
	gl.BindVertexArray(uint32(vao))
}

func (r *Renderer) DeleteVertexArray(vao gfx.Handle) {
	h := uint32(vao)
	gl.DeleteVertexArrays(1, &h)
}

func (r *Renderer) CreateBuffer() gfx.Handle {
	var buf uint32
	gl.GenBuffers(1, &buf)
	return gfx.Handle(buf)
}

func (r *Renderer) VertexAttribData(buf gfx.Handle, slot uint32, components int32, data []float32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(buf))
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	}
	gl.VertexAttribPointer(slot, components, gl.FLOAT, false, 0, nil)
	gl.EnableVertexAttribArray(slot)
}

func (r *Renderer) IndexData(buf gfx.Handle, indices []uint32) {
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, uint32(buf))
	if len(indices) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
	}
}

func (r *Renderer) DeleteBuffer(buf gfx.Handle) {
	h := uint32(buf)
	gl.DeleteBuffers(1, &h)
}

func (r *Renderer) CreateTexture(target gfx.TextureTarget) gfx.Handle {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(textureTarget(target), tex)
	return gfx.Handle(tex)
}

func (r *Renderer) BindTexture(unit uint32, target gfx.TextureTarget, tex gfx.Handle) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(textureTarget(target), uint32(tex))
}

func (r *Renderer) TexImage(target gfx.TextureTarget, face gfx.CubeFace, width, height int32, format gfx.PixelFormat, pixels []byte) {
	var ptr unsafe.Pointer
	if len(pixels) > 0 {
		ptr = gl.Ptr(pixels)
	}
	t := imageTarget(target, face)
	if format == gfx.Depth {
		gl.TexImage2D(t, 0, gl.DEPTH_COMPONENT24, width, height, 0, gl.DEPTH_COMPONENT, gl.FLOAT, ptr)
		return
	}
	gl.TexImage2D(t, 0, gl.RGBA8, width, height, 0, gl.RGBA, gl.UNSIGNED_BYTE, ptr)
}

func (r *Renderer) TexSampling(target gfx.TextureTarget, s gfx.Sampling) {
	t := textureTarget(target)

	filter := int32(gl.LINEAR)
	if s.Filter == gfx.Nearest {
		filter = gl.NEAREST
	}
	gl.TexParameteri(t, gl.TEXTURE_MIN_FILTER, filter)
	gl.TexParameteri(t, gl.TEXTURE_MAG_FILTER, filter)

	wrap := int32(gl.REPEAT)
	switch s.Wrap {
	case gfx.ClampToEdge:
		wrap = gl.CLAMP_TO_EDGE
	case gfx.ClampToBorder:
		wrap = gl.CLAMP_TO_BORDER
		gl.TexParameterfv(t, gl.TEXTURE_BORDER_COLOR, &s.Border[0])
	}
	gl.TexParameteri(t, gl.TEXTURE_WRAP_S, wrap)
	gl.TexParameteri(t, gl.TEXTURE_WRAP_T, wrap)
	if target == gfx.TextureCubeMap {
		gl.TexParameteri(t, gl.TEXTURE_WRAP_R, wrap)
	}
}

func (r *Renderer) DeleteTexture(tex gfx.Handle) {
	h := uint32(tex)
	gl.DeleteTextures(1, &h)
}

// CompileShader compiles a shader from source.
func (r *Renderer) CompileShader(stage gfx.ShaderStage, source string) (gfx.Handle, error) {
	shaderType := uint32(gl.VERTEX_SHADER)
	if stage == gfx.FragmentStage {
		shaderType = gl.FRAGMENT_SHADER
	}
	shader := gl.CreateShader(shaderType)

	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return gfx.NoHandle, fmt.Errorf("%s shader compile failed: %s", stage, strings.TrimRight(log, "\x00"))
	}
	return gfx.Handle(shader), nil
}

func (r *Renderer) DeleteShader(sh gfx.Handle) {
	gl.DeleteShader(uint32(sh))
}

func (r *Renderer) CreateProgram() gfx.Handle {
	return gfx.Handle(gl.CreateProgram())
}

func (r *Renderer) AttachShader(prog, sh gfx.Handle) {
	gl.AttachShader(uint32(prog), uint32(sh))
}

func (r *Renderer) BindAttribLocation(prog gfx.Handle, slot uint32, name string) {
	gl.BindAttribLocation(uint32(prog), slot, gl.Str(name+"\x00"))
}

func (r *Renderer) LinkProgram(prog gfx.Handle) error {
	program := uint32(prog)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		return fmt.Errorf("link failed: %s", strings.TrimRight(log, "\x00"))
	}

	logger.Debug("shader program linked", zap.Uint32("program", program))
	return nil
}

func (r *Renderer) UseProgram(prog gfx.Handle) {
	gl.UseProgram(uint32(prog))
}

func (r *Renderer) DeleteProgram(prog gfx.Handle) {
	gl.DeleteProgram(uint32(prog))
}

func (r *Renderer) UniformLocation(prog gfx.Handle, name string) int32 {
	return gl.GetUniformLocation(uint32(prog), gl.Str(name+"\x00"))
}

func (r *Renderer) Uniform1i(loc int32, v int32) { gl.Uniform1i(loc, v) }
func (r *Renderer) Uniform1f(loc int32, v float32) { gl.Uniform1f(loc, v) }
func (r *Renderer) Uniform2f(loc int32, v mgl32.Vec2) { gl.Uniform2f(loc, v[0], v[1]) }
func (r *Renderer) Uniform3f(loc int32, v mgl32.Vec3) { gl.Uniform3f(loc, v[0], v[1], v[2]) }
func (r *Renderer) Uniform4f(loc int32, v mgl32.Vec4) { gl.Uniform4f(loc, v[0], v[1], v[2], v[3]) }

func (r *Renderer) UniformMatrix3(loc int32, transpose bool, m mgl32.Mat3) {
	gl.UniformMatrix3fv(loc, 1, transpose, &m[0])
}

func (r *Renderer) UniformMatrix4(loc int32, transpose bool, m mgl32.Mat4) {
	gl.UniformMatrix4fv(loc, 1, transpose, &m[0])
}

func (r *Renderer) DrawElements(mode gfx.Primitive, count int32) {
	gl.DrawElements(primitive(mode), count, gl.UNSIGNED_INT, nil)
}

func (r *Renderer) DrawArrays(mode gfx.Primitive, first, count int32) {
	gl.DrawArrays(primitive(mode), first, count)
}

func (r *Renderer) CreateFramebuffer() gfx.Handle {
	var fbo uint32
	gl.GenFramebuffers(1, &fbo)
	return gfx.Handle(fbo)
}

func (r *Renderer) BindFramebuffer(fb gfx.Handle) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(fb))
}

func (r *Renderer) FramebufferTexture(att gfx.Attachment, target gfx.TextureTarget, face gfx.CubeFace, tex gfx.Handle) {
	attachment := uint32(gl.COLOR_ATTACHMENT0)
	if att == gfx.DepthAttachment {
		attachment = gl.DEPTH_ATTACHMENT
	}
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, attachment, imageTarget(target, face), uint32(tex), 0)

	// Depth-only targets have no colour buffer to draw to.
	if att == gfx.DepthAttachment {
		gl.DrawBuffer(gl.NONE)
		gl.ReadBuffer(gl.NONE)
	}
}

func (r *Renderer) CreateDepthBuffer(width, height int32) gfx.Handle {
	var rbo uint32
	gl.GenRenderbuffers(1, &rbo)
	gl.BindRenderbuffer(gl.RENDERBUFFER, rbo)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, width, height)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, rbo)
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
	return gfx.Handle(rbo)
}

func (r *Renderer) DeleteDepthBuffer(rb gfx.Handle) {
	h := uint32(rb)
	gl.DeleteRenderbuffers(1, &h)
}

func (r *Renderer) CheckFramebuffer() error {
	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("framebuffer incomplete: 0x%x", status)
	}
	return nil
}

func (r *Renderer) DeleteFramebuffer(fb gfx.Handle) {
	h := uint32(fb)
	gl.DeleteFramebuffers(1, &h)
}

func (r *Renderer) SetClearColor(red, green, blue, alpha float32) {
	gl.ClearColor(red, green, blue, alpha)
}

func (r *Renderer) Clear(mask gfx.ClearMask) {
	var bits uint32
	if mask&gfx.ClearColor != 0 {
		bits |= gl.COLOR_BUFFER_BIT
	}
	if mask&gfx.ClearDepth != 0 {
		bits |= gl.DEPTH_BUFFER_BIT
	}
	gl.Clear(bits)
}

func (r *Renderer) SetViewport(v gfx.Viewport) {
	r.viewport = v
	gl.Viewport(v.X, v.Y, v.Width, v.Height)
}

func (r *Renderer) Viewport() gfx.Viewport {
	return r.viewport
}

func (r *Renderer) SetCullMode(m gfx.CullMode) {
	switch m {
	case gfx.CullNone:
		gl.Disable(gl.CULL_FACE)
	case gfx.CullFront:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.FRONT)
	default:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	}
}

func (r *Renderer) SetWireframe(on bool) {
	if on {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
}

func (r *Renderer) ReadPixels(v gfx.Viewport) []byte {
	pixels := make([]byte, int(v.Width)*int(v.Height)*4)
	if len(pixels) == 0 {
		return pixels
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(v.X, v.Y, v.Width, v.Height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}
