// Package gfxtest provides a recording gfx.Device for tests.
package gfxtest

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/glscene/internal/gfx"
)

// Call is one recorded device call.
type Call struct {
	Name string
	Args []any
}

// Draw captures the bindings in effect when a draw call was issued.
type Draw struct {
	Mode        gfx.Primitive
	Count       int32
	Indexed     bool
	Program     gfx.Handle
	VertexArray gfx.Handle
	Framebuffer gfx.Handle
	Viewport    gfx.Viewport
	Cull        gfx.CullMode
}

// Recorder is an in-memory gfx.Device. It hands out unique handles, tracks
// the bindings a real driver would and keeps the last value uploaded to
// every uniform location.
type Recorder struct {
	Calls []Call
	Draws []Draw

	Program     gfx.Handle
	VertexArray gfx.Handle
	Framebuffer gfx.Handle
	Cull        gfx.CullMode
	Wireframe   bool
	ClearColor  [4]float32
	Units       map[uint32]gfx.Handle

	// Uniforms holds the effective value per location. Matrices uploaded
	// with transpose set are stored transposed.
	Uniforms map[int32]any

	// Missing lists uniform names the "driver" reports as inactive.
	Missing map[string]bool
	// CompileErr makes CompileShader fail for the given stage.
	CompileErr map[gfx.ShaderStage]error
	// LinkErr makes LinkProgram fail.
	LinkErr error
	// Incomplete makes CheckFramebuffer fail.
	Incomplete bool

	next      gfx.Handle
	viewport  gfx.Viewport
	locations map[gfx.Handle]map[string]int32
	nextLoc   int32
}

// New returns an empty Recorder.
func New() *Recorder {
	return &Recorder{
		Units:      make(map[uint32]gfx.Handle),
		Uniforms:   make(map[int32]any),
		Missing:    make(map[string]bool),
		CompileErr: make(map[gfx.ShaderStage]error),
		locations:  make(map[gfx.Handle]map[string]int32),
	}
}

var _ gfx.Device = (*Recorder)(nil)

func (r *Recorder) record(name string, args ...any) {
	r.Calls = append(r.Calls, Call{Name: name, Args: args})
}

func (r *Recorder) handle() gfx.Handle {
	r.next++
	return r.next
}

// Count returns how many times the named call was recorded.
func (r *Recorder) Count(name string) int {
	n := 0
	for _, c := range r.Calls {
		if c.Name == name {
			n++
		}
	}
	return n
}

// Names returns the recorded call names in order.
func (r *Recorder) Names() []string {
	names := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		names[i] = c.Name
	}
	return names
}

// Reset forgets recorded calls and draws but keeps bindings and handles.
func (r *Recorder) Reset() {
	r.Calls = nil
	r.Draws = nil
}

// Location returns the location handed out for name in prog, or -1.
func (r *Recorder) Location(prog gfx.Handle, name string) int32 {
	if loc, ok := r.locations[prog][name]; ok {
		return loc
	}
	return -1
}

// Uniform returns the last value uploaded to name in prog.
func (r *Recorder) Uniform(prog gfx.Handle, name string) (any, bool) {
	loc := r.Location(prog, name)
	if loc < 0 {
		return nil, false
	}
	v, ok := r.Uniforms[loc]
	return v, ok
}

func (r *Recorder) CreateVertexArray() gfx.Handle {
	h := r.handle()
	r.record("CreateVertexArray", h)
	return h
}

func (r *Recorder) BindVertexArray(vao gfx.Handle) {
	r.record("BindVertexArray", vao)
	r.VertexArray = vao
}

func (r *Recorder) DeleteVertexArray(vao gfx.Handle) {
	r.record("DeleteVertexArray", vao)
}

func (r *Recorder) CreateBuffer() gfx.Handle {
	h := r.handle()
	r.record("CreateBuffer", h)
	return h
}

func (r *Recorder) VertexAttribData(buf gfx.Handle, slot uint32, components int32, data []float32) {
	r.record("VertexAttribData", buf, slot, components, len(data))
}

func (r *Recorder) IndexData(buf gfx.Handle, indices []uint32) {
	r.record("IndexData", buf, append([]uint32(nil), indices...))
}

func (r *Recorder) DeleteBuffer(buf gfx.Handle) {
	r.record("DeleteBuffer", buf)
}

func (r *Recorder) CreateTexture(target gfx.TextureTarget) gfx.Handle {
	h := r.handle()
	r.record("CreateTexture", target, h)
	return h
}

func (r *Recorder) BindTexture(unit uint32, target gfx.TextureTarget, tex gfx.Handle) {
	r.record("BindTexture", unit, target, tex)
	r.Units[unit] = tex
}

func (r *Recorder) TexImage(target gfx.TextureTarget, face gfx.CubeFace, width, height int32, format gfx.PixelFormat, pixels []byte) {
	r.record("TexImage", target, face, width, height, format, len(pixels))
}

func (r *Recorder) TexSampling(target gfx.TextureTarget, s gfx.Sampling) {
	r.record("TexSampling", target, s)
}

func (r *Recorder) DeleteTexture(tex gfx.Handle) {
	r.record("DeleteTexture", tex)
}

func (r *Recorder) CompileShader(stage gfx.ShaderStage, source string) (gfx.Handle, error) {
	r.record("CompileShader", stage)
	if err := r.CompileErr[stage]; err != nil {
		return gfx.NoHandle, err
	}
	return r.handle(), nil
}

func (r *Recorder) DeleteShader(sh gfx.Handle) {
	r.record("DeleteShader", sh)
}

func (r *Recorder) CreateProgram() gfx.Handle {
	h := r.handle()
	r.record("CreateProgram", h)
	return h
}

func (r *Recorder) AttachShader(prog, sh gfx.Handle) {
	r.record("AttachShader", prog, sh)
}

func (r *Recorder) BindAttribLocation(prog gfx.Handle, slot uint32, name string) {
	r.record("BindAttribLocation", prog, slot, name)
}

func (r *Recorder) LinkProgram(prog gfx.Handle) error {
	r.record("LinkProgram", prog)
	return r.LinkErr
}

func (r *Recorder) UseProgram(prog gfx.Handle) {
	r.record("UseProgram", prog)
	r.Program = prog
}

func (r *Recorder) DeleteProgram(prog gfx.Handle) {
	r.record("DeleteProgram", prog)
}

func (r *Recorder) UniformLocation(prog gfx.Handle, name string) int32 {
	r.record("UniformLocation", prog, name)
	if r.Missing[name] {
		return -1
	}
	names, ok := r.locations[prog]
	if !ok {
		names = make(map[string]int32)
		r.locations[prog] = names
	}
	if loc, ok := names[name]; ok {
		return loc
	}
	loc := r.nextLoc
	r.nextLoc++
	names[name] = loc
	return loc
}

func (r *Recorder) setUniform(name string, loc int32, v any) {
	r.record(name, loc, v)
	if loc >= 0 {
		r.Uniforms[loc] = v
	}
}

func (r *Recorder) Uniform1i(loc int32, v int32) { r.setUniform("Uniform1i", loc, v) }
func (r *Recorder) Uniform1f(loc int32, v float32) { r.setUniform("Uniform1f", loc, v) }
func (r *Recorder) Uniform2f(loc int32, v mgl32.Vec2) { r.setUniform("Uniform2f", loc, v) }
func (r *Recorder) Uniform3f(loc int32, v mgl32.Vec3) { r.setUniform("Uniform3f", loc, v) }
func (r *Recorder) Uniform4f(loc int32, v mgl32.Vec4) { r.setUniform("Uniform4f", loc, v) }

func (r *Recorder) UniformMatrix3(loc int32, transpose bool, m mgl32.Mat3) {
	if transpose {
		m = m.Transpose()
	}
	r.setUniform("UniformMatrix3", loc, m)
}

func (r *Recorder) UniformMatrix4(loc int32, transpose bool, m mgl32.Mat4) {
	if transpose {
		m = m.Transpose()
	}
	r.setUniform("UniformMatrix4", loc, m)
}

func (r *Recorder) draw(name string, mode gfx.Primitive, count int32, indexed bool) {
	r.record(name, mode, count)
	r.Draws = append(r.Draws, Draw{
		Mode:        mode,
		Count:       count,
		Indexed:     indexed,
		Program:     r.Program,
		VertexArray: r.VertexArray,
		Framebuffer: r.Framebuffer,
		Viewport:    r.viewport,
		Cull:        r.Cull,
	})
}

func (r *Recorder) DrawElements(mode gfx.Primitive, count int32) {
	r.draw("DrawElements", mode, count, true)
}

func (r *Recorder) DrawArrays(mode gfx.Primitive, first, count int32) {
	r.draw("DrawArrays", mode, count, false)
}

func (r *Recorder) CreateFramebuffer() gfx.Handle {
	h := r.handle()
	r.record("CreateFramebuffer", h)
	return h
}

func (r *Recorder) BindFramebuffer(fb gfx.Handle) {
	r.record("BindFramebuffer", fb)
	r.Framebuffer = fb
}

func (r *Recorder) FramebufferTexture(att gfx.Attachment, target gfx.TextureTarget, face gfx.CubeFace, tex gfx.Handle) {
	r.record("FramebufferTexture", att, target, face, tex)
}

func (r *Recorder) CreateDepthBuffer(width, height int32) gfx.Handle {
	h := r.handle()
	r.record("CreateDepthBuffer", h, width, height)
	return h
}

func (r *Recorder) DeleteDepthBuffer(rb gfx.Handle) {
	r.record("DeleteDepthBuffer", rb)
}

func (r *Recorder) CheckFramebuffer() error {
	r.record("CheckFramebuffer")
	if r.Incomplete {
		return fmt.Errorf("framebuffer %d incomplete", r.Framebuffer)
	}
	return nil
}

func (r *Recorder) DeleteFramebuffer(fb gfx.Handle) {
	r.record("DeleteFramebuffer", fb)
}

func (r *Recorder) SetClearColor(red, green, blue, alpha float32) {
	r.record("SetClearColor", red, green, blue, alpha)
	r.ClearColor = [4]float32{red, green, blue, alpha}
}

func (r *Recorder) Clear(mask gfx.ClearMask) {
	r.record("Clear", mask)
}

func (r *Recorder) SetViewport(v gfx.Viewport) {
	r.record("SetViewport", v)
	r.viewport = v
}

func (r *Recorder) Viewport() gfx.Viewport {
	return r.viewport
}

func (r *Recorder) SetCullMode(m gfx.CullMode) {
	r.record("SetCullMode", m)
	r.Cull = m
}

func (r *Recorder) SetWireframe(on bool) {
	r.record("SetWireframe", on)
	r.Wireframe = on
}

func (r *Recorder) ReadPixels(v gfx.Viewport) []byte {
	r.record("ReadPixels", v)
	return make([]byte, int(v.Width)*int(v.Height)*4)
}
