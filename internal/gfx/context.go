package gfx

import (
	"errors"
)

// ErrNestedTarget is returned when a render target is bound while another
// off-screen target is still active.
var ErrNestedTarget = errors.New("gfx: render target already bound")

// Context wraps a Device and tracks the state the engine cares about: the
// current program, vertex array, render target and clear colour.
type Context struct {
	Device

	program     Handle
	vertexArray Handle
	target      Handle
	targetBound bool
	clearColor  [4]float32
}

// NewContext returns a Context over dev with the window as render target.
func NewContext(dev Device) *Context {
	return &Context{Device: dev}
}

// UseProgram makes prog current, skipping the call when it already is.
func (c *Context) UseProgram(prog Handle) {
	if c.program == prog {
		return
	}
	c.Device.UseProgram(prog)
	c.program = prog
}

// CurrentProgram returns the program last made current.
func (c *Context) CurrentProgram() Handle {
	return c.program
}

// BindVertexArray binds vao and remembers it.
func (c *Context) BindVertexArray(vao Handle) {
	c.Device.BindVertexArray(vao)
	c.vertexArray = vao
}

// CurrentVertexArray returns the vertex array last bound.
func (c *Context) CurrentVertexArray() Handle {
	return c.vertexArray
}

// DeleteProgram deletes prog and forgets it if it was current.
func (c *Context) DeleteProgram(prog Handle) {
	c.Device.DeleteProgram(prog)
	if c.program == prog {
		c.program = NoHandle
	}
}

// SetClearColor sets the colour used by Clear and remembers it.
func (c *Context) SetClearColor(r, g, b, a float32) {
	c.Device.SetClearColor(r, g, b, a)
	c.clearColor = [4]float32{r, g, b, a}
}

// ClearColor returns the colour last set with SetClearColor.
func (c *Context) ClearColor() [4]float32 {
	return c.clearColor
}

// CurrentTarget returns the active off-screen framebuffer, or NoHandle when
// drawing to the window.
func (c *Context) CurrentTarget() Handle {
	return c.target
}

// Target binds fb with viewport v as the render target. The returned release
// function restores the previous framebuffer, viewport and clear colour.
// Only one off-screen target may be bound at a time.
func (c *Context) Target(fb Handle, v Viewport) (release func(), err error) {
	if c.targetBound {
		return nil, ErrNestedTarget
	}

	prevViewport := c.Device.Viewport()
	prevTarget := c.target
	prevClear := c.clearColor

	c.Device.BindFramebuffer(fb)
	c.Device.SetViewport(v)
	c.target = fb
	c.targetBound = true

	released := false
	return func() {
		if released {
			return
		}
		released = true
		c.Device.BindFramebuffer(prevTarget)
		c.Device.SetViewport(prevViewport)
		if c.clearColor != prevClear {
			c.SetClearColor(prevClear[0], prevClear[1], prevClear[2], prevClear[3])
		}
		c.target = prevTarget
		c.targetBound = false
	}, nil
}
