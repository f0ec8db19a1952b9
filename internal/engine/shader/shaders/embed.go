// Package shaders embeds the GLSL sources of every shading model. Each model
// lives in its own directory holding vertex_shader.glsl and
// fragment_shader.glsl.
package shaders

import "embed"

// Embedded holds the built-in shader sources.
//
//go:embed */*.glsl
var Embedded embed.FS
