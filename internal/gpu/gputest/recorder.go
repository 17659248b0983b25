// Package gputest provides an in-memory gpu.Device that records every call.
package gputest

import (
	"fmt"
	"strings"

	"github.com/ThatOtherAndrew/Horologe/internal/gpu"
)

// Call is one recorded Device invocation.
type Call struct {
	Op   string
	Args []any
}

func (c Call) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = fmt.Sprint(a)
	}
	return c.Op + "(" + strings.Join(parts, ", ") + ")"
}

type ProgramInfo struct {
	Vertex, Fragment string
	Attribs          map[string]gpu.Attrib
	Uniforms         map[string]gpu.Uniform
}

// Recorder implements gpu.Device without a GPU. Attribute and uniform names
// get a location the first time they are looked up, unless listed in
// Missing.
type Recorder struct {
	Lang gpu.Language

	// FailCompile, when set, is returned by CompileProgram.
	FailCompile error
	Missing     map[string]bool

	Calls    []Call
	Programs map[gpu.Program]*ProgramInfo
	Buffers  map[gpu.Buffer][]float32
	Textures map[gpu.Texture]gpu.Pixels

	Current  gpu.Program
	Blend    gpu.BlendMode
	Uniforms map[gpu.Uniform]any

	next uint32
}

func New() *Recorder {
	return &Recorder{
		Lang:     gpu.GLSL410,
		Missing:  map[string]bool{},
		Programs: map[gpu.Program]*ProgramInfo{},
		Buffers:  map[gpu.Buffer][]float32{},
		Textures: map[gpu.Texture]gpu.Pixels{},
		Uniforms: map[gpu.Uniform]any{},
	}
}

func (r *Recorder) record(op string, args ...any) {
	r.Calls = append(r.Calls, Call{Op: op, Args: args})
}

func (r *Recorder) handle() uint32 {
	r.next++
	return r.next
}

func (r *Recorder) Language() gpu.Language { return r.Lang }

func (r *Recorder) CompileProgram(vertex, fragment string) (gpu.Program, error) {
	r.record("CompileProgram")
	if r.FailCompile != nil {
		return 0, r.FailCompile
	}
	p := gpu.Program(r.handle())
	r.Programs[p] = &ProgramInfo{
		Vertex:   vertex,
		Fragment: fragment,
		Attribs:  map[string]gpu.Attrib{},
		Uniforms: map[string]gpu.Uniform{},
	}
	return p, nil
}

func (r *Recorder) AttribLocation(p gpu.Program, name string) gpu.Attrib {
	info, ok := r.Programs[p]
	if !ok || r.Missing[name] {
		return -1
	}
	if a, ok := info.Attribs[name]; ok {
		return a
	}
	a := gpu.Attrib(len(info.Attribs))
	info.Attribs[name] = a
	return a
}

func (r *Recorder) UniformLocation(p gpu.Program, name string) gpu.Uniform {
	info, ok := r.Programs[p]
	if !ok || r.Missing[name] {
		return -1
	}
	if u, ok := info.Uniforms[name]; ok {
		return u
	}
	// Uniform locations are global in the recorder so values can be looked
	// up by name without knowing the program.
	u := gpu.Uniform(r.handle())
	info.Uniforms[name] = u
	return u
}

func (r *Recorder) UseProgram(p gpu.Program) {
	r.record("UseProgram", p)
	r.Current = p
}

func (r *Recorder) Uniform1f(u gpu.Uniform, v float32) {
	r.record("Uniform1f", u, v)
	r.Uniforms[u] = v
}

func (r *Recorder) Uniform1i(u gpu.Uniform, v int32) {
	r.record("Uniform1i", u, v)
	r.Uniforms[u] = v
}

func (r *Recorder) UniformMatrix4(u gpu.Uniform, m [16]float32) {
	r.record("UniformMatrix4", u)
	r.Uniforms[u] = m
}

func (r *Recorder) NewBuffer(data []float32) gpu.Buffer {
	b := gpu.Buffer(r.handle())
	r.record("NewBuffer", b, len(data))
	r.Buffers[b] = append([]float32(nil), data...)
	return b
}

func (r *Recorder) UploadBuffer(b gpu.Buffer, data []float32) {
	r.record("UploadBuffer", b, len(data))
	r.Buffers[b] = append([]float32(nil), data...)
}

func (r *Recorder) VertexAttrib(a gpu.Attrib, b gpu.Buffer, size, stride, offset int) {
	if a < 0 {
		return
	}
	r.record("VertexAttrib", a, b, size, stride, offset)
}

func (r *Recorder) NewTexture(px gpu.Pixels) gpu.Texture {
	t := gpu.Texture(r.handle())
	r.record("NewTexture", t, px.Width, px.Height)
	r.Textures[t] = px
	return t
}

func (r *Recorder) BindTexture(unit int, t gpu.Texture) {
	r.record("BindTexture", unit, t)
}

func (r *Recorder) Viewport(width, height int) {
	r.record("Viewport", width, height)
}

func (r *Recorder) SetBlend(mode gpu.BlendMode) {
	r.record("SetBlend", mode)
	r.Blend = mode
}

func (r *Recorder) ClearColor(cr, cg, cb, ca float32) {
	r.record("ClearColor", cr, cg, cb, ca)
}

func (r *Recorder) Clear() {
	r.record("Clear")
}

func (r *Recorder) DrawArrays(mode gpu.Primitive, first, count int) {
	r.record("DrawArrays", mode, first, count)
}

// Uniform returns the last value set for name in program p.
func (r *Recorder) Uniform(p gpu.Program, name string) (any, bool) {
	info, ok := r.Programs[p]
	if !ok {
		return nil, false
	}
	u, ok := info.Uniforms[name]
	if !ok {
		return nil, false
	}
	v, ok := r.Uniforms[u]
	return v, ok
}

// Draws returns the DrawArrays calls in order.
func (r *Recorder) Draws() []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Op == "DrawArrays" {
			out = append(out, c)
		}
	}
	return out
}

// Count returns how many times op was recorded.
func (r *Recorder) Count(op string) int {
	n := 0
	for _, c := range r.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Reset forgets recorded calls but keeps every created resource.
func (r *Recorder) Reset() {
	r.Calls = nil
}

var _ gpu.Device = (*Recorder)(nil)
