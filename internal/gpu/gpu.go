// Package gpu is the narrow slice of a GL-style API the clock faces need.
//
// Two backends implement Device: internal/opengl (desktop OpenGL 4.1 core via
// go-gl) and internal/mobilegl (OpenGL ES 2 via golang.org/x/mobile). Tests use
// gputest.Recorder. All calls must happen on the thread that owns the context.
package gpu

import "fmt"

type (
	Program uint32
	Buffer  uint32
	Texture uint32

	// Attrib and Uniform locations are -1 when the name is not active in the
	// program.
	Attrib  int32
	Uniform int32
)

type Primitive int

const (
	Points Primitive = iota
	LineLoop
	TriangleStrip
)

func (p Primitive) String() string {
	switch p {
	case Points:
		return "points"
	case LineLoop:
		return "line-loop"
	case TriangleStrip:
		return "triangle-strip"
	}
	return fmt.Sprintf("primitive(%d)", int(p))
}

type Stage int

const (
	VertexStage Stage = iota
	FragmentStage
)

func (s Stage) String() string {
	if s == VertexStage {
		return "vertex"
	}
	return "fragment"
}

// Language selects the GLSL header a backend expects.
type Language int

const (
	GLSLES100 Language = iota
	GLSL410
)

// BlendMode is either off or standard source-over alpha blending.
type BlendMode int

const (
	BlendOff BlendMode = iota
	BlendAlpha
)

// Pixels is an RGBA8 image ready for upload, rows top to bottom.
type Pixels struct {
	Width, Height int
	RGBA          []byte
}

type Device interface {
	Language() Language

	CompileProgram(vertex, fragment string) (Program, error)
	AttribLocation(p Program, name string) Attrib
	UniformLocation(p Program, name string) Uniform
	UseProgram(p Program)

	Uniform1f(u Uniform, v float32)
	Uniform1i(u Uniform, v int32)
	UniformMatrix4(u Uniform, m [16]float32)

	NewBuffer(data []float32) Buffer
	UploadBuffer(b Buffer, data []float32)
	// VertexAttrib binds b and points a at it. Offset and stride count floats.
	// Locations below zero are ignored.
	VertexAttrib(a Attrib, b Buffer, size, stride, offset int)

	NewTexture(px Pixels) Texture
	BindTexture(unit int, t Texture)

	Viewport(width, height int)
	SetBlend(mode BlendMode)
	ClearColor(r, g, b, a float32)
	Clear()
	DrawArrays(mode Primitive, first, count int)
}

// ShaderCompileError carries the driver's info log for a stage that failed to
// compile.
type ShaderCompileError struct {
	Stage Stage
	Log   string
}

func (e *ShaderCompileError) Error() string {
	return fmt.Sprintf("failed to compile %s shader: %s", e.Stage, e.Log)
}

type ProgramLinkError struct {
	Log string
}

func (e *ProgramLinkError) Error() string {
	return fmt.Sprintf("failed to link program: %s", e.Log)
}
