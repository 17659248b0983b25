package opengl

import (
	"fmt"
	"strings"

	"github.com/ThatOtherAndrew/Horologe/internal/gpu"
	"github.com/ThatOtherAndrew/Horologe/internal/logger"
	"github.com/go-gl/gl/v4.1-core/gl"
)

// Device drives a desktop OpenGL 4.1 core context.
type Device struct {
	vao uint32
}

// InitGL loads the GL entry points for the current context and sets up the
// state every face relies on. The context must be current on this thread.
func InitGL() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, err
	}
	logger.Get().Info("opengl initialised", "version", gl.GoStr(gl.GetString(gl.VERSION)))

	d := &Device{}
	// Core profile refuses to draw without a bound vertex array.
	gl.GenVertexArrays(1, &d.vao)
	gl.BindVertexArray(d.vao)
	gl.Enable(gl.PROGRAM_POINT_SIZE)
	return d, nil
}

func (d *Device) Language() gpu.Language { return gpu.GLSL410 }

func compileShader(source string, shaderType uint32) (uint32, error) {
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
		logMsg := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(logMsg))
		gl.DeleteShader(shader)

		stage := gpu.VertexStage
		if shaderType == gl.FRAGMENT_SHADER {
			stage = gpu.FragmentStage
		}
		return 0, &gpu.ShaderCompileError{Stage: stage, Log: strings.TrimRight(logMsg, "\x00\n ")}
	}

	return shader, nil
}

func (d *Device) CompileProgram(vertex, fragment string) (gpu.Program, error) {
	vertShader, err := compileShader(vertex, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fragShader, err := compileShader(fragment, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertShader)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertShader)
	gl.AttachShader(program, fragShader)
	gl.LinkProgram(program)
	gl.DeleteShader(vertShader)
	gl.DeleteShader(fragShader)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		logMsg := make([]byte, logLength+1)
		gl.GetProgramInfoLog(program, logLength, nil, &logMsg[0])
		gl.DeleteProgram(program)
		return 0, &gpu.ProgramLinkError{Log: strings.TrimRight(string(logMsg), "\x00\n ")}
	}

	logger.Get().Debug("program linked", "program", program)
	return gpu.Program(program), nil
}

func (d *Device) AttribLocation(p gpu.Program, name string) gpu.Attrib {
	return gpu.Attrib(gl.GetAttribLocation(uint32(p), gl.Str(name+"\x00")))
}

func (d *Device) UniformLocation(p gpu.Program, name string) gpu.Uniform {
	return gpu.Uniform(gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00")))
}

func (d *Device) UseProgram(p gpu.Program) {
	gl.UseProgram(uint32(p))
}

func (d *Device) Uniform1f(u gpu.Uniform, v float32) {
	gl.Uniform1f(int32(u), v)
}

func (d *Device) Uniform1i(u gpu.Uniform, v int32) {
	gl.Uniform1i(int32(u), v)
}

func (d *Device) UniformMatrix4(u gpu.Uniform, m [16]float32) {
	gl.UniformMatrix4fv(int32(u), 1, false, &m[0])
}

func (d *Device) NewBuffer(data []float32) gpu.Buffer {
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.DYNAMIC_DRAW)
	return gpu.Buffer(vbo)
}

func (d *Device) UploadBuffer(b gpu.Buffer, data []float32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(b))
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(data)*4, gl.Ptr(data))
}

func (d *Device) VertexAttrib(a gpu.Attrib, b gpu.Buffer, size, stride, offset int) {
	if a < 0 {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(b))
	gl.VertexAttribPointerWithOffset(uint32(a), int32(size), gl.FLOAT, false, int32(stride*4), uintptr(offset*4))
	gl.EnableVertexAttribArray(uint32(a))
}

func (d *Device) NewTexture(px gpu.Pixels) gpu.Texture {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(px.Width), int32(px.Height), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(px.RGBA))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	return gpu.Texture(tex)
}

func (d *Device) BindTexture(unit int, t gpu.Texture) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, uint32(t))
}

func (d *Device) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (d *Device) SetBlend(mode gpu.BlendMode) {
	switch mode {
	case gpu.BlendAlpha:
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	default:
		gl.Disable(gl.BLEND)
	}
}

func (d *Device) ClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

func (d *Device) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

var primitives = map[gpu.Primitive]uint32{
	gpu.Points:        gl.POINTS,
	gpu.LineLoop:      gl.LINE_LOOP,
	gpu.TriangleStrip: gl.TRIANGLE_STRIP,
}

func (d *Device) DrawArrays(mode gpu.Primitive, first, count int) {
	prim, ok := primitives[mode]
	if !ok {
		panic(fmt.Sprintf("opengl: unsupported primitive %v", mode))
	}
	gl.DrawArrays(prim, int32(first), int32(count))
}

var _ gpu.Device = (*Device)(nil)
