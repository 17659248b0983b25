//go:build android

package mobilegl

import (
	"encoding/binary"
	"fmt"

	"github.com/ThatOtherAndrew/Horologe/internal/gpu"
	"github.com/ThatOtherAndrew/Horologe/internal/logger"
	"golang.org/x/mobile/exp/f32"
	"golang.org/x/mobile/gl"
)

type Device struct {
	ctx      gl.Context
	programs map[gpu.Program]gl.Program
	buffers  map[gpu.Buffer]gl.Buffer
	textures map[gpu.Texture]gl.Texture
}

func New(ctx gl.Context) *Device {
	logger.Get().Info("gles context ready", "version", ctx.GetString(gl.VERSION))
	return &Device{
		ctx:      ctx,
		programs: map[gpu.Program]gl.Program{},
		buffers:  map[gpu.Buffer]gl.Buffer{},
		textures: map[gpu.Texture]gl.Texture{},
	}
}

func (d *Device) Language() gpu.Language { return gpu.GLSLES100 }

func (d *Device) compileShader(source string, ty gl.Enum) (gl.Shader, error) {
	s := d.ctx.CreateShader(ty)
	d.ctx.ShaderSource(s, source)
	d.ctx.CompileShader(s)
	if d.ctx.GetShaderi(s, gl.COMPILE_STATUS) == 0 {
		log := d.ctx.GetShaderInfoLog(s)
		d.ctx.DeleteShader(s)
		stage := gpu.VertexStage
		if ty == gl.FRAGMENT_SHADER {
			stage = gpu.FragmentStage
		}
		return gl.Shader{}, &gpu.ShaderCompileError{Stage: stage, Log: log}
	}
	return s, nil
}

func (d *Device) CompileProgram(vertex, fragment string) (gpu.Program, error) {
	vs, err := d.compileShader(vertex, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := d.compileShader(fragment, gl.FRAGMENT_SHADER)
	if err != nil {
		d.ctx.DeleteShader(vs)
		return 0, err
	}

	p := d.ctx.CreateProgram()
	d.ctx.AttachShader(p, vs)
	d.ctx.AttachShader(p, fs)
	d.ctx.LinkProgram(p)
	d.ctx.DeleteShader(vs)
	d.ctx.DeleteShader(fs)

	if d.ctx.GetProgrami(p, gl.LINK_STATUS) == 0 {
		log := d.ctx.GetProgramInfoLog(p)
		d.ctx.DeleteProgram(p)
		return 0, &gpu.ProgramLinkError{Log: log}
	}

	h := gpu.Program(p.Value)
	d.programs[h] = p
	return h, nil
}

func (d *Device) AttribLocation(p gpu.Program, name string) gpu.Attrib {
	// A missing attribute comes back as an all-ones value.
	return gpu.Attrib(int32(d.ctx.GetAttribLocation(d.programs[p], name).Value))
}

func (d *Device) UniformLocation(p gpu.Program, name string) gpu.Uniform {
	return gpu.Uniform(d.ctx.GetUniformLocation(d.programs[p], name).Value)
}

func (d *Device) UseProgram(p gpu.Program) {
	d.ctx.UseProgram(d.programs[p])
}

func (d *Device) Uniform1f(u gpu.Uniform, v float32) {
	d.ctx.Uniform1f(gl.Uniform{Value: int32(u)}, v)
}

func (d *Device) Uniform1i(u gpu.Uniform, v int32) {
	d.ctx.Uniform1i(gl.Uniform{Value: int32(u)}, int(v))
}

func (d *Device) UniformMatrix4(u gpu.Uniform, m [16]float32) {
	d.ctx.UniformMatrix4fv(gl.Uniform{Value: int32(u)}, m[:])
}

func (d *Device) NewBuffer(data []float32) gpu.Buffer {
	b := d.ctx.CreateBuffer()
	d.ctx.BindBuffer(gl.ARRAY_BUFFER, b)
	d.ctx.BufferData(gl.ARRAY_BUFFER, f32.Bytes(binary.LittleEndian, data...), gl.DYNAMIC_DRAW)
	h := gpu.Buffer(b.Value)
	d.buffers[h] = b
	return h
}

func (d *Device) UploadBuffer(b gpu.Buffer, data []float32) {
	d.ctx.BindBuffer(gl.ARRAY_BUFFER, d.buffers[b])
	d.ctx.BufferSubData(gl.ARRAY_BUFFER, 0, f32.Bytes(binary.LittleEndian, data...))
}

func (d *Device) VertexAttrib(a gpu.Attrib, b gpu.Buffer, size, stride, offset int) {
	if a < 0 {
		return
	}
	attr := gl.Attrib{Value: uint(a)}
	d.ctx.BindBuffer(gl.ARRAY_BUFFER, d.buffers[b])
	d.ctx.EnableVertexAttribArray(attr)
	d.ctx.VertexAttribPointer(attr, size, gl.FLOAT, false, stride*4, offset*4)
}

func (d *Device) NewTexture(px gpu.Pixels) gpu.Texture {
	t := d.ctx.CreateTexture()
	d.ctx.BindTexture(gl.TEXTURE_2D, t)
	d.ctx.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	d.ctx.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	d.ctx.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	d.ctx.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	d.ctx.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, px.Width, px.Height, gl.RGBA, gl.UNSIGNED_BYTE, px.RGBA)
	d.ctx.GenerateMipmap(gl.TEXTURE_2D)
	h := gpu.Texture(t.Value)
	d.textures[h] = t
	return h
}

func (d *Device) BindTexture(unit int, t gpu.Texture) {
	d.ctx.ActiveTexture(gl.TEXTURE0 + gl.Enum(unit))
	d.ctx.BindTexture(gl.TEXTURE_2D, d.textures[t])
}

func (d *Device) Viewport(width, height int) {
	d.ctx.Viewport(0, 0, width, height)
}

func (d *Device) SetBlend(mode gpu.BlendMode) {
	if mode == gpu.BlendAlpha {
		d.ctx.Enable(gl.BLEND)
		d.ctx.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
		return
	}
	d.ctx.Disable(gl.BLEND)
}

func (d *Device) ClearColor(r, g, b, a float32) {
	d.ctx.ClearColor(r, g, b, a)
}

func (d *Device) Clear() {
	d.ctx.Clear(gl.COLOR_BUFFER_BIT)
}

func (d *Device) DrawArrays(mode gpu.Primitive, first, count int) {
	var prim gl.Enum
	switch mode {
	case gpu.Points:
		prim = gl.POINTS
	case gpu.LineLoop:
		prim = gl.LINE_LOOP
	case gpu.TriangleStrip:
		prim = gl.TRIANGLE_STRIP
	default:
		panic(fmt.Sprintf("mobilegl: unsupported primitive %v", mode))
	}
	d.ctx.DrawArrays(prim, first, count)
}

var _ gpu.Device = (*Device)(nil)
