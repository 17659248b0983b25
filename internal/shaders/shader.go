package shaders

import (
	"embed"
	"fmt"
	"strings"

	"github.com/ThatOtherAndrew/Horologe/internal/gpu"
)

//go:embed *.glsl
var sources embed.FS

const (
	SundialVertexFile          = "sundial.vert.glsl"
	SundialFullFragmentFile    = "sundialFull.frag.glsl"
	SundialAmbientFragmentFile = "sundialAmbient.frag.glsl"
	InfernoVertexFile          = "inferno.vert.glsl"
	InfernoFullFragmentFile    = "infernoFull.frag.glsl"
	InfernoAmbientFragmentFile = "infernoAmbient.frag.glsl"
	LineVertexFile             = "line.vert.glsl"
	LineFragmentFile           = "line.frag.glsl"
)

// Pair names the vertex and fragment sources of one program.
type Pair struct {
	Vertex, Fragment string
}

var (
	SundialFull    = Pair{SundialVertexFile, SundialFullFragmentFile}
	SundialAmbient = Pair{SundialVertexFile, SundialAmbientFragmentFile}
	InfernoFull    = Pair{InfernoVertexFile, InfernoFullFragmentFile}
	InfernoAmbient = Pair{InfernoVertexFile, InfernoAmbientFragmentFile}
	Line           = Pair{LineVertexFile, LineFragmentFile}
)

// header maps the ATTRIBUTE, VARYING, TEXTURE and FRAG_COLOR macros used in
// the embedded sources onto the target dialect.
func header(lang gpu.Language, stage gpu.Stage) string {
	var sb strings.Builder
	switch lang {
	case gpu.GLSLES100:
		sb.WriteString("#version 100\n")
		if stage == gpu.FragmentStage {
			sb.WriteString("precision mediump float;\n")
			sb.WriteString("#define FRAG_COLOR gl_FragColor\n")
		}
		sb.WriteString("#define ATTRIBUTE attribute\n")
		sb.WriteString("#define VARYING varying\n")
		sb.WriteString("#define TEXTURE texture2D\n")
	default:
		sb.WriteString("#version 410 core\n")
		sb.WriteString("#define ATTRIBUTE in\n")
		if stage == gpu.VertexStage {
			sb.WriteString("#define VARYING out\n")
		} else {
			sb.WriteString("#define VARYING in\n")
			sb.WriteString("out vec4 fragColour;\n")
			sb.WriteString("#define FRAG_COLOR fragColour\n")
		}
		sb.WriteString("#define TEXTURE texture\n")
	}
	return sb.String()
}

// Source returns the named shader with the dialect header for lang. The stage
// is taken from the file name.
func Source(name string, lang gpu.Language) (string, error) {
	body, err := sources.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("failed to read shader %q: %w", name, err)
	}
	stage := gpu.VertexStage
	if strings.Contains(name, ".frag.") {
		stage = gpu.FragmentStage
	}
	return header(lang, stage) + string(body), nil
}

// Build compiles and links p on dev.
func Build(dev gpu.Device, p Pair) (gpu.Program, error) {
	vert, err := Source(p.Vertex, dev.Language())
	if err != nil {
		return 0, err
	}
	frag, err := Source(p.Fragment, dev.Language())
	if err != nil {
		return 0, err
	}
	prog, err := dev.CompileProgram(vert, frag)
	if err != nil {
		return 0, fmt.Errorf("%s + %s: %w", p.Vertex, p.Fragment, err)
	}
	return prog, nil
}
