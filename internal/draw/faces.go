package draw

import (
	"fmt"
	"math/rand/v2"

	"github.com/ThatOtherAndrew/Horologe/internal/texture"
)

// FaceOptions carries what a face needs to be built.
type FaceOptions struct {
	Provider texture.Provider
	Decal    string
	Sprite   string
	Rand     *rand.Rand
}

type faceEntry struct {
	name        string
	description string
	build       func(FaceOptions) Face
}

var faces = []faceEntry{
	{
		name:        "sundial",
		description: "camera fly-in over a radial decal, hand drawn as a stripe",
		build: func(o FaceOptions) Face {
			return NewSundial(o.Provider, o.Decal)
		},
	},
	{
		name:        "inferno",
		description: "boiling particle fire with spark hands and a star bezel",
		build: func(o FaceOptions) Face {
			return NewInferno(o.Provider, o.Sprite, o.Rand)
		},
	},
}

// FaceNames lists the available faces in display order.
func FaceNames() []string {
	names := make([]string, len(faces))
	for i, f := range faces {
		names[i] = f.name
	}
	return names
}

func FaceDescription(name string) string {
	for _, f := range faces {
		if f.name == name {
			return f.description
		}
	}
	return ""
}

// NewFace builds the named face. Missing options fall back to the built-in
// artwork.
func NewFace(name string, o FaceOptions) (Face, error) {
	if o.Provider == nil {
		o.Provider = texture.Procedural{}
	}
	if o.Decal == "" {
		o.Decal = texture.FaceDecal
	}
	if o.Sprite == "" {
		o.Sprite = texture.Sprite
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	for _, f := range faces {
		if f.name == name {
			return f.build(o), nil
		}
	}
	return nil, fmt.Errorf("unknown face %q", name)
}
