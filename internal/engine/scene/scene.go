// Package scene defines the minimal scene-graph surface the exporter
// renders from. The capture and calibration code only ever touches
// node transforms, the background, and clip metadata; mesh payloads
// are opaque to everything but the renderer backend.
package scene

import (
	"image/color"

	"github.com/Faultbox/spriteforge/internal/engine/geom"
)

// Node is a transformable scene-graph node.
type Node struct {
	Name     string
	Position geom.Vec3
	Rotation geom.Vec3 // Euler angles in radians, applied X then Y then Z
	Scale    geom.Vec3
	Children []*Node
	Mesh     *Mesh // nil for grouping nodes
}

// NewNode returns a named node with identity transform.
func NewNode(name string) *Node {
	return &Node{
		Name:  name,
		Scale: geom.One(),
	}
}

// Add appends a child node.
func (n *Node) Add(child *Node) {
	n.Children = append(n.Children, child)
}

// LocalMatrix returns the node's local transform.
func (n *Node) LocalMatrix() geom.Mat4 {
	m := geom.Translate(n.Position)
	m = m.Mul(geom.RotateZ(n.Rotation.Z))
	m = m.Mul(geom.RotateY(n.Rotation.Y))
	m = m.Mul(geom.RotateX(n.Rotation.X))
	return m.Mul(geom.ScaleUniform(n.Scale))
}

// Mesh holds renderable geometry. Positions are xyz triples.
type Mesh struct {
	Positions []float32
	Normals   []float32
	UVs       []float32
	Indices   []uint32
	Texture   *Texture
}

// Texture is decoded RGBA texel data.
type Texture struct {
	Width  int
	Height int
	Pix    []byte // RGBA, Width*Height*4
}

// Scene is the renderable world: a root node plus a background.
// A nil Background renders fully transparent.
type Scene struct {
	Root       *Node
	Background *color.NRGBA
}

// New returns a scene with an empty root.
func New() *Scene {
	return &Scene{Root: NewNode("root")}
}

// Clip is a named animation with a duration in seconds.
type Clip struct {
	Name     string
	Duration float64
}

// Model is a loaded character: a container node in the scene plus its
// animation clips. Container may be nil when loading failed; callers
// must check.
type Model struct {
	Container *Node
	Clips     []Clip
}

// ClipByName returns the named clip, or false when absent.
func (m *Model) ClipByName(name string) (Clip, bool) {
	for _, c := range m.Clips {
		if c.Name == name {
			return c, true
		}
	}
	return Clip{}, false
}
