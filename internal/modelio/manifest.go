// Package modelio loads baked model manifests into the scene graph.
// A manifest is a YAML file carrying mesh geometry, textures, and
// per-node keyframe clips, typically exported from a DCC tool.
package modelio

import (
	"github.com/pkg/errors"
)

// Manifest is the on-disk model description.
type Manifest struct {
	Name       string     `yaml:"name"`
	Background *[4]uint8  `yaml:"background"` // RGBA; nil keeps transparent
	Meshes     []MeshSpec `yaml:"meshes"`
	Clips      []ClipSpec `yaml:"clips"`
}

// MeshSpec is one renderable node. Positions are flat xyz triples;
// Texture is a raster path relative to the manifest.
type MeshSpec struct {
	Name      string      `yaml:"name"`
	Position  [3]float32  `yaml:"position"`
	Rotation  [3]float32  `yaml:"rotation"` // Euler radians
	Scale     *[3]float32 `yaml:"scale"`    // nil means 1,1,1
	Texture   string      `yaml:"texture"`
	Positions []float32   `yaml:"positions"`
	Normals   []float32   `yaml:"normals"`
	UVs       []float32   `yaml:"uvs"`
	Indices   []uint32    `yaml:"indices"`
}

// TrackSpec animates one node. Keyframe value lists are optional but
// must match the length of Times when present.
type TrackSpec struct {
	Node      string       `yaml:"node"`
	Times     []float32    `yaml:"times"` // seconds, ascending
	Positions [][3]float32 `yaml:"positions"`
	Rotations [][3]float32 `yaml:"rotations"` // Euler radians
	Scales    [][3]float32 `yaml:"scales"`
}

// ClipSpec is one named animation.
type ClipSpec struct {
	Name     string      `yaml:"name"`
	Duration float64     `yaml:"duration"` // seconds
	Tracks   []TrackSpec `yaml:"tracks"`
}

func (m *Manifest) validate() error {
	if len(m.Meshes) == 0 {
		return errors.New("modelio: manifest has no meshes")
	}

	names := make(map[string]bool, len(m.Meshes))
	for _, mesh := range m.Meshes {
		if mesh.Name == "" {
			return errors.New("modelio: mesh without a name")
		}
		if names[mesh.Name] {
			return errors.Errorf("modelio: duplicate mesh name %q", mesh.Name)
		}
		names[mesh.Name] = true

		if len(mesh.Positions) == 0 || len(mesh.Positions)%3 != 0 {
			return errors.Errorf("modelio: mesh %q: positions must be non-empty xyz triples", mesh.Name)
		}
		vertexCount := uint32(len(mesh.Positions) / 3)
		for _, idx := range mesh.Indices {
			if idx >= vertexCount {
				return errors.Errorf("modelio: mesh %q: index %d out of range", mesh.Name, idx)
			}
		}
	}

	for _, clip := range m.Clips {
		if clip.Name == "" {
			return errors.New("modelio: clip without a name")
		}
		if clip.Duration <= 0 {
			return errors.Errorf("modelio: clip %q: duration must be positive", clip.Name)
		}
		for _, tr := range clip.Tracks {
			if !names[tr.Node] {
				return errors.Errorf("modelio: clip %q: track targets unknown node %q", clip.Name, tr.Node)
			}
			if len(tr.Times) == 0 {
				return errors.Errorf("modelio: clip %q: track %q has no keyframes", clip.Name, tr.Node)
			}
			for i := 1; i < len(tr.Times); i++ {
				if tr.Times[i] <= tr.Times[i-1] {
					return errors.Errorf("modelio: clip %q: track %q times must be ascending", clip.Name, tr.Node)
				}
			}
			if err := checkTrackValues(clip.Name, tr); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkTrackValues(clip string, tr TrackSpec) error {
	n := len(tr.Times)
	if len(tr.Positions) != 0 && len(tr.Positions) != n {
		return errors.Errorf("modelio: clip %q: track %q: %d position keys for %d times", clip, tr.Node, len(tr.Positions), n)
	}
	if len(tr.Rotations) != 0 && len(tr.Rotations) != n {
		return errors.Errorf("modelio: clip %q: track %q: %d rotation keys for %d times", clip, tr.Node, len(tr.Rotations), n)
	}
	if len(tr.Scales) != 0 && len(tr.Scales) != n {
		return errors.Errorf("modelio: clip %q: track %q: %d scale keys for %d times", clip, tr.Node, len(tr.Scales), n)
	}
	if len(tr.Positions) == 0 && len(tr.Rotations) == 0 && len(tr.Scales) == 0 {
		return errors.Errorf("modelio: clip %q: track %q animates nothing", clip, tr.Node)
	}
	return nil
}
