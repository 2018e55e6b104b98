package modelio

import (
	"github.com/pkg/errors"

	"github.com/Faultbox/spriteforge/internal/engine/geom"
	"github.com/Faultbox/spriteforge/internal/engine/scene"
)

// track is one node's compiled keyframe channel set.
type track struct {
	node      *scene.Node
	times     []float32
	positions []geom.Vec3
	rotations []geom.Vec3
	scales    []geom.Vec3
}

// Animator samples the active clip's keyframes onto the scene nodes.
// It implements the animation layer's seek target; SetTime is
// synchronous, so settling falls back to the fixed delay.
type Animator struct {
	clips  map[string][]track
	active []track
}

func newAnimator(specs []ClipSpec, nodes map[string]*scene.Node) (*Animator, error) {
	clips := make(map[string][]track, len(specs))
	for _, c := range specs {
		tracks := make([]track, 0, len(c.Tracks))
		for _, tr := range c.Tracks {
			node, ok := nodes[tr.Node]
			if !ok {
				return nil, errors.Errorf("modelio: clip %q: unknown node %q", c.Name, tr.Node)
			}
			tracks = append(tracks, track{
				node:      node,
				times:     tr.Times,
				positions: vecKeys(tr.Positions),
				rotations: vecKeys(tr.Rotations),
				scales:    vecKeys(tr.Scales),
			})
		}
		clips[c.Name] = tracks
	}
	return &Animator{clips: clips}, nil
}

func vecKeys(keys [][3]float32) []geom.Vec3 {
	if len(keys) == 0 {
		return nil
	}
	out := make([]geom.Vec3, len(keys))
	for i, k := range keys {
		out[i] = vec3(k)
	}
	return out
}

// SetActiveClip selects the clip whose keyframes SetTime samples.
// Returns false for an unknown name.
func (a *Animator) SetActiveClip(name string) bool {
	tracks, ok := a.clips[name]
	if !ok {
		return false
	}
	a.active = tracks
	return true
}

// SetTime drives every track of the active clip to the given time.
// Times outside the keyframe range clamp to the nearest key.
func (a *Animator) SetTime(seconds float64) {
	t := float32(seconds)
	for i := range a.active {
		a.active[i].apply(t)
	}
}

func (tr *track) apply(t float32) {
	if len(tr.times) == 1 {
		if tr.positions != nil {
			tr.node.Position = tr.positions[0]
		}
		if tr.rotations != nil {
			tr.node.Rotation = tr.rotations[0]
		}
		if tr.scales != nil {
			tr.node.Scale = tr.scales[0]
		}
		return
	}

	i, alpha := tr.segment(t)
	if tr.positions != nil {
		tr.node.Position = lerp(tr.positions[i], tr.positions[i+1], alpha)
	}
	if tr.rotations != nil {
		tr.node.Rotation = lerp(tr.rotations[i], tr.rotations[i+1], alpha)
	}
	if tr.scales != nil {
		tr.node.Scale = lerp(tr.scales[i], tr.scales[i+1], alpha)
	}
}

// segment locates the keyframe pair bracketing t. Out-of-range times
// clamp to the nearest endpoint.
func (tr *track) segment(t float32) (int, float32) {
	times := tr.times
	last := len(times) - 1
	if t <= times[0] {
		return 0, 0
	}
	if t >= times[last] {
		return last - 1, 1
	}
	for i := 0; i < last; i++ {
		if t < times[i+1] {
			return i, (t - times[i]) / (times[i+1] - times[i])
		}
	}
	return last - 1, 1
}

func lerp(a, b geom.Vec3, t float32) geom.Vec3 {
	return geom.Vec3{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
		Z: a.Z + (b.Z-a.Z)*t,
	}
}
