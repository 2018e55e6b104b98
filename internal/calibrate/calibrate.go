// Package calibrate normalizes an arbitrary model's scale, ground
// placement, and canonical facing direction, and derives preset
// viewing angles from the frozen front face.
package calibrate

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/spriteforge/internal/engine/geom"
	"github.com/Faultbox/spriteforge/internal/engine/scene"
	"github.com/Faultbox/spriteforge/internal/logger"
)

// TargetHeight is the normalized model height in world units.
const TargetHeight = 1.5

// Scale clamp bounds for the normalization factor.
const (
	MinScale = 0.5
	MaxScale = 20.0
)

// ErrNoSceneRoot reports a model without a scene container.
var ErrNoSceneRoot = errors.New("calibrate: model has no scene root")

// Calibration is a model's normalization transform.
type Calibration struct {
	NormalizedScale   float32   `yaml:"normalized_scale"`
	GroundOffset      float32   `yaml:"ground_offset"`
	FrontFaceRotation float32   `yaml:"front_face_rotation"`
	IsFrontFaceSet    bool      `yaml:"front_face_set"`
	OriginalSize      geom.Vec3 `yaml:"original_size"`
	TargetHeight      float32   `yaml:"target_height"`
}

// Engine computes and applies calibrations for one model.
type Engine struct {
	model *scene.Model
	cal   *Calibration
	store ProfileStore
}

// NewEngine returns an engine for the given model. The store may be
// nil when profile persistence is not needed.
func NewEngine(model *scene.Model, store ProfileStore) *Engine {
	return &Engine{model: model, store: store}
}

// Calibration returns the current calibration, nil before Analyze.
func (e *Engine) Calibration() *Calibration {
	return e.cal
}

// Model returns the model the engine calibrates.
func (e *Engine) Model() *scene.Model {
	return e.model
}

// Analyze computes the normalization transform from the model's
// world-space bounding box. Fails when the model exposes no scene root
// or no geometry.
func (e *Engine) Analyze() (*Calibration, error) {
	if e.model == nil || e.model.Container == nil {
		return nil, ErrNoSceneRoot
	}

	box := scene.WorldBounds(e.model.Container)
	if box.IsEmpty() {
		return nil, ErrNoSceneRoot
	}

	size := box.Size()
	scale := clamp(TargetHeight/size.Y, MinScale, MaxScale)

	e.cal = &Calibration{
		NormalizedScale: scale,
		GroundOffset:    -box.Min.Y * scale,
		OriginalSize:    size,
		TargetHeight:    TargetHeight,
	}

	logger.Debug("model analyzed",
		zap.Float32("height", size.Y),
		zap.Float32("scale", scale),
		zap.Float32("ground_offset", e.cal.GroundOffset),
	)
	return e.cal, nil
}

// Apply writes the calibration onto the live model container. Returns
// false when the container cannot be located; the in-memory
// calibration is unaffected either way.
func (e *Engine) Apply() bool {
	if e.cal == nil || e.model == nil || e.model.Container == nil {
		return false
	}

	c := e.model.Container
	s := e.cal.NormalizedScale
	c.Scale = geom.Vec3{X: s, Y: s, Z: s}
	c.Position.Y = e.cal.GroundOffset
	if e.cal.IsFrontFaceSet {
		c.Rotation.Y = e.cal.FrontFaceRotation
	}
	return true
}

// SetFrontFace freezes the container's current live Y rotation as the
// canonical zero. No-op when no calibration or container is present.
func (e *Engine) SetFrontFace() {
	if e.cal == nil || e.model == nil || e.model.Container == nil {
		return
	}

	e.cal.FrontFaceRotation = e.model.Container.Rotation.Y
	e.cal.IsFrontFaceSet = true

	logger.Info("front face set", zap.Float32("rotation", e.cal.FrontFaceRotation))
}

// RotateToAngle rotates the container to a named preset angle relative
// to the frozen front face. The rotation is set directly, not tweened.
// No-op (returns false) before SetFrontFace or for an unknown name.
func (e *Engine) RotateToAngle(name string) bool {
	if e.cal == nil || !e.cal.IsFrontFaceSet {
		return false
	}
	if e.model == nil || e.model.Container == nil {
		return false
	}

	offset, ok := AngleOffset(name)
	if !ok {
		logger.Warn("unknown angle", zap.String("angle", name))
		return false
	}

	e.model.Container.Rotation.Y = e.cal.FrontFaceRotation + offset
	return true
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
