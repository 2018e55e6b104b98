// Package camera provides the export camera with its two projection models.
package camera

import (
	gomath "math"

	"github.com/Faultbox/spriteforge/internal/engine/geom"
)

// Camera is the view the capture subsystem renders through.
// Zoom is a multiplier on the projection extent; 1 is neutral.
type Camera struct {
	Position   geom.Vec3
	Rotation   geom.Vec3 // Euler angles in radians
	Zoom       float32
	Projection Projection
}

// New returns a camera with neutral zoom and the given projection.
func New(proj Projection) *Camera {
	return &Camera{Zoom: 1, Projection: proj}
}

// ViewMatrix returns the world-to-camera transform.
func (c *Camera) ViewMatrix() geom.Mat4 {
	m := geom.RotateX(-c.Rotation.X)
	m = m.Mul(geom.RotateY(-c.Rotation.Y))
	m = m.Mul(geom.RotateZ(-c.Rotation.Z))
	return m.Mul(geom.Translate(c.Position.Scale(-1)))
}

// ProjectionMatrix returns the projection with the camera's zoom applied.
func (c *Camera) ProjectionMatrix() geom.Mat4 {
	zoom := c.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	return c.Projection.Matrix(zoom)
}

// Projection is the tagged projection variant: exactly Perspective or
// Orthographic. Capture code branches exhaustively on the concrete type.
type Projection interface {
	// Matrix returns the projection matrix with zoom applied.
	Matrix(zoom float32) geom.Mat4
	// Clone returns a copy that shares no state with the original.
	Clone() Projection
}

// Perspective is a perspective frustum. FOV is the vertical field of
// view in radians.
type Perspective struct {
	FOV    float32
	Aspect float32
	Near   float32
	Far    float32
}

// Matrix implements Projection.
func (p *Perspective) Matrix(zoom float32) geom.Mat4 {
	// Zoom narrows the field of view, same as stretching the frustum.
	fov := 2 * float32(gomath.Atan(gomath.Tan(float64(p.FOV)/2)/float64(zoom)))
	return geom.Perspective(fov, p.Aspect, p.Near, p.Far)
}

// Clone implements Projection.
func (p *Perspective) Clone() Projection {
	cp := *p
	return &cp
}

// Orthographic is a box frustum.
type Orthographic struct {
	Left   float32
	Right  float32
	Top    float32
	Bottom float32
	Near   float32
	Far    float32
}

// Matrix implements Projection.
func (o *Orthographic) Matrix(zoom float32) geom.Mat4 {
	dx := (o.Right - o.Left) / (2 * zoom)
	dy := (o.Top - o.Bottom) / (2 * zoom)
	cx := (o.Right + o.Left) / 2
	cy := (o.Top + o.Bottom) / 2
	return geom.Ortho(cx-dx, cx+dx, cy-dy, cy+dy, o.Near, o.Far)
}

// Clone implements Projection.
func (o *Orthographic) Clone() Projection {
	co := *o
	return &co
}

// SetAspect adjusts the horizontal extent symmetrically so the frustum
// matches the given aspect ratio while the vertical extent is preserved.
func (o *Orthographic) SetAspect(aspect float32) {
	height := o.Top - o.Bottom
	width := height * aspect
	cx := (o.Left + o.Right) / 2
	o.Left = cx - width/2
	o.Right = cx + width/2
}
