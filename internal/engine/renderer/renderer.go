// Package renderer defines the render-surface port the capture
// subsystem drives. Backends own a mutable surface (size, pixel ratio,
// clear color) and draw a scene through a camera on demand.
package renderer

import (
	"image"
	"image/color"

	"github.com/Faultbox/spriteforge/internal/engine/camera"
	"github.com/Faultbox/spriteforge/internal/engine/scene"
)

// Renderer is a stateful render surface. All setters take effect on
// the next Render call. ReadPixels returns the surface content from
// the most recent Render, top row first.
type Renderer interface {
	Size() (width, height int)
	SetSize(width, height int)

	PixelRatio() float64
	SetPixelRatio(ratio float64)

	ClearColor() color.NRGBA
	SetClearColor(c color.NRGBA)

	Render(s *scene.Scene, cam *camera.Camera) error
	ReadPixels() (*image.NRGBA, error)
}

// PostChain is a post-processing pipeline attached to a render surface.
type PostChain interface {
	SetSize(width, height int)
	Render(s *scene.Scene, cam *camera.Camera) error
}

// PostChainProvider is implemented by renderers that carry an optional
// post-processing chain. A nil chain means direct rendering.
type PostChainProvider interface {
	PostChain() PostChain
}
