package capture

import (
	"image/color"

	"github.com/Faultbox/spriteforge/internal/engine/camera"
	"github.com/Faultbox/spriteforge/internal/engine/geom"
)

// snapshot holds every mutable field the capture touches. restore
// writes the values back into the same objects, so pointer identity
// is preserved across a capture.
type snapshot struct {
	width      int
	height     int
	pixelRatio float64
	clearColor color.NRGBA

	background *color.NRGBA

	camPosition geom.Vec3
	camRotation geom.Vec3
	camZoom     float32
	projection  camera.Projection
}

func takeSnapshot(h Handle) snapshot {
	w, height := h.Renderer.Size()

	return snapshot{
		width:       w,
		height:      height,
		pixelRatio:  h.Renderer.PixelRatio(),
		clearColor:  h.Renderer.ClearColor(),
		background:  h.Scene.Background,
		camPosition: h.Camera.Position,
		camRotation: h.Camera.Rotation,
		camZoom:     h.Camera.Zoom,
		projection:  h.Camera.Projection.Clone(),
	}
}

func (s snapshot) restore(h Handle) {
	h.Renderer.SetSize(s.width, s.height)
	h.Renderer.SetPixelRatio(s.pixelRatio)
	h.Renderer.SetClearColor(s.clearColor)
	h.Scene.Background = s.background

	h.Camera.Position = s.camPosition
	h.Camera.Rotation = s.camRotation
	h.Camera.Zoom = s.camZoom

	// Copy the saved projection values back into the live object so
	// callers holding the pointer see the original state.
	switch proj := h.Camera.Projection.(type) {
	case *camera.Perspective:
		if saved, ok := s.projection.(*camera.Perspective); ok {
			*proj = *saved
		}
	case *camera.Orthographic:
		if saved, ok := s.projection.(*camera.Orthographic); ok {
			*proj = *saved
		}
	}
}
