// Package capture produces a single deterministic raster of the
// current scene state at an exact resolution. The renderer, camera,
// and scene are exclusively borrowed for the duration of a call: every
// mutable field touched is snapshotted first and restored on all exit
// paths, so no other component can observe the capture-time state.
package capture

import (
	"image"
	"image/color"
	gomath "math"

	"github.com/pkg/errors"
	xdraw "golang.org/x/image/draw"

	"github.com/Faultbox/spriteforge/internal/engine/camera"
	"github.com/Faultbox/spriteforge/internal/engine/renderer"
	"github.com/Faultbox/spriteforge/internal/engine/scene"
)

// ErrSceneUnavailable reports that the scene, camera, or renderer
// could not be resolved. No state has been touched when it is returned.
var ErrSceneUnavailable = errors.New("capture: scene unavailable")

// aspectTolerance is the maximum relative aspect mismatch accepted
// before the source is center-cropped.
const aspectTolerance = 0.01

// Handle bundles the shared renderable resource. It is passed
// explicitly into every capture and calibration call; nothing is
// looked up ambiently.
type Handle struct {
	Scene    *scene.Scene
	Camera   *camera.Camera
	Renderer renderer.Renderer
}

// valid reports whether all members are resolvable.
func (h Handle) valid() bool {
	return h.Scene != nil && h.Camera != nil && h.Renderer != nil
}

// Capture renders the current scene state into a transparent-background
// raster of exactly width × height pixels.
func Capture(h Handle, width, height int) (*image.NRGBA, error) {
	if !h.valid() {
		return nil, ErrSceneUnavailable
	}
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("capture: invalid target size %dx%d", width, height)
	}

	snap := takeSnapshot(h)
	defer snap.restore(h)

	h.Renderer.SetSize(width, height)
	h.Renderer.SetPixelRatio(1)
	h.Renderer.SetClearColor(color.NRGBA{})
	h.Scene.Background = nil

	aspect := float32(width) / float32(height)
	switch proj := h.Camera.Projection.(type) {
	case *camera.Perspective:
		proj.Aspect = aspect
	case *camera.Orthographic:
		proj.SetAspect(aspect)
	default:
		return nil, errors.Errorf("capture: unsupported projection %T", h.Camera.Projection)
	}

	if err := render(h, width, height); err != nil {
		return nil, errors.Wrap(err, "capture: render")
	}

	src, err := h.Renderer.ReadPixels()
	if err != nil {
		return nil, errors.Wrap(err, "capture: read pixels")
	}

	return fitToTarget(src, width, height), nil
}

// render draws through the post-processing chain when one is attached,
// directly otherwise.
func render(h Handle, width, height int) error {
	if pp, ok := h.Renderer.(renderer.PostChainProvider); ok {
		if chain := pp.PostChain(); chain != nil {
			chain.SetSize(width, height)
			return chain.Render(h.Scene, h.Camera)
		}
	}
	return h.Renderer.Render(h.Scene, h.Camera)
}

// fitToTarget copies src into a buffer of exactly width × height.
// When the source aspect deviates from the target beyond the
// tolerance, the oversized axis is center-cropped first so the output
// aspect always matches the request.
func fitToTarget(src *image.NRGBA, width, height int) *image.NRGBA {
	srcW := src.Bounds().Dx()
	srcH := src.Bounds().Dy()

	region := src.Bounds()
	if srcW > 0 && srcH > 0 {
		srcAspect := float64(srcW) / float64(srcH)
		dstAspect := float64(width) / float64(height)

		if gomath.Abs(srcAspect-dstAspect) > aspectTolerance {
			if srcAspect > dstAspect {
				cropW := int(float64(srcH)*dstAspect + 0.5)
				x0 := (srcW - cropW) / 2
				region = image.Rect(x0, 0, x0+cropW, srcH)
			} else {
				cropH := int(float64(srcW)/dstAspect + 0.5)
				y0 := (srcH - cropH) / 2
				region = image.Rect(0, y0, srcW, y0+cropH)
			}
		}
	}

	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	if region.Dx() == width && region.Dy() == height {
		xdraw.Copy(out, image.Point{}, src, region, xdraw.Src, nil)
	} else {
		// Nearest neighbor keeps hard pixel edges for sprite output.
		xdraw.NearestNeighbor.Scale(out, out.Bounds(), src, region, xdraw.Src, nil)
	}
	return out
}
