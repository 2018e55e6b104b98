// Package animation maps continuous clip durations onto a discrete,
// addressable frame index space and drives the scene's animation layer
// to exact frames.
package animation

import (
	"context"
	gomath "math"
	"time"

	"github.com/Faultbox/spriteforge/internal/engine/scene"
)

// CaptureFPS is the notional sampling rate used to discretize clip
// durations. It is independent of the display playback rate.
const CaptureFPS = 30

// Target is the scene's animation layer. SetTime drives the active
// clip to an absolute time in seconds; the call is synchronous but the
// visual scene update may lag it.
type Target interface {
	SetTime(seconds float64)
}

// Settler is an optional Target extension for animation layers that
// can acknowledge when the scene visually reflects the last SetTime.
// When available it replaces the fixed settle delay.
type Settler interface {
	AwaitSettled(ctx context.Context) error
}

// TotalFramesFor converts a clip duration into its discrete frame count.
func TotalFramesFor(clip scene.Clip) int {
	return int(gomath.Floor(clip.Duration * CaptureFPS))
}

// Mapper exposes frame-accurate scrubbing over the active clip.
type Mapper struct {
	target       Target
	clip         scene.Clip
	totalFrames  int
	currentFrame int
}

// NewMapper returns a mapper driving the given animation layer.
func NewMapper(target Target) *Mapper {
	return &Mapper{target: target}
}

// SetClip switches the active clip. The frame space is recomputed and
// the current frame resets to 0.
func (m *Mapper) SetClip(clip scene.Clip) {
	m.clip = clip
	m.totalFrames = TotalFramesFor(clip)
	m.currentFrame = 0
	m.seek(0)
}

// Clip returns the active clip.
func (m *Mapper) Clip() scene.Clip {
	return m.clip
}

// TotalFrames returns the discrete frame count of the active clip.
func (m *Mapper) TotalFrames() int {
	return m.totalFrames
}

// CurrentFrame returns the current frame index.
func (m *Mapper) CurrentFrame() int {
	return m.currentFrame
}

// SeekFrame drives the animation layer to the given frame index.
// Indices outside [0, totalFrames) wrap.
func (m *Mapper) SeekFrame(idx int) {
	if m.totalFrames == 0 {
		return
	}
	idx %= m.totalFrames
	if idx < 0 {
		idx += m.totalFrames
	}
	m.currentFrame = idx
	m.seek(idx)
}

// NextFrame advances one frame, wrapping at the end.
func (m *Mapper) NextFrame() int {
	m.SeekFrame(m.currentFrame + 1)
	return m.currentFrame
}

// PreviousFrame steps back one frame, wrapping at the start.
func (m *Mapper) PreviousFrame() int {
	m.SeekFrame(m.currentFrame - 1)
	return m.currentFrame
}

func (m *Mapper) seek(idx int) {
	if m.target != nil {
		m.target.SetTime(float64(idx) / CaptureFPS)
	}
}

// Settle waits until the scene visually reflects the last seek. When
// the animation layer acknowledges updates, that acknowledgment is
// awaited under ctx; otherwise a fixed bounded delay is used. The
// fixed delay is deliberately not cancellable mid-wait.
func (m *Mapper) Settle(ctx context.Context, delay time.Duration) error {
	if s, ok := m.target.(Settler); ok {
		return s.AwaitSettled(ctx)
	}
	if delay > 0 {
		time.Sleep(delay)
	}
	return nil
}
