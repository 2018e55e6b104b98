package export

import (
	"context"
	"fmt"
	"image"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/spriteforge/internal/animation"
	"github.com/Faultbox/spriteforge/internal/capture"
	"github.com/Faultbox/spriteforge/internal/fsbridge"
	"github.com/Faultbox/spriteforge/internal/logger"
	"github.com/Faultbox/spriteforge/internal/postprocess"
	"github.com/Faultbox/spriteforge/internal/sheet"
)

// Precondition failures, rejected before any directory is created.
var (
	ErrNoOutputRoot = errors.New("export: no output root selected")
	ErrNoAnimation  = errors.New("export: no animation selected")
	ErrNoFrames     = errors.New("export: animation has no frames")
)

// Options configures one export sequence.
type Options struct {
	Width       int
	Height      int
	RenderSteps int
	SettleDelay time.Duration
	SheetFormat string
	Supersample int
}

// Sequencer drives an animation to each planned frame, captures it,
// and persists the numbered frames plus a sprite sheet.
type Sequencer struct {
	bridge fsbridge.Bridge
	mapper *animation.Mapper
	handle capture.Handle
	opts   Options

	// captureFn is swappable for tests; defaults to capture.Capture.
	captureFn func(capture.Handle, int, int) (*image.NRGBA, error)

	// OnFrame is called after each frame is persisted.
	OnFrame func(frameIndex, done, total int)
}

// NewSequencer wires a sequencer over the shared scene handle.
func NewSequencer(bridge fsbridge.Bridge, mapper *animation.Mapper, handle capture.Handle, opts Options) *Sequencer {
	if opts.Supersample < 1 {
		opts.Supersample = 1
	}
	return &Sequencer{
		bridge:    bridge,
		mapper:    mapper,
		handle:    handle,
		opts:      opts,
		captureFn: capture.Capture,
	}
}

// ExportSequence renders the planned frames of one animation into
// <outputRoot>/<sanitized animation>/ and assembles the sprite sheet.
// The first persistence failure aborts the sequence; files already
// written stay in place.
func (s *Sequencer) ExportSequence(ctx context.Context, outputRoot, animName string, totalFrames int) error {
	if outputRoot == "" {
		return ErrNoOutputRoot
	}
	if animName == "" {
		return ErrNoAnimation
	}
	if totalFrames <= 0 {
		return ErrNoFrames
	}

	plan := PlanFrames(totalFrames, s.opts.RenderSteps)

	safeName := SanitizeName(animName)
	dir := filepath.Join(outputRoot, safeName)
	if err := s.bridge.CreateDirectory(dir); err != nil {
		return errors.Wrapf(err, "export: creating %s", dir)
	}

	logger.Info("export sequence started",
		zap.String("animation", animName),
		zap.Int("frames", len(plan)),
		zap.String("dir", dir),
	)

	frames := make([]*image.NRGBA, 0, len(plan))
	for i, idx := range plan {
		s.mapper.SeekFrame(idx)
		if err := s.mapper.Settle(ctx, s.opts.SettleDelay); err != nil {
			return errors.Wrapf(err, "export: waiting for frame %d", idx)
		}

		img, err := s.captureAt(s.opts.Width, s.opts.Height)
		if err != nil {
			return errors.Wrapf(err, "export: capturing frame %d", idx)
		}

		data, err := sheet.Encode(img, sheet.FormatPNG)
		if err != nil {
			return errors.Wrapf(err, "export: encoding frame %d", idx)
		}

		path := filepath.Join(dir, fmt.Sprintf("frame_%04d.png", idx))
		if err := s.bridge.SaveFile(path, data); err != nil {
			return errors.Wrapf(err, "export: writing %s", path)
		}

		frames = append(frames, img)
		if s.OnFrame != nil {
			s.OnFrame(idx, i+1, len(plan))
		}
	}

	if err := s.writeSheet(dir, safeName, frames); err != nil {
		return err
	}

	logger.Info("export sequence finished", zap.String("animation", animName))
	return nil
}

// captureAt captures at the requested size, supersampling and
// downscaling when configured.
func (s *Sequencer) captureAt(width, height int) (*image.NRGBA, error) {
	ss := s.opts.Supersample
	img, err := s.captureFn(s.handle, width*ss, height*ss)
	if err != nil {
		return nil, err
	}
	if ss > 1 {
		img = postprocess.Downsample(img, width, height)
	}
	return img, nil
}

// writeSheet composes the captured frame set into one sprite sheet
// next to the per-frame files.
func (s *Sequencer) writeSheet(dir, safeName string, frames []*image.NRGBA) error {
	img, err := sheet.Compose(frames)
	if err != nil {
		return errors.Wrap(err, "export: composing sheet")
	}

	data, err := sheet.Encode(img, s.opts.SheetFormat)
	if err != nil {
		return errors.Wrap(err, "export: encoding sheet")
	}

	cols, rows := sheet.Layout(len(frames))
	name := fmt.Sprintf("%s_spritesheet_%dx%d%s", safeName, cols, rows, sheet.Ext(s.opts.SheetFormat))
	path := filepath.Join(dir, name)
	if err := s.bridge.SaveFile(path, data); err != nil {
		return errors.Wrapf(err, "export: writing %s", path)
	}
	return nil
}
