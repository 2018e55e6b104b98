package export

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/spriteforge/internal/calibrate"
	"github.com/Faultbox/spriteforge/internal/logger"
)

// Batch precondition failures.
var (
	ErrNoAngles       = errors.New("export: no angles selected")
	ErrFrontFaceUnset = errors.New("export: front face not set")
)

// BatchController exports one animation from several calibrated
// viewing angles, strictly one at a time.
type BatchController struct {
	engine *calibrate.Engine
	seq    *Sequencer

	settleDelay time.Duration

	// OnAngle is called after each angle's export completes.
	OnAngle func(angle string, completed, total int)
}

// NewBatchController wires a batch over a calibration engine and a
// sequencer.
func NewBatchController(engine *calibrate.Engine, seq *Sequencer, settleDelay time.Duration) *BatchController {
	return &BatchController{engine: engine, seq: seq, settleDelay: settleDelay}
}

// RunBatch rotates the model to each angle and exports the animation.
// Each angle's frames land in their own subdirectory named
// <animation>_<angle>. The batch aborts on the first failing angle;
// artifacts of completed angles are left in place.
func (b *BatchController) RunBatch(ctx context.Context, angles []string, outputRoot, animName string, totalFrames int) error {
	if outputRoot == "" {
		return ErrNoOutputRoot
	}
	if animName == "" {
		return ErrNoAnimation
	}
	if len(angles) == 0 {
		return ErrNoAngles
	}
	if bad, ok := calibrate.KnownAngles(angles); !ok {
		return errors.Errorf("export: unknown angle %q", bad)
	}

	cal := b.engine.Calibration()
	if cal == nil || !cal.IsFrontFaceSet {
		return ErrFrontFaceUnset
	}

	logger.Info("batch export started",
		zap.String("animation", animName),
		zap.Strings("angles", angles),
	)

	for i, angle := range angles {
		if !b.engine.RotateToAngle(angle) {
			return errors.Errorf("export: rotating to angle %q failed", angle)
		}
		// Let the scene visually settle on the new rotation before
		// the first capture.
		if b.settleDelay > 0 {
			time.Sleep(b.settleDelay)
		}

		name := fmt.Sprintf("%s_%s", animName, angle)
		if err := b.seq.ExportSequence(ctx, outputRoot, name, totalFrames); err != nil {
			return errors.Wrapf(err, "export: angle %q", angle)
		}

		if b.OnAngle != nil {
			b.OnAngle(angle, i+1, len(angles))
		}
	}

	logger.Info("batch export finished", zap.String("animation", animName))
	return nil
}
