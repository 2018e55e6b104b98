package main

import (
	"context"
	gomath "math"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/Faultbox/spriteforge/internal/animation"
	"github.com/Faultbox/spriteforge/internal/calibrate"
	"github.com/Faultbox/spriteforge/internal/capture"
	"github.com/Faultbox/spriteforge/internal/config"
	"github.com/Faultbox/spriteforge/internal/engine/camera"
	"github.com/Faultbox/spriteforge/internal/engine/geom"
	"github.com/Faultbox/spriteforge/internal/engine/renderer/glbackend"
	"github.com/Faultbox/spriteforge/internal/engine/scene"
	"github.com/Faultbox/spriteforge/internal/export"
	"github.com/Faultbox/spriteforge/internal/fsbridge"
	"github.com/Faultbox/spriteforge/internal/logger"
	"github.com/Faultbox/spriteforge/internal/modelio"
)

type exportFlags struct {
	output      string
	pick        bool
	clip        string
	profile     string
	angles      []string
	width       int
	height      int
	steps       int
	sheetFormat string
	supersample int
	ortho       bool
}

// NewExportCommand exports one animation clip from every configured
// angle.
func NewExportCommand() *cobra.Command {
	var f exportFlags

	cmd := &cobra.Command{
		Use:   "export <model.yaml>",
		Short: "Export an animation clip as sprite frames plus a sprite sheet",
		Long: `Export renders the model's animation from each configured viewing angle
into <output>/<clip>_<angle>/frame_NNNN.png files and one sprite sheet
per angle. The model is auto-calibrated to a normalized height before
rendering; use a saved calibration profile to override.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer logger.Sync()
			return runExport(args[0], f)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.output, "output", "o", "", "output root directory")
	flags.BoolVar(&f.pick, "pick", false, "pick the output root interactively")
	flags.StringVar(&f.clip, "clip", "", "clip name (default: first clip in the model)")
	flags.StringVar(&f.profile, "profile", "", "calibration profile to load instead of auto-calibrating")
	flags.StringSliceVar(&f.angles, "angles", nil, "angles to export (default: configured angle set)")
	flags.IntVar(&f.width, "width", 0, "sprite width in pixels")
	flags.IntVar(&f.height, "height", 0, "sprite height in pixels")
	flags.IntVar(&f.steps, "steps", 0, "number of sampled frames (0 = every frame)")
	flags.StringVar(&f.sheetFormat, "sheet-format", "", "sprite sheet format (png, webp)")
	flags.IntVar(&f.supersample, "supersample", 0, "supersampling factor")
	flags.BoolVar(&f.ortho, "ortho", false, "use an orthographic camera")

	return cmd
}

func runExport(modelPath string, f exportFlags) error {
	applyExportDefaults(&f, cfg)

	outputRoot, err := resolveOutputRoot(f)
	if err != nil {
		return err
	}

	rig, err := modelio.Load(modelPath)
	if err != nil {
		return err
	}

	clip, err := pickClip(rig, f.clip)
	if err != nil {
		return err
	}
	if !rig.Animator.SetActiveClip(clip.Name) {
		return errors.Errorf("clip %q has no animation tracks", clip.Name)
	}

	backend, err := glbackend.New(glbackend.Config{
		SurfaceWidth:  cfg.Render.SurfaceWidth,
		SurfaceHeight: cfg.Render.SurfaceHeight,
	})
	if err != nil {
		return errors.Wrap(err, "initializing render backend")
	}
	defer backend.Close()

	engine := calibrate.NewEngine(rig.Model, profileStore())
	if f.profile != "" {
		if !engine.LoadProfile(f.profile) {
			return errors.Errorf("calibration profile %q not found or not applicable", f.profile)
		}
	} else {
		if _, err := engine.Analyze(); err != nil {
			return err
		}
		if !engine.Apply() {
			return errors.New("calibration could not be applied to the model")
		}
	}
	// The manifest's native facing is the canonical front.
	engine.SetFrontFace()

	mapper := animation.NewMapper(rig.Animator)
	mapper.SetClip(clip)
	if mapper.TotalFrames() == 0 {
		return errors.Errorf("clip %q is too short to sample", clip.Name)
	}

	handle := capture.Handle{Scene: rig.Scene, Camera: exportCamera(f.ortho), Renderer: backend}
	seq := export.NewSequencer(fsbridge.Disk{}, mapper, handle, export.Options{
		Width:       f.width,
		Height:      f.height,
		RenderSteps: f.steps,
		SettleDelay: cfg.Export.SettleDelay,
		SheetFormat: f.sheetFormat,
		Supersample: f.supersample,
	})
	seq.OnFrame = func(frameIndex, done, total int) {
		color.New(color.Faint).Printf("\r  frame %04d (%d/%d)", frameIndex, done, total)
		if done == total {
			color.New(color.Faint).Println()
		}
	}

	bold := color.New(color.Bold)
	bold.Printf("Exporting %q (%d frames) to %s\n", clip.Name, mapper.TotalFrames(), outputRoot)

	batch := export.NewBatchController(engine, seq, cfg.Export.SettleDelay)
	batch.OnAngle = func(angle string, completed, total int) {
		color.New(color.FgGreen).Printf("✔ %s (%d/%d)\n", angle, completed, total)
	}

	if err := batch.RunBatch(context.Background(), f.angles, outputRoot, clip.Name, mapper.TotalFrames()); err != nil {
		return err
	}

	bold.Println("Done.")
	return nil
}

func applyExportDefaults(f *exportFlags, cfg *config.Config) {
	if f.width == 0 {
		f.width = cfg.Export.Width
	}
	if f.height == 0 {
		f.height = cfg.Export.Height
	}
	if f.steps == 0 {
		f.steps = cfg.Export.RenderSteps
	}
	if f.sheetFormat == "" {
		f.sheetFormat = cfg.Export.SheetFormat
	}
	if f.supersample == 0 {
		f.supersample = cfg.Render.Supersample
	}
	if len(f.angles) == 0 {
		f.angles = cfg.Export.Angles
	}
	if f.output == "" {
		f.output = cfg.Export.OutputRoot
	}
}

func resolveOutputRoot(f exportFlags) (string, error) {
	if f.pick {
		root, err := fsbridge.DialogPicker{}.SelectDirectory()
		if errors.Is(err, fsbridge.ErrNoSelection) {
			return "", errors.New("no output directory selected")
		}
		return root, err
	}
	if f.output == "" {
		return "", errors.New("no output root: pass --output, --pick, or set export.output_root in the config")
	}
	return f.output, nil
}

func pickClip(rig *modelio.Rig, name string) (scene.Clip, error) {
	if name == "" {
		if len(rig.Model.Clips) == 0 {
			return scene.Clip{}, errors.New("model has no animation clips")
		}
		return rig.Model.Clips[0], nil
	}
	clip, ok := rig.Model.ClipByName(name)
	if !ok {
		return scene.Clip{}, errors.Errorf("model has no clip named %q", name)
	}
	return clip, nil
}

// exportCamera frames a normalized-height model standing at the origin.
func exportCamera(ortho bool) *camera.Camera {
	var cam *camera.Camera
	if ortho {
		cam = camera.New(&camera.Orthographic{
			Left: -1, Right: 1,
			Top: 2, Bottom: -0.2,
			Near: 0.1, Far: 100,
		})
	} else {
		cam = camera.New(&camera.Perspective{
			FOV:    float32(45 * gomath.Pi / 180),
			Aspect: 1,
			Near:   0.1,
			Far:    100,
		})
	}
	cam.Position = geom.Vec3{Y: calibrate.TargetHeight / 2, Z: 3.2}
	return cam
}

func profileStore() *calibrate.FileStore {
	return calibrate.NewFileStore(filepath.Join(config.ConfigDir(), "profiles.yaml"))
}
