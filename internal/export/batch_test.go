package export

import (
	"context"
	gomath "math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/Faultbox/spriteforge/internal/calibrate"
	"github.com/Faultbox/spriteforge/internal/engine/scene"
	"github.com/Faultbox/spriteforge/internal/sheet"
)

// calibratedEngine builds a model with real geometry, analyzes it, and
// freezes the current facing as the front.
func calibratedEngine(t *testing.T) *calibrate.Engine {
	t.Helper()

	body := scene.NewNode("body")
	body.Mesh = &scene.Mesh{Positions: []float32{
		-0.5, 0, -0.5,
		0.5, 3, 0.5,
	}}
	container := scene.NewNode("container")
	container.Add(body)

	engine := calibrate.NewEngine(&scene.Model{Container: container}, nil)
	if _, err := engine.Analyze(); err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	engine.SetFrontFace()
	return engine
}

func newTestBatch(t *testing.T, bridge *memBridge) (*BatchController, *calibrate.Engine) {
	t.Helper()
	seq, _, _ := newTestSequencer(bridge, Options{Width: 8, Height: 8, RenderSteps: 10})
	engine := calibratedEngine(t)
	return NewBatchController(engine, seq, 0), engine
}

func TestRunBatchExportsEachAngle(t *testing.T) {
	bridge := newMemBridge()
	bc, _ := newTestBatch(t, bridge)

	angles := []string{"face", "dos"}
	if err := bc.RunBatch(context.Background(), angles, "/out", "walk", 30); err != nil {
		t.Fatalf("batch failed: %v", err)
	}

	wantDirs := []string{
		filepath.Join("/out", "walk_face"),
		filepath.Join("/out", "walk_dos"),
	}
	if len(bridge.dirs) != 2 || bridge.dirs[0] != wantDirs[0] || bridge.dirs[1] != wantDirs[1] {
		t.Fatalf("expected directories %v, got %v", wantDirs, bridge.dirs)
	}

	// Each angle carries its frames plus one sheet.
	plan := PlanFrames(30, 10)
	if want := 2 * (len(plan) + 1); len(bridge.files) != want {
		t.Errorf("expected %d files, got %d: %v", want, len(bridge.files), fileNames(bridge))
	}
	cols, rows := sheet.Layout(len(plan))
	for _, dir := range wantDirs {
		name := filepath.Base(dir)
		path := filepath.Join(dir, name+"_spritesheet_4x3.png")
		if _, ok := bridge.files[path]; !ok {
			t.Errorf("missing sheet %s (layout %dx%d)", path, cols, rows)
		}
	}
}

func TestRunBatchRotatesPerAngle(t *testing.T) {
	bridge := newMemBridge()
	seq, _, _ := newTestSequencer(bridge, Options{Width: 8, Height: 8, RenderSteps: 10})
	engine := calibratedEngine(t)

	var rotations []float32
	seq.OnFrame = func(idx, done, total int) {
		if done == 1 {
			rotations = append(rotations, engine.Model().Container.Rotation.Y)
		}
	}

	bc := NewBatchController(engine, seq, 0)
	if err := bc.RunBatch(context.Background(), []string{"face", "dos"}, "/out", "walk", 30); err != nil {
		t.Fatalf("batch failed: %v", err)
	}

	if len(rotations) != 2 {
		t.Fatalf("expected one rotation sample per angle, got %d", len(rotations))
	}
	if gomath.Abs(float64(rotations[0])) > 1e-6 {
		t.Errorf("face angle should keep the front rotation, got %v", rotations[0])
	}
	if gomath.Abs(float64(rotations[1])-gomath.Pi) > 1e-6 {
		t.Errorf("dos angle should rotate by pi, got %v", rotations[1])
	}
}

func TestRunBatchPreconditions(t *testing.T) {
	bridge := newMemBridge()
	bc, _ := newTestBatch(t, bridge)
	ctx := context.Background()

	if err := bc.RunBatch(ctx, []string{"face"}, "", "walk", 30); !errors.Is(err, ErrNoOutputRoot) {
		t.Errorf("expected ErrNoOutputRoot, got %v", err)
	}
	if err := bc.RunBatch(ctx, []string{"face"}, "/out", "", 30); !errors.Is(err, ErrNoAnimation) {
		t.Errorf("expected ErrNoAnimation, got %v", err)
	}
	if err := bc.RunBatch(ctx, nil, "/out", "walk", 30); !errors.Is(err, ErrNoAngles) {
		t.Errorf("expected ErrNoAngles, got %v", err)
	}
	if err := bc.RunBatch(ctx, []string{"face", "sideways"}, "/out", "walk", 30); err == nil || !strings.Contains(err.Error(), "sideways") {
		t.Errorf("expected unknown-angle error naming it, got %v", err)
	}

	if len(bridge.dirs) != 0 || len(bridge.files) != 0 {
		t.Errorf("rejected batches must not touch the bridge: dirs=%v", bridge.dirs)
	}
}

func TestRunBatchRequiresFrontFace(t *testing.T) {
	bridge := newMemBridge()
	seq, _, _ := newTestSequencer(bridge, Options{Width: 8, Height: 8, RenderSteps: 10})

	body := scene.NewNode("body")
	body.Mesh = &scene.Mesh{Positions: []float32{0, 0, 0, 1, 2, 1}}
	container := scene.NewNode("container")
	container.Add(body)
	engine := calibrate.NewEngine(&scene.Model{Container: container}, nil)
	if _, err := engine.Analyze(); err != nil {
		t.Fatal(err)
	}

	bc := NewBatchController(engine, seq, 0)
	err := bc.RunBatch(context.Background(), []string{"face"}, "/out", "walk", 30)
	if !errors.Is(err, ErrFrontFaceUnset) {
		t.Errorf("expected ErrFrontFaceUnset, got %v", err)
	}
}

func TestRunBatchAbortsOnFailingAngle(t *testing.T) {
	bridge := newMemBridge()
	bridge.failOn = "walk_dos"
	bc, _ := newTestBatch(t, bridge)

	err := bc.RunBatch(context.Background(), []string{"face", "dos"}, "/out", "walk", 30)
	if err == nil {
		t.Fatal("expected failing angle to abort the batch")
	}
	if !strings.Contains(err.Error(), `angle "dos"`) {
		t.Errorf("error should name the failing angle, got %v", err)
	}

	// The completed face export stays on disk.
	plan := PlanFrames(30, 10)
	if want := len(plan) + 1; len(bridge.files) != want {
		t.Errorf("expected %d surviving files, got %v", want, fileNames(bridge))
	}
	for _, name := range fileNames(bridge) {
		if strings.Contains(name, "walk_dos") {
			t.Errorf("no file of the failed angle should survive, got %s", name)
		}
	}
}

func TestRunBatchReportsAngleProgress(t *testing.T) {
	bridge := newMemBridge()
	bc, _ := newTestBatch(t, bridge)

	type tick struct {
		angle            string
		completed, total int
	}
	var ticks []tick
	bc.OnAngle = func(angle string, completed, total int) {
		ticks = append(ticks, tick{angle, completed, total})
	}

	if err := bc.RunBatch(context.Background(), []string{"face", "dos"}, "/out", "walk", 30); err != nil {
		t.Fatalf("batch failed: %v", err)
	}

	want := []tick{{"face", 1, 2}, {"dos", 2, 2}}
	if len(ticks) != 2 || ticks[0] != want[0] || ticks[1] != want[1] {
		t.Errorf("expected ticks %v, got %v", want, ticks)
	}
}
