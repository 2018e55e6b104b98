package calibrate

import (
	"math"
	"os"
	"testing"

	"github.com/Faultbox/spriteforge/internal/engine/geom"
	"github.com/Faultbox/spriteforge/internal/engine/scene"
	"github.com/Faultbox/spriteforge/internal/logger"
)

func TestMain(m *testing.M) {
	logger.InitWithFileConfig("error", logger.FileConfig{}, false)
	os.Exit(m.Run())
}

// testModel builds a model whose bounding box spans minY..minY+height.
func testModel(height, minY float32) *scene.Model {
	container := scene.NewNode("character")
	body := scene.NewNode("body")
	body.Mesh = &scene.Mesh{
		Positions: []float32{
			-0.5, minY, -0.5,
			0.5, minY + height, 0.5,
		},
	}
	container.Add(body)
	return &scene.Model{Container: container}
}

func TestAnalyzeNormalizesTallModel(t *testing.T) {
	e := NewEngine(testModel(3.0, -1.0), nil)

	cal, err := e.Analyze()
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	// 1.5 / 3.0 = 0.5, exactly at the clamp floor
	if cal.NormalizedScale != 0.5 {
		t.Errorf("expected scale 0.5, got %v", cal.NormalizedScale)
	}
	// -min.Y * scale = -(-1.0) * 0.5
	if cal.GroundOffset != 0.5 {
		t.Errorf("expected ground offset 0.5, got %v", cal.GroundOffset)
	}
	if cal.TargetHeight != 1.5 {
		t.Errorf("expected target height 1.5, got %v", cal.TargetHeight)
	}
	if cal.IsFrontFaceSet {
		t.Error("front face must not be set by analyze")
	}
}

func TestAnalyzeClampsScale(t *testing.T) {
	tests := []struct {
		height float32
		want   float32
	}{
		{100, 0.5},   // 0.015 clamped up
		{0.01, 20},   // 150 clamped down
		{1.5, 1.0},   // exact target
		{0.75, 2.0},  // in range
		{30.0, 0.5},  // 0.05 clamped up
	}

	for _, tt := range tests {
		e := NewEngine(testModel(tt.height, 0), nil)
		cal, err := e.Analyze()
		if err != nil {
			t.Fatalf("analyze failed for height %v: %v", tt.height, err)
		}
		if math.Abs(float64(cal.NormalizedScale-tt.want)) > 1e-5 {
			t.Errorf("height %v: expected scale %v, got %v", tt.height, tt.want, cal.NormalizedScale)
		}
	}
}

func TestAnalyzeFailsWithoutRoot(t *testing.T) {
	e := NewEngine(&scene.Model{}, nil)
	if _, err := e.Analyze(); err == nil {
		t.Error("expected analyze to fail without a scene root")
	}

	e = NewEngine(nil, nil)
	if _, err := e.Analyze(); err == nil {
		t.Error("expected analyze to fail without a model")
	}
}

func TestApplyMutatesContainer(t *testing.T) {
	model := testModel(3.0, -1.0)
	e := NewEngine(model, nil)
	if _, err := e.Analyze(); err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	if !e.Apply() {
		t.Fatal("expected apply to succeed")
	}

	c := model.Container
	if c.Scale != (geom.Vec3{X: 0.5, Y: 0.5, Z: 0.5}) {
		t.Errorf("expected uniform scale 0.5, got %v", c.Scale)
	}
	if c.Position.Y != 0.5 {
		t.Errorf("expected y position 0.5, got %v", c.Position.Y)
	}
}

func TestApplyFailsGracefully(t *testing.T) {
	model := testModel(3.0, 0)
	e := NewEngine(model, nil)
	if _, err := e.Analyze(); err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	model.Container = nil
	if e.Apply() {
		t.Error("expected apply to fail with missing container")
	}
	// In-memory calibration survives the failed apply.
	if e.Calibration() == nil {
		t.Error("expected calibration to remain after failed apply")
	}
}

func TestSetFrontFaceFreezesLiveRotation(t *testing.T) {
	model := testModel(1.5, 0)
	e := NewEngine(model, nil)
	if _, err := e.Analyze(); err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	model.Container.Rotation.Y = 1.25
	e.SetFrontFace()

	cal := e.Calibration()
	if !cal.IsFrontFaceSet {
		t.Fatal("expected front face to be set")
	}
	if cal.FrontFaceRotation != 1.25 {
		t.Errorf("expected frozen rotation 1.25, got %v", cal.FrontFaceRotation)
	}
}

func TestSetFrontFaceWithoutCalibration(t *testing.T) {
	model := testModel(1.5, 0)
	e := NewEngine(model, nil)

	e.SetFrontFace() // must be a no-op, not a panic
	if e.Calibration() != nil {
		t.Error("expected no calibration after no-op SetFrontFace")
	}
}

func TestRotateToAngleRequiresFrontFace(t *testing.T) {
	model := testModel(1.5, 0)
	e := NewEngine(model, nil)
	if _, err := e.Analyze(); err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	model.Container.Rotation.Y = 0.7
	if e.RotateToAngle(AngleDos) {
		t.Error("expected rotate to be refused before SetFrontFace")
	}
	if model.Container.Rotation.Y != 0.7 {
		t.Errorf("container rotation mutated: got %v", model.Container.Rotation.Y)
	}
}

func TestRotateToAngleOffsets(t *testing.T) {
	model := testModel(1.5, 0)
	e := NewEngine(model, nil)
	if _, err := e.Analyze(); err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	model.Container.Rotation.Y = 0.5
	e.SetFrontFace()

	tests := []struct {
		angle string
		want  float64
	}{
		{AngleFace, 0.5},
		{AngleDos, 0.5 + math.Pi},
		{AngleProfilDroit, 0.5 + math.Pi/2},
		{AngleProfilGauche, 0.5 - math.Pi/2},
		{AngleTroisQuartDroite, 0.5 + math.Pi/4},
		{AngleTroisQuartGauche, 0.5 - math.Pi/4},
	}

	for _, tt := range tests {
		if !e.RotateToAngle(tt.angle) {
			t.Fatalf("rotate to %s refused", tt.angle)
		}
		got := float64(model.Container.Rotation.Y)
		if math.Abs(got-tt.want) > 1e-6 {
			t.Errorf("%s: expected rotation %v, got %v", tt.angle, tt.want, got)
		}
	}
}

func TestRotateToUnknownAngle(t *testing.T) {
	model := testModel(1.5, 0)
	e := NewEngine(model, nil)
	if _, err := e.Analyze(); err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	e.SetFrontFace()

	if e.RotateToAngle("three_quarter") {
		t.Error("expected unknown angle to be refused")
	}
}

func TestKnownAngles(t *testing.T) {
	if bad, ok := KnownAngles([]string{AngleFace, AngleDos}); !ok {
		t.Errorf("expected known angles, got bad=%q", bad)
	}
	if bad, ok := KnownAngles([]string{AngleFace, "side"}); ok || bad != "side" {
		t.Errorf("expected 'side' to be flagged, got bad=%q ok=%v", bad, ok)
	}
}
