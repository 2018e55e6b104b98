package modelio

import (
	"bytes"
	"image"
	"image/png"
	gomath "math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/spriteforge/internal/logger"
)

func TestMain(m *testing.M) {
	logger.InitWithFileConfig("error", logger.FileConfig{}, false)
	os.Exit(m.Run())
}

const manifestYAML = `name: hero
background: [10, 20, 30, 255]
meshes:
  - name: body
    position: [0, 0.5, 0]
    texture: body.png
    positions: [0, 0, 0, 1, 0, 0, 0, 2, 0]
    normals: [0, 0, 1, 0, 0, 1, 0, 0, 1]
    uvs: [0, 0, 1, 0, 0, 1]
    indices: [0, 1, 2]
clips:
  - name: walk
    duration: 1.0
    tracks:
      - node: body
        times: [0, 1]
        positions: [[0, 0, 0], [0, 2, 0]]
`

func writeManifest(t *testing.T, yamlText string) string {
	t.Helper()
	dir := t.TempDir()

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "body.png"), buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, "hero.yaml")
	if err := os.WriteFile(path, []byte(yamlText), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadBuildsSceneAndClips(t *testing.T) {
	rig, err := Load(writeManifest(t, manifestYAML))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if rig.Model.Container == nil || rig.Model.Container.Name != "hero" {
		t.Fatalf("expected container named hero, got %+v", rig.Model.Container)
	}
	if len(rig.Model.Container.Children) != 1 {
		t.Fatalf("expected 1 mesh node, got %d", len(rig.Model.Container.Children))
	}

	body := rig.Model.Container.Children[0]
	if body.Mesh == nil || len(body.Mesh.Positions) != 9 {
		t.Errorf("unexpected mesh payload %+v", body.Mesh)
	}
	if body.Mesh.Texture == nil || body.Mesh.Texture.Width != 2 {
		t.Errorf("expected 2x2 texture, got %+v", body.Mesh.Texture)
	}
	if body.Position.Y != 0.5 {
		t.Errorf("expected mesh y offset 0.5, got %v", body.Position.Y)
	}

	if rig.Scene.Background == nil || rig.Scene.Background.B != 30 {
		t.Errorf("unexpected background %+v", rig.Scene.Background)
	}

	clip, ok := rig.Model.ClipByName("walk")
	if !ok || clip.Duration != 1.0 {
		t.Errorf("expected walk clip of 1s, got %+v ok=%v", clip, ok)
	}
}

func TestAnimatorSamplesKeyframes(t *testing.T) {
	rig, err := Load(writeManifest(t, manifestYAML))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	body := rig.Model.Container.Children[0]

	if !rig.Animator.SetActiveClip("walk") {
		t.Fatal("walk clip should resolve")
	}
	if rig.Animator.SetActiveClip("missing") {
		t.Error("unknown clip should report false")
	}

	rig.Animator.SetTime(0.5)
	if gomath.Abs(float64(body.Position.Y)-1.0) > 1e-6 {
		t.Errorf("expected midpoint y 1.0, got %v", body.Position.Y)
	}

	// Out-of-range times clamp to the last key.
	rig.Animator.SetTime(5)
	if gomath.Abs(float64(body.Position.Y)-2.0) > 1e-6 {
		t.Errorf("expected clamped y 2.0, got %v", body.Position.Y)
	}
}

func TestLoadRejectsBadManifests(t *testing.T) {
	tests := []struct {
		name, yaml, wantErr string
	}{
		{
			name:    "no meshes",
			yaml:    "name: empty\n",
			wantErr: "no meshes",
		},
		{
			name: "index out of range",
			yaml: `name: bad
meshes:
  - name: body
    positions: [0, 0, 0]
    indices: [0, 1]
`,
			wantErr: "out of range",
		},
		{
			name: "track targets unknown node",
			yaml: `name: bad
meshes:
  - name: body
    positions: [0, 0, 0]
clips:
  - name: walk
    duration: 1
    tracks:
      - node: ghost
        times: [0]
        positions: [[0, 0, 0]]
`,
			wantErr: "unknown node",
		},
		{
			name: "non-ascending times",
			yaml: `name: bad
meshes:
  - name: body
    positions: [0, 0, 0]
clips:
  - name: walk
    duration: 1
    tracks:
      - node: body
        times: [0, 0.5, 0.5]
        positions: [[0, 0, 0], [0, 1, 0], [0, 2, 0]]
`,
			wantErr: "ascending",
		},
		{
			name: "zero duration",
			yaml: `name: bad
meshes:
  - name: body
    positions: [0, 0, 0]
clips:
  - name: walk
    duration: 0
`,
			wantErr: "duration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "m.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadFailsOnMissingTexture(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "m.yaml")
	yaml := `name: bad
meshes:
  - name: body
    texture: nope.png
    positions: [0, 0, 0]
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected missing texture to fail the load")
	}
}
