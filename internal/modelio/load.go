package modelio

import (
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/spriteforge/internal/engine/geom"
	"github.com/Faultbox/spriteforge/internal/engine/scene"
	"github.com/Faultbox/spriteforge/internal/logger"

	_ "image/png"

	_ "github.com/ftrvxmtrx/tga"
	_ "golang.org/x/image/bmp"
)

// Rig is a loaded manifest wired into a renderable scene: the model
// container sits under the scene root, and the animator drives the
// mesh nodes.
type Rig struct {
	Scene    *scene.Scene
	Model    *scene.Model
	Animator *Animator
}

// Load reads a manifest and builds the scene graph, textures, clips,
// and keyframe animator. Texture paths resolve relative to the
// manifest file.
func Load(path string) (*Rig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "modelio: reading %s", path)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, "modelio: parsing %s", path)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}

	s := scene.New()
	if m.Background != nil {
		bg := m.Background
		s.Background = &color.NRGBA{R: bg[0], G: bg[1], B: bg[2], A: bg[3]}
	}

	container := scene.NewNode(m.Name)
	s.Root.Add(container)

	baseDir := filepath.Dir(path)
	nodes := make(map[string]*scene.Node, len(m.Meshes))
	for _, spec := range m.Meshes {
		node, err := buildMeshNode(spec, baseDir)
		if err != nil {
			return nil, err
		}
		container.Add(node)
		nodes[spec.Name] = node
	}

	clips := make([]scene.Clip, len(m.Clips))
	for i, c := range m.Clips {
		clips[i] = scene.Clip{Name: c.Name, Duration: c.Duration}
	}

	anim, err := newAnimator(m.Clips, nodes)
	if err != nil {
		return nil, err
	}

	logger.Info("model loaded",
		zap.String("name", m.Name),
		zap.Int("meshes", len(m.Meshes)),
		zap.Int("clips", len(clips)),
	)

	return &Rig{
		Scene:    s,
		Model:    &scene.Model{Container: container, Clips: clips},
		Animator: anim,
	}, nil
}

func buildMeshNode(spec MeshSpec, baseDir string) (*scene.Node, error) {
	node := scene.NewNode(spec.Name)
	node.Position = vec3(spec.Position)
	node.Rotation = vec3(spec.Rotation)
	if spec.Scale != nil {
		node.Scale = vec3(*spec.Scale)
	}

	mesh := &scene.Mesh{
		Positions: spec.Positions,
		Normals:   spec.Normals,
		UVs:       spec.UVs,
		Indices:   spec.Indices,
	}
	if spec.Texture != "" {
		tex, err := loadTexture(filepath.Join(baseDir, spec.Texture))
		if err != nil {
			return nil, errors.Wrapf(err, "modelio: mesh %q", spec.Name)
		}
		mesh.Texture = tex
	}

	node.Mesh = mesh
	return node, nil
}

func loadTexture(path string) (*scene.Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening texture %s", path)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding texture %s", path)
	}

	bounds := img.Bounds()
	nrgba := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(nrgba, nrgba.Bounds(), img, bounds.Min, draw.Src)

	return &scene.Texture{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Pix:    nrgba.Pix,
	}, nil
}

func vec3(v [3]float32) geom.Vec3 {
	return geom.Vec3{X: v[0], Y: v[1], Z: v[2]}
}
