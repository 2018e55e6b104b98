// Package glbackend implements the renderer port on an offscreen
// OpenGL framebuffer. A hidden SDL2 window owns the GL context, so the
// exporter works without ever presenting to screen.
package glbackend

import (
	"fmt"
	"image"
	"image/color"
	"runtime"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/spriteforge/internal/engine/camera"
	"github.com/Faultbox/spriteforge/internal/engine/geom"
	"github.com/Faultbox/spriteforge/internal/engine/scene"
	"github.com/Faultbox/spriteforge/internal/logger"
)

func init() {
	// OpenGL calls must be made from the main thread
	runtime.LockOSThread()
}

// Config holds backend configuration.
type Config struct {
	SurfaceWidth  int
	SurfaceHeight int
}

// Backend renders scenes into an offscreen framebuffer.
type Backend struct {
	sdlWindow *sdl.Window
	glContext sdl.GLContext

	fb      *framebuffer
	program uint32

	uModel      int32
	uView       int32
	uProjection int32

	width      int
	height     int
	pixelRatio float64
	clearColor color.NRGBA

	meshes       map[*scene.Mesh]*meshBuffers
	whiteTexture uint32
}

type meshBuffers struct {
	vao        uint32
	vbo        uint32
	ebo        uint32
	texture    uint32
	indexCount int32
}

// New creates a hidden window, a GL context, and the offscreen target.
func New(cfg Config) (*Backend, error) {
	b := &Backend{
		width:      cfg.SurfaceWidth,
		height:     cfg.SurfaceHeight,
		pixelRatio: 1,
		meshes:     make(map[*scene.Mesh]*meshBuffers),
	}

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	// OpenGL 4.1 Core Profile (max supported on macOS)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)
	sdl.GLSetAttribute(sdl.GL_DEPTH_SIZE, 24)

	var err error
	b.sdlWindow, err = sdl.CreateWindow(
		"spriteforge",
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		int32(cfg.SurfaceWidth),
		int32(cfg.SurfaceHeight),
		sdl.WINDOW_OPENGL|sdl.WINDOW_HIDDEN,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	b.glContext, err = b.sdlWindow.GLCreateContext()
	if err != nil {
		b.sdlWindow.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("SDL_GL_CreateContext failed: %w", err)
	}

	if err := gl.Init(); err != nil {
		b.Close()
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	b.program, err = createProgram()
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}
	b.uModel = gl.GetUniformLocation(b.program, gl.Str("uModel\x00"))
	b.uView = gl.GetUniformLocation(b.program, gl.Str("uView\x00"))
	b.uProjection = gl.GetUniformLocation(b.program, gl.Str("uProjection\x00"))

	b.whiteTexture = createWhiteTexture()

	b.fb, err = newFramebuffer(int32(cfg.SurfaceWidth), int32(cfg.SurfaceHeight))
	if err != nil {
		b.Close()
		return nil, err
	}

	return b, nil
}

// Close releases GL resources, the context, and SDL.
func (b *Backend) Close() {
	for _, mb := range b.meshes {
		mb.destroy()
	}
	b.meshes = make(map[*scene.Mesh]*meshBuffers)

	if b.whiteTexture != 0 {
		gl.DeleteTextures(1, &b.whiteTexture)
	}
	if b.fb != nil {
		b.fb.destroy()
		b.fb = nil
	}
	if b.program != 0 {
		gl.DeleteProgram(b.program)
		b.program = 0
	}
	if b.glContext != nil {
		sdl.GLDeleteContext(b.glContext)
		b.glContext = nil
	}
	if b.sdlWindow != nil {
		b.sdlWindow.Destroy()
		b.sdlWindow = nil
	}
	sdl.Quit()
}

// Size returns the logical surface size.
func (b *Backend) Size() (int, int) {
	return b.width, b.height
}

// SetSize sets the logical surface size.
func (b *Backend) SetSize(width, height int) {
	b.width = width
	b.height = height
}

// PixelRatio returns the device pixel ratio.
func (b *Backend) PixelRatio() float64 {
	return b.pixelRatio
}

// SetPixelRatio sets the device pixel ratio.
func (b *Backend) SetPixelRatio(ratio float64) {
	if ratio <= 0 {
		ratio = 1
	}
	b.pixelRatio = ratio
}

// ClearColor returns the current clear color.
func (b *Backend) ClearColor() color.NRGBA {
	return b.clearColor
}

// SetClearColor sets the clear color used when the scene has no background.
func (b *Backend) SetClearColor(c color.NRGBA) {
	b.clearColor = c
}

// devicePixels returns the surface size in physical pixels.
func (b *Backend) devicePixels() (int32, int32) {
	w := int32(float64(b.width)*b.pixelRatio + 0.5)
	h := int32(float64(b.height)*b.pixelRatio + 0.5)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// Render draws the scene through the camera into the offscreen target.
func (b *Backend) Render(s *scene.Scene, cam *camera.Camera) error {
	pw, ph := b.devicePixels()
	if err := b.fb.resize(pw, ph); err != nil {
		return err
	}

	b.fb.bind()
	defer b.fb.unbind()

	clear := b.clearColor
	if s.Background != nil {
		clear = *s.Background
	}
	gl.ClearColor(
		float32(clear.R)/255,
		float32(clear.G)/255,
		float32(clear.B)/255,
		float32(clear.A)/255,
	)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	if s.Root == nil {
		return nil
	}

	gl.UseProgram(b.program)

	view := cam.ViewMatrix()
	proj := cam.ProjectionMatrix()
	gl.UniformMatrix4fv(b.uView, 1, false, view.Ptr())
	gl.UniformMatrix4fv(b.uProjection, 1, false, proj.Ptr())

	b.drawNode(s.Root, geom.Identity())
	return nil
}

func (b *Backend) drawNode(n *scene.Node, parent geom.Mat4) {
	world := parent.Mul(n.LocalMatrix())

	if n.Mesh != nil {
		mb := b.buffersFor(n.Mesh)
		if mb != nil {
			gl.UniformMatrix4fv(b.uModel, 1, false, world.Ptr())
			gl.ActiveTexture(gl.TEXTURE0)
			gl.BindTexture(gl.TEXTURE_2D, mb.texture)
			gl.BindVertexArray(mb.vao)
			gl.DrawElements(gl.TRIANGLES, mb.indexCount, gl.UNSIGNED_INT, nil)
			gl.BindVertexArray(0)
		}
	}

	for _, child := range n.Children {
		b.drawNode(child, world)
	}
}

// ReadPixels returns the framebuffer content, top row first.
func (b *Backend) ReadPixels() (*image.NRGBA, error) {
	if b.fb == nil {
		return nil, fmt.Errorf("no framebuffer")
	}

	w, h := int(b.fb.width), int(b.fb.height)
	pixels := make([]byte, w*h*4)

	b.fb.bind()
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	b.fb.unbind()

	// Flip vertically since OpenGL has origin at bottom-left.
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	rowSize := w * 4
	for y := 0; y < h; y++ {
		srcOffset := (h - 1 - y) * rowSize
		dstOffset := y * img.Stride
		copy(img.Pix[dstOffset:dstOffset+rowSize], pixels[srcOffset:srcOffset+rowSize])
	}
	return img, nil
}

// buffersFor uploads the mesh on first use and caches the GL objects.
func (b *Backend) buffersFor(m *scene.Mesh) *meshBuffers {
	if mb, ok := b.meshes[m]; ok {
		return mb
	}
	if len(m.Positions) == 0 || len(m.Indices) == 0 {
		return nil
	}

	mb := &meshBuffers{indexCount: int32(len(m.Indices))}

	// Interleave position/normal/uv
	vertCount := len(m.Positions) / 3
	interleaved := make([]float32, 0, vertCount*8)
	for i := 0; i < vertCount; i++ {
		interleaved = append(interleaved, m.Positions[i*3], m.Positions[i*3+1], m.Positions[i*3+2])
		if len(m.Normals) >= (i+1)*3 {
			interleaved = append(interleaved, m.Normals[i*3], m.Normals[i*3+1], m.Normals[i*3+2])
		} else {
			interleaved = append(interleaved, 0, 1, 0)
		}
		if len(m.UVs) >= (i+1)*2 {
			interleaved = append(interleaved, m.UVs[i*2], m.UVs[i*2+1])
		} else {
			interleaved = append(interleaved, 0, 0)
		}
	}

	gl.GenVertexArrays(1, &mb.vao)
	gl.BindVertexArray(mb.vao)

	gl.GenBuffers(1, &mb.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, mb.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(interleaved)*4, unsafe.Pointer(&interleaved[0]), gl.STATIC_DRAW)

	gl.GenBuffers(1, &mb.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, mb.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, unsafe.Pointer(&m.Indices[0]), gl.STATIC_DRAW)

	stride := int32(8 * 4)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, nil)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(3*4)))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(6*4)))
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)

	if m.Texture != nil && len(m.Texture.Pix) == m.Texture.Width*m.Texture.Height*4 {
		mb.texture = uploadTexture(m.Texture)
	} else {
		mb.texture = b.whiteTexture
	}

	b.meshes[m] = mb
	return mb
}

func (mb *meshBuffers) destroy() {
	if mb.vao != 0 {
		gl.DeleteVertexArrays(1, &mb.vao)
	}
	if mb.vbo != 0 {
		gl.DeleteBuffers(1, &mb.vbo)
	}
	if mb.ebo != 0 {
		gl.DeleteBuffers(1, &mb.ebo)
	}
}

func uploadTexture(t *scene.Texture) uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(t.Width), int32(t.Height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(t.Pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return tex
}

func createWhiteTexture() uint32 {
	white := []byte{255, 255, 255, 255}
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, 1, 1, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(white))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return tex
}
