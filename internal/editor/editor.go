// Package editor loads an exported frame sequence back from disk and
// lets individual frames be toggled in and out of the playback loop
// and the re-exported sprite sheet.
package editor

import (
	"fmt"
	"image"
	"image/draw"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/spriteforge/internal/export"
	"github.com/Faultbox/spriteforge/internal/fsbridge"
	"github.com/Faultbox/spriteforge/internal/logger"
	"github.com/Faultbox/spriteforge/internal/sheet"
)

// Ingest failures.
var (
	ErrNoFrames       = errors.New("editor: no loadable frames in directory")
	ErrNoActiveFrames = errors.New("editor: all frames disabled")
)

// rasterExts are the file extensions considered frame candidates.
var rasterExts = map[string]bool{
	".png": true,
	".bmp": true,
	".tga": true,
}

var frameNumber = regexp.MustCompile(`\d+`)

// Frame is one loaded raster with its toggle state.
type Frame struct {
	Filename string
	Image    image.Image
	Enabled  bool
}

// Editor holds an ingested frame sequence and its playback state.
type Editor struct {
	bridge fsbridge.Bridge

	mu      sync.Mutex
	frames  []*Frame
	current int
	fps     int
	stop    chan struct{}
	stopped sync.WaitGroup
}

// New returns an editor reading through the given bridge.
func New(bridge fsbridge.Bridge) *Editor {
	return &Editor{bridge: bridge, fps: 12}
}

// Ingest loads every frame candidate from dir, in frame-number order.
// Files whose name carries no number keep their listing position ahead
// of numbered ones; files that fail to decode are skipped with a log
// line. Fails only when nothing loadable remains.
func (e *Editor) Ingest(dir string) error {
	names, err := e.bridge.ReadDirectory(dir)
	if err != nil {
		return errors.Wrapf(err, "editor: reading %s", dir)
	}

	candidates := make([]string, 0, len(names))
	for _, name := range names {
		if rasterExts[strings.ToLower(filepath.Ext(name))] {
			candidates = append(candidates, name)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return frameOrdinal(candidates[i]) < frameOrdinal(candidates[j])
	})

	var frames []*Frame
	for _, name := range candidates {
		img, err := e.bridge.ReadImageFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("skipping unreadable frame",
				zap.String("file", name),
				zap.Error(err),
			)
			continue
		}
		frames = append(frames, &Frame{Filename: name, Image: img, Enabled: true})
	}
	if len(frames) == 0 {
		return ErrNoFrames
	}

	e.Pause()
	e.mu.Lock()
	e.frames = frames
	e.current = 0
	e.mu.Unlock()

	logger.Info("frames ingested", zap.String("dir", dir), zap.Int("count", len(frames)))
	return nil
}

// frameOrdinal extracts the first number embedded in a file name, so
// frame_2 sorts before frame_10. Names without a number sort first.
func frameOrdinal(name string) int {
	m := frameNumber.FindString(name)
	if m == "" {
		return -1
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return -1
	}
	return n
}

// Len returns the number of ingested frames.
func (e *Editor) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.frames)
}

// Frame returns the frame at index, or false when out of range.
func (e *Editor) Frame(idx int) (Frame, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if idx < 0 || idx >= len(e.frames) {
		return Frame{}, false
	}
	return *e.frames[idx], true
}

// Toggle flips the frame's membership in the active set and returns
// its new state. Out-of-range indices report false without change.
func (e *Editor) Toggle(idx int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if idx < 0 || idx >= len(e.frames) {
		return false
	}
	e.frames[idx].Enabled = !e.frames[idx].Enabled
	return e.frames[idx].Enabled
}

// ActiveFrames returns the enabled frames in sequence order.
func (e *Editor) ActiveFrames() []Frame {
	e.mu.Lock()
	defer e.mu.Unlock()
	var active []Frame
	for _, f := range e.frames {
		if f.Enabled {
			active = append(active, *f)
		}
	}
	return active
}

// CurrentFrame returns the frame under the playback cursor.
func (e *Editor) CurrentFrame() (Frame, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.frames) == 0 {
		return Frame{}, false
	}
	return *e.frames[e.current], true
}

// Play starts looping over the active frames at the display rate.
// Starting while already playing restarts the loop. A fully disabled
// sequence does not start.
func (e *Editor) Play(fps int) {
	e.Pause()

	e.mu.Lock()
	if fps > 0 {
		e.fps = fps
	}
	if !e.anyEnabledLocked() {
		e.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	e.stop = stop
	interval := time.Second / time.Duration(e.fps)
	e.mu.Unlock()

	e.stopped.Add(1)
	go func() {
		defer e.stopped.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if !e.advance() {
					return
				}
			}
		}
	}()
}

// Pause halts playback and waits for the loop to exit.
func (e *Editor) Pause() {
	e.mu.Lock()
	if e.stop != nil {
		close(e.stop)
		e.stop = nil
	}
	e.mu.Unlock()
	e.stopped.Wait()
}

// Playing reports whether the loop is running.
func (e *Editor) Playing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stop != nil
}

// advance moves the cursor to the next enabled frame, wrapping at the
// end. When no frame is enabled anymore the loop halts and advance
// reports false.
func (e *Editor) advance() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := len(e.frames)
	for i := 1; i <= n; i++ {
		idx := (e.current + i) % n
		if e.frames[idx].Enabled {
			e.current = idx
			return true
		}
	}

	if e.stop != nil {
		close(e.stop)
		e.stop = nil
	}
	return false
}

// ExportActiveSheet composes the active frames into a sprite sheet and
// writes it under dir. The cell size follows the first active frame.
func (e *Editor) ExportActiveSheet(dir, name, format string) error {
	active := e.ActiveFrames()
	if len(active) == 0 {
		return ErrNoActiveFrames
	}

	rasters := make([]*image.NRGBA, len(active))
	for i, f := range active {
		rasters[i] = toNRGBA(f.Image)
	}

	img, err := sheet.Compose(rasters)
	if err != nil {
		return errors.Wrap(err, "editor: composing sheet")
	}
	data, err := sheet.Encode(img, format)
	if err != nil {
		return errors.Wrap(err, "editor: encoding sheet")
	}

	if err := e.bridge.CreateDirectory(dir); err != nil {
		return errors.Wrapf(err, "editor: creating %s", dir)
	}
	cols, rows := sheet.Layout(len(rasters))
	safe := export.SanitizeName(name)
	path := filepath.Join(dir, fmt.Sprintf("%s_spritesheet_%dx%d%s", safe, cols, rows, sheet.Ext(format)))
	if err := e.bridge.SaveFile(path, data); err != nil {
		return errors.Wrapf(err, "editor: writing %s", path)
	}

	logger.Info("sheet exported", zap.String("path", path), zap.Int("frames", len(rasters)))
	return nil
}

func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		return n
	}
	out := image.NewNRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	return out
}
