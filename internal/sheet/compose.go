package sheet

import (
	"image"
	"image/draw"

	"github.com/pkg/errors"
)

// Compose tiles the frames into a columns×rows grid raster. The first
// frame's dimensions define the cell size; frames of a different size
// are drawn at native size into their cell, which may misalign the
// grid. That is accepted caller risk, not corrected here.
func Compose(frames []*image.NRGBA) (*image.NRGBA, error) {
	if len(frames) == 0 {
		return nil, errors.New("sheet: no frames to compose")
	}

	cellW := frames[0].Bounds().Dx()
	cellH := frames[0].Bounds().Dy()
	columns, rows := Layout(len(frames))

	out := image.NewNRGBA(image.Rect(0, 0, cellW*columns, cellH*rows))

	for i, frame := range frames {
		col, row := CellPosition(i, columns)
		origin := image.Pt(col*cellW, row*cellH)
		r := image.Rectangle{Min: origin, Max: origin.Add(frame.Bounds().Size())}
		draw.Draw(out, r, frame, frame.Bounds().Min, draw.Src)
	}

	return out, nil
}
