package common

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/carbocation/pfx"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgsvg"
)

// Composite is a grid of aligned plots rendered onto one canvas, with
// the export size the layout was computed for. Nil cells are blank.
type Composite struct {
	Plots  [][]*plot.Plot
	Width  vg.Length
	Height vg.Length
}

func (c *Composite) cols() int {
	n := 0
	for _, row := range c.Plots {
		if len(row) > n {
			n = len(row)
		}
	}
	return n
}

// draw aligns and draws every plot onto dc.
func (c *Composite) draw(dc draw.Canvas) {
	t := draw.Tiles{
		Rows: len(c.Plots),
		Cols: c.cols(),
		PadX: vg.Points(4),
		PadY: vg.Points(4),
	}
	// Pad ragged rows so Align sees a rectangular grid.
	grid := make([][]*plot.Plot, len(c.Plots))
	for i, row := range c.Plots {
		grid[i] = make([]*plot.Plot, t.Cols)
		copy(grid[i], row)
	}
	canvases := plot.Align(grid, t, dc)
	for i, row := range grid {
		for j, p := range row {
			if p != nil {
				p.Draw(canvases[i][j])
			}
		}
	}
}

// WriteSVG renders the composite as SVG.
func (c *Composite) WriteSVG(w io.Writer) error {
	canvas := vgsvg.New(c.Width, c.Height)
	c.draw(draw.New(canvas))
	_, err := canvas.WriteTo(w)
	return err
}

// WritePNG renders the composite as PNG.
func (c *Composite) WritePNG(w io.Writer) error {
	canvas := vgimg.New(c.Width, c.Height)
	c.draw(draw.New(canvas))
	png := vgimg.PngCanvas{Canvas: canvas}
	_, err := png.WriteTo(w)
	return err
}

// Save writes the composite to a file, picking the format from the
// extension (.svg or .png).
func (c *Composite) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return pfx.Err(err)
	}
	defer f.Close()

	switch filepath.Ext(path) {
	case ".svg":
		return c.WriteSVG(f)
	case ".png":
		return c.WritePNG(f)
	}
	return fmt.Errorf("unsupported extension %q: want .svg or .png", filepath.Ext(path))
}
