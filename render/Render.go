// Package render draws simulation frames as PNG images
package render

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"

	env "github.com/SenasCodes/AA-Projeto/environment"
)

// cellSize is the side of one grid cell in pixels
const cellSize = 32

// Renderer rasterizes an environment's grid into PNG frames, one file
// per step, under its output directory
type Renderer struct {
	outDir string
}

// New creates a Renderer writing frames under outDir
func New(outDir string) (*Renderer, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, err
	}
	return &Renderer{outDir: outDir}, nil
}

// fill colors for each cell kind
func cellColor(c env.Cell) (r, g, b float64) {
	switch c {
	case env.CellObstacle:
		return 0.25, 0.25, 0.25
	case env.CellGoal:
		return 1.0, 0.85, 0.2
	case env.CellResource:
		return 0.2, 0.7, 0.3
	case env.CellNest:
		return 0.6, 0.4, 0.2
	case env.CellAgent:
		return 0.2, 0.4, 0.9
	}
	return 0.95, 0.95, 0.95
}

// Frame renders the current grid and writes it as
// episode_<e>_step_<s>.png
func (r *Renderer) Frame(world env.Environment, episode, step int) error {
	width, height := world.Dims()
	dc := gg.NewContext(width*cellSize, height*cellSize)

	dc.SetRGB(1, 1, 1)
	dc.Clear()

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			cell := world.CellAt(env.Position{X: x, Y: y})
			dc.SetRGB(cellColor(cell))
			dc.DrawRectangle(float64(x*cellSize), float64(y*cellSize),
				cellSize, cellSize)
			dc.Fill()
		}
	}

	// Grid lines
	dc.SetRGB(0.8, 0.8, 0.8)
	dc.SetLineWidth(1)
	for x := 0; x <= width; x++ {
		dc.DrawLine(float64(x*cellSize), 0, float64(x*cellSize),
			float64(height*cellSize))
	}
	for y := 0; y <= height; y++ {
		dc.DrawLine(0, float64(y*cellSize), float64(width*cellSize),
			float64(y*cellSize))
	}
	dc.Stroke()

	name := fmt.Sprintf("episode_%03d_step_%04d.png", episode, step)
	return dc.SavePNG(filepath.Join(r.outDir, name))
}
