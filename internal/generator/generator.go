// Package generator picks random practice targets on the virtual desktop.
package generator

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/keygrid/internal/grid"
)

// Generator produces randomized drill targets.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a deterministic Generator.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Generate picks a point uniformly over the combined screen area.
func (g *Generator) Generate(screens []grid.Rect) grid.Point {
	if len(screens) == 0 {
		screens = []grid.Rect{grid.DefaultScreen}
	}
	weights := make([]float64, len(screens))
	for i, s := range screens {
		weights[i] = s.Width() * s.Height()
	}
	return g.pointIn(screens[g.pick(weights)])
}

// GenerateWeighted picks a first-level grid cell and a point inside it.
// Cells whose key is in weakSet weigh 1+factor, the rest weigh 1.
func (g *Generator) GenerateWeighted(slices []grid.Slice, weakSet map[rune]struct{}, factor float64) grid.Point {
	var cells []grid.Rect
	var weights []float64
	for _, sl := range slices {
		rows, cols := sl.Layout.Rows(), sl.Layout.Columns()
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				cell, ok := sl.Screen.Subdivide(rows, cols, r, c)
				if !ok {
					continue
				}
				w := 1.0
				if key, ok := sl.Layout.Label(r, c); ok {
					if _, weak := weakSet[key]; weak {
						w += factor
					}
				}
				cells = append(cells, cell)
				weights = append(weights, w)
			}
		}
	}
	if len(cells) == 0 {
		screens := make([]grid.Rect, len(slices))
		for i, sl := range slices {
			screens[i] = sl.Screen
		}
		return g.Generate(screens)
	}
	return g.pointIn(cells[g.pick(weights)])
}

func (g *Generator) pick(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	r := g.rnd.Float64() * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if r < acc {
			return i
		}
	}
	return len(weights) - 1
}

func (g *Generator) pointIn(r grid.Rect) grid.Point {
	return grid.Point{
		X: r.MinX() + g.rnd.Float64()*r.Width(),
		Y: r.MinY() + g.rnd.Float64()*r.Height(),
	}
}
