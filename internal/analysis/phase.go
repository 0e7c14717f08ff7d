package analysis

import (
	"strings"

	"github.com/san-kum/seirb/internal/epidemic"
)

type Point struct {
	X, Y float64
}

// PhasePortrait2D is a trajectory projected onto two compartments.
type PhasePortrait2D struct {
	X, Y   epidemic.Compartment
	Points []Point
}

func PhasePortrait(tr *epidemic.Trajectory, x, y epidemic.Compartment) *PhasePortrait2D {
	if tr == nil {
		return nil
	}

	xs, ys := tr.Series(x), tr.Series(y)
	if xs == nil || ys == nil {
		return nil
	}

	portrait := &PhasePortrait2D{
		X:      x,
		Y:      y,
		Points: make([]Point, len(xs)),
	}
	for i := range xs {
		portrait.Points[i] = Point{X: xs[i], Y: ys[i]}
	}
	return portrait
}

// ToASCII draws the portrait on a width x height character canvas.
func (p *PhasePortrait2D) ToASCII(width, height int) string {
	if p == nil || len(p.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := p.Points[0].X, p.Points[0].X
	minY, maxY := p.Points[0].Y, p.Points[0].Y
	for _, pt := range p.Points {
		minX = min(minX, pt.X)
		maxX = max(maxX, pt.X)
		minY = min(minY, pt.Y)
		maxY = max(maxY, pt.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for _, pt := range p.Points {
		col := int((pt.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((pt.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	// starting point
	first := p.Points[0]
	col := int((first.X - minX) / rangeX * float64(width-1))
	row := height - 1 - int((first.Y-minY)/rangeY*float64(height-1))
	canvas[row][col] = 'o'

	var sb strings.Builder
	for _, r := range canvas {
		sb.WriteString(strings.TrimRight(string(r), " "))
		sb.WriteRune('\n')
	}
	return sb.String()
}
