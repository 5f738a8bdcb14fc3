package render

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/forensica/triage/internal/graph"
)

var (
	rgbaThreatFile = color.RGBA{R: 0xe6, G: 0x5c, B: 0x5c, A: 0xff}
	rgbaSafeFile   = color.RGBA{R: 0x7c, G: 0xcd, B: 0x7c, A: 0xff}
	rgbaTag        = color.RGBA{R: 0x9a, G: 0xc4, B: 0xe6, A: 0xff}
	rgbaEdge       = color.RGBA{R: 0xb0, G: 0xb0, B: 0xb0, A: 0xff}
)

// WritePNG renders the graph as a PNG with nodes on a circle. It is a quick
// visual check, not a layout engine; use WriteDOT with Graphviz for anything
// beyond a few dozen nodes.
func WritePNG(w io.Writer, g *graph.Graph, size int) error {
	if size <= 0 {
		size = 800
	}
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}

	nodes := g.Nodes()
	n := len(nodes)
	if n == 0 {
		return png.Encode(w, img)
	}

	center := float64(size) / 2
	radius := center * 0.8
	pos := make(map[string]image.Point, n)
	for i, node := range nodes {
		angle := 2 * math.Pi * float64(i) / float64(n)
		pos[node.ID] = image.Point{
			X: int(center + radius*math.Cos(angle)),
			Y: int(center + radius*math.Sin(angle)),
		}
	}

	for _, e := range g.Edges() {
		drawLine(img, pos[e[0]], pos[e[1]], rgbaEdge)
	}
	for _, node := range nodes {
		c := rgbaTag
		r := 5
		if node.Kind == graph.KindFile {
			r = 7
			if node.IsThreat {
				c = rgbaThreatFile
			} else {
				c = rgbaSafeFile
			}
		}
		drawDisc(img, pos[node.ID], r, c)
	}

	return png.Encode(w, img)
}

func drawDisc(img *image.RGBA, p image.Point, r int, c color.RGBA) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				img.SetRGBA(p.X+dx, p.Y+dy, c)
			}
		}
	}
}

// drawLine draws a line between two points using Bresenham's algorithm.
func drawLine(img *image.RGBA, a, b image.Point, c color.RGBA) {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	err := dx + dy
	x, y := a.X, a.Y
	for {
		img.SetRGBA(x, y, c)
		if x == b.X && y == b.Y {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
