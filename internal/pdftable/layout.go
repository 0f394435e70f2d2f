package pdftable

import (
	"math"
	"sort"
	"strings"
)

// Glyph is a piece of text placed on a page. Y grows upwards, as in PDF
// user space.
type Glyph struct {
	X, Y float64
	W    float64
	Size float64
	S    string
}

// Layout groups glyphs into a grid the way a stream table reader does: glyphs
// sharing a baseline form a line, wide horizontal gaps split a line into
// cells, and cell left edges are clustered into page-wide columns.
type Layout struct {
	LineTolerance   float64 // Max baseline drift within a line, as a fraction of font size
	CellGap         float64 // Min gap separating two cells, as a fraction of font size
	ColumnTolerance float64 // Max left-edge spread within a column, in points
}

func DefaultLayout() Layout {
	return Layout{
		LineTolerance:   0.5,
		CellGap:         1.0,
		ColumnTolerance: 6.0,
	}
}

// wordGap is the gap, as a fraction of font size, above which a space is
// inserted between glyphs of the same cell.
const wordGap = 0.2

type segment struct {
	x0, x1 float64
	text   strings.Builder
}

type line struct {
	y        float64
	glyphs   []Glyph
	segments []*segment
}

// Rows lays out one page of glyphs. Every row has one cell per detected
// column; cells are trimmed and rows with no text are dropped.
func (l Layout) Rows(glyphs []Glyph) [][]string {
	lines := l.lines(glyphs)
	if len(lines) == 0 {
		return [][]string{}
	}

	var edges []float64
	for _, ln := range lines {
		ln.segments = l.segments(ln.glyphs)
		for _, seg := range ln.segments {
			edges = append(edges, seg.x0)
		}
	}
	columns := l.columns(edges)

	rows := make([][]string, 0, len(lines))
	for _, ln := range lines {
		cells := make([]string, len(columns))
		for _, seg := range ln.segments {
			i := columnIndex(columns, seg.x0)
			text := strings.TrimSpace(seg.text.String())
			if cells[i] == "" {
				cells[i] = text
			} else if text != "" {
				cells[i] += " " + text
			}
		}

		if !isEmptyRow(cells) {
			rows = append(rows, cells)
		}
	}
	return rows
}

func (l Layout) lines(glyphs []Glyph) []*line {
	// Blank glyphs carry no text and would anchor empty columns; word gaps
	// are rebuilt from glyph positions instead.
	sorted := make([]Glyph, 0, len(glyphs))
	for _, g := range glyphs {
		if strings.TrimSpace(g.S) != "" {
			sorted = append(sorted, g)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var lines []*line
	var cur *line
	for _, g := range sorted {
		if cur == nil || math.Abs(cur.y-g.Y) > l.LineTolerance*fontSize(g) {
			cur = &line{y: g.Y}
			lines = append(lines, cur)
		}
		cur.glyphs = append(cur.glyphs, g)
	}
	return lines
}

func (l Layout) segments(glyphs []Glyph) []*segment {
	sort.SliceStable(glyphs, func(i, j int) bool { return glyphs[i].X < glyphs[j].X })

	var segs []*segment
	var cur *segment
	for _, g := range glyphs {
		size := fontSize(g)
		if cur != nil {
			gap := g.X - cur.x1
			switch {
			case gap > l.CellGap*size:
				cur = nil
			case gap > wordGap*size && !strings.HasSuffix(cur.text.String(), " ") && !strings.HasPrefix(g.S, " "):
				cur.text.WriteString(" ")
			}
		}
		if cur == nil {
			cur = &segment{x0: g.X, x1: g.X}
			segs = append(segs, cur)
		}
		cur.text.WriteString(g.S)
		cur.x1 = math.Max(cur.x1, g.X+g.W)
	}
	return segs
}

// columns clusters left edges and returns the left bound of each cluster.
func (l Layout) columns(edges []float64) []float64 {
	if len(edges) == 0 {
		return nil
	}
	sort.Float64s(edges)

	columns := []float64{edges[0]}
	prev := edges[0]
	for _, x := range edges[1:] {
		if x-prev > l.ColumnTolerance {
			columns = append(columns, x)
		}
		prev = x
	}
	return columns
}

func columnIndex(columns []float64, x float64) int {
	i := sort.Search(len(columns), func(i int) bool { return columns[i] > x })
	if i == 0 {
		return 0
	}
	return i - 1
}

func fontSize(g Glyph) float64 {
	if g.Size <= 0 {
		return 1
	}
	return g.Size
}

func isEmptyRow(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
