package pdftable

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// word lays out s as one glyph per rune, 5pt wide, at size 10.
func word(x, y float64, s string) []Glyph {
	var out []Glyph
	for i, r := range []rune(s) {
		out = append(out, Glyph{X: x + float64(i)*5, Y: y, W: 5, Size: 10, S: string(r)})
	}
	return out
}

func glyphs(parts ...[]Glyph) []Glyph {
	var out []Glyph
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func TestLayout_Rows(t *testing.T) {
	l := DefaultLayout()

	t.Run("grid with aligned columns", func(t *testing.T) {
		page := glyphs(
			word(50, 700, "Title"), word(200, 700, "ISSN"),
			word(50, 680, "Nature"), word(200, 680, "0028-0836"),
			word(50, 660, "Kyklos"), word(200, 660, "0023-5962"),
		)

		assert.Equal(t, [][]string{
			{"Title", "ISSN"},
			{"Nature", "0028-0836"},
			{"Kyklos", "0023-5962"},
		}, l.Rows(page))
	})

	t.Run("missing cell keeps its column", func(t *testing.T) {
		page := glyphs(
			word(50, 700, "A"), word(200, 700, "B"), word(350, 700, "C"),
			word(50, 680, "x"), word(350, 680, "z"),
		)

		assert.Equal(t, [][]string{
			{"A", "B", "C"},
			{"x", "", "z"},
		}, l.Rows(page))
	})

	t.Run("word gaps become spaces", func(t *testing.T) {
		// "Journal" ends at 85; "of" starts 4pt later, below the cell gap.
		page := glyphs(word(50, 700, "Journal"), word(89, 700, "of"), word(200, 700, "X"))

		assert.Equal(t, [][]string{{"Journal of", "X"}}, l.Rows(page))
	})

	t.Run("baseline drift stays on one line", func(t *testing.T) {
		page := glyphs(word(50, 700, "A"), word(200, 702, "B"))

		assert.Equal(t, [][]string{{"A", "B"}}, l.Rows(page))
	})

	t.Run("unordered input", func(t *testing.T) {
		page := glyphs(word(200, 680, "d"), word(50, 700, "a"), word(50, 680, "c"), word(200, 700, "b"))

		assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}}, l.Rows(page))
	})

	t.Run("blank rows dropped and cells trimmed", func(t *testing.T) {
		page := glyphs(
			word(50, 700, "A "), word(200, 700, "B"),
			word(50, 680, "   "),
		)

		assert.Equal(t, [][]string{{"A", "B"}}, l.Rows(page))
	})

	t.Run("isolated space glyph adds no column", func(t *testing.T) {
		page := glyphs(
			word(50, 700, "A"), word(200, 700, "B"),
			word(50, 680, "x"), word(120, 680, " "), word(200, 680, "y"),
		)

		assert.Equal(t, [][]string{{"A", "B"}, {"x", "y"}}, l.Rows(page))
	})

	t.Run("space glyphs inside a cell", func(t *testing.T) {
		// A space glyph between words, as text extractors emit it.
		page := glyphs(word(50, 700, "Revue de"), word(200, 700, "X"))

		assert.Equal(t, [][]string{{"Revue de", "X"}}, l.Rows(page))
	})

	t.Run("empty page", func(t *testing.T) {
		assert.Equal(t, [][]string{}, l.Rows(nil))
	})
}

func TestColumnIndex(t *testing.T) {
	cols := []float64{50, 200, 350}
	assert.Equal(t, 0, columnIndex(cols, 10))
	assert.Equal(t, 0, columnIndex(cols, 52))
	assert.Equal(t, 1, columnIndex(cols, 200))
	assert.Equal(t, 2, columnIndex(cols, 400))
}
