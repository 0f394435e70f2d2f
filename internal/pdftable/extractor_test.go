package pdftable

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cell is one string drawn in Helvetica 10 at x, y.
type cell struct {
	x, y float64
	s    string
}

// writePDF builds a minimal PDF with one content stream per page and a
// correct cross-reference table.
func writePDF(t *testing.T, path string, pages ...[]cell) {
	t.Helper()

	var objects []string
	kids := ""
	pageCount := len(pages)
	// 1: catalog, 2: page tree, 3: font, then a page and its content per page.
	for i, cells := range pages {
		pageObj := 4 + 2*i
		kids += fmt.Sprintf("%d 0 R ", pageObj)

		var content bytes.Buffer
		for _, c := range cells {
			fmt.Fprintf(&content, "BT /F1 10 Tf %.0f %.0f Td (%s) Tj ET\n", c.x, c.y, c.s)
		}

		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", pageObj+1),
			fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", content.Len(), content.String()),
		)
	}
	objects = append([]string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, pageCount),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}, objects...)

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestExtractor_Extract(t *testing.T) {
	e := NewExtractor(DefaultLayout())
	dir := t.TempDir()

	t.Run("single page table", func(t *testing.T) {
		path := filepath.Join(dir, "ranking.pdf")
		writePDF(t, path, []cell{
			{50, 700, "Title"}, {200, 700, "ISSN"},
			{50, 680, "Nature"}, {200, 680, "0028-0836"},
		})

		rows, err := e.Extract(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"Title", "ISSN"}, {"Nature", "0028-0836"}}, rows)
	})

	t.Run("pages in order", func(t *testing.T) {
		path := filepath.Join(dir, "two_pages.pdf")
		writePDF(t, path,
			[]cell{{50, 700, "Kyklos"}, {200, 700, "0023-5962"}},
			[]cell{{50, 700, "Abacus"}, {200, 700, "0001-3072"}},
		)

		rows, err := e.Extract(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"Kyklos", "0023-5962"}, {"Abacus", "0001-3072"}}, rows)
	})

	t.Run("page without text", func(t *testing.T) {
		path := filepath.Join(dir, "blank.pdf")
		writePDF(t, path, nil)

		rows, err := e.Extract(context.Background(), path)
		require.NoError(t, err)
		assert.NotNil(t, rows)
		assert.Empty(t, rows)
	})

	t.Run("cancelled context", func(t *testing.T) {
		path := filepath.Join(dir, "cancelled.pdf")
		writePDF(t, path, []cell{{50, 700, "Nature"}})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := e.Extract(ctx, path)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestExtractor_InvalidInput(t *testing.T) {
	e := NewExtractor(DefaultLayout())
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := e.Extract(context.Background(), filepath.Join(dir, "missing.pdf"))
		assert.Error(t, err)
	})

	t.Run("not a pdf", func(t *testing.T) {
		path := filepath.Join(dir, "fake.pdf")
		require.NoError(t, os.WriteFile(path, []byte("fake pdf"), 0o644))

		_, err := e.Extract(context.Background(), path)
		assert.ErrorContains(t, err, "page count")
	})
}

func TestRecoverGlyphs(t *testing.T) {
	glyphs, err := recoverGlyphs(func() []Glyph {
		panic("malformed PDF: unexpected token")
	})
	assert.Nil(t, glyphs)
	assert.ErrorContains(t, err, "malformed page content: malformed PDF: unexpected token")

	glyphs, err = recoverGlyphs(func() []Glyph {
		return []Glyph{{S: "A"}}
	})
	require.NoError(t, err)
	assert.Equal(t, []Glyph{{S: "A"}}, glyphs)
}
