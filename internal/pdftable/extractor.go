// Package pdftable reads the tables printed in PDF documents as rows of
// text cells.
package pdftable

import (
	"context"
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	log "github.com/sirupsen/logrus"
)

func init() {
	// pdfcpu would otherwise create a config directory under the user's home.
	api.DisableConfigDir()
}

type Extractor struct {
	layout Layout
}

func NewExtractor(layout Layout) *Extractor {
	return &Extractor{layout: layout}
}

// Extract returns the rows of every page in order. Cells are trimmed and rows
// with no text are dropped; the result is never nil.
func (e *Extractor) Extract(ctx context.Context, path string) ([][]string, error) {
	pageCount, err := countPages(path)
	if err != nil {
		return nil, err
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF %s: %w", path, err)
	}
	defer f.Close()

	rows := make([][]string, 0)
	for i := 1; i <= pageCount && i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		glyphs, err := pageGlyphs(r, i)
		if err != nil {
			return nil, fmt.Errorf("failed to read page %d of %s: %w", i, path, err)
		}

		pageRows := e.layout.Rows(glyphs)
		log.Debugf("Page %d of %s: %d glyphs, %d rows", i, path, len(glyphs), len(pageRows))
		rows = append(rows, pageRows...)
	}

	return rows, nil
}

// countPages validates the document with pdfcpu before it is parsed.
func countPages(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open PDF %s: %w", path, err)
	}
	defer f.Close()

	pageCount, err := api.PageCount(f, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to get page count for %s: %w", path, err)
	}
	return pageCount, nil
}

func pageGlyphs(r *pdf.Reader, num int) ([]Glyph, error) {
	return recoverGlyphs(func() []Glyph {
		page := r.Page(num)
		if page.V.IsNull() {
			return nil
		}

		var glyphs []Glyph
		for _, t := range page.Content().Text {
			glyphs = append(glyphs, Glyph{
				X:    t.X,
				Y:    t.Y,
				W:    t.W,
				Size: t.FontSize,
				S:    t.S,
			})
		}
		return glyphs
	})
}

// recoverGlyphs turns a panic of the content stream parser, which happens on
// some malformed pages, into an error.
func recoverGlyphs(read func() []Glyph) (glyphs []Glyph, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			glyphs = nil
			err = fmt.Errorf("malformed page content: %v", rec)
		}
	}()

	return read(), nil
}
