package client

import (
	"strings"

	"dgrsdt/journals/internal/config"
	"dgrsdt/journals/internal/domain"

	"github.com/PuerkitoBio/goquery"
	"github.com/lithammer/fuzzysearch/fuzzy"
	log "github.com/sirupsen/logrus"
)

// panelAttributes lists the button attributes that may point at the panel
// holding a subcategory's table, in lookup order.
var panelAttributes = []string{"data-target", "data-bs-target", "aria-controls", "href"}

type directoryParser struct {
	selectors config.SelectorConfig
}

func newDirectoryParser(selectors config.SelectorConfig) *directoryParser {
	return &directoryParser{
		selectors: selectors,
	}
}

func (p *directoryParser) HasSearchInput(doc *goquery.Document) bool {
	return doc.Find(p.selectors.SearchInput).Length() > 0
}

// ParseRows reads every journal row under scope.
func (p *directoryParser) ParseRows(scope *goquery.Selection) []domain.CandidateRow {
	rows := make([]domain.CandidateRow, 0)

	scope.Find(p.selectors.Row).Each(func(i int, s *goquery.Selection) {
		row := domain.CandidateRow{
			Title:   cleanText(s.Find(p.selectors.Title).First().Text()),
			Columns: make([]string, 0, 4),
		}
		s.Find(p.selectors.Column).Each(func(j int, col *goquery.Selection) {
			row.Columns = append(row.Columns, cleanText(col.Text()))
		})

		if row.Title == "" && len(row.Columns) == 0 {
			return
		}
		rows = append(rows, row)
	})

	log.Debugf("Parsed %d rows", len(rows))
	return rows
}

// SubcategoryButton returns the selector control for id, or an empty selection.
func (p *directoryParser) SubcategoryButton(doc *goquery.Document, id domain.SubcategoryID) *goquery.Selection {
	return doc.Find(`button[id="` + id.String() + `"]`).First()
}

// SubcategoryPanel resolves the in-page panel a selector button controls.
// It returns nil when the button references nothing on the page.
func (p *directoryParser) SubcategoryPanel(doc *goquery.Document, button *goquery.Selection) *goquery.Selection {
	for _, attr := range panelAttributes {
		ref, exists := button.Attr(attr)
		ref = strings.TrimSpace(ref)
		if !exists || ref == "" {
			continue
		}

		var panel *goquery.Selection
		switch {
		case strings.HasPrefix(ref, "#"):
			panel = doc.Find(`[id="` + strings.TrimPrefix(ref, "#") + `"]`)
		case attr == "aria-controls":
			panel = doc.Find(`[id="` + ref + `"]`)
		case attr == "href":
			continue // a link to another page, not a panel
		default:
			panel = doc.Find(ref)
		}

		if panel.Length() > 0 {
			return panel.First()
		}
	}
	return nil
}

// FilterRows keeps the rows the site's search box would show for query: the
// query must appear, in order, within the row text once case and diacritics
// are folded.
func FilterRows(rows []domain.CandidateRow, query string) []domain.CandidateRow {
	query = strings.TrimSpace(query)
	if query == "" {
		return rows
	}

	filtered := make([]domain.CandidateRow, 0, len(rows))
	for _, row := range rows {
		text := row.Title + " " + strings.Join(row.Columns, " ")
		if fuzzy.MatchNormalizedFold(query, text) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
