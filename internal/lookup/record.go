package lookup

import (
	"fmt"
	"strings"

	"dgrsdt/journals/internal/domain"
)

// recordColumns is the number of leading columns a row needs: title,
// publisher, ISSN and EISSN.
const recordColumns = 4

// ExtractRecord builds a JournalRecord from a row's columns. Values are
// trimmed but otherwise passed through; ISSNs are not validated.
func ExtractRecord(columns []string, category domain.Category, subcategory domain.SubcategoryID) (*domain.JournalRecord, error) {
	if len(columns) < recordColumns {
		return nil, fmt.Errorf("%w: expected at least %d columns, got %d", domain.ErrMalformedRow, recordColumns, len(columns))
	}

	return &domain.JournalRecord{
		Title:       strings.TrimSpace(columns[0]),
		Publisher:   strings.TrimSpace(columns[1]),
		ISSN:        strings.TrimSpace(columns[2]),
		EISSN:       strings.TrimSpace(columns[3]),
		Category:    category,
		Subcategory: subcategory,
	}, nil
}
