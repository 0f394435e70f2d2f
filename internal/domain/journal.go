package domain

// CandidateRow is one journal row as listed by the directory after filtering.
type CandidateRow struct {
	Title   string   `json:"title"`   // Content of the title cell, may be empty
	Columns []string `json:"columns"` // Title, publisher, ISSN, EISSN, ...
}

// TitleText returns the row title, falling back to the first column.
func (r CandidateRow) TitleText() string {
	if r.Title != "" {
		return r.Title
	}
	if len(r.Columns) > 0 {
		return r.Columns[0]
	}
	return ""
}

type JournalRecord struct {
	Title       string        `json:"title"`
	Publisher   string        `json:"publisher"`
	ISSN        string        `json:"issn"`
	EISSN       string        `json:"eissn"`
	Category    Category      `json:"category"`
	Subcategory SubcategoryID `json:"subcategory,omitempty"` // Only set for Category B matches
}
