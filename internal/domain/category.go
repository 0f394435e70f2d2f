package domain

type Category string

func (c Category) String() string {
	return string(c)
}

const (
	CategoryA Category = "A" // Flat list
	CategoryB Category = "B" // Partitioned into subcategories
)

func (c Category) GetCategoryName() string {
	switch c {
	case CategoryA:
		return "Category A"
	case CategoryB:
		return "Category B"
	default:
		return "Unknown"
	}
}

// SubcategoryID is the identifier of a Category B partition, as used by the
// directory's selector buttons.
type SubcategoryID string

func (s SubcategoryID) String() string {
	return string(s)
}

const (
	SubcategoryABDC           SubcategoryID = "ABDC"
	SubcategoryDeGruyter      SubcategoryID = "De_Gruyter"
	SubcategoryErihPlus       SubcategoryID = "Erih_plus"
	SubcategoryJournalQuality SubcategoryID = "Journal_quality"
	SubcategoryAERES          SubcategoryID = "AERES"
	SubcategoryCNRS           SubcategoryID = "CNRS"
	SubcategorySCOPUS         SubcategoryID = "SCOPUS"
	SubcategoryFinancialTimes SubcategoryID = "Finacial_Times" // spelled as on the site
)

// DefaultSubcategories returns the Category B search order. A fresh slice is
// returned on every call so callers may reorder it.
func DefaultSubcategories() []SubcategoryID {
	return []SubcategoryID{
		SubcategoryABDC,
		SubcategoryDeGruyter,
		SubcategoryErihPlus,
		SubcategoryJournalQuality,
		SubcategoryAERES,
		SubcategoryCNRS,
		SubcategorySCOPUS,
		SubcategoryFinancialTimes,
	}
}

// ParseSubcategories converts configured identifiers, dropping blanks.
func ParseSubcategories(ids []string) []SubcategoryID {
	out := make([]SubcategoryID, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		out = append(out, SubcategoryID(id))
	}
	return out
}
