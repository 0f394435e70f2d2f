package lookup

import (
	"context"
	"errors"
	"fmt"

	"dgrsdt/journals/internal/domain"

	log "github.com/sirupsen/logrus"
)

var ErrSubcategoryUnavailable = errors.New("subcategory selector unavailable")

type BranchStatus int

const (
	BranchNoMatch BranchStatus = iota
	BranchMatched
	BranchFailed
)

func (s BranchStatus) String() string {
	switch s {
	case BranchNoMatch:
		return "no_match"
	case BranchMatched:
		return "matched"
	case BranchFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// BranchResult is the outcome of scanning one category or subcategory.
type BranchResult struct {
	Category    domain.Category
	Subcategory domain.SubcategoryID
	Status      BranchStatus
	Record      *domain.JournalRecord // Set when Status is BranchMatched
	Err         error                 // Set when Status is BranchFailed
}

// Branch returns a short label such as "A" or "B/SCOPUS".
func (r BranchResult) Branch() string {
	if r.Subcategory == "" {
		return r.Category.String()
	}
	return r.Category.String() + "/" + r.Subcategory.String()
}

func (r BranchResult) failed(err error) BranchResult {
	r.Status = BranchFailed
	r.Err = err
	return r
}

// Engine walks Category A and then the Category B subcategories, returning
// the first row whose title the matcher accepts.
type Engine struct {
	opener        SessionOpener
	matcher       *Matcher
	subcategories []domain.SubcategoryID
}

// NewEngine creates an engine. Subcategories are tried in the given order;
// an empty list selects domain.DefaultSubcategories.
func NewEngine(opener SessionOpener, matcher *Matcher, subcategories []domain.SubcategoryID) *Engine {
	order := make([]domain.SubcategoryID, len(subcategories))
	copy(order, subcategories)
	if len(order) == 0 {
		order = domain.DefaultSubcategories()
	}

	return &Engine{
		opener:        opener,
		matcher:       matcher,
		subcategories: order,
	}
}

// Subcategories returns the Category B search order.
func (e *Engine) Subcategories() []domain.SubcategoryID {
	out := make([]domain.SubcategoryID, len(e.subcategories))
	copy(out, e.subcategories)
	return out
}

// Find returns the first journal record matching query. A nil record with a
// nil error means the journal is listed in neither category. Provider
// failures are logged per branch and never returned; only a failure to open
// the session or a cancelled context is.
func (e *Engine) Find(ctx context.Context, query string) (*domain.JournalRecord, error) {
	session, err := e.opener.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open directory session: %w", err)
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			log.Warnf("⚠️ Failed to close directory session: %v", closeErr)
		}
	}()

	log.Infof("🔎 Searching %s ➜ %s", domain.CategoryA.GetCategoryName(), query)
	if record, done, err := e.settle(ctx, e.searchCategoryA(ctx, session, query)); done {
		return record, err
	}

	log.Infof("🔎 Searching %s ➜ %s", domain.CategoryB.GetCategoryName(), query)
	if err := session.LoadCategory(ctx, domain.CategoryB); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		log.Warnf("⚠️ Failed to load %s, skipping all subcategories ➜ %v", domain.CategoryB.GetCategoryName(), err)
		log.Infof("❌ Journal %q not found in Category A or B", query)
		return nil, nil
	}

	for _, id := range e.subcategories {
		log.Infof("🔄 Trying subcategory ➜ %s", id)
		if record, done, err := e.settle(ctx, e.searchSubcategory(ctx, session, id, query)); done {
			return record, err
		}
	}

	log.Infof("❌ Journal %q not found in Category A or B", query)
	return nil, nil
}

// settle folds one branch result into the search: done is true when the
// search must stop, either on a match or on a cancelled context.
func (e *Engine) settle(ctx context.Context, res BranchResult) (*domain.JournalRecord, bool, error) {
	if res.Status == BranchMatched {
		log.Infof("✅ Found %q in %s", res.Record.Title, res.Branch())
		return res.Record, true, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, true, err
	}

	if res.Status == BranchFailed {
		log.Warnf("⚠️ Failed to search in %s ➜ %v", res.Branch(), res.Err)
		return nil, false, nil
	}

	log.Debugf("No acceptable match in %s", res.Branch())
	return nil, false, nil
}

func (e *Engine) searchCategoryA(ctx context.Context, session Session, query string) BranchResult {
	res := BranchResult{Category: domain.CategoryA}
	if err := session.LoadCategory(ctx, domain.CategoryA); err != nil {
		return res.failed(err)
	}
	return e.scan(ctx, session, query, res)
}

func (e *Engine) searchSubcategory(ctx context.Context, session Session, id domain.SubcategoryID, query string) BranchResult {
	res := BranchResult{Category: domain.CategoryB, Subcategory: id}
	if !session.SelectSubcategory(ctx, id) {
		if r, ok := session.(UnavailableReasoner); ok {
			if reason := r.UnavailableReason(); reason != nil {
				return res.failed(fmt.Errorf("%w: %w", ErrSubcategoryUnavailable, reason))
			}
		}
		return res.failed(ErrSubcategoryUnavailable)
	}
	return e.scan(ctx, session, query, res)
}

// scan filters the current view by query and returns the first row that
// both matches and yields a well-formed record.
func (e *Engine) scan(ctx context.Context, session Session, query string, res BranchResult) BranchResult {
	if err := session.SearchTitle(ctx, query); err != nil {
		return res.failed(err)
	}

	rows, err := session.ListCandidateRows(ctx)
	if err != nil {
		return res.failed(err)
	}

	for i, row := range rows {
		if !e.matcher.Accepts(query, row.TitleText()) {
			continue
		}

		record, err := ExtractRecord(row.Columns, res.Category, res.Subcategory)
		if err != nil {
			log.Warnf("⚠️ Skipping row %d in %s: %v", i+1, res.Branch(), err)
			continue
		}

		res.Status = BranchMatched
		res.Record = record
		return res
	}

	res.Status = BranchNoMatch
	return res
}
