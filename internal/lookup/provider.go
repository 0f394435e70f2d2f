package lookup

import (
	"context"

	"dgrsdt/journals/internal/domain"
)

// SessionOpener creates provider sessions. Opening one is expensive, so the
// engine opens exactly one per Find call.
type SessionOpener interface {
	Open(ctx context.Context) (Session, error)
}

// Session is a live view of the ranking directory. Methods other than
// SelectSubcategory and Close report transient failures as
// *domain.ProviderError.
type Session interface {
	LoadCategory(ctx context.Context, category domain.Category) error
	// SelectSubcategory returns false when the selector is not available on
	// the current page.
	SelectSubcategory(ctx context.Context, id domain.SubcategoryID) bool
	SearchTitle(ctx context.Context, query string) error
	ListCandidateRows(ctx context.Context) ([]domain.CandidateRow, error)
	Close() error
}

// UnavailableReasoner is implemented by sessions that can explain why their
// last SelectSubcategory call returned false.
type UnavailableReasoner interface {
	UnavailableReason() error
}
