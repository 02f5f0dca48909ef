package ports

import (
	"context"

	"histomap/internal/domain"
)

// GeoSearcher finds articles with coordinates around a point.
type GeoSearcher interface {
	GeoSearch(ctx context.Context, lat, lon float64, radiusMeters, limit int) ([]domain.CandidateArticle, error)
}

// KeywordSearcher runs a full-text search; hits without resolvable
// coordinates never become candidates.
type KeywordSearcher interface {
	KeywordSearch(ctx context.Context, query string) ([]domain.CandidateArticle, error)
}

// ExtractFetcher returns plaintext intros keyed by article id.
type ExtractFetcher interface {
	FetchExtracts(ctx context.Context, ids []int) (map[int]string, error)
}

// LangLinkFetcher returns cross-language edition counts keyed by article id.
type LangLinkFetcher interface {
	FetchLangLinkCounts(ctx context.Context, ids []int) (map[int]int, error)
}

// EventStore persists classified events and rejection tombstones across runs.
type EventStore interface {
	SaveEvent(ctx context.Context, event domain.ClassifiedEvent) error
	SaveRejection(ctx context.Context, articleID int, reason string) error
	LoadAll(ctx context.Context) ([]domain.ClassifiedEvent, []int, error)
}

// ActivityStore records quiz answers for player statistics.
type ActivityStore interface {
	SaveAnswer(ctx context.Context, userID int64, eventID int, result domain.QuizResult) error
	Stats(ctx context.Context, userID int64) (domain.QuizStats, error)
}

// AnniversaryFeed lists "on this day" entries for the current date.
type AnniversaryFeed interface {
	OnThisDay(ctx context.Context) ([]domain.Anniversary, error)
}
