// Package stats produces popularity rankings from the secondary index.
// All queries here are read-only and tolerate eventual inconsistency with
// the primary store.
package stats

import (
	"context"

	"go.uber.org/zap"

	"graphmark/backend/internal/index"
	"graphmark/backend/pkg/errors"
	"graphmark/backend/pkg/logger"
)

const globalStarsQuery = `
	MATCH ()-[e:STARRED]->(n:Page)
	WITH n.url as url, n.title as title, count(e) as star_count
	RETURN url, title, star_count
	ORDER BY star_count
`

const userStarsQuery = `
	MATCH (u {id: $me})-[e:STARRED]->(n:Page)
	WITH n.url as url, n.title as title, count(e) as star_count
	RETURN url, title, star_count
	ORDER BY star_count
`

// PageStars is one ranked entry: a page and its star-edge count
type PageStars struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Count int64  `json:"star_count"`
}

// Aggregator runs popularity queries against the secondary index
type Aggregator struct {
	index  index.Index
	logger *zap.Logger
}

// NewAggregator creates an aggregator over the given index
func NewAggregator(idx index.Index) *Aggregator {
	return &Aggregator{
		index:  idx,
		logger: logger.Get(),
	}
}

// FetchGlobalStars ranks every starred page, ascending by star-edge count.
// An empty interaction history is reported as a soft failure.
func (a *Aggregator) FetchGlobalStars(ctx context.Context) ([]PageStars, error) {
	return a.fetch(ctx, globalStarsQuery, nil)
}

// FetchUserStars ranks the pages starred by one user, ascending by count
func (a *Aggregator) FetchUserStars(ctx context.Context, userID string) ([]PageStars, error) {
	return a.fetch(ctx, userStarsQuery, map[string]interface{}{"me": userID})
}

func (a *Aggregator) fetch(ctx context.Context, query string, params map[string]interface{}) ([]PageStars, error) {
	records, err := a.index.Run(ctx, query, params)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.NewEmptyResult("No content starred yet")
	}

	pages := make([]PageStars, 0, len(records))
	for _, r := range records {
		pages = append(pages, PageStars{
			URL:   index.GetString(r, "url"),
			Title: index.GetString(r, "title"),
			Count: index.GetInt64(r, "star_count"),
		})
	}

	a.logger.Debug("Star ranking fetched", zap.Int("pages", len(pages)))
	return pages, nil
}
