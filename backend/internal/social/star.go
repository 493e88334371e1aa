package social

import (
	"context"

	"go.uber.org/zap"

	"graphmark/backend/internal/graph"
	"graphmark/backend/pkg/logger"
)

// StarManager creates and destroys star relationships between users and
// pages. Star counts here are traversal-derived from the primary store, not
// the index, so a mutation is immediately visible to its caller.
type StarManager struct {
	store  graph.Store
	pages  PageResolver
	logger *zap.Logger
}

// NewStarManager creates a star manager over the given store and resolver
func NewStarManager(store graph.Store, pages PageResolver) *StarManager {
	return &StarManager{
		store:  store,
		pages:  pages,
		logger: logger.Get(),
	}
}

// Star records that a user starred a url and returns the updated count of
// distinct starring users. No duplicate check is made: repeated calls stack
// edges, and Unstar sweeps them all.
func (m *StarManager) Star(ctx context.Context, userID, url string) (int, error) {
	page, err := m.pages.Resolve(ctx, url)
	if err != nil {
		return 0, err
	}

	if _, err := m.store.CreateEdge(ctx, userID, page.ID, LabelStarred, nil); err != nil {
		return 0, err
	}

	count, _, err := m.starrers(ctx, page.ID, "")
	if err != nil {
		return 0, err
	}

	m.logger.Info("Page starred",
		zap.String("user_id", userID),
		zap.String("url", url),
		zap.Int("count", count),
	)
	return count, nil
}

// IsStarred reports the distinct-starrer count for a url and whether the
// caller is among them. An empty callerID means anonymous: starred is false.
func (m *StarManager) IsStarred(ctx context.Context, url, callerID string) (int, bool, error) {
	page, err := m.pages.Resolve(ctx, url)
	if err != nil {
		return 0, false, err
	}
	return m.starrers(ctx, page.ID, callerID)
}

// Unstar destroys every star edge between the user and the url's page,
// cleaning up any duplicates in one sweep. Zero edges is a success.
func (m *StarManager) Unstar(ctx context.Context, userID, url string) error {
	page, err := m.pages.Resolve(ctx, url)
	if err != nil {
		return err
	}

	stars, err := m.store.EdgesBetween(ctx, userID, page.ID, LabelStarred)
	if err != nil {
		return err
	}

	m.logger.Debug("Total star count", zap.Int("count", len(stars)))
	for _, star := range stars {
		if err := m.store.DestroyEdge(ctx, star.ID); err != nil {
			return err
		}
	}

	m.logger.Info("Page unstarred",
		zap.String("user_id", userID),
		zap.String("url", url),
		zap.Int("removed", len(stars)),
	)
	return nil
}

// starrers counts distinct starring users of a page and checks membership
// of callerID when non-empty. Duplicate edges never inflate the count.
func (m *StarManager) starrers(ctx context.Context, pageID, callerID string) (int, bool, error) {
	edges, err := m.store.IncidentEdges(ctx, pageID, LabelStarred, graph.DirectionIn)
	if err != nil {
		return 0, false, err
	}

	users := make(map[string]struct{}, len(edges))
	for _, e := range edges {
		users[e.From] = struct{}{}
	}

	starred := false
	if callerID != "" {
		_, starred = users[callerID]
	}
	return len(users), starred, nil
}
