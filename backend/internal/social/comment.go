package social

import (
	"context"
	"time"

	"go.uber.org/zap"

	"graphmark/backend/internal/graph"
	"graphmark/backend/pkg/errors"
	"graphmark/backend/pkg/logger"
)

// CommentEntry is a comment on a page, with the fixed schema exposed to
// callers. Author is the string form of the authoring user's identifier.
type CommentEntry struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Author    string `json:"author"`
	CreatedAt string `json:"createdAt"`
}

// CommentManager creates, lists and destroys comment edges between users
// and pages, enforcing ownership on deletion.
type CommentManager struct {
	store  graph.Store
	pages  PageResolver
	logger *zap.Logger
}

// NewCommentManager creates a comment manager over the given store and resolver
func NewCommentManager(store graph.Store, pages PageResolver) *CommentManager {
	return &CommentManager{
		store:  store,
		pages:  pages,
		logger: logger.Get(),
	}
}

// Comment attaches a comment from the user to the url's page and returns
// the new comment's identifier.
func (m *CommentManager) Comment(ctx context.Context, userID, url, content string) (string, error) {
	if content == "" {
		return "", errors.NewValidation("Url and content fields are required.")
	}

	page, err := m.pages.Resolve(ctx, url)
	if err != nil {
		return "", err
	}

	edge, err := m.store.CreateEdge(ctx, userID, page.ID, LabelCommented, map[string]interface{}{
		"content":    content,
		"created_at": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return "", err
	}

	m.logger.Info("Comment created",
		zap.String("comment_id", edge.ID),
		zap.String("user_id", userID),
		zap.String("url", url),
	)
	return edge.ID, nil
}

// FetchComments returns every comment on the url's page in the store's
// natural edge order.
func (m *CommentManager) FetchComments(ctx context.Context, url string) ([]CommentEntry, error) {
	page, err := m.pages.Resolve(ctx, url)
	if err != nil {
		return nil, err
	}

	edges, err := m.store.IncidentEdges(ctx, page.ID, LabelCommented, graph.DirectionIn)
	if err != nil {
		return nil, err
	}

	comments := make([]CommentEntry, 0, len(edges))
	for _, e := range edges {
		comments = append(comments, CommentEntry{
			ID:        e.ID,
			Content:   e.Attr("content"),
			Author:    e.From,
			CreatedAt: e.Attr("created_at"),
		})
	}
	return comments, nil
}

// DeleteComment destroys a comment, but only for its author. A deletion
// attempt by anyone else fails with an authorization error and leaves the
// comment intact.
func (m *CommentManager) DeleteComment(ctx context.Context, userID, commentID string) error {
	edge, err := m.store.GetEdge(ctx, commentID)
	if err != nil {
		return err
	}
	if edge.Label != LabelCommented || edge.From != userID {
		return errors.NewCommentNotOwned(commentID)
	}

	if err := m.store.DestroyEdge(ctx, commentID); err != nil {
		return err
	}

	m.logger.Info("Comment deleted",
		zap.String("comment_id", commentID),
		zap.String("user_id", userID),
	)
	return nil
}
