// Package social implements the star and comment interactions between
// users and bookmarked pages.
package social

import (
	"context"

	"graphmark/backend/internal/graph"
)

// Edge labels in the primary store
const (
	LabelStarred   = "STARRED"
	LabelCommented = "COMMENTED"
)

// PageResolver yields the Page node for a url, creating it when absent
type PageResolver interface {
	Resolve(ctx context.Context, url string) (*graph.Node, error)
}
