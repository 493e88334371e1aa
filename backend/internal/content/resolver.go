// Package content maps externally-supplied urls to Page nodes in the
// primary graph store, creating them lazily on first interaction.
package content

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"graphmark/backend/internal/graph"
	"graphmark/backend/internal/index"
	"graphmark/backend/internal/title"
	"graphmark/backend/pkg/logger"
)

// LabelPage is the node label for bookmarked pages
const LabelPage = "Page"

const pageByURLQuery = `
	MATCH (n:Page {url: $url})
	RETURN n.id as id
`

// Resolver finds or creates the Page node for a url. Lookup goes through
// the secondary index; creation goes to the primary store.
type Resolver struct {
	store  graph.Store
	index  index.Index
	titles title.Fetcher
	group  singleflight.Group
	logger *zap.Logger
}

// NewResolver creates a resolver over the given store, index and fetcher
func NewResolver(store graph.Store, idx index.Index, titles title.Fetcher) *Resolver {
	return &Resolver{
		store:  store,
		index:  idx,
		titles: titles,
		logger: logger.Get(),
	}
}

// Resolve returns the Page node for the url, creating it on a miss.
// Concurrent resolves of the same url are collapsed into a single
// find-or-create, so one process never creates duplicate Page nodes.
func (r *Resolver) Resolve(ctx context.Context, url string) (*graph.Node, error) {
	v, err, _ := r.group.Do(url, func() (interface{}, error) {
		return r.resolve(ctx, url)
	})
	if err != nil {
		return nil, err
	}
	return v.(*graph.Node), nil
}

func (r *Resolver) resolve(ctx context.Context, url string) (*graph.Node, error) {
	records, err := r.index.Run(ctx, pageByURLQuery, map[string]interface{}{"url": url})
	if err != nil {
		return nil, err
	}
	if len(records) > 0 {
		return r.store.GetNode(ctx, index.GetString(records[0], "id"))
	}

	// Miss: scrape the title best-effort, then create the node. A failed
	// fetch degrades to an empty title, never aborts creation.
	pageTitle, err := r.titles.FetchTitle(ctx, url)
	if err != nil {
		r.logger.Warn("Title fetch failed, creating page without title",
			zap.String("url", url),
			zap.Error(err),
		)
		pageTitle = ""
	}

	node, err := r.store.CreateNode(ctx, []string{LabelPage}, map[string]interface{}{
		"url":        url,
		"title":      pageTitle,
		"created_at": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("Page created",
		zap.String("node_id", node.ID),
		zap.String("url", url),
		zap.String("title", pageTitle),
	)
	return node, nil
}
