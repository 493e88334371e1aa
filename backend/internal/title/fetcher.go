// Package title fetches the <title> text of a web page, best-effort.
package title

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"graphmark/backend/pkg/errors"
	"graphmark/backend/pkg/logger"
)

// Fetcher resolves a page title for a url. Implementations are best-effort:
// an empty title with a nil error means the page had no usable title.
type Fetcher interface {
	FetchTitle(ctx context.Context, url string) (string, error)
}

// HTTPFetcher fetches pages over HTTP with a bounded timeout
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	logger    *zap.Logger
}

// NewHTTPFetcher creates a fetcher with the given timeout and User-Agent
func NewHTTPFetcher(timeout time.Duration, userAgent string) *HTTPFetcher {
	return &HTTPFetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		logger:    logger.Get(),
	}
}

// FetchTitle downloads the page and extracts its <title> text, entity-decoded
// and whitespace-collapsed. The html parser matches the tag case-insensitively
// and decodes entities; collapsing handles line breaks inside the tag.
func (f *HTTPFetcher) FetchTitle(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", errors.NewFetchFailed(url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Debug("Title fetch failed", zap.String("url", url), zap.Error(err))
		return "", errors.NewFetchFailed(url, err)
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		f.logger.Debug("Title parse failed", zap.String("url", url), zap.Error(err))
		return "", errors.NewFetchFailed(url, err)
	}

	title := strings.Join(strings.Fields(doc.Find("title").First().Text()), " ")
	return title, nil
}
