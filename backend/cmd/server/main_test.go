package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"graphmark/backend/internal/graph"
	"graphmark/backend/internal/index"
	"graphmark/backend/internal/session"
	"graphmark/backend/internal/social"
	"graphmark/backend/internal/stats"
	"graphmark/backend/pkg/logger"
)

// fakeResolver find-or-creates Page nodes straight in the store
type fakeResolver struct {
	store *graph.MemoryStore
	mu    sync.Mutex
	pages map[string]*graph.Node
}

func (r *fakeResolver) Resolve(ctx context.Context, url string) (*graph.Node, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if node, ok := r.pages[url]; ok {
		return node, nil
	}
	node, err := r.store.CreateNode(ctx, []string{"Page"}, map[string]interface{}{"url": url, "title": "Example Domain"})
	if err != nil {
		return nil, err
	}
	r.pages[url] = node
	return node, nil
}

// fakeIndex serves canned aggregate rows
type fakeIndex struct {
	records []index.Record
}

func (f *fakeIndex) Run(ctx context.Context, query string, params map[string]interface{}) ([]index.Record, error) {
	return f.records, nil
}

func newTestRouter(t *testing.T, idx *fakeIndex, users ...string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := graph.NewMemoryStore()
	for _, u := range users {
		_, err := store.CreateNode(context.Background(), []string{"User"}, map[string]interface{}{"id": u})
		assert.NoError(t, err)
	}

	resolver := &fakeResolver{store: store, pages: make(map[string]*graph.Node)}
	handlers := NewHandlers(
		social.NewStarManager(store, resolver),
		social.NewCommentManager(store, resolver),
		stats.NewAggregator(idx),
		session.NewHeaderProvider(),
		logger.Get(),
	)

	router := gin.New()
	handlers.Register(router)
	return router
}

func do(router *gin.Engine, method, target, userID string, body []byte) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req, _ = http.NewRequest(method, target, bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, target, nil)
	}
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestStarEndpoint_RequiresIdentity(t *testing.T) {
	router := newTestRouter(t, &fakeIndex{}, "U1")

	w := do(router, "GET", "/star?url=http://example.com", "", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	resp := decode(t, w)
	assert.Equal(t, false, resp["success"])
}

func TestStarEndpoint_RequiresValidURL(t *testing.T) {
	router := newTestRouter(t, &fakeIndex{}, "U1")

	for _, target := range []string{"/star", "/star?url=not-a-url", "/star?url=ftp://example.com"} {
		w := do(router, "GET", target, "U1", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, "target %s", target)
		resp := decode(t, w)
		assert.Equal(t, false, resp["success"])
		assert.Equal(t, "Url required.", resp["reason"])
	}
}

func TestStarEndpoint_Success(t *testing.T) {
	router := newTestRouter(t, &fakeIndex{}, "U1")

	w := do(router, "GET", "/star?url=http://example.com", "U1", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, float64(1), resp["count"])
}

func TestIsStarredEndpoint_AnonymousCaller(t *testing.T) {
	router := newTestRouter(t, &fakeIndex{}, "U1")
	do(router, "GET", "/star?url=http://example.com", "U1", nil)

	w := do(router, "GET", "/isStarred?url=http://example.com", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, float64(1), resp["count"])
	assert.Equal(t, false, resp["starred"])
}

func TestStarUnstarRoundTrip(t *testing.T) {
	router := newTestRouter(t, &fakeIndex{}, "U1")

	// Star twice, unstar once: all duplicate edges are swept
	do(router, "GET", "/star?url=http://example.com", "U1", nil)
	do(router, "GET", "/star?url=http://example.com", "U1", nil)
	w := do(router, "GET", "/unstar?url=http://example.com", "U1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(router, "GET", "/isStarred?url=http://example.com", "U1", nil)
	resp := decode(t, w)
	assert.Equal(t, float64(0), resp["count"])
	assert.Equal(t, false, resp["starred"])
}

func TestCommentLifecycle(t *testing.T) {
	router := newTestRouter(t, &fakeIndex{}, "U1", "U2")

	// U1 comments
	w := do(router, "POST", "/comment", "U1", []byte(`{"url":"http://example.com","content":"nice page"}`))
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, true, resp["success"])
	commentID, ok := resp["comment_id"].(string)
	assert.True(t, ok)
	assert.NotEmpty(t, commentID)

	// The comment is listed with its author
	w = do(router, "GET", "/fetchComments?url=http://example.com", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	resp = decode(t, w)
	comments, ok := resp["comments"].([]interface{})
	assert.True(t, ok)
	assert.Len(t, comments, 1)
	entry := comments[0].(map[string]interface{})
	assert.Equal(t, "nice page", entry["content"])
	assert.Equal(t, "U1", entry["author"])

	// U2 cannot delete it
	w = do(router, "POST", "/delComment", "U2", []byte(`{"comment_id":"`+commentID+`"}`))
	assert.Equal(t, http.StatusForbidden, w.Code)
	resp = decode(t, w)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "Comment does not belong to you", resp["reason"])

	// Still there
	w = do(router, "GET", "/fetchComments?url=http://example.com", "", nil)
	resp = decode(t, w)
	assert.Len(t, resp["comments"], 1)

	// U1 deletes it
	w = do(router, "POST", "/delComment", "U1", []byte(`{"comment_id":"`+commentID+`"}`))
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(router, "GET", "/fetchComments?url=http://example.com", "", nil)
	resp = decode(t, w)
	assert.Len(t, resp["comments"], 0)
}

func TestCommentEndpoint_MissingFields(t *testing.T) {
	router := newTestRouter(t, &fakeIndex{}, "U1")

	w := do(router, "POST", "/comment", "U1", []byte(`{}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "Url and content fields are required.", resp["reason"])
}

func TestFetchStarredContent_Empty(t *testing.T) {
	router := newTestRouter(t, &fakeIndex{})

	w := do(router, "GET", "/fetchStarredContent", "", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decode(t, w)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "No content starred yet", resp["reason"])
}

func TestFetchStarredContent_RendersRanking(t *testing.T) {
	idx := &fakeIndex{records: []index.Record{
		index.MapRecord{"url": "http://example.com", "title": "Example Domain", "star_count": int64(1)},
	}}
	router := newTestRouter(t, idx)

	w := do(router, "GET", "/fetchStarredContent", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, true, resp["success"])
	pages, ok := resp["pages"].(map[string]interface{})
	assert.True(t, ok)
	entry, ok := pages["http://example.com"].(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, "Example Domain", entry["title"])
	assert.Equal(t, float64(1), entry["star_count"])
}

func TestFetchMyStars_RequiresIdentity(t *testing.T) {
	router := newTestRouter(t, &fakeIndex{})

	w := do(router, "GET", "/fetchMyStars", "", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	resp := decode(t, w)
	assert.Equal(t, false, resp["success"])
}
