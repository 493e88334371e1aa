package social

import (
	"context"
	"testing"

	"graphmark/backend/internal/graph"
	"graphmark/backend/pkg/errors"
)

func newCommentFixture(t *testing.T, users ...string) (*CommentManager, *graph.MemoryStore) {
	t.Helper()
	store := graph.NewMemoryStore()
	for _, u := range users {
		if _, err := store.CreateNode(context.Background(), []string{"User"}, map[string]interface{}{"id": u}); err != nil {
			t.Fatalf("Failed to seed user: %v", err)
		}
	}
	return NewCommentManager(store, newFakeResolver(store)), store
}

func TestCommentManager_CommentAndFetch(t *testing.T) {
	m, _ := newCommentFixture(t, "U1")
	ctx := context.Background()

	commentID, err := m.Comment(ctx, "U1", "http://example.com", "nice page")
	if err != nil {
		t.Fatalf("Comment failed: %v", err)
	}
	if commentID == "" {
		t.Fatal("Expected non-empty comment id")
	}

	comments, err := m.FetchComments(ctx, "http://example.com")
	if err != nil {
		t.Fatalf("FetchComments failed: %v", err)
	}
	if len(comments) != 1 {
		t.Fatalf("Expected 1 comment, got %d", len(comments))
	}
	if comments[0].Content != "nice page" {
		t.Errorf("Expected content 'nice page', got '%s'", comments[0].Content)
	}
	if comments[0].Author != "U1" {
		t.Errorf("Expected author 'U1', got '%s'", comments[0].Author)
	}
	if comments[0].ID != commentID {
		t.Errorf("Expected id '%s', got '%s'", commentID, comments[0].ID)
	}
	if comments[0].CreatedAt == "" {
		t.Error("Expected createdAt to be set")
	}
}

func TestCommentManager_EmptyContentRejected(t *testing.T) {
	m, _ := newCommentFixture(t, "U1")

	_, err := m.Comment(context.Background(), "U1", "http://example.com", "")
	if err == nil {
		t.Fatal("Expected validation error for empty content")
	}
	if !errors.IsErrorType(err, errors.ErrorTypeValidation) {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func TestCommentManager_FetchComments_InsertionOrder(t *testing.T) {
	m, _ := newCommentFixture(t, "U1", "U2")
	ctx := context.Background()

	first, _ := m.Comment(ctx, "U1", "http://example.com", "first")
	second, _ := m.Comment(ctx, "U2", "http://example.com", "second")

	comments, err := m.FetchComments(ctx, "http://example.com")
	if err != nil {
		t.Fatalf("FetchComments failed: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("Expected 2 comments, got %d", len(comments))
	}
	if comments[0].ID != first || comments[1].ID != second {
		t.Error("Comments not in insertion order")
	}
}

func TestCommentManager_DeleteByNonAuthorFails(t *testing.T) {
	m, _ := newCommentFixture(t, "U1", "U2")
	ctx := context.Background()

	commentID, err := m.Comment(ctx, "U1", "http://example.com", "nice page")
	if err != nil {
		t.Fatalf("Comment failed: %v", err)
	}

	err = m.DeleteComment(ctx, "U2", commentID)
	if err == nil {
		t.Fatal("Expected authorization error")
	}
	if !errors.IsErrorType(err, errors.ErrorTypeAuthorization) {
		t.Errorf("Expected authorization error, got %v", err)
	}

	// The comment is left intact
	comments, err := m.FetchComments(ctx, "http://example.com")
	if err != nil {
		t.Fatalf("FetchComments failed: %v", err)
	}
	if len(comments) != 1 {
		t.Errorf("Expected comment intact after failed deletion, got %d comments", len(comments))
	}
}

func TestCommentManager_DeleteByAuthorSucceeds(t *testing.T) {
	m, _ := newCommentFixture(t, "U1")
	ctx := context.Background()

	commentID, err := m.Comment(ctx, "U1", "http://example.com", "nice page")
	if err != nil {
		t.Fatalf("Comment failed: %v", err)
	}

	if err := m.DeleteComment(ctx, "U1", commentID); err != nil {
		t.Fatalf("DeleteComment failed: %v", err)
	}

	comments, err := m.FetchComments(ctx, "http://example.com")
	if err != nil {
		t.Fatalf("FetchComments failed: %v", err)
	}
	if len(comments) != 0 {
		t.Errorf("Expected no comments after deletion, got %d", len(comments))
	}
}

func TestCommentManager_DeleteUnknownCommentFails(t *testing.T) {
	m, _ := newCommentFixture(t, "U1")

	err := m.DeleteComment(context.Background(), "U1", "no-such-comment")
	if err == nil {
		t.Fatal("Expected error for unknown comment")
	}
	if !errors.IsErrorType(err, errors.ErrorTypeNotFound) {
		t.Errorf("Expected notfound error, got %v", err)
	}
}

func TestCommentManager_DeleteStarEdgeViaCommentIDFails(t *testing.T) {
	m, store := newCommentFixture(t, "U1")
	ctx := context.Background()

	// A star edge id must not be deletable through the comment surface
	page, err := newFakeResolver(store).Resolve(ctx, "http://example.com")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	star, err := store.CreateEdge(ctx, "U1", page.ID, LabelStarred, nil)
	if err != nil {
		t.Fatalf("CreateEdge failed: %v", err)
	}

	err = m.DeleteComment(ctx, "U1", star.ID)
	if err == nil {
		t.Fatal("Expected authorization error for non-comment edge")
	}
	if !errors.IsErrorType(err, errors.ErrorTypeAuthorization) {
		t.Errorf("Expected authorization error, got %v", err)
	}
}
