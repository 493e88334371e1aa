package main

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"graphmark/backend/internal/session"
	"graphmark/backend/internal/social"
	"graphmark/backend/internal/stats"
	"graphmark/backend/pkg/errors"
)

// Handlers binds the interaction managers to the HTTP surface. Every
// operation resolves the caller first, then delegates, then renders the
// uniform success/failure envelope.
type Handlers struct {
	stars    *social.StarManager
	comments *social.CommentManager
	agg      *stats.Aggregator
	sessions session.Provider
	logger   *zap.Logger
}

// NewHandlers creates the handler set
func NewHandlers(stars *social.StarManager, comments *social.CommentManager, agg *stats.Aggregator, sessions session.Provider, logger *zap.Logger) *Handlers {
	return &Handlers{
		stars:    stars,
		comments: comments,
		agg:      agg,
		sessions: sessions,
		logger:   logger,
	}
}

// Register mounts all content routes
func (h *Handlers) Register(r *gin.Engine) {
	r.GET("/star", h.star)
	r.GET("/unstar", h.unstar)
	r.GET("/isStarred", h.isStarred)
	r.POST("/comment", h.comment)
	r.GET("/fetchComments", h.fetchComments)
	r.POST("/delComment", h.delComment)
	r.GET("/fetchStarredContent", h.fetchStarredContent)
	r.GET("/fetchMyStars", h.fetchMyStars)
}

func (h *Handlers) star(c *gin.Context) {
	userID, ok := h.sessions.UserID(c)
	if !ok {
		h.fail(c, errors.ErrAuthenticationRequired)
		return
	}
	pageURL, ok := requireURL(c)
	if !ok {
		return
	}

	count, err := h.stars.Star(c.Request.Context(), userID, pageURL)
	if err != nil {
		h.fail(c, err)
		return
	}
	succeed(c, gin.H{"count": count})
}

func (h *Handlers) unstar(c *gin.Context) {
	userID, ok := h.sessions.UserID(c)
	if !ok {
		h.fail(c, errors.ErrAuthenticationRequired)
		return
	}
	pageURL, ok := requireURL(c)
	if !ok {
		return
	}

	if err := h.stars.Unstar(c.Request.Context(), userID, pageURL); err != nil {
		h.fail(c, err)
		return
	}
	succeed(c, nil)
}

func (h *Handlers) isStarred(c *gin.Context) {
	pageURL, ok := requireURL(c)
	if !ok {
		return
	}
	// Anonymous callers are fine here; starred is simply false for them
	callerID, _ := h.sessions.UserID(c)

	count, starred, err := h.stars.IsStarred(c.Request.Context(), pageURL, callerID)
	if err != nil {
		h.fail(c, err)
		return
	}
	succeed(c, gin.H{"count": count, "starred": starred})
}

func (h *Handlers) comment(c *gin.Context) {
	userID, ok := h.sessions.UserID(c)
	if !ok {
		h.fail(c, errors.ErrAuthenticationRequired)
		return
	}

	var req struct {
		URL     string `json:"url" binding:"required"`
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, errors.NewValidation("Url and content fields are required."))
		return
	}
	if !validURL(req.URL) {
		h.fail(c, errors.NewValidation("Url required."))
		return
	}

	commentID, err := h.comments.Comment(c.Request.Context(), userID, req.URL, req.Content)
	if err != nil {
		h.fail(c, err)
		return
	}
	succeed(c, gin.H{"comment_id": commentID})
}

func (h *Handlers) fetchComments(c *gin.Context) {
	pageURL, ok := requireURL(c)
	if !ok {
		return
	}

	comments, err := h.comments.FetchComments(c.Request.Context(), pageURL)
	if err != nil {
		h.fail(c, err)
		return
	}
	succeed(c, gin.H{"comments": comments})
}

func (h *Handlers) delComment(c *gin.Context) {
	userID, ok := h.sessions.UserID(c)
	if !ok {
		h.fail(c, errors.ErrAuthenticationRequired)
		return
	}

	var req struct {
		CommentID string `json:"comment_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, errors.NewValidation("Comment_id field is required."))
		return
	}

	if err := h.comments.DeleteComment(c.Request.Context(), userID, req.CommentID); err != nil {
		h.fail(c, err)
		return
	}
	succeed(c, nil)
}

func (h *Handlers) fetchStarredContent(c *gin.Context) {
	pages, err := h.agg.FetchGlobalStars(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	succeed(c, gin.H{"pages": rankedPages(pages)})
}

func (h *Handlers) fetchMyStars(c *gin.Context) {
	userID, ok := h.sessions.UserID(c)
	if !ok {
		h.fail(c, errors.ErrAuthenticationRequired)
		return
	}

	pages, err := h.agg.FetchUserStars(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	succeed(c, gin.H{"pages": rankedPages(pages)})
}

// rankedPages renders the ranking as a url-keyed mapping
func rankedPages(pages []stats.PageStars) map[string]gin.H {
	ret := make(map[string]gin.H, len(pages))
	for _, p := range pages {
		ret[p.URL] = gin.H{
			"title":      p.Title,
			"star_count": p.Count,
		}
	}
	return ret
}

// requireURL is the validation gate in front of core logic: the url query
// parameter must be a syntactically valid absolute http(s) URL.
func requireURL(c *gin.Context) (string, bool) {
	pageURL := c.Query("url")
	if !validURL(pageURL) {
		failWith(c, errors.NewValidation("Url required."))
		return "", false
	}
	return pageURL, true
}

func validURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// succeed renders the uniform success envelope with an optional payload
func succeed(c *gin.Context, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// fail renders the uniform failure envelope, logging server-side causes
func (h *Handlers) fail(c *gin.Context, err error) {
	if errors.TypeOf(err) == errors.ErrorTypeGraph {
		h.logger.Error("Operation failed", zap.Error(err))
	}
	failWith(c, err)
}

func failWith(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{
		"success": false,
		"reason":  errors.Reason(err),
	})
}

func statusFor(err error) int {
	switch errors.TypeOf(err) {
	case errors.ErrorTypeValidation:
		return http.StatusBadRequest
	case errors.ErrorTypeAuthentication:
		return http.StatusUnauthorized
	case errors.ErrorTypeAuthorization:
		return http.StatusForbidden
	case errors.ErrorTypeNotFound:
		return http.StatusNotFound
	case errors.ErrorTypeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
