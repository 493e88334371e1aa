// Package session resolves the acting user for a request. The real identity
// lives in an external auth subsystem; this package only surfaces whatever
// identifier that subsystem attached to the request.
package session

import "github.com/gin-gonic/gin"

// Provider yields the caller's user id, or false when the caller is anonymous
type Provider interface {
	UserID(c *gin.Context) (string, bool)
}

// HeaderProvider reads the user id from a request header, the handoff point
// from the upstream auth layer.
type HeaderProvider struct {
	Header string
}

// NewHeaderProvider creates a provider reading the X-User-ID header
func NewHeaderProvider() *HeaderProvider {
	return &HeaderProvider{Header: "X-User-ID"}
}

// UserID implements Provider
func (p *HeaderProvider) UserID(c *gin.Context) (string, bool) {
	id := c.GetHeader(p.Header)
	return id, id != ""
}
