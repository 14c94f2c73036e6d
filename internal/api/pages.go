// Package api provides the HTTP handlers serving the rendered pages.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sorekai/livetrack/internal/render"
)

// PageSource serves the cached page content.
// Satisfied by cache.PageCache.
type PageSource interface {
	Render(ctx context.Context, kind render.PageKind, selector render.Selector, format render.Format) string
}

// PagesHandler serves the root and channel-list pages
type PagesHandler struct {
	pages PageSource
	// aliases maps the oshi query parameter to a channel id
	aliases         map[string]string
	browserRedirect string
}

// NewPagesHandler creates a new pages handler
func NewPagesHandler(pages PageSource, aliases map[string]string, browserRedirect string) *PagesHandler {
	return &PagesHandler{
		pages:           pages,
		aliases:         aliases,
		browserRedirect: browserRedirect,
	}
}

// Root handles the upcoming-videos page. An optional ?oshi= parameter scopes
// the page to one tracked channel; an unrecognized alias gets the invalid
// page rather than an error status.
func (h *PagesHandler) Root(c *gin.Context) {
	if h.redirectBrowser(c) {
		return
	}

	selector := render.SelectorAll
	if alias, ok := c.GetQuery("oshi"); ok {
		channelID, tracked := h.aliases[alias]
		if tracked {
			selector = render.ChannelSelector(channelID)
		} else {
			selector = render.SelectorInvalid
		}
	}

	format := requestedFormat(c)
	content := h.pages.Render(c.Request.Context(), render.PageRoot, selector, format)
	c.Data(http.StatusOK, contentType(format), []byte(content))
}

// List handles the tracked-channels page
func (h *PagesHandler) List(c *gin.Context) {
	if h.redirectBrowser(c) {
		return
	}

	format := requestedFormat(c)
	content := h.pages.Render(c.Request.Context(), render.PageList, render.SelectorNone, format)
	c.Data(http.StatusOK, contentType(format), []byte(content))
}

// redirectBrowser sends non-terminal clients to the project page. Only
// curl and Wget user agents are served page content.
func (h *PagesHandler) redirectBrowser(c *gin.Context) bool {
	if isTerminal(c.Request.UserAgent()) {
		return false
	}
	c.Redirect(http.StatusTemporaryRedirect, h.browserRedirect)
	return true
}

// isTerminal reports whether the user agent belongs to a terminal HTTP
// client. A missing user agent is treated as a browser.
func isTerminal(userAgent string) bool {
	if userAgent == "" {
		return false
	}
	if strings.Contains(userAgent, "curl") {
		return true
	}
	return strings.HasPrefix(userAgent, "Wget")
}

// requestedFormat picks JSON when the client asks for it, plain text otherwise
func requestedFormat(c *gin.Context) render.Format {
	if strings.Contains(c.GetHeader("Accept"), "application/json") {
		return render.FormatJSON
	}
	return render.FormatText
}

func contentType(format render.Format) string {
	if format == render.FormatJSON {
		return "application/json; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}

// SetupPageRoutes registers the page routes
func SetupPageRoutes(router *gin.Engine, pages PageSource, aliases map[string]string, browserRedirect string) {
	handler := NewPagesHandler(pages, aliases, browserRedirect)
	router.GET("/", handler.Root)
	router.GET("/list", handler.List)
}
