package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/weiawesome/social-search/internal/domain"
	"github.com/weiawesome/social-search/internal/service"
	"github.com/weiawesome/social-search/pkg/log"
	"github.com/weiawesome/social-search/pkg/middleware"
	"github.com/weiawesome/social-search/pkg/response"
)

// Handler handles HTTP requests for search service.
type Handler struct {
	searchService service.SearchService
	auth          *middleware.AuthMiddleware
}

// NewHandler creates a new HTTP handler.
func NewHandler(searchService service.SearchService, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{
		searchService: searchService,
		auth:          auth,
	}
}

// PatternResponse echoes how a term is matched.
type PatternResponse struct {
	Term    string `json:"term"`
	Pattern string `json:"pattern"`
}

// RegisterRoutes registers all routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)

	api := r.Group("/api/v1")
	if h.auth != nil {
		api.Use(h.auth.OptionalAuth())
	}
	{
		api.GET("/search", h.Search)
		api.GET("/search/pattern", h.Pattern)
	}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Search handles unified search across every category.
func (h *Handler) Search(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req domain.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		l.Warn().Err(err).Msg("invalid search request")
		response.BadRequest(c, err.Error())
		return
	}
	req.ViewerID = middleware.GetUserID(c)

	result, err := h.searchService.Search(ctx, &req)
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			l.Debug().Err(err).Str(log.FieldQuery, req.Query).Msg("search canceled by client")
			response.ClientClosed(c, "request canceled")
			return
		case errors.Is(err, context.DeadlineExceeded):
			l.Warn().Err(err).Str(log.FieldQuery, req.Query).Msg("search timed out")
			response.GatewayTimeout(c, "search timed out")
			return
		}

		var srcErr *service.SourceError
		if errors.As(err, &srcErr) {
			response.UpstreamError(c, srcErr.Source, "search failed")
			return
		}
		l.Error().Err(err).Str(log.FieldQuery, req.Query).Msg("search failed")
		response.InternalError(c, "search failed")
		return
	}

	response.Success(c, result)
}

// Pattern returns the match pattern built for q.
func (h *Handler) Pattern(c *gin.Context) {
	q := c.Query("q")
	if strings.TrimSpace(q) == "" {
		response.BadRequest(c, "q is required")
		return
	}

	response.Success(c, PatternResponse{
		Term:    q,
		Pattern: h.searchService.Pattern(q),
	})
}
