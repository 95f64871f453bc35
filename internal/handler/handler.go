package handler

import (
	"errors"
	"net/http"

	"jira_richtext/internal/jira"
	"jira_richtext/internal/logger"
	"jira_richtext/internal/model"
	"jira_richtext/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IssueHandler serves issue operations over HTTP
type IssueHandler struct {
	svc *service.Service
}

// SummaryRequest is the body of PUT /issues/:key/summary
type SummaryRequest struct {
	Summary string `json:"summary" binding:"required"`
}

func NewIssueHandler(svc *service.Service) *IssueHandler {
	return &IssueHandler{svc: svc}
}

// Router builds the gin engine with request logging and all routes
func (h *IssueHandler) Router() *gin.Engine {
	r := gin.New()
	r.Use(logger.GinLogMiddleware(tokensPath), gin.Recovery(), CallerIdentity())

	r.GET("/issues/:key", h.HandleGetIssue)
	r.GET("/issues/:key/richtext", h.HandleGetRichText)
	r.PUT("/issues/:key/summary", h.HandleUpdateSummary)
	r.POST(tokensPath, h.HandleSetupPersonalToken)
	return r
}

// HandleGetIssue returns the raw issue JSON
func (h *IssueHandler) HandleGetIssue(c *gin.Context) {
	issue, err := h.svc.Fetch(c.Request.Context(), c.Param("key"), caller(c))
	if err != nil {
		respondError(c, err)
		return
	}
	resp, err := issue.Response()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleGetRichText returns {"key": ..., "summary": ..., "richText": {path: value}}
func (h *IssueHandler) HandleGetRichText(c *gin.Context) {
	issue, err := h.svc.Fetch(c.Request.Context(), c.Param("key"), caller(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"key":      issue.Key(),
		"summary":  issue.Summary(),
		"richText": issue.RichText(),
	})
}

// HandleUpdateSummary answers 200 with the status code returned by Jira
func (h *IssueHandler) HandleUpdateSummary(c *gin.Context) {
	var req SummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	status, err := h.svc.UpdateSummary(c.Request.Context(), c.Param("key"), caller(c), req.Summary)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}

// respondError maps upstream Jira errors to their status, credential and
// reference problems to 4xx, and everything else to 500
func respondError(c *gin.Context, err error) {
	var apiErr *jira.APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.StatusCode != 0:
		c.JSON(apiErr.StatusCode, gin.H{"error": apiErr.Message})
	case errors.Is(err, service.ErrNoCredentials), errors.Is(err, service.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrInvalidReference):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.GetLogger().Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
