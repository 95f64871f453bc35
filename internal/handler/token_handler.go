package handler

import (
	"errors"
	"net/http"

	"jira_richtext/internal/logger"
	"jira_richtext/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const tokensPath = "/tokens"

// TokenRequest registers a personal token. CurrentToken is required when
// replacing a token that is already stored.
type TokenRequest struct {
	Username     string `json:"username" binding:"required"`
	Token        string `json:"token" binding:"required"`
	CurrentToken string `json:"currentToken"`
}

// HandleSetupPersonalToken handles the POST request to /tokens
func (h *IssueHandler) HandleSetupPersonalToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.svc.SetToken(c.Request.Context(), req.Username, req.Token, req.CurrentToken); err != nil {
		switch {
		case errors.Is(err, service.ErrTokenTooShort):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		case errors.Is(err, service.ErrUnauthenticated):
			logger.GetLogger().Warn("token registration refused", zap.String("username", req.Username), zap.Error(err))
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		logger.GetLogger().Error("failed to store token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Token successfully stored",
	})
}
