package handler

import (
	"strings"

	"jira_richtext/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	userHeader  = "X-Jira-User"
	tokenHeader = "X-Jira-Token"
	callerKey   = "caller"
)

// CallerIdentity stores the account named in X-Jira-User, with the personal
// token from X-Jira-Token that proves it, on the context
func CallerIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(callerKey, service.Caller{
			Username: strings.TrimSpace(c.GetHeader(userHeader)),
			Token:    strings.TrimSpace(c.GetHeader(tokenHeader)),
		})
		c.Next()
	}
}

// caller returns the identity set by CallerIdentity, the zero Caller for the default account
func caller(c *gin.Context) service.Caller {
	v, ok := c.Get(callerKey)
	if !ok {
		return service.Caller{}
	}
	id, _ := v.(service.Caller)
	return id
}
