package middleware

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/mergington-activities-api/pkg/errors"
	"github.com/noah-isme/mergington-activities-api/pkg/response"
)

// ContextUserKey is the gin context key storing the authenticated username.
const ContextUserKey = "currentTeacher"

// SessionAuthenticator resolves a session token to a username.
type SessionAuthenticator interface {
	Authenticate(ctx context.Context, token string) (string, error)
}

// RequireSession protects routes by requiring a live teacher session
// cookie. message overrides the 401 detail shown to the caller.
func RequireSession(auth SessionAuthenticator, cookieName, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(cookieName)
		username, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, appErrors.ErrUnauthorized) {
				err = appErrors.Clone(appErrors.ErrUnauthorized, message)
			}
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, username)
		c.Next()
	}
}

// CurrentTeacher returns the username attached by RequireSession.
func CurrentTeacher(c *gin.Context) string {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return ""
	}
	username, _ := value.(string)
	return username
}
