package middleware

import (
	"github.com/gin-gonic/gin"

	"watertax-svc/internal/session"
	"watertax-svc/pkg/utils"
)

// SessionKey is the gin context key holding the parsed session envelope.
const SessionKey = "citizen_session"

// SessionRequired guards protected routes. A missing or invalid envelope
// never renders protected content, the request is rejected with 401.
func SessionRequired(manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := manager.Load(c)
		if err != nil {
			utils.UnauthorizedResponse(c, "Login required")
			c.Abort()
			return
		}
		c.Set(SessionKey, sess)
		c.Next()
	}
}

// SessionFrom extracts the session envelope placed by SessionRequired.
func SessionFrom(c *gin.Context) *session.Session {
	v, ok := c.Get(SessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*session.Session)
	return sess
}
