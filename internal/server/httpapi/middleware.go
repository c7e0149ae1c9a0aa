package httpapi

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophgallery/internal/common"
	"github.com/dmitrijs2005/gophgallery/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const ownerKey = "owner"

// requestLogger logs every request at debug level and echoes X-Request-ID.
func requestLogger(l logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(common.RequestIDHeaderName)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(common.RequestIDHeaderName, requestID)

		c.Next()

		l.Debug(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"elapsed", time.Since(start),
			"request_id", requestID,
		)
	}
}

// authRequired resolves the bearer token to its owner. A missing, malformed,
// invalid or expired token is answered with 403.
func authRequired(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := common.BearerToken(c.GetHeader(common.AuthorizationHeaderName))
		if !ok {
			writeError(c, http.StatusForbidden, "missing or malformed authorization header")
			return
		}

		owner, err := a.Authenticate(token)
		if err != nil {
			writeError(c, http.StatusForbidden, "invalid or expired token")
			return
		}

		c.Set(ownerKey, owner)
		c.Next()
	}
}
