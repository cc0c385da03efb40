package middleware

import (
	"github.com/gin-gonic/gin"

	apperrors "funmoney/internal/errors"
	"funmoney/internal/uuid"
)

const userIDKey = "userID"

// Identity reads the opaque user token from the X-User-ID header and puts it
// on the context. The token is generated once on the client and scopes every
// read and write; it is a data-partitioning key, not an authentication
// credential, so there is nothing to verify beyond its shape.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			abortWithAppError(c, apperrors.ErrMissingUserID)
			return
		}
		if !uuid.IsValid(userID) {
			abortWithAppError(c, apperrors.ErrInvalidUserID)
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

func abortWithAppError(c *gin.Context, err *apperrors.AppError) {
	c.AbortWithStatusJSON(err.StatusCode, gin.H{
		"error": gin.H{
			"code":    err.Code,
			"message": err.Message,
		},
	})
}
