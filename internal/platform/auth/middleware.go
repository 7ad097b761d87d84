package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const DeviceIDKey = "deviceID"

// RequireSession rejects requests without a valid bearer token. A nil issuer
// lets everything through, which is how the service runs without SESSION_SECRET.
func RequireSession(issuer *Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if issuer == nil {
			c.Next()
			return
		}
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		deviceID, err := issuer.Verify(strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": ErrInvalidToken.Error()})
			return
		}
		c.Set(DeviceIDKey, deviceID)
		c.Next()
	}
}

type sessionRequest struct {
	DeviceID string `json:"device_id" binding:"required"`
	AppKey   string `json:"app_key" binding:"required"`
}

// SessionHandler serves POST /session.
func SessionHandler(issuer *Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
			return
		}
		token, expiresAt, err := issuer.Issue(req.DeviceID, req.AppKey)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token, "expires_at": expiresAt})
	}
}
