package middlewares

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/Taraweeh/initializers"
	"github.com/Taraweeh/models"
	"github.com/Taraweeh/services"

	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// CheckAuth verifies the bearer token and loads the caller's profile.
// "authToken" is always set on success; "currentUser" only once the caller
// has registered.
func CheckAuth(c *gin.Context) {
	verifier := services.GetTokenVerifier()
	if verifier == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Auth not configured"})
		return
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
		return
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
		return
	}

	token, err := verifier.VerifyToken(c.Request.Context(), parts[1])
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTokenRevoked):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token revoked, please re-authenticate"})
		case errors.Is(err, services.ErrAuthUnavailable):
			log.Ctx(c.Request.Context()).Error().Err(err).Msg("token verification unavailable")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Authentication service unavailable"})
		default:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		}
		return
	}

	c.Set("authToken", token)

	var user models.PublicUser
	found, err := initializers.DB.From("public_user").
		Where(goqu.C("firebase_uid").Eq(token.UID)).
		ScanStruct(&user)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		log.Ctx(c.Request.Context()).Error().Err(err).Msg("failed to load public user")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user profile"})
		return
	}

	if found {
		c.Set("currentUser", user)
	}

	c.Next()
}
