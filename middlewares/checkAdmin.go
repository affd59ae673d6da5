package middlewares

import (
	"net/http"

	"github.com/Taraweeh/models"
	"github.com/gin-gonic/gin"
)

// CheckAdmin admits registered admins and moderators. Must run after CheckAuth.
func CheckAdmin(c *gin.Context) {
	value, exists := c.Get("currentUser")
	if !exists {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	user, ok := value.(models.PublicUser)
	if !ok || !user.IsStaff() {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	c.Next()
}
