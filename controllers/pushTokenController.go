package controllers

import (
	"net/http"

	"github.com/Taraweeh/initializers"
	"github.com/Taraweeh/models"
	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
)

// StorePushToken - Register a device for review notifications. A token seen
// before is moved to the caller.
func StorePushToken(c *gin.Context) {
	user, ok := registeredUser(c)
	if !ok {
		return
	}

	var body models.PushTokenCreate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "push_token and a valid platform are required"})
		return
	}

	_, err := initializers.DB.Insert("user_push_token").
		Rows(models.UserPushToken{
			Public_User_ID: user.Public_User_ID,
			Push_Token:     body.Push_Token,
			Platform:       body.Platform,
		}).
		OnConflict(goqu.DoUpdate("push_token", goqu.Record{
			"public_user_id": goqu.I("EXCLUDED.public_user_id"),
			"platform":       goqu.I("EXCLUDED.platform"),
		})).
		Executor().Exec()
	if err != nil {
		serverError(c, err, "Failed to store push token")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
