package controllers

import (
	"net/http"

	"github.com/Taraweeh/initializers"
	"github.com/Taraweeh/models"
	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
)

func userByUsername(c *gin.Context) (models.PublicUser, bool) {
	var user models.PublicUser
	found, err := initializers.DB.From("public_user").
		Where(goqu.C("username").Eq(c.Param("username"))).
		ScanStruct(&user)
	if err != nil {
		serverError(c, err, msgServerError)
		return user, false
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return user, false
	}
	return user, true
}

// PublicProfile - A user's public page: name, points and favorite mosques
func PublicProfile(c *gin.Context) {
	user, ok := userByUsername(c)
	if !ok {
		return
	}

	favorites := initializers.DB.From("user_favorite").
		Select("mosque_id").
		Where(goqu.C("public_user_id").Eq(user.Public_User_ID))

	var rows []models.MosqueWithImam
	err := mosqueWithImamQuery().
		Where(goqu.I("m.mosque_id").In(favorites)).
		Order(goqu.I("m.name").Asc()).
		ScanStructs(&rows)
	if err != nil {
		serverError(c, err, msgServerError)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"username":            user.Username,
		"display_name":        user.Display_Name,
		"avatar_url":          user.Avatar_URL,
		"created_at":          user.Created_At,
		"contribution_points": user.Contribution_Points,
		"mosques":             toMosqueResponses(rows),
	})
}

// PublicTracker - A user's attendance tracker, visible to anyone
func PublicTracker(c *gin.Context) {
	user, ok := userByUsername(c)
	if !ok {
		return
	}

	tracker, err := loadTracker(user.Public_User_ID)
	if err != nil {
		serverError(c, err, msgServerError)
		return
	}
	tracker.Username = user.Username
	tracker.DisplayName = user.Display_Name

	c.JSON(http.StatusOK, tracker)
}
