package controllers

import (
	"net/http"
	"strings"

	"github.com/Taraweeh/initializers"
	"github.com/Taraweeh/models"
	"github.com/Taraweeh/services"
	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
)

// AdminStats - Directory totals for the dashboard
func AdminStats(c *gin.Context) {
	counts := map[string]*goqu.SelectDataset{
		"mosque_count": initializers.DB.From("mosque"),
		"imam_count":   initializers.DB.From("imam"),
		"user_count":   initializers.DB.From("public_user"),
		"pending_requests": initializers.DB.From("community_request").
			Where(goqu.C("status").In(models.StatusPending, models.StatusNeedsInfo)),
	}

	stats := gin.H{}
	for _, key := range []string{"mosque_count", "imam_count", "user_count", "pending_requests"} {
		n, err := counts[key].Count()
		if err != nil {
			serverError(c, err, "Failed to fetch stats")
			return
		}
		stats[key] = n
	}

	c.JSON(http.StatusOK, stats)
}

// AdminListUsers - Paginated public users, newest first
func AdminListUsers(c *gin.Context) {
	page, perPage := pageParams(c)
	search := strings.TrimSpace(c.Query("search"))

	query := initializers.DB.From("public_user")
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where(goqu.Or(
			goqu.C("username").ILike(pattern),
			goqu.C("display_name").ILike(pattern),
			goqu.C("email").ILike(pattern),
		))
	}

	total, err := query.Count()
	if err != nil {
		serverError(c, err, "Failed to fetch users")
		return
	}

	users := []models.PublicUser{}
	err = paginate(query.Order(goqu.C("public_user_id").Desc()), page, perPage).ScanStructs(&users)
	if err != nil {
		serverError(c, err, "Failed to fetch users")
		return
	}

	c.JSON(http.StatusOK, models.Page{Items: users, Total: total, Page: page, PerPage: perPage})
}

// UpdateUserRole - Change a user's role; admins only
func UpdateUserRole(c *gin.Context) {
	currentUser := c.MustGet("currentUser").(models.PublicUser)
	if currentUser.Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only admins can change roles"})
		return
	}

	userID, ok := paramInt(c, "user_id")
	if !ok {
		return
	}
	if !userExists(c, userID) {
		return
	}

	var body models.RoleUpdate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "الدور غير صالح"})
		return
	}

	_, err := initializers.DB.Update("public_user").
		Set(goqu.Record{"role": body.Role}).
		Where(goqu.C("public_user_id").Eq(userID)).
		Executor().Exec()
	if err != nil {
		serverError(c, err, "Failed to update role")
		return
	}

	services.InvalidateCaches()
	requestLogger(c).Info().Int("user_id", userID).Str("role", body.Role).Int("by", currentUser.Public_User_ID).Msg("user role changed")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UpdateUserTrustLevel - Set how a user's requests are prioritised for review
func UpdateUserTrustLevel(c *gin.Context) {
	userID, ok := paramInt(c, "user_id")
	if !ok {
		return
	}
	if !userExists(c, userID) {
		return
	}

	var body models.TrustLevelUpdate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "مستوى الثقة غير صالح"})
		return
	}

	_, err := initializers.DB.Update("public_user").
		Set(goqu.Record{"trust_level": body.Trust_Level}).
		Where(goqu.C("public_user_id").Eq(userID)).
		Executor().Exec()
	if err != nil {
		serverError(c, err, "Failed to update trust level")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func userExists(c *gin.Context, userID int) bool {
	count, err := initializers.DB.From("public_user").Where(goqu.C("public_user_id").Eq(userID)).Count()
	if err != nil {
		serverError(c, err, msgServerError)
		return false
	}
	if count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
		return false
	}
	return true
}
