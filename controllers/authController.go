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

// Register - Create the public profile for a verified Firebase identity and
// import any favorites kept locally before signing up
func Register(c *gin.Context) {
	if _, exists := c.Get("currentUser"); exists {
		c.JSON(http.StatusConflict, gin.H{"error": "User already registered"})
		return
	}
	token := c.MustGet("authToken").(models.AuthToken)

	var body models.UserRegister
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	username := strings.TrimSpace(body.Username)
	if msg := services.ValidateUsername(username); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	taken, err := initializers.DB.From("public_user").Where(goqu.C("username").Eq(username)).Count()
	if err != nil {
		serverError(c, err, msgServerError)
		return
	}
	if taken > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "اسم المستخدم مستخدم بالفعل"})
		return
	}

	displayName := body.Display_Name
	if displayName == "" {
		displayName = token.Name
	}

	user := models.PublicUser{
		Firebase_UID: token.UID,
		Username:     username,
		Display_Name: nilIfEmpty(services.Truncate(services.SanitizeText(displayName), 100)),
		Avatar_URL:   nilIfEmpty(token.Picture),
		Email:        nilIfEmpty(token.Email),
		Phone:        nilIfEmpty(token.PhoneNumber),
	}

	err = initializers.DB.WithTx(func(tx *goqu.TxDatabase) error {
		_, err := tx.Insert("public_user").Rows(user).
			Returning("public_user_id").
			Executor().ScanVal(&user.Public_User_ID)
		if err != nil {
			return err
		}

		if len(body.Import_Favorites) == 0 {
			return nil
		}
		validIDs, err := existingMosqueIDs(tx.From("mosque"), body.Import_Favorites)
		if err != nil {
			return err
		}
		return insertFavorites(tx, user.Public_User_ID, validIDs)
	})
	if constraint, ok := uniqueViolation(err); ok {
		// lost a race with a concurrent registration
		if constraint == "public_user_firebase_uid_key" {
			c.JSON(http.StatusConflict, gin.H{"error": "User already registered"})
		} else {
			c.JSON(http.StatusConflict, gin.H{"error": "اسم المستخدم مستخدم بالفعل"})
		}
		return
	}
	if err != nil {
		serverError(c, err, "Failed to register user")
		return
	}

	requestLogger(c).Info().Int("user_id", user.Public_User_ID).Str("username", username).Msg("public user registered")

	c.JSON(http.StatusCreated, gin.H{
		"id":           user.Public_User_ID,
		"username":     user.Username,
		"display_name": user.Display_Name,
		"avatar_url":   user.Avatar_URL,
	})
}

// Me - The caller's profile with their favorite mosque ids
func Me(c *gin.Context) {
	value, exists := c.Get("currentUser")
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not registered"})
		return
	}
	user := value.(models.PublicUser)

	favorites, err := favoriteMosqueIDs(user.Public_User_ID)
	if err != nil {
		serverError(c, err, msgServerError)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":           user.Public_User_ID,
		"username":     user.Username,
		"display_name": user.Display_Name,
		"avatar_url":   user.Avatar_URL,
		"email":        user.Email,
		"role":         user.Role,
		"favorites":    favorites,
	})
}
