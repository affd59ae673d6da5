package controllers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Taraweeh/initializers"
	"github.com/Taraweeh/models"
	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AdminLogin - Password login for the back office; issues a 24h session token
func AdminLogin(c *gin.Context) {
	var login models.Login
	if err := c.ShouldBind(&login); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	var admin models.AdminUser
	found, err := initializers.DB.From("admin_user").
		Where(goqu.C("username").Eq(login.Username)).
		ScanStruct(&admin)
	if err != nil {
		serverError(c, err, "Login failed")
		return
	}
	if !found || bcrypt.CompareHashAndPassword([]byte(admin.Password_Hash), []byte(login.Password)) != nil {
		requestLogger(c).Warn().Str("username", login.Username).Msg("back office login failed")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	generateToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       admin.Admin_User_ID,
		"username": admin.Username,
		"exp":      time.Now().Add(time.Hour * 24).Unix(),
		"role":     models.RoleAdmin,
	})

	token, err := generateToken.SignedString([]byte(os.Getenv("SECRET")))
	if err != nil {
		serverError(c, err, "failed to generate token")
		return
	}

	requestLogger(c).Info().Str("username", admin.Username).Msg("back office login")
	c.JSON(http.StatusOK, gin.H{
		"message": "Logged in successfully.",
		"token":   token,
		"user":    admin,
	})
}

// LegacyUploadAudio - Upload an audio file straight to storage without trimming
func LegacyUploadAudio(c *gin.Context) {
	s, ok := audioPipeline(c)
	if !ok {
		return
	}
	if s.Uploader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Audio storage not configured"})
		return
	}

	header, err := c.FormFile("file")
	if err != nil || header.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "لم يتم اختيار ملف"})
		return
	}

	file, err := header.Open()
	if err != nil {
		serverError(c, err, "Failed to read upload")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext == "" {
		ext = ".mp3"
	}
	key := "audio/" + strings.ReplaceAll(uuid.NewString(), "-", "") + ext

	url, err := s.Uploader.UploadAudio(c.Request.Context(), key, file)
	if err != nil {
		serverError(c, err, "Failed to upload audio")
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
