package controllers

import (
	"time"

	"github.com/Taraweeh/models"
)

// Test fixture data for use in tests

// MockPublicUser creates a registered public user with default trust
func MockPublicUser() models.PublicUser {
	displayName := "مستخدم تجريبي"
	return models.PublicUser{
		Public_User_ID:      1,
		Firebase_UID:        "firebase-uid-1",
		Username:            "testuser",
		Display_Name:        &displayName,
		Role:                models.RoleUser,
		Contribution_Points: 0,
		Trust_Level:         models.TrustDefault,
		Created_At:          time.Now(),
	}
}

// MockModerator creates a public user with the moderator role
func MockModerator() models.PublicUser {
	user := MockPublicUser()
	user.Public_User_ID = 2
	user.Firebase_UID = "firebase-uid-2"
	user.Username = "moderator"
	user.Role = models.RoleModerator
	return user
}

// MockAdmin creates a public user with the admin role
func MockAdmin() models.PublicUser {
	user := MockPublicUser()
	user.Public_User_ID = 3
	user.Firebase_UID = "firebase-uid-3"
	user.Username = "admin_user"
	user.Role = models.RoleAdmin
	return user
}

// mosqueColumns are the columns returned by the mosque-with-imam query
var mosqueColumns = []string{"mosque_id", "name", "location", "area", "map_link", "latitude", "longitude", "imam_id", "imam_name", "audio_sample", "youtube_link"}
