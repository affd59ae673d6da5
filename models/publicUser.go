package models

import "time"

const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

const (
	TrustDefault    = "default"
	TrustTrusted    = "trusted"
	TrustNotTrusted = "not_trusted"
)

// PublicUser is a Firebase-authenticated member of the public.
type PublicUser struct {
	Public_User_ID      int       `json:"id" goqu:"skipinsert"`
	Firebase_UID        string    `json:"-"`
	Username            string    `json:"username"`
	Display_Name        *string   `json:"display_name"`
	Avatar_URL          *string   `json:"avatar_url"`
	Email               *string   `json:"email"`
	Phone               *string   `json:"-"`
	Role                string    `json:"role" goqu:"skipinsert"`
	Contribution_Points int       `json:"contribution_points" goqu:"skipinsert"`
	Trust_Level         string    `json:"trust_level" goqu:"skipinsert"`
	Created_At          time.Time `json:"created_at" goqu:"skipinsert"`
}

// Name is the display name when set, otherwise the username.
func (u PublicUser) Name() string {
	if u.Display_Name != nil && *u.Display_Name != "" {
		return *u.Display_Name
	}
	return u.Username
}

func (u PublicUser) IsStaff() bool {
	return u.Role == RoleAdmin || u.Role == RoleModerator
}

// AuthToken holds the verified identity claims of a bearer token.
type AuthToken struct {
	UID         string
	Name        string
	Email       string
	Picture     string
	PhoneNumber string
}

type UserRegister struct {
	Username         string `json:"username"`
	Display_Name     string `json:"display_name"`
	Import_Favorites []int  `json:"import_favorites"`
}

type RoleUpdate struct {
	Role string `json:"role" binding:"required,oneof=user moderator admin"`
}

type TrustLevelUpdate struct {
	Trust_Level string `json:"trust_level" binding:"required,oneof=default trusted not_trusted"`
}

type LeaderboardEntry struct {
	Username    string  `json:"username"`
	DisplayName *string `json:"display_name"`
	AvatarURL   *string `json:"avatar_url"`
	Points      int     `json:"points"`
	IsPioneer   bool    `json:"is_pioneer"`
}
