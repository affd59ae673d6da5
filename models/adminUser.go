package models

// AdminUser is a back-office account that signs in with a password instead of Firebase.
type AdminUser struct {
	Admin_User_ID int    `json:"id" goqu:"skipinsert"`
	Username      string `json:"username"`
	Password_Hash string `json:"-"`
}

type Login struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
