package models

import "time"

type UserPushToken struct {
	User_Push_Token_ID int       `json:"userPushTokenId" goqu:"skipinsert"`
	Public_User_ID     int       `json:"userId"`
	Push_Token         string    `json:"pushToken"`
	Platform           string    `json:"platform"`
	Created_At         time.Time `json:"createdAt" goqu:"skipinsert"`
}

type PushTokenCreate struct {
	Push_Token string `json:"push_token" binding:"required"`
	Platform   string `json:"platform" binding:"required,oneof=web ios android"`
}
