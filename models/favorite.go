package models

import "time"

type UserFavorite struct {
	User_Favorite_ID int       `json:"userFavoriteId" goqu:"skipinsert"`
	Public_User_ID   int       `json:"userId"`
	Mosque_ID        int       `json:"mosqueId"`
	Added_At         time.Time `json:"addedAt" goqu:"skipinsert"`
}

type FavoritesSet struct {
	Mosque_IDs []int `json:"mosque_ids"`
}
