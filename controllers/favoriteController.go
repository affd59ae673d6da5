package controllers

import (
	"net/http"
	"strconv"

	"github.com/Taraweeh/initializers"
	"github.com/Taraweeh/models"
	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
)

// GetFavorites - Mosque ids the caller has favorited
func GetFavorites(c *gin.Context) {
	user, ok := registeredUser(c)
	if !ok {
		return
	}

	ids, err := favoriteMosqueIDs(user.Public_User_ID)
	if err != nil {
		serverError(c, err, "Failed to fetch favorites")
		return
	}

	c.JSON(http.StatusOK, ids)
}

// SetFavorites - Replace the caller's favorites with the given mosque ids,
// silently dropping ids of mosques that do not exist
func SetFavorites(c *gin.Context) {
	user, ok := registeredUser(c)
	if !ok {
		return
	}

	var body models.FavoritesSet
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mosque_ids must be a list"})
		return
	}

	var validIDs []int
	err := initializers.DB.WithTx(func(tx *goqu.TxDatabase) error {
		var err error
		validIDs, err = existingMosqueIDs(tx.From("mosque"), body.Mosque_IDs)
		if err != nil {
			return err
		}

		_, err = tx.Delete("user_favorite").
			Where(goqu.C("public_user_id").Eq(user.Public_User_ID)).
			Executor().Exec()
		if err != nil {
			return err
		}
		return insertFavorites(tx, user.Public_User_ID, validIDs)
	})
	if err != nil {
		serverError(c, err, "Failed to update favorites")
		return
	}

	c.JSON(http.StatusOK, validIDs)
}

// AddFavorite - Favorite a mosque; favoriting twice is a no-op
func AddFavorite(c *gin.Context) {
	user, ok := registeredUser(c)
	if !ok {
		return
	}

	mosqueID, err := strconv.Atoi(c.Param("mosque_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Mosque not found"})
		return
	}

	exists, err := mosqueExists(mosqueID)
	if err != nil {
		serverError(c, err, "Failed to add favorite")
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Mosque not found"})
		return
	}

	_, err = initializers.DB.Insert("user_favorite").
		Rows(models.UserFavorite{Public_User_ID: user.Public_User_ID, Mosque_ID: mosqueID}).
		OnConflict(goqu.DoNothing()).
		Executor().Exec()
	if err != nil {
		serverError(c, err, "Failed to add favorite")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RemoveFavorite - Unfavorite a mosque; removing a missing favorite is a no-op
func RemoveFavorite(c *gin.Context) {
	user, ok := registeredUser(c)
	if !ok {
		return
	}

	mosqueID, err := strconv.Atoi(c.Param("mosque_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Mosque not found"})
		return
	}

	_, err = initializers.DB.Delete("user_favorite").
		Where(
			goqu.C("public_user_id").Eq(user.Public_User_ID),
			goqu.C("mosque_id").Eq(mosqueID),
		).
		Executor().Exec()
	if err != nil {
		serverError(c, err, "Failed to remove favorite")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func favoriteMosqueIDs(userID int) ([]int, error) {
	ids := []int{}
	err := initializers.DB.From("user_favorite").
		Select("mosque_id").
		Where(goqu.C("public_user_id").Eq(userID)).
		Order(goqu.C("added_at").Asc()).
		ScanVals(&ids)
	return ids, err
}

// existingMosqueIDs keeps the ids, in request order and without repeats,
// that name an existing mosque.
func existingMosqueIDs(mosques *goqu.SelectDataset, ids []int) ([]int, error) {
	valid := []int{}
	if len(ids) == 0 {
		return valid, nil
	}

	var found []int
	err := mosques.Select("mosque_id").Where(goqu.C("mosque_id").In(ids)).ScanVals(&found)
	if err != nil {
		return nil, err
	}

	exists := make(map[int]bool, len(found))
	for _, id := range found {
		exists[id] = true
	}
	for _, id := range ids {
		if exists[id] {
			valid = append(valid, id)
			exists[id] = false
		}
	}
	return valid, nil
}

func insertFavorites(tx *goqu.TxDatabase, userID int, mosqueIDs []int) error {
	if len(mosqueIDs) == 0 {
		return nil
	}
	rows := make([]interface{}, 0, len(mosqueIDs))
	for _, id := range mosqueIDs {
		rows = append(rows, models.UserFavorite{Public_User_ID: userID, Mosque_ID: id})
	}
	_, err := tx.Insert("user_favorite").Rows(rows...).OnConflict(goqu.DoNothing()).Executor().Exec()
	return err
}
