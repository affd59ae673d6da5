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

func imamWithMosqueQuery() *goqu.SelectDataset {
	return initializers.DB.From(goqu.T("imam").As("i")).
		LeftJoin(goqu.T("mosque").As("m"), goqu.On(goqu.I("m.mosque_id").Eq(goqu.I("i.mosque_id")))).
		Select(
			goqu.I("i.imam_id"),
			goqu.I("i.name"),
			goqu.I("i.mosque_id"),
			goqu.I("m.name").As("mosque_name"),
			goqu.I("i.audio_sample"),
			goqu.I("i.youtube_link"),
		)
}

// AdminListImams - Paginated imams with their mosque, newest first
func AdminListImams(c *gin.Context) {
	page, perPage := pageParams(c)
	search := strings.TrimSpace(c.Query("search"))

	query := imamWithMosqueQuery()
	if search != "" {
		query = query.Where(goqu.I("i.name").ILike("%" + search + "%"))
	}

	total, err := query.Count()
	if err != nil {
		serverError(c, err, "Failed to fetch imams")
		return
	}

	imams := []models.ImamWithMosque{}
	err = paginate(query.Order(goqu.I("i.imam_id").Desc()), page, perPage).ScanStructs(&imams)
	if err != nil {
		serverError(c, err, "Failed to fetch imams")
		return
	}

	c.JSON(http.StatusOK, models.Page{Items: imams, Total: total, Page: page, PerPage: perPage})
}

// AdminGetImam - A single imam with the mosque they lead
func AdminGetImam(c *gin.Context) {
	imamID, ok := paramInt(c, "imam_id")
	if !ok {
		return
	}

	var imam models.ImamWithMosque
	found, err := imamWithMosqueQuery().Where(goqu.I("i.imam_id").Eq(imamID)).ScanStruct(&imam)
	if err != nil {
		serverError(c, err, "Failed to fetch imam")
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
		return
	}

	c.JSON(http.StatusOK, imam)
}

// AdminCreateImam - Add an imam, optionally attached to a mosque
func AdminCreateImam(c *gin.Context) {
	var body models.ImamCreate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "اسم الإمام مطلوب"})
		return
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "اسم الإمام مطلوب"})
		return
	}

	imam := models.Imam{
		Name:         name,
		Mosque_ID:    body.Mosque_ID,
		Audio_Sample: nilIfEmpty(strings.TrimSpace(body.Audio_Sample)),
		Youtube_Link: nilIfEmpty(strings.TrimSpace(body.Youtube_Link)),
	}

	var insertedID int
	_, err := initializers.DB.Insert("imam").Rows(imam).Returning("imam_id").Executor().ScanVal(&insertedID)
	if err != nil {
		serverError(c, err, "Failed to create imam")
		return
	}

	services.InvalidateCaches()
	c.JSON(http.StatusCreated, gin.H{"id": insertedID})
}

// AdminUpdateImam - Partially update an imam
func AdminUpdateImam(c *gin.Context) {
	imamID, ok := paramInt(c, "imam_id")
	if !ok {
		return
	}

	var body models.ImamUpdate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	exists, err := imamExists(imamID)
	if err != nil {
		serverError(c, err, "Failed to update imam")
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
		return
	}

	changes := imamMediaChanges(body.Audio_Sample, body.Youtube_Link)
	if body.Name != nil {
		changes["name"] = strings.TrimSpace(*body.Name)
	}
	if body.Mosque_ID != nil {
		changes["mosque_id"] = *body.Mosque_ID
	}

	if len(changes) > 0 {
		_, err = initializers.DB.Update("imam").
			Set(changes).
			Where(goqu.C("imam_id").Eq(imamID)).
			Executor().Exec()
		if err != nil {
			serverError(c, err, "Failed to update imam")
			return
		}
	}

	services.InvalidateCaches()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AdminDeleteImam - Delete an imam
func AdminDeleteImam(c *gin.Context) {
	imamID, ok := paramInt(c, "imam_id")
	if !ok {
		return
	}

	result, err := initializers.DB.Delete("imam").Where(goqu.C("imam_id").Eq(imamID)).Executor().Exec()
	if err != nil {
		serverError(c, err, "Failed to delete imam")
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
		return
	}

	services.InvalidateCaches()
	c.JSON(http.StatusOK, gin.H{"success": true})
}
