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

const msgMosqueFieldsRequired = "الاسم والموقع والمنطقة مطلوبة"

// AdminListMosques - Paginated mosques with their imam, newest first
func AdminListMosques(c *gin.Context) {
	page, perPage := pageParams(c)
	search := strings.TrimSpace(c.Query("search"))
	area := strings.TrimSpace(c.Query("area"))

	query := mosqueWithImamQuery()
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where(goqu.Or(
			goqu.I("m.name").ILike(pattern),
			goqu.I("m.location").ILike(pattern),
			goqu.I("i.name").ILike(pattern),
		))
	}
	if area != "" {
		query = query.Where(goqu.I("m.area").Eq(area))
	}

	total, err := query.Count()
	if err != nil {
		serverError(c, err, "Failed to fetch mosques")
		return
	}

	var rows []models.MosqueWithImam
	err = paginate(query.Order(goqu.I("m.mosque_id").Desc()), page, perPage).ScanStructs(&rows)
	if err != nil {
		serverError(c, err, "Failed to fetch mosques")
		return
	}

	items := make([]models.AdminMosqueResponse, 0, len(rows))
	for _, r := range rows {
		items = append(items, r.AdminResponse())
	}
	c.JSON(http.StatusOK, models.Page{Items: items, Total: total, Page: page, PerPage: perPage})
}

// AdminGetMosque - A mosque with its imam id for editing
func AdminGetMosque(c *gin.Context) {
	mosqueID, ok := paramInt(c, "mosque_id")
	if !ok {
		return
	}

	mosque, found, err := getMosqueWithImam(mosqueID)
	if err != nil {
		serverError(c, err, "Failed to fetch mosque")
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
		return
	}

	c.JSON(http.StatusOK, mosque.AdminResponse())
}

// AdminCreateMosque - Add a mosque, attaching an existing imam or creating one
func AdminCreateMosque(c *gin.Context) {
	var body models.MosqueCreate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingMessage(err, msgMosqueFieldsRequired)})
		return
	}

	name := strings.TrimSpace(body.Name)
	location := strings.TrimSpace(body.Location)
	area := strings.TrimSpace(body.Area)
	if name == "" || location == "" || area == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgMosqueFieldsRequired})
		return
	}

	var mosqueID int
	err := initializers.DB.WithTx(func(tx *goqu.TxDatabase) error {
		var err error
		mosqueID, err = createMosque(tx, models.Mosque{
			Name:      name,
			Location:  location,
			Area:      area,
			Map_Link:  nilIfEmpty(strings.TrimSpace(body.Map_Link)),
			Latitude:  body.Latitude,
			Longitude: body.Longitude,
		})
		if err != nil {
			return err
		}

		audio := strings.TrimSpace(body.Audio_Sample)
		youtube := strings.TrimSpace(body.Youtube_Link)

		if body.Existing_Imam_ID != nil && *body.Existing_Imam_ID != 0 {
			imamID := *body.Existing_Imam_ID
			if err := requireImam(tx, imamID); err != nil {
				return err
			}
			changes := goqu.Record{"mosque_id": mosqueID}
			if audio != "" {
				changes["audio_sample"] = audio
			}
			if youtube != "" {
				changes["youtube_link"] = youtube
			}
			return updateImam(tx, imamID, changes)
		}

		if imamName := strings.TrimSpace(body.Imam_Name); imamName != "" {
			_, err := createImam(tx, models.Imam{
				Name:         imamName,
				Mosque_ID:    &mosqueID,
				Audio_Sample: nilIfEmpty(audio),
				Youtube_Link: nilIfEmpty(youtube),
			})
			return err
		}
		return nil
	})
	if err != nil {
		respondError(c, err, "Failed to create mosque")
		return
	}

	services.InvalidateCaches()
	c.JSON(http.StatusCreated, gin.H{"id": mosqueID})
}

// AdminUpdateMosque - Partially update a mosque and reassign or rename its imam
func AdminUpdateMosque(c *gin.Context) {
	mosqueID, ok := paramInt(c, "mosque_id")
	if !ok {
		return
	}

	var body models.MosqueUpdate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingMessage(err, "Invalid request body")})
		return
	}

	err := initializers.DB.WithTx(func(tx *goqu.TxDatabase) error {
		count, err := tx.From("mosque").Where(goqu.C("mosque_id").Eq(mosqueID)).Count()
		if err != nil {
			return err
		}
		if count == 0 {
			return newAPIError(http.StatusNotFound, msgNotFound)
		}

		if changes := mosqueChanges(body); len(changes) > 0 {
			_, err := tx.Update("mosque").
				Set(changes).
				Where(goqu.C("mosque_id").Eq(mosqueID)).
				Executor().Exec()
			if err != nil {
				return err
			}
		}

		return reassignMosqueImam(tx, mosqueID, body)
	})
	if err != nil {
		respondError(c, err, "Failed to update mosque")
		return
	}

	services.InvalidateCaches()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func mosqueChanges(body models.MosqueUpdate) goqu.Record {
	changes := goqu.Record{}
	if body.Name != nil {
		changes["name"] = strings.TrimSpace(*body.Name)
	}
	if body.Location != nil {
		changes["location"] = strings.TrimSpace(*body.Location)
	}
	if body.Area != nil {
		changes["area"] = strings.TrimSpace(*body.Area)
	}
	if body.Map_Link != nil {
		changes["map_link"] = nullable(nilIfEmpty(strings.TrimSpace(*body.Map_Link)))
	}
	if body.Latitude != nil {
		changes["latitude"] = *body.Latitude
	}
	if body.Longitude != nil {
		changes["longitude"] = *body.Longitude
	}
	return changes
}

// imamMediaChanges collects the audio and youtube fields present in an update.
func imamMediaChanges(audio, youtube *string) goqu.Record {
	changes := goqu.Record{}
	if audio != nil {
		changes["audio_sample"] = nullable(nilIfEmpty(strings.TrimSpace(*audio)))
	}
	if youtube != nil {
		changes["youtube_link"] = nullable(nilIfEmpty(strings.TrimSpace(*youtube)))
	}
	return changes
}

// reassignMosqueImam applies the imam part of a mosque update. An existing
// imam id replaces the current imam; otherwise a present imam_name renames
// the current imam, creates one, or when blank detaches it.
func reassignMosqueImam(tx *goqu.TxDatabase, mosqueID int, body models.MosqueUpdate) error {
	var currentImamID *int
	if _, err := firstImamAt(tx.From, mosqueID).ScanVal(&currentImamID); err != nil {
		return err
	}
	media := imamMediaChanges(body.Audio_Sample, body.Youtube_Link)

	if body.Existing_Imam_ID != nil && *body.Existing_Imam_ID != 0 {
		imamID := *body.Existing_Imam_ID
		if err := requireImam(tx, imamID); err != nil {
			return err
		}
		if currentImamID != nil && *currentImamID != imamID {
			if err := updateImam(tx, *currentImamID, goqu.Record{"mosque_id": nil}); err != nil {
				return err
			}
		}
		media["mosque_id"] = mosqueID
		return updateImam(tx, imamID, media)
	}

	if body.Imam_Name == nil {
		return nil
	}

	imamName := strings.TrimSpace(*body.Imam_Name)
	switch {
	case imamName != "" && currentImamID != nil:
		media["name"] = imamName
		return updateImam(tx, *currentImamID, media)
	case imamName != "":
		imam := models.Imam{Name: imamName, Mosque_ID: &mosqueID}
		if body.Audio_Sample != nil {
			imam.Audio_Sample = nilIfEmpty(strings.TrimSpace(*body.Audio_Sample))
		}
		if body.Youtube_Link != nil {
			imam.Youtube_Link = nilIfEmpty(strings.TrimSpace(*body.Youtube_Link))
		}
		_, err := createImam(tx, imam)
		return err
	case currentImamID != nil:
		return updateImam(tx, *currentImamID, goqu.Record{"mosque_id": nil})
	}
	return nil
}

// AdminDeleteMosque - Delete a mosque, detaching its imams and clearing
// favorites and tracker references
func AdminDeleteMosque(c *gin.Context) {
	mosqueID, ok := paramInt(c, "mosque_id")
	if !ok {
		return
	}

	err := initializers.DB.WithTx(func(tx *goqu.TxDatabase) error {
		count, err := tx.From("mosque").Where(goqu.C("mosque_id").Eq(mosqueID)).Count()
		if err != nil {
			return err
		}
		if count == 0 {
			return newAPIError(http.StatusNotFound, msgNotFound)
		}

		if _, err := tx.Update("imam").Set(goqu.Record{"mosque_id": nil}).
			Where(goqu.C("mosque_id").Eq(mosqueID)).Executor().Exec(); err != nil {
			return err
		}
		if _, err := tx.Delete("user_favorite").
			Where(goqu.C("mosque_id").Eq(mosqueID)).Executor().Exec(); err != nil {
			return err
		}
		if _, err := tx.Update("taraweeh_attendance").Set(goqu.Record{"mosque_id": nil}).
			Where(goqu.C("mosque_id").Eq(mosqueID)).Executor().Exec(); err != nil {
			return err
		}
		_, err = tx.Delete("mosque").Where(goqu.C("mosque_id").Eq(mosqueID)).Executor().Exec()
		return err
	})
	if err != nil {
		respondError(c, err, "Failed to delete mosque")
		return
	}

	services.InvalidateCaches()
	requestLogger(c).Info().Int("mosque_id", mosqueID).Msg("mosque deleted")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func requireImam(tx *goqu.TxDatabase, imamID int) error {
	count, err := tx.From("imam").Where(goqu.C("imam_id").Eq(imamID)).Count()
	if err != nil {
		return err
	}
	if count == 0 {
		return newAPIError(http.StatusNotFound, "الإمام غير موجود")
	}
	return nil
}

func updateImam(tx *goqu.TxDatabase, imamID int, changes goqu.Record) error {
	if len(changes) == 0 {
		return nil
	}
	_, err := tx.Update("imam").Set(changes).Where(goqu.C("imam_id").Eq(imamID)).Executor().Exec()
	return err
}
