package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/Taraweeh/initializers"
	"github.com/Taraweeh/models"
	"github.com/Taraweeh/services"
	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
)

// GetTracker - The caller's attended nights and streak stats
func GetTracker(c *gin.Context) {
	user, ok := registeredUser(c)
	if !ok {
		return
	}

	tracker, err := loadTracker(user.Public_User_ID)
	if err != nil {
		serverError(c, err, "Failed to fetch tracker")
		return
	}

	c.JSON(http.StatusOK, tracker)
}

// MarkNight - Record or update attendance for a night
func MarkNight(c *gin.Context) {
	user, ok := registeredUser(c)
	if !ok {
		return
	}

	var param models.NightParam
	if err := c.ShouldBindUri(&param); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Night must be 1-30"})
		return
	}

	var mark models.AttendanceMark
	if err := c.ShouldBindJSON(&mark); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if mark.Mosque_ID != nil {
		exists, err := mosqueExists(*mark.Mosque_ID)
		if err != nil {
			serverError(c, err, "Failed to mark night")
			return
		}
		if !exists {
			c.JSON(http.StatusNotFound, gin.H{"error": "Mosque not found"})
			return
		}
	}

	_, err := initializers.DB.Insert("taraweeh_attendance").
		Rows(models.TaraweehAttendance{
			Public_User_ID: user.Public_User_ID,
			Night:          param.Night,
			Mosque_ID:      mark.Mosque_ID,
			Rakaat:         mark.Rakaat,
		}).
		OnConflict(goqu.DoUpdate("public_user_id, night", goqu.Record{
			"mosque_id": goqu.I("EXCLUDED.mosque_id"),
			"rakaat":    goqu.I("EXCLUDED.rakaat"),
		})).
		Executor().Exec()
	if err != nil {
		serverError(c, err, "Failed to mark night")
		return
	}

	requestLogger(c).Debug().Int("user_id", user.Public_User_ID).Int("night", param.Night).Msg("night marked")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UnmarkNight - Remove attendance for a night; unmarking twice is a no-op
func UnmarkNight(c *gin.Context) {
	user, ok := registeredUser(c)
	if !ok {
		return
	}

	var param models.NightParam
	if err := c.ShouldBindUri(&param); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Night must be 1-30"})
		return
	}

	_, err := initializers.DB.Delete("taraweeh_attendance").
		Where(
			goqu.C("public_user_id").Eq(user.Public_User_ID),
			goqu.C("night").Eq(param.Night),
		).
		Executor().Exec()
	if err != nil {
		serverError(c, err, "Failed to unmark night")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func loadTracker(userID int) (models.TrackerResponse, error) {
	records := []models.TaraweehAttendance{}
	err := initializers.DB.From("taraweeh_attendance").
		Where(goqu.C("public_user_id").Eq(userID)).
		Order(goqu.C("night").Asc()).
		ScanStructs(&records)
	if err != nil {
		return models.TrackerResponse{}, err
	}

	nights := make([]int, 0, len(records))
	for _, r := range records {
		nights = append(nights, r.Night)
	}

	return models.TrackerResponse{Nights: records, Stats: services.TrackerStats(nights)}, nil
}
