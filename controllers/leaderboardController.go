package controllers

import (
	"net/http"
	"time"

	"github.com/Taraweeh/initializers"
	"github.com/Taraweeh/models"
	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
)

const leaderboardSize = 20

type firstApproval struct {
	Submitter_ID int
	Reviewed_At  *time.Time
}

// GetLeaderboard - Top contributors by points, flagging the pioneer whose
// request was the first ever approved
func GetLeaderboard(c *gin.Context) {
	var users []models.PublicUser
	err := initializers.DB.From("public_user").
		Where(goqu.C("contribution_points").Gt(0)).
		Order(goqu.C("contribution_points").Desc(), goqu.C("public_user_id").Asc()).
		Limit(leaderboardSize).
		ScanStructs(&users)
	if err != nil {
		serverError(c, err, msgServerError)
		return
	}

	pioneerID, err := pioneerUserID()
	if err != nil {
		serverError(c, err, msgServerError)
		return
	}

	entries := make([]models.LeaderboardEntry, 0, len(users))
	for _, u := range users {
		entries = append(entries, models.LeaderboardEntry{
			Username:    u.Username,
			DisplayName: u.Display_Name,
			AvatarURL:   u.Avatar_URL,
			Points:      u.Contribution_Points,
			IsPioneer:   pioneerID != 0 && u.Public_User_ID == pioneerID,
		})
	}

	c.JSON(http.StatusOK, entries)
}

// pioneerUserID returns the submitter of the earliest approved transfer or
// community request, or 0 when nothing was approved yet.
func pioneerUserID() (int, error) {
	var transfer, request firstApproval
	transferFound, err := initializers.DB.From("imam_transfer_request").
		Select("submitter_id", "reviewed_at").
		Where(goqu.C("status").Eq(models.StatusApproved)).
		Order(goqu.C("reviewed_at").Asc().NullsLast()).
		ScanStruct(&transfer)
	if err != nil {
		return 0, err
	}

	requestFound, err := initializers.DB.From("community_request").
		Select("submitter_id", "reviewed_at").
		Where(goqu.C("status").Eq(models.StatusApproved)).
		Order(goqu.C("reviewed_at").Asc().NullsLast()).
		ScanStruct(&request)
	if err != nil {
		return 0, err
	}

	switch {
	case transferFound && requestFound:
		if request.Reviewed_At != nil && (transfer.Reviewed_At == nil || request.Reviewed_At.Before(*transfer.Reviewed_At)) {
			return request.Submitter_ID, nil
		}
		return transfer.Submitter_ID, nil
	case transferFound:
		return transfer.Submitter_ID, nil
	case requestFound:
		return request.Submitter_ID, nil
	}
	return 0, nil
}
