package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/Taraweeh/initializers"
	"github.com/Taraweeh/models"
	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/gin-gonic/gin"
)

const trustPromotionApprovals = 2

// communityRequestQuery selects requests with target mosque, referenced imam
// and submitter details.
func communityRequestQuery() *goqu.SelectDataset {
	return initializers.DB.From(goqu.T("community_request").As("r")).
		LeftJoin(goqu.T("mosque").As("m"), goqu.On(goqu.I("m.mosque_id").Eq(goqu.I("r.target_mosque_id")))).
		LeftJoin(goqu.T("imam").As("i"), goqu.On(goqu.I("i.imam_id").Eq(goqu.I("r.existing_imam_id")))).
		LeftJoin(goqu.T("public_user").As("u"), goqu.On(goqu.I("u.public_user_id").Eq(goqu.I("r.submitter_id")))).
		Select(
			goqu.T("r").All(),
			goqu.I("m.name").As("target_mosque_name"),
			goqu.I("i.name").As("existing_imam_name"),
			goqu.COALESCE(goqu.Func("NULLIF", goqu.I("u.display_name"), ""), goqu.I("u.username")).As("submitter_name"),
			goqu.I("u.trust_level").As("submitter_trust_level"),
		)
}

func usesExistingImam(r models.CommunityRequest) bool {
	return r.Imam_Source != nil && *r.Imam_Source == models.ImamSourceExisting && r.Existing_Imam_ID != nil
}

// requestImamName is the imam a request is about: the referenced imam when
// an existing one was picked, else the submitted name.
func requestImamName(r models.CommunityRequestRow) *string {
	if usesExistingImam(r.CommunityRequest) {
		return r.Existing_Imam_Name
	}
	return r.Imam_Name
}

// myRequestItem is the submitter's view of a request.
func myRequestItem(r models.CommunityRequestRow) gin.H {
	item := gin.H{
		"id":            r.Community_Request_ID,
		"request_type":  r.Request_Type,
		"status":        r.Status,
		"reject_reason": r.Reject_Reason,
		"notes":         r.Notes,
		"created_at":    r.Created_At,
		"reviewed_at":   r.Reviewed_At,
	}
	if r.Status == models.StatusNeedsInfo && r.Admin_Notes != nil && *r.Admin_Notes != "" {
		item["admin_notes"] = r.Admin_Notes
	}

	switch r.Request_Type {
	case models.RequestNewMosque:
		item["mosque_name"] = r.Mosque_Name
		item["mosque_area"] = r.Mosque_Area
		item["mosque_location"] = r.Mosque_Location
		item["imam_name"] = r.Imam_Name
	case models.RequestNewImam, models.RequestImamTransfer:
		item["target_mosque_name"] = r.Target_Mosque_Name
		item["target_mosque_id"] = r.Target_Mosque_ID
		item["imam_name"] = requestImamName(r)
		item["imam_source"] = r.Imam_Source
	}
	return item
}

func submitterTrust(r models.CommunityRequestRow) string {
	if r.Submitter_Trust_Level == nil {
		return models.TrustDefault
	}
	return *r.Submitter_Trust_Level
}

// adminRequestItem is the review queue's view of a request.
func adminRequestItem(r models.CommunityRequestRow) gin.H {
	item := gin.H{
		"id":                    r.Community_Request_ID,
		"request_type":          r.Request_Type,
		"status":                r.Status,
		"notes":                 r.Notes,
		"reject_reason":         r.Reject_Reason,
		"admin_notes":           r.Admin_Notes,
		"created_at":            r.Created_At,
		"reviewed_at":           r.Reviewed_At,
		"submitter_name":        r.Submitter_Name,
		"submitter_id":          r.Submitter_ID,
		"submitter_trust_level": submitterTrust(r),
		"duplicate_of":          r.Duplicate_Of,
	}

	switch r.Request_Type {
	case models.RequestNewMosque:
		item["mosque_name"] = r.Mosque_Name
		item["mosque_area"] = r.Mosque_Area
		item["mosque_location"] = r.Mosque_Location
		item["mosque_map_link"] = r.Mosque_Map_Link
		item["imam_name"] = r.Imam_Name
		item["imam_youtube_link"] = r.Imam_Youtube_Link
		item["imam_audio_url"] = r.Imam_Audio_URL
	case models.RequestNewImam, models.RequestImamTransfer:
		item["target_mosque_id"] = r.Target_Mosque_ID
		item["target_mosque_name"] = r.Target_Mosque_Name
		item["imam_source"] = r.Imam_Source
		item["imam_name"] = requestImamName(r)
		if usesExistingImam(r.CommunityRequest) {
			item["existing_imam_id"] = r.Existing_Imam_ID
		} else {
			item["imam_youtube_link"] = r.Imam_Youtube_Link
			item["imam_audio_url"] = r.Imam_Audio_URL
		}
	}
	return item
}

// lockReviewableRequest loads a request for update; reviewable means pending
// or waiting on more information.
func lockReviewableRequest(tx *goqu.TxDatabase, requestID int) (models.CommunityRequest, error) {
	var cr models.CommunityRequest
	found, err := tx.From("community_request").
		Where(goqu.C("community_request_id").Eq(requestID)).
		ForUpdate(exp.Wait).
		ScanStruct(&cr)
	if err != nil {
		return cr, err
	}
	if !found {
		return cr, newAPIError(http.StatusNotFound, msgNotFound)
	}
	if cr.Status != models.StatusPending && cr.Status != models.StatusNeedsInfo {
		return cr, newAPIError(http.StatusBadRequest, "تمت المراجعة مسبقاً")
	}
	return cr, nil
}

// override returns the reviewer's value when given, else the submitted one, trimmed.
func override(reviewer *string, submitted *string) string {
	if reviewer != nil {
		return strings.TrimSpace(*reviewer)
	}
	if submitted != nil {
		return strings.TrimSpace(*submitted)
	}
	return ""
}

// applyRequest makes the directory change a request asks for.
func applyRequest(tx *goqu.TxDatabase, cr models.CommunityRequest, body models.RequestApproval) error {
	if cr.Request_Type == models.RequestNewMosque {
		return applyNewMosque(tx, cr, body)
	}

	if cr.Target_Mosque_ID == nil {
		return newAPIError(http.StatusBadRequest, "المسجد المستهدف غير محدد")
	}
	mosqueID := *cr.Target_Mosque_ID
	count, err := tx.From("mosque").Where(goqu.C("mosque_id").Eq(mosqueID)).Count()
	if err != nil {
		return err
	}
	if count == 0 {
		return newAPIError(http.StatusBadRequest, "المسجد غير موجود")
	}

	if usesExistingImam(cr) {
		if err := detachCurrentImam(tx, mosqueID); err != nil {
			return err
		}
		return attachImam(tx, *cr.Existing_Imam_ID, mosqueID)
	}

	imamName := override(body.Imam_Name, cr.Imam_Name)
	if imamName == "" {
		return newAPIError(http.StatusBadRequest, "اسم الإمام مطلوب")
	}
	if err := detachCurrentImam(tx, mosqueID); err != nil {
		return err
	}
	_, err = createImam(tx, models.Imam{
		Name:         imamName,
		Mosque_ID:    &mosqueID,
		Youtube_Link: nilIfEmpty(override(body.Imam_Youtube_Link, cr.Imam_Youtube_Link)),
		Audio_Sample: nilIfEmpty(override(body.Audio_Sample, cr.Imam_Audio_URL)),
	})
	return err
}

func applyNewMosque(tx *goqu.TxDatabase, cr models.CommunityRequest, body models.RequestApproval) error {
	name := override(body.Mosque_Name, cr.Mosque_Name)
	area := override(body.Mosque_Area, cr.Mosque_Area)
	location := override(body.Mosque_Location, cr.Mosque_Location)
	if name == "" || area == "" || location == "" {
		return newAPIError(http.StatusBadRequest, "اسم المسجد والمنطقة والحي مطلوبة")
	}

	mosqueID, err := createMosque(tx, models.Mosque{
		Name:      name,
		Area:      area,
		Location:  location,
		Map_Link:  nilIfEmpty(override(body.Mosque_Map_Link, cr.Mosque_Map_Link)),
		Latitude:  body.Latitude,
		Longitude: body.Longitude,
	})
	if err != nil {
		return err
	}

	if usesExistingImam(cr) {
		return attachImam(tx, *cr.Existing_Imam_ID, mosqueID)
	}

	imamName := override(body.Imam_Name, cr.Imam_Name)
	if imamName == "" {
		return nil
	}
	_, err = createImam(tx, models.Imam{
		Name:         imamName,
		Mosque_ID:    &mosqueID,
		Youtube_Link: nilIfEmpty(override(body.Imam_Youtube_Link, cr.Imam_Youtube_Link)),
		Audio_Sample: nilIfEmpty(override(body.Audio_Sample, cr.Imam_Audio_URL)),
	})
	return err
}

func createMosque(tx *goqu.TxDatabase, mosque models.Mosque) (int, error) {
	var id int
	_, err := tx.Insert("mosque").Rows(mosque).Returning("mosque_id").Executor().ScanVal(&id)
	return id, err
}

// creditSubmitter awards a point and promotes a default-trust submitter once
// enough of their earlier requests were approved.
func creditSubmitter(tx *goqu.TxDatabase, submitterID int) error {
	if err := awardContributionPoint(tx, submitterID); err != nil {
		return err
	}

	approved, err := tx.From("community_request").
		Where(
			goqu.C("submitter_id").Eq(submitterID),
			goqu.C("status").Eq(models.StatusApproved),
		).
		Count()
	if err != nil {
		return err
	}
	if approved < trustPromotionApprovals {
		return nil
	}

	_, err = tx.Update("public_user").
		Set(goqu.Record{"trust_level": models.TrustTrusted}).
		Where(
			goqu.C("public_user_id").Eq(submitterID),
			goqu.C("trust_level").Eq(models.TrustDefault),
		).
		Executor().Exec()
	return err
}

// reviewedNotes keeps the existing admin notes unless new ones were given.
func reviewedNotes(notes string, existing *string) interface{} {
	if notes = strings.TrimSpace(notes); notes != "" {
		return notes
	}
	return nullable(existing)
}

func markRequestReviewed(tx *goqu.TxDatabase, requestID int, changes goqu.Record) error {
	_, err := tx.Update("community_request").
		Set(changes).
		Where(goqu.C("community_request_id").Eq(requestID)).
		Executor().Exec()
	return err
}

func reviewTime() time.Time {
	return time.Now().UTC()
}
