package controllers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/Taraweeh/initializers"
	"github.com/Taraweeh/models"
	"github.com/Taraweeh/services"
	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
)

const (
	maxRequestNotes     = 500
	maxDuplicateMatches = 5
	minDuplicateQuery   = 3
)

// SubmitRequest - Suggest a new mosque, a new imam for a mosque, or an imam
// moving between mosques
func SubmitRequest(c *gin.Context) {
	user, ok := registeredUser(c)
	if !ok {
		return
	}

	var body models.CommunityRequestCreate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "نوع الطلب غير صالح"})
		return
	}

	cr, err := buildCommunityRequest(user.Public_User_ID, body)
	if err != nil {
		respondError(c, err, "Failed to submit request")
		return
	}

	dup := initializers.DB.From("community_request").Where(
		goqu.C("submitter_id").Eq(user.Public_User_ID),
		goqu.C("request_type").Eq(cr.Request_Type),
		goqu.C("status").Eq(models.StatusPending),
	)
	if cr.Request_Type == models.RequestNewMosque && cr.Mosque_Name != nil {
		dup = dup.Where(goqu.C("mosque_name").Eq(*cr.Mosque_Name))
	} else if cr.Target_Mosque_ID != nil {
		dup = dup.Where(goqu.C("target_mosque_id").Eq(*cr.Target_Mosque_ID))
	}
	duplicates, err := dup.Count()
	if err != nil {
		serverError(c, err, "Failed to submit request")
		return
	}
	if duplicates > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "لديك طلب معلق مشابه"})
		return
	}

	var insertedID int
	_, err = initializers.DB.Insert("community_request").
		Rows(cr).
		Returning("community_request_id").
		Executor().ScanVal(&insertedID)
	if err != nil {
		serverError(c, err, "Failed to submit request")
		return
	}

	requestLogger(c).Info().Int("request_id", insertedID).Str("type", cr.Request_Type).Msg("community request submitted")
	c.JSON(http.StatusCreated, gin.H{"id": insertedID, "status": models.StatusPending})
}

// buildCommunityRequest validates a submission according to its type.
func buildCommunityRequest(submitterID int, body models.CommunityRequestCreate) (models.CommunityRequest, error) {
	requestType := strings.TrimSpace(body.Request_Type)
	cr := models.CommunityRequest{Submitter_ID: submitterID, Request_Type: requestType}

	switch requestType {
	case models.RequestNewMosque:
		name := services.SanitizeText(body.Mosque_Name)
		if name == "" {
			return cr, newAPIError(http.StatusBadRequest, "اسم المسجد مطلوب")
		}
		if !services.IsArabicText(name) {
			return cr, newAPIError(http.StatusBadRequest, "اسم المسجد يجب أن يكون بالعربية فقط")
		}
		cr.Mosque_Name = &name
		cr.Mosque_Location = nilIfEmpty(services.SanitizeText(body.Mosque_Location))
		cr.Mosque_Area = nilIfEmpty(strings.TrimSpace(body.Mosque_Area))
		if cr.Mosque_Area != nil && !services.ValidArea(*cr.Mosque_Area) {
			return cr, newAPIError(http.StatusBadRequest, "المنطقة غير صالحة")
		}
		cr.Mosque_Map_Link = nilIfEmpty(strings.TrimSpace(body.Mosque_Map_Link))

		if strings.TrimSpace(body.Imam_Source) == models.ImamSourceExisting {
			// an unknown imam is dropped rather than rejected
			if body.Existing_Imam_ID != nil {
				exists, err := imamExists(*body.Existing_Imam_ID)
				if err != nil {
					return cr, err
				}
				if exists {
					source := models.ImamSourceExisting
					cr.Imam_Source = &source
					cr.Existing_Imam_ID = body.Existing_Imam_ID
				}
			}
		} else {
			imamName := services.SanitizeText(body.Imam_Name)
			if imamName != "" {
				if !services.IsArabicText(imamName) {
					return cr, newAPIError(http.StatusBadRequest, "اسم الإمام يجب أن يكون بالعربية فقط")
				}
				source := models.ImamSourceNew
				cr.Imam_Source = &source
				cr.Imam_Name = &imamName
				cr.Imam_Youtube_Link = nilIfEmpty(strings.TrimSpace(body.Imam_Youtube_Link))
				cr.Imam_Audio_URL = nilIfEmpty(strings.TrimSpace(body.Imam_Audio_URL))
			}
		}

	case models.RequestNewImam, models.RequestImamTransfer:
		if body.Target_Mosque_ID == nil {
			return cr, newAPIError(http.StatusBadRequest, "المسجد مطلوب")
		}
		exists, err := mosqueExists(*body.Target_Mosque_ID)
		if err != nil {
			return cr, err
		}
		if !exists {
			return cr, newAPIError(http.StatusBadRequest, "المسجد مطلوب")
		}
		cr.Target_Mosque_ID = body.Target_Mosque_ID

		source := strings.TrimSpace(body.Imam_Source)
		switch source {
		case models.ImamSourceExisting:
			if body.Existing_Imam_ID == nil {
				return cr, newAPIError(http.StatusBadRequest, "الإمام غير موجود")
			}
			exists, err := imamExists(*body.Existing_Imam_ID)
			if err != nil {
				return cr, err
			}
			if !exists {
				return cr, newAPIError(http.StatusBadRequest, "الإمام غير موجود")
			}
			cr.Existing_Imam_ID = body.Existing_Imam_ID
		case models.ImamSourceNew:
			imamName := services.SanitizeText(body.Imam_Name)
			if imamName == "" {
				return cr, newAPIError(http.StatusBadRequest, "اسم الإمام مطلوب")
			}
			if !services.IsArabicText(imamName) {
				return cr, newAPIError(http.StatusBadRequest, "اسم الإمام يجب أن يكون بالعربية فقط")
			}
			cr.Imam_Name = &imamName
			cr.Imam_Youtube_Link = nilIfEmpty(strings.TrimSpace(body.Imam_Youtube_Link))
			cr.Imam_Audio_URL = nilIfEmpty(strings.TrimSpace(body.Imam_Audio_URL))
		default:
			return cr, newAPIError(http.StatusBadRequest, "مصدر الإمام غير صالح")
		}
		cr.Imam_Source = &source

	default:
		return cr, newAPIError(http.StatusBadRequest, "نوع الطلب غير صالح")
	}

	cr.Notes = nilIfEmpty(services.Truncate(services.SanitizeText(body.Notes), maxRequestNotes))
	return cr, nil
}

func imamExists(imamID int) (bool, error) {
	count, err := initializers.DB.From("imam").Where(goqu.C("imam_id").Eq(imamID)).Count()
	return count > 0, err
}

// GetMyRequests - The caller's community requests, newest first
func GetMyRequests(c *gin.Context) {
	user, ok := registeredUser(c)
	if !ok {
		return
	}

	var rows []models.CommunityRequestRow
	err := communityRequestQuery().
		Where(goqu.I("r.submitter_id").Eq(user.Public_User_ID)).
		Order(goqu.I("r.created_at").Desc()).
		ScanStructs(&rows)
	if err != nil {
		serverError(c, err, "Failed to fetch requests")
		return
	}

	items := make([]gin.H, 0, len(rows))
	for _, r := range rows {
		items = append(items, myRequestItem(r))
	}
	c.JSON(http.StatusOK, items)
}

// CancelRequest - Withdraw one of the caller's requests before it is reviewed
func CancelRequest(c *gin.Context) {
	user, ok := registeredUser(c)
	if !ok {
		return
	}
	requestID, ok := paramInt(c, "request_id")
	if !ok {
		return
	}

	var cr models.CommunityRequest
	found, err := initializers.DB.From("community_request").
		Where(goqu.C("community_request_id").Eq(requestID)).
		ScanStruct(&cr)
	if err != nil {
		serverError(c, err, "Failed to cancel request")
		return
	}
	if !found || cr.Submitter_ID != user.Public_User_ID {
		c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
		return
	}
	if cr.Status != models.StatusPending && cr.Status != models.StatusNeedsInfo {
		c.JSON(http.StatusBadRequest, gin.H{"error": "لا يمكن إلغاء طلب تمت مراجعته"})
		return
	}

	_, err = initializers.DB.Delete("community_request").
		Where(goqu.C("community_request_id").Eq(requestID)).
		Executor().Exec()
	if err != nil {
		serverError(c, err, "Failed to cancel request")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CheckDuplicate - Existing mosques or imams whose name contains q, so the
// submitter can spot an entry that is already listed
func CheckDuplicate(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	matches := []models.DuplicateMatch{}
	if len([]rune(q)) < minDuplicateQuery {
		c.JSON(http.StatusOK, gin.H{"matches": matches})
		return
	}
	needle := services.NormalizeArabic(q)

	switch strings.TrimSpace(c.Query("type")) {
	case "mosque":
		var mosques []models.Mosque
		err := initializers.DB.From("mosque").
			Select("mosque_id", "name", "area", "location").
			Order(goqu.C("mosque_id").Asc()).
			ScanStructs(&mosques)
		if err != nil {
			serverError(c, err, msgServerError)
			return
		}
		for _, m := range mosques {
			if !strings.Contains(services.NormalizeArabic(m.Name), needle) {
				continue
			}
			matches = append(matches, models.DuplicateMatch{ID: m.Mosque_ID, Name: m.Name, Area: m.Area, Location: m.Location})
			if len(matches) >= maxDuplicateMatches {
				break
			}
		}
	case "imam":
		index, err := services.GetImamIndex()
		if err != nil {
			serverError(c, err, msgServerError)
			return
		}
		for _, e := range index {
			if !strings.Contains(e.Norm, needle) {
				continue
			}
			matches = append(matches, models.DuplicateMatch{ID: e.ID, Name: e.Name, MosqueID: e.MosqueID, MosqueName: e.MosqueName})
			if len(matches) >= maxDuplicateMatches {
				break
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"matches": matches})
}

// AdminListRequests - Review queue, trusted submitters first then newest
func AdminListRequests(c *gin.Context) {
	page, perPage := pageParams(c)
	status := strings.TrimSpace(c.Query("status"))
	requestType := strings.TrimSpace(c.Query("type"))

	countQuery := initializers.DB.From("community_request")
	listQuery := communityRequestQuery().Order(
		goqu.L("CASE ? WHEN 'trusted' THEN 0 WHEN 'default' THEN 1 ELSE 2 END", goqu.I("u.trust_level")).Asc(),
		goqu.I("r.created_at").Desc(),
	)
	if status != "" {
		countQuery = countQuery.Where(goqu.C("status").Eq(status))
		listQuery = listQuery.Where(goqu.I("r.status").Eq(status))
	}
	if requestType != "" {
		countQuery = countQuery.Where(goqu.C("request_type").Eq(requestType))
		listQuery = listQuery.Where(goqu.I("r.request_type").Eq(requestType))
	}

	total, err := countQuery.Count()
	if err != nil {
		serverError(c, err, "Failed to fetch requests")
		return
	}

	var rows []models.CommunityRequestRow
	if err := paginate(listQuery, page, perPage).ScanStructs(&rows); err != nil {
		serverError(c, err, "Failed to fetch requests")
		return
	}

	items := make([]gin.H, 0, len(rows))
	for _, r := range rows {
		items = append(items, adminRequestItem(r))
	}
	c.JSON(http.StatusOK, models.Page{Items: items, Total: total, Page: page, PerPage: perPage})
}

// AdminGetRequest - One request with everything a reviewer needs to decide
func AdminGetRequest(c *gin.Context) {
	requestID, ok := paramInt(c, "request_id")
	if !ok {
		return
	}

	var r models.CommunityRequestRow
	found, err := communityRequestQuery().
		Where(goqu.I("r.community_request_id").Eq(requestID)).
		ScanStruct(&r)
	if err != nil {
		serverError(c, err, "Failed to fetch request")
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
		return
	}

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
		"mosque_name":           r.Mosque_Name,
		"mosque_area":           r.Mosque_Area,
		"mosque_location":       r.Mosque_Location,
		"mosque_map_link":       r.Mosque_Map_Link,
		"imam_name":             r.Imam_Name,
		"imam_youtube_link":     r.Imam_Youtube_Link,
		"imam_audio_url":        r.Imam_Audio_URL,
		"imam_source":           r.Imam_Source,
		"existing_imam_id":      r.Existing_Imam_ID,
		"target_mosque_id":      r.Target_Mosque_ID,
		"duplicate_of":          r.Duplicate_Of,
	}

	if r.Target_Mosque_ID != nil {
		item["target_mosque_name"] = r.Target_Mosque_Name
		if r.Target_Mosque_Name != nil {
			var currentImam *string
			_, err := initializers.DB.From("imam").
				Select("name").
				Where(goqu.C("imam_id").Eq(firstImamAt(initializers.DB.From, *r.Target_Mosque_ID))).
				ScanVal(&currentImam)
			if err != nil {
				serverError(c, err, "Failed to fetch request")
				return
			}
			item["current_mosque_imam"] = currentImam
		}
	}

	if r.Existing_Imam_ID != nil {
		item["existing_imam_name"] = r.Existing_Imam_Name
		var sourceMosque *string
		found, err := initializers.DB.From(goqu.T("imam").As("i")).
			Join(goqu.T("mosque").As("m"), goqu.On(goqu.I("m.mosque_id").Eq(goqu.I("i.mosque_id")))).
			Select(goqu.I("m.name")).
			Where(goqu.I("i.imam_id").Eq(*r.Existing_Imam_ID)).
			ScanVal(&sourceMosque)
		if err != nil {
			serverError(c, err, "Failed to fetch request")
			return
		}
		if found {
			item["imam_current_mosque_name"] = sourceMosque
		}
	}

	c.JSON(http.StatusOK, item)
}

// AdminApproveRequest - Apply a request to the directory and credit the submitter
func AdminApproveRequest(c *gin.Context) {
	reviewer, ok := registeredUser(c)
	if !ok {
		return
	}
	requestID, ok := paramInt(c, "request_id")
	if !ok {
		return
	}

	var body models.RequestApproval
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var cr models.CommunityRequest
	err := initializers.DB.WithTx(func(tx *goqu.TxDatabase) error {
		var err error
		cr, err = lockReviewableRequest(tx, requestID)
		if err != nil {
			return err
		}
		if err := applyRequest(tx, cr, body); err != nil {
			return err
		}
		if err := creditSubmitter(tx, cr.Submitter_ID); err != nil {
			return err
		}
		return markRequestReviewed(tx, requestID, goqu.Record{
			"status":      models.StatusApproved,
			"admin_notes": reviewedNotes(body.Admin_Notes, cr.Admin_Notes),
			"reviewed_at": reviewTime(),
			"reviewed_by": reviewer.Public_User_ID,
		})
	})
	if err != nil {
		respondError(c, err, "Failed to approve request")
		return
	}

	services.InvalidateCaches()
	go services.NotifySubmitterOfReview(cr.Submitter_ID, requestID, "request", models.StatusApproved)

	requestLogger(c).Info().Int("request_id", requestID).Int("reviewer_id", reviewer.Public_User_ID).Msg("community request approved")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AdminRejectRequest - Reject a request with an optional reason
func AdminRejectRequest(c *gin.Context) {
	reviewer, ok := registeredUser(c)
	if !ok {
		return
	}
	requestID, ok := paramInt(c, "request_id")
	if !ok {
		return
	}

	var body models.ReviewDecision
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var cr models.CommunityRequest
	err := initializers.DB.WithTx(func(tx *goqu.TxDatabase) error {
		var err error
		cr, err = lockReviewableRequest(tx, requestID)
		if err != nil {
			return err
		}
		return markRequestReviewed(tx, requestID, goqu.Record{
			"status":        models.StatusRejected,
			"reject_reason": nullable(nilIfEmpty(strings.TrimSpace(body.Reason))),
			"admin_notes":   reviewedNotes(body.Admin_Notes, cr.Admin_Notes),
			"reviewed_at":   reviewTime(),
			"reviewed_by":   reviewer.Public_User_ID,
		})
	})
	if err != nil {
		respondError(c, err, "Failed to reject request")
		return
	}

	go services.NotifySubmitterOfReview(cr.Submitter_ID, requestID, "request", models.StatusRejected)

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AdminRequestInfo - Ask the submitter of a pending request for more details
func AdminRequestInfo(c *gin.Context) {
	reviewer, ok := registeredUser(c)
	if !ok {
		return
	}
	requestID, ok := paramInt(c, "request_id")
	if !ok {
		return
	}

	var body models.ReviewDecision
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var cr models.CommunityRequest
	found, err := initializers.DB.From("community_request").
		Where(goqu.C("community_request_id").Eq(requestID)).
		ScanStruct(&cr)
	if err != nil {
		serverError(c, err, "Failed to update request")
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
		return
	}
	if cr.Status != models.StatusPending {
		c.JSON(http.StatusBadRequest, gin.H{"error": "لا يمكن طلب معلومات إضافية لهذا الطلب"})
		return
	}

	_, err = initializers.DB.Update("community_request").
		Set(goqu.Record{
			"status":      models.StatusNeedsInfo,
			"admin_notes": nullable(nilIfEmpty(strings.TrimSpace(body.Admin_Notes))),
			"reviewed_by": reviewer.Public_User_ID,
		}).
		Where(
			goqu.C("community_request_id").Eq(requestID),
			goqu.C("status").Eq(models.StatusPending),
		).
		Executor().Exec()
	if err != nil {
		serverError(c, err, "Failed to update request")
		return
	}

	go services.NotifySubmitterOfReview(cr.Submitter_ID, requestID, "request", models.StatusNeedsInfo)

	c.JSON(http.StatusOK, gin.H{"success": true})
}
