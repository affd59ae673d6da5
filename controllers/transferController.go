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

// SubmitTransfer - Report that a mosque now has a different imam
func SubmitTransfer(c *gin.Context) {
	user, ok := registeredUser(c)
	if !ok {
		return
	}

	var body models.TransferCreate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "مسجد غير صالح"})
		return
	}

	if body.Mosque_ID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "مسجد غير صالح"})
		return
	}
	exists, err := mosqueExists(body.Mosque_ID)
	if err != nil {
		serverError(c, err, "Failed to submit transfer")
		return
	}
	if !exists {
		c.JSON(http.StatusBadRequest, gin.H{"error": "مسجد غير صالح"})
		return
	}

	pending, err := initializers.DB.From("imam_transfer_request").
		Where(
			goqu.C("submitter_id").Eq(user.Public_User_ID),
			goqu.C("mosque_id").Eq(body.Mosque_ID),
			goqu.C("status").Eq(models.StatusPending),
		).
		Count()
	if err != nil {
		serverError(c, err, "Failed to submit transfer")
		return
	}
	if pending > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "لديك بلاغ معلق لهذا المسجد"})
		return
	}

	newImamName := strings.TrimSpace(body.New_Imam_Name)
	if (body.New_Imam_ID == nil || *body.New_Imam_ID == 0) && newImamName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "يجب تحديد الإمام الجديد"})
		return
	}
	if body.New_Imam_ID != nil && *body.New_Imam_ID == 0 {
		body.New_Imam_ID = nil
	}

	var currentImamID *int
	_, err = firstImamAt(initializers.DB.From, body.Mosque_ID).ScanVal(&currentImamID)
	if err != nil {
		serverError(c, err, "Failed to submit transfer")
		return
	}

	transfer := models.ImamTransferRequest{
		Submitter_ID:    user.Public_User_ID,
		Mosque_ID:       body.Mosque_ID,
		Current_Imam_ID: currentImamID,
		New_Imam_ID:     body.New_Imam_ID,
		New_Imam_Name:   nilIfEmpty(newImamName),
		Notes:           nilIfEmpty(strings.TrimSpace(body.Notes)),
	}

	var insertedID int
	_, err = initializers.DB.Insert("imam_transfer_request").
		Rows(transfer).
		Returning("imam_transfer_request_id").
		Executor().ScanVal(&insertedID)
	if err != nil {
		serverError(c, err, "Failed to submit transfer")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": insertedID, "status": models.StatusPending})
}

// CancelTransfer - Withdraw one of the caller's pending transfers
func CancelTransfer(c *gin.Context) {
	user, ok := registeredUser(c)
	if !ok {
		return
	}
	transferID, ok := paramInt(c, "transfer_id")
	if !ok {
		return
	}

	var tr models.ImamTransferRequest
	found, err := initializers.DB.From("imam_transfer_request").
		Where(goqu.C("imam_transfer_request_id").Eq(transferID)).
		ScanStruct(&tr)
	if err != nil {
		serverError(c, err, "Failed to cancel transfer")
		return
	}
	if !found || tr.Submitter_ID != user.Public_User_ID {
		c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
		return
	}
	if tr.Status != models.StatusPending {
		c.JSON(http.StatusBadRequest, gin.H{"error": "لا يمكن إلغاء بلاغ تمت مراجعته"})
		return
	}

	_, err = initializers.DB.Delete("imam_transfer_request").
		Where(goqu.C("imam_transfer_request_id").Eq(transferID)).
		Executor().Exec()
	if err != nil {
		serverError(c, err, "Failed to cancel transfer")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetUserTransfers - The caller's transfers, newest first
func GetUserTransfers(c *gin.Context) {
	user, ok := registeredUser(c)
	if !ok {
		return
	}

	items := []models.TransferListItem{}
	err := transferListQuery().
		Where(goqu.I("t.submitter_id").Eq(user.Public_User_ID)).
		ScanStructs(&items)
	if err != nil {
		serverError(c, err, "Failed to fetch transfers")
		return
	}
	for i := range items {
		items[i].Submitter_Name = nil
	}

	c.JSON(http.StatusOK, items)
}

// AdminListTransfers - Paginated transfers, optionally filtered by status
func AdminListTransfers(c *gin.Context) {
	page, perPage := pageParams(c)
	status := strings.TrimSpace(c.Query("status"))

	countQuery := initializers.DB.From("imam_transfer_request")
	listQuery := transferListQuery()
	if status != "" {
		countQuery = countQuery.Where(goqu.C("status").Eq(status))
		listQuery = listQuery.Where(goqu.I("t.status").Eq(status))
	}

	total, err := countQuery.Count()
	if err != nil {
		serverError(c, err, "Failed to fetch transfers")
		return
	}

	items := []models.TransferListItem{}
	if err := paginate(listQuery, page, perPage).ScanStructs(&items); err != nil {
		serverError(c, err, "Failed to fetch transfers")
		return
	}

	c.JSON(http.StatusOK, models.Page{Items: items, Total: total, Page: page, PerPage: perPage})
}

// AdminApproveTransfer - Apply a pending transfer
func AdminApproveTransfer(c *gin.Context) {
	transferID, ok := paramInt(c, "transfer_id")
	if !ok {
		return
	}

	tr, err := approveTransfer(transferID, nil, "تمت المراجعة مسبقاً")
	if err != nil {
		respondError(c, err, "Failed to approve transfer")
		return
	}

	services.InvalidateCaches()
	go services.NotifySubmitterOfReview(tr.Submitter_ID, transferID, "transfer", models.StatusApproved)

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AdminRejectTransfer - Reject a pending transfer with an optional reason
func AdminRejectTransfer(c *gin.Context) {
	transferID, ok := paramInt(c, "transfer_id")
	if !ok {
		return
	}

	var body models.ReviewDecision
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	tr, err := rejectTransfer(transferID, strings.TrimSpace(body.Reason), nil, "تمت المراجعة مسبقاً")
	if err != nil {
		respondError(c, err, "Failed to reject transfer")
		return
	}

	services.InvalidateCaches()
	go services.NotifySubmitterOfReview(tr.Submitter_ID, transferID, "transfer", models.StatusRejected)

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// LegacyApproveTransfer - Approve a transfer from the back-office session
func LegacyApproveTransfer(c *gin.Context) {
	transferID, ok := paramInt(c, "transfer_id")
	if !ok {
		return
	}
	adminID := c.MustGet("adminUserID").(int)

	tr, err := approveTransfer(transferID, &adminID, "Already reviewed")
	if err != nil {
		respondError(c, err, "Failed to approve transfer")
		return
	}

	services.InvalidateCaches()
	go services.NotifySubmitterOfReview(tr.Submitter_ID, transferID, "transfer", models.StatusApproved)

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// LegacyRejectTransfer - Reject a transfer from the back-office session
func LegacyRejectTransfer(c *gin.Context) {
	transferID, ok := paramInt(c, "transfer_id")
	if !ok {
		return
	}
	adminID := c.MustGet("adminUserID").(int)

	var body models.ReviewDecision
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	tr, err := rejectTransfer(transferID, strings.TrimSpace(body.Reason), &adminID, "Already reviewed")
	if err != nil {
		respondError(c, err, "Failed to reject transfer")
		return
	}

	go services.NotifySubmitterOfReview(tr.Submitter_ID, transferID, "transfer", models.StatusRejected)

	c.JSON(http.StatusOK, gin.H{"success": true})
}
