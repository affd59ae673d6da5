package controllers

import (
	"net/http"
	"time"

	"github.com/Taraweeh/initializers"
	"github.com/Taraweeh/models"
	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

// transferListQuery selects transfer requests with their mosque, imam and
// submitter names resolved.
func transferListQuery() *goqu.SelectDataset {
	return initializers.DB.From(goqu.T("imam_transfer_request").As("t")).
		LeftJoin(goqu.T("mosque").As("m"), goqu.On(goqu.I("m.mosque_id").Eq(goqu.I("t.mosque_id")))).
		LeftJoin(goqu.T("imam").As("ci"), goqu.On(goqu.I("ci.imam_id").Eq(goqu.I("t.current_imam_id")))).
		LeftJoin(goqu.T("imam").As("ni"), goqu.On(goqu.I("ni.imam_id").Eq(goqu.I("t.new_imam_id")))).
		LeftJoin(goqu.T("public_user").As("u"), goqu.On(goqu.I("u.public_user_id").Eq(goqu.I("t.submitter_id")))).
		Select(
			goqu.I("t.imam_transfer_request_id"),
			goqu.COALESCE(goqu.Func("NULLIF", goqu.I("u.display_name"), ""), goqu.I("u.username")).As("submitter_name"),
			goqu.I("t.mosque_id"),
			goqu.I("m.name").As("mosque_name"),
			goqu.I("ci.name").As("current_imam_name"),
			goqu.COALESCE(goqu.I("ni.name"), goqu.I("t.new_imam_name")).As("new_imam_name"),
			goqu.I("t.notes"),
			goqu.I("t.status"),
			goqu.I("t.reject_reason"),
			goqu.I("t.created_at"),
			goqu.I("t.reviewed_at"),
		).
		Order(goqu.I("t.created_at").Desc())
}

// firstImamAt selects the id of the imam a mosque currently shows.
func firstImamAt(from func(table ...interface{}) *goqu.SelectDataset, mosqueID int) *goqu.SelectDataset {
	return from("imam").Select(goqu.MIN("imam_id")).Where(goqu.C("mosque_id").Eq(mosqueID))
}

// detachCurrentImam unassigns the imam a mosque currently shows, if any.
func detachCurrentImam(tx *goqu.TxDatabase, mosqueID int) error {
	_, err := tx.Update("imam").
		Set(goqu.Record{"mosque_id": nil}).
		Where(goqu.C("imam_id").Eq(firstImamAt(tx.From, mosqueID))).
		Executor().Exec()
	return err
}

func attachImam(tx *goqu.TxDatabase, imamID, mosqueID int) error {
	_, err := tx.Update("imam").
		Set(goqu.Record{"mosque_id": mosqueID}).
		Where(goqu.C("imam_id").Eq(imamID)).
		Executor().Exec()
	return err
}

func createImam(tx *goqu.TxDatabase, imam models.Imam) (int, error) {
	var id int
	_, err := tx.Insert("imam").Rows(imam).Returning("imam_id").Executor().ScanVal(&id)
	return id, err
}

func awardContributionPoint(tx *goqu.TxDatabase, userID int) error {
	_, err := tx.Update("public_user").
		Set(goqu.Record{"contribution_points": goqu.L("contribution_points + 1")}).
		Where(goqu.C("public_user_id").Eq(userID)).
		Executor().Exec()
	return err
}

// lockPendingTransfer loads a transfer for update and checks it is still pending.
func lockPendingTransfer(tx *goqu.TxDatabase, transferID int, reviewedMsg string) (models.ImamTransferRequest, error) {
	var tr models.ImamTransferRequest
	found, err := tx.From("imam_transfer_request").
		Where(goqu.C("imam_transfer_request_id").Eq(transferID)).
		ForUpdate(exp.Wait).
		ScanStruct(&tr)
	if err != nil {
		return tr, err
	}
	if !found {
		return tr, newAPIError(http.StatusNotFound, msgNotFound)
	}
	if tr.Status != models.StatusPending {
		return tr, newAPIError(http.StatusBadRequest, reviewedMsg)
	}
	return tr, nil
}

// approveTransfer moves the requested imam into the mosque, credits the
// submitter and marks the transfer approved. reviewerID is recorded when the
// reviewer is a back-office account.
func approveTransfer(transferID int, reviewerID *int, reviewedMsg string) (models.ImamTransferRequest, error) {
	var tr models.ImamTransferRequest
	err := initializers.DB.WithTx(func(tx *goqu.TxDatabase) error {
		var err error
		tr, err = lockPendingTransfer(tx, transferID, reviewedMsg)
		if err != nil {
			return err
		}

		mosques, err := tx.From("mosque").Where(goqu.C("mosque_id").Eq(tr.Mosque_ID)).Count()
		if err != nil {
			return err
		}
		if mosques == 0 {
			return newAPIError(http.StatusBadRequest, "المسجد المرتبط غير موجود")
		}

		if err := detachCurrentImam(tx, tr.Mosque_ID); err != nil {
			return err
		}
		if tr.New_Imam_ID != nil {
			if err := attachImam(tx, *tr.New_Imam_ID, tr.Mosque_ID); err != nil {
				return err
			}
		} else if tr.New_Imam_Name != nil && *tr.New_Imam_Name != "" {
			mosqueID := tr.Mosque_ID
			if _, err := createImam(tx, models.Imam{Name: *tr.New_Imam_Name, Mosque_ID: &mosqueID}); err != nil {
				return err
			}
		}

		if err := awardContributionPoint(tx, tr.Submitter_ID); err != nil {
			return err
		}

		return markTransferReviewed(tx, transferID, goqu.Record{
			"status":      models.StatusApproved,
			"reviewed_at": time.Now().UTC(),
			"reviewed_by": nullable(reviewerID),
		})
	})
	return tr, err
}

func rejectTransfer(transferID int, reason string, reviewerID *int, reviewedMsg string) (models.ImamTransferRequest, error) {
	var tr models.ImamTransferRequest
	err := initializers.DB.WithTx(func(tx *goqu.TxDatabase) error {
		var err error
		tr, err = lockPendingTransfer(tx, transferID, reviewedMsg)
		if err != nil {
			return err
		}
		return markTransferReviewed(tx, transferID, goqu.Record{
			"status":        models.StatusRejected,
			"reject_reason": nullable(nilIfEmpty(reason)),
			"reviewed_at":   time.Now().UTC(),
			"reviewed_by":   nullable(reviewerID),
		})
	})
	return tr, err
}

func markTransferReviewed(tx *goqu.TxDatabase, transferID int, changes goqu.Record) error {
	_, err := tx.Update("imam_transfer_request").
		Set(changes).
		Where(goqu.C("imam_transfer_request_id").Eq(transferID)).
		Executor().Exec()
	return err
}
