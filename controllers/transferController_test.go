package controllers

import (
	"database/sql/driver"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Taraweeh/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

var transferColumns = []string{"imam_transfer_request_id", "submitter_id", "mosque_id", "current_imam_id", "new_imam_id", "new_imam_name", "status"}

// Test SubmitTransfer - Report an imam change for a mosque
func TestSubmitTransfer(t *testing.T) {
	newImamID := 8

	tests := []struct {
		name           string
		body           models.TransferCreate
		setupMock      func(sqlmock.Sqlmock)
		expectedStatus int
		expectedError  string
	}{
		{
			name: "new imam by id",
			body: models.TransferCreate{Mosque_ID: 3, New_Imam_ID: &newImamID},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT COUNT.*FROM \"mosque\"").
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
				mock.ExpectQuery("SELECT COUNT.*FROM \"imam_transfer_request\"").
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
				mock.ExpectQuery("SELECT MIN\\(\"imam_id\"\\)").
					WillReturnRows(sqlmock.NewRows([]string{"min"}).AddRow(5))
				mock.ExpectQuery("INSERT INTO \"imam_transfer_request\"").
					WillReturnRows(sqlmock.NewRows([]string{"imam_transfer_request_id"}).AddRow(21))
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "new imam by name at a mosque without imam",
			body: models.TransferCreate{Mosque_ID: 3, New_Imam_Name: "  الشيخ ياسر الدوسري "},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT COUNT").
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
				mock.ExpectQuery("SELECT COUNT").
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
				mock.ExpectQuery("SELECT MIN").
					WillReturnRows(sqlmock.NewRows([]string{"min"}).AddRow(nil))
				mock.ExpectQuery("INSERT INTO \"imam_transfer_request\"").
					WillReturnRows(sqlmock.NewRows([]string{"imam_transfer_request_id"}).AddRow(22))
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing mosque",
			body:           models.TransferCreate{New_Imam_Name: "الشيخ"},
			setupMock:      func(mock sqlmock.Sqlmock) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "مسجد غير صالح",
		},
		{
			name: "unknown mosque",
			body: models.TransferCreate{Mosque_ID: 77, New_Imam_Name: "الشيخ"},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT COUNT").
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "مسجد غير صالح",
		},
		{
			name: "already pending for this mosque",
			body: models.TransferCreate{Mosque_ID: 3, New_Imam_Name: "الشيخ"},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT COUNT").
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
				mock.ExpectQuery("SELECT COUNT").
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "no new imam given",
			body: models.TransferCreate{Mosque_ID: 3, New_Imam_Name: "   "},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT COUNT").
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
				mock.ExpectQuery("SELECT COUNT").
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "يجب تحديد الإمام الجديد",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, mock, cleanup := SetupTestDB(t)
			defer cleanup()

			tt.setupMock(mock)

			c, w := SetupTestContext()
			SetAuthenticatedUser(c, MockPublicUser())
			SetJSONBody(c, http.MethodPost, tt.body)
			SubmitTransfer(c)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			_ = json.Unmarshal(w.Body.Bytes(), &response)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, response["error"])
			}
			if tt.expectedStatus == http.StatusCreated {
				assert.Equal(t, "pending", response["status"])
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// Test CancelTransfer - Only the submitter may withdraw a pending transfer
func TestCancelTransfer(t *testing.T) {
	tests := []struct {
		name           string
		row            []driver.Value
		expectDelete   bool
		expectedStatus int
	}{
		{
			name:           "own pending transfer",
			row:            []driver.Value{4, 1, 3, nil, nil, "الشيخ", "pending"},
			expectDelete:   true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "someone else's transfer",
			row:            []driver.Value{4, 2, 3, nil, nil, "الشيخ", "pending"},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "already reviewed",
			row:            []driver.Value{4, 1, 3, nil, nil, "الشيخ", "approved"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing transfer",
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, mock, cleanup := SetupTestDB(t)
			defer cleanup()

			rows := sqlmock.NewRows(transferColumns)
			if tt.row != nil {
				rows.AddRow(tt.row...)
			}
			mock.ExpectQuery("SELECT .* FROM \"imam_transfer_request\"").WillReturnRows(rows)
			if tt.expectDelete {
				mock.ExpectExec("DELETE FROM \"imam_transfer_request\"").
					WillReturnResult(sqlmock.NewResult(0, 1))
			}

			c, w := SetupTestContext()
			SetAuthenticatedUser(c, MockPublicUser())
			c.Params = gin.Params{{Key: "transfer_id", Value: "4"}}
			CancelTransfer(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGetUserTransfersHidesSubmitterName(t *testing.T) {
	_, mock, cleanup := SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT").
		WillReturnRows(sqlmock.NewRows([]string{"imam_transfer_request_id", "submitter_name", "mosque_id", "mosque_name", "status", "created_at"}).
			AddRow(4, "مستخدم تجريبي", 3, "جامع الراجحي", "pending", time.Now()))

	c, w := SetupTestContext()
	SetAuthenticatedUser(c, MockPublicUser())
	GetUserTransfers(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response, 1)
	assert.NotContains(t, response[0], "submitter_name")
	assert.Equal(t, "جامع الراجحي", response[0]["mosque_name"])
}

// Test AdminApproveTransfer - Apply a pending transfer in one transaction
func TestAdminApproveTransfer(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(sqlmock.Sqlmock)
		expectedStatus int
		expectedError  string
	}{
		{
			name: "approve with existing imam",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery("SELECT .* FROM \"imam_transfer_request\" .* FOR UPDATE").
					WillReturnRows(sqlmock.NewRows(transferColumns).AddRow(4, 1, 3, 5, 8, nil, "pending"))
				mock.ExpectQuery("SELECT COUNT.*FROM \"mosque\"").
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
				mock.ExpectExec("UPDATE \"imam\" SET \"mosque_id\"=NULL").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec("UPDATE \"imam\" SET \"mosque_id\"=3").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec("UPDATE \"public_user\" SET \"contribution_points\"=contribution_points \\+ 1").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec("UPDATE \"imam_transfer_request\"").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "approve with a new imam name",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery("SELECT").
					WillReturnRows(sqlmock.NewRows(transferColumns).AddRow(4, 1, 3, nil, nil, "الشيخ ناصر القطامي", "pending"))
				mock.ExpectQuery("SELECT COUNT").
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
				mock.ExpectExec("UPDATE \"imam\"").
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery("INSERT INTO \"imam\"").
					WillReturnRows(sqlmock.NewRows([]string{"imam_id"}).AddRow(30))
				mock.ExpectExec("UPDATE \"public_user\"").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec("UPDATE \"imam_transfer_request\"").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "transfer not found",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows(transferColumns))
				mock.ExpectRollback()
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "already reviewed",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery("SELECT").
					WillReturnRows(sqlmock.NewRows(transferColumns).AddRow(4, 1, 3, nil, 8, nil, "rejected"))
				mock.ExpectRollback()
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "تمت المراجعة مسبقاً",
		},
		{
			name: "mosque deleted since submission",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery("SELECT").
					WillReturnRows(sqlmock.NewRows(transferColumns).AddRow(4, 1, 3, nil, 8, nil, "pending"))
				mock.ExpectQuery("SELECT COUNT").
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
				mock.ExpectRollback()
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "المسجد المرتبط غير موجود",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, mock, cleanup := SetupTestDB(t)
			defer cleanup()

			tt.setupMock(mock)

			c, w := SetupTestContext()
			SetAuthenticatedUser(c, MockAdmin())
			c.Request.Method = http.MethodPost
			c.Params = gin.Params{{Key: "transfer_id", Value: "4"}}
			AdminApproveTransfer(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				var response map[string]interface{}
				_ = json.Unmarshal(w.Body.Bytes(), &response)
				assert.Equal(t, tt.expectedError, response["error"])
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// Test LegacyRejectTransfer - Back-office rejection records the reviewer
func TestLegacyRejectTransfer(t *testing.T) {
	tests := []struct {
		name           string
		status         string
		expectedStatus int
		expectedError  string
	}{
		{name: "pending transfer", status: "pending", expectedStatus: http.StatusOK},
		{name: "already reviewed", status: "approved", expectedStatus: http.StatusBadRequest, expectedError: "Already reviewed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, mock, cleanup := SetupTestDB(t)
			defer cleanup()

			mock.ExpectBegin()
			mock.ExpectQuery("SELECT").
				WillReturnRows(sqlmock.NewRows(transferColumns).AddRow(4, 1, 3, nil, 8, nil, tt.status))
			if tt.expectedStatus == http.StatusOK {
				mock.ExpectExec("UPDATE \"imam_transfer_request\" SET .*\"reviewed_by\"=1").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			} else {
				mock.ExpectRollback()
			}

			c, w := SetupTestContext()
			SetJSONBody(c, http.MethodPost, models.ReviewDecision{Reason: "الإمام لم يتغير"})
			c.Set("adminUserID", 1)
			c.Params = gin.Params{{Key: "transfer_id", Value: "4"}}
			LegacyRejectTransfer(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				var response map[string]interface{}
				_ = json.Unmarshal(w.Body.Bytes(), &response)
				assert.Equal(t, tt.expectedError, response["error"])
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
