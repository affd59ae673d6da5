package controllers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Taraweeh/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// Test AdminCreateMosque - Validation and imam attachment
func TestAdminCreateMosque(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		setupMock      func(sqlmock.Sqlmock)
		expectedStatus int
		expectedError  string
	}{
		{
			name: "with a new imam",
			body: models.MosqueCreate{Name: "جامع الفرقان", Location: "الصحافة", Area: "شمال", Imam_Name: "الشيخ محمد اللحيدان"},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery("INSERT INTO \"mosque\"").
					WillReturnRows(sqlmock.NewRows([]string{"mosque_id"}).AddRow(80))
				mock.ExpectQuery("INSERT INTO \"imam\"").
					WillReturnRows(sqlmock.NewRows([]string{"imam_id"}).AddRow(51))
				mock.ExpectCommit()
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "area with surrounding whitespace",
			body: gin.H{"name": "جامع الفرقان", "location": "الصحافة", "area": " شمال "},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery("INSERT INTO \"mosque\".*'شمال'").
					WillReturnRows(sqlmock.NewRows([]string{"mosque_id"}).AddRow(81))
				mock.ExpectCommit()
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "with an existing imam",
			body: models.MosqueCreate{Name: "جامع الفرقان", Location: "الصحافة", Area: "شمال", Existing_Imam_ID: intPtr(12), Youtube_Link: "https://youtu.be/abc"},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery("INSERT INTO \"mosque\"").
					WillReturnRows(sqlmock.NewRows([]string{"mosque_id"}).AddRow(80))
				mock.ExpectQuery("SELECT COUNT.*FROM \"imam\"").
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
				mock.ExpectExec("UPDATE \"imam\" SET \"mosque_id\"=80,\"youtube_link\"='https://youtu.be/abc'").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "existing imam not found",
			body: models.MosqueCreate{Name: "جامع الفرقان", Location: "الصحافة", Area: "شمال", Existing_Imam_ID: intPtr(99)},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery("INSERT INTO \"mosque\"").
					WillReturnRows(sqlmock.NewRows([]string{"mosque_id"}).AddRow(80))
				mock.ExpectQuery("SELECT COUNT").
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
				mock.ExpectRollback()
			},
			expectedStatus: http.StatusNotFound,
			expectedError:  "الإمام غير موجود",
		},
		{
			name:           "missing location",
			body:           gin.H{"name": "جامع الفرقان", "area": "شمال"},
			setupMock:      func(mock sqlmock.Sqlmock) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  msgMosqueFieldsRequired,
		},
		{
			name:           "blank name after trimming",
			body:           models.MosqueCreate{Name: "   ", Location: "الصحافة", Area: "شمال"},
			setupMock:      func(mock sqlmock.Sqlmock) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  msgMosqueFieldsRequired,
		},
		{
			name:           "unknown area",
			body:           models.MosqueCreate{Name: "جامع الفرقان", Location: "الصحافة", Area: "وسط"},
			setupMock:      func(mock sqlmock.Sqlmock) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "المنطقة غير صالحة",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, mock, cleanup := SetupTestDB(t)
			defer cleanup()

			tt.setupMock(mock)

			c, w := SetupTestContext()
			SetJSONBody(c, http.MethodPost, tt.body)
			SetAuthenticatedUser(c, MockAdmin())
			AdminCreateMosque(c)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			_ = json.Unmarshal(w.Body.Bytes(), &response)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, response["error"])
			}
			if tt.expectedStatus == http.StatusCreated {
				assert.Equal(t, float64(80), response["id"])
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// Test AdminUpdateMosque - Partial update with imam reassignment
func TestAdminUpdateMosque(t *testing.T) {
	tests := []struct {
		name           string
		body           models.MosqueUpdate
		setupMock      func(sqlmock.Sqlmock)
		expectedStatus int
	}{
		{
			name: "rename current imam",
			body: models.MosqueUpdate{Imam_Name: strPtr("الشيخ عبدالله الجهني")},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery("SELECT COUNT").
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
				mock.ExpectQuery("SELECT MIN").
					WillReturnRows(sqlmock.NewRows([]string{"min"}).AddRow(12))
				mock.ExpectExec("UPDATE \"imam\" SET \"name\"='الشيخ عبدالله الجهني' WHERE \\(\"imam_id\" = 12\\)").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "blank imam name detaches",
			body: models.MosqueUpdate{Area: strPtr("جنوب"), Imam_Name: strPtr("")},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery("SELECT COUNT").
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
				mock.ExpectExec("UPDATE \"mosque\" SET \"area\"='جنوب'").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectQuery("SELECT MIN").
					WillReturnRows(sqlmock.NewRows([]string{"min"}).AddRow(12))
				mock.ExpectExec("UPDATE \"imam\" SET \"mosque_id\"=NULL").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "swap to an existing imam",
			body: models.MosqueUpdate{Existing_Imam_ID: intPtr(20)},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery("SELECT COUNT").
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
				mock.ExpectQuery("SELECT MIN").
					WillReturnRows(sqlmock.NewRows([]string{"min"}).AddRow(12))
				mock.ExpectQuery("SELECT COUNT.*FROM \"imam\"").
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
				mock.ExpectExec("UPDATE \"imam\" SET \"mosque_id\"=NULL WHERE \\(\"imam_id\" = 12\\)").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec("UPDATE \"imam\" SET \"mosque_id\"=4 WHERE \\(\"imam_id\" = 20\\)").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "mosque not found",
			body: models.MosqueUpdate{Name: strPtr("جامع")},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery("SELECT COUNT").
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
				mock.ExpectRollback()
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "area trimmed before saving",
			body: models.MosqueUpdate{Area: strPtr(" جنوب ")},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery("SELECT COUNT").
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
				mock.ExpectExec("UPDATE \"mosque\" SET \"area\"='جنوب'").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectQuery("SELECT MIN").
					WillReturnRows(sqlmock.NewRows([]string{"min"}).AddRow(12))
				mock.ExpectCommit()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown area",
			body:           models.MosqueUpdate{Area: strPtr("وسط")},
			setupMock:      func(mock sqlmock.Sqlmock) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, mock, cleanup := SetupTestDB(t)
			defer cleanup()

			tt.setupMock(mock)

			c, w := SetupTestContext()
			SetJSONBody(c, http.MethodPut, tt.body)
			SetAuthenticatedUser(c, MockAdmin())
			c.Params = gin.Params{{Key: "mosque_id", Value: "4"}}
			AdminUpdateMosque(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// Test AdminDeleteMosque - Cascade by hand inside a transaction
func TestAdminDeleteMosque(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(sqlmock.Sqlmock)
		expectedStatus int
	}{
		{
			name: "delete existing mosque",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery("SELECT COUNT").
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
				mock.ExpectExec("UPDATE \"imam\" SET \"mosque_id\"=NULL").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec("DELETE FROM \"user_favorite\"").
					WillReturnResult(sqlmock.NewResult(0, 3))
				mock.ExpectExec("UPDATE \"taraweeh_attendance\" SET \"mosque_id\"=NULL").
					WillReturnResult(sqlmock.NewResult(0, 5))
				mock.ExpectExec("DELETE FROM \"mosque\"").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "mosque not found",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery("SELECT COUNT").
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
				mock.ExpectRollback()
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, mock, cleanup := SetupTestDB(t)
			defer cleanup()

			tt.setupMock(mock)

			c, w := SetupTestContext()
			SetAuthenticatedUser(c, MockAdmin())
			c.Params = gin.Params{{Key: "mosque_id", Value: "4"}}
			AdminDeleteMosque(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAdminDeleteImamNotFound(t *testing.T) {
	_, mock, cleanup := SetupTestDB(t)
	defer cleanup()

	mock.ExpectExec("DELETE FROM \"imam\"").WillReturnResult(sqlmock.NewResult(0, 0))

	c, w := SetupTestContext()
	SetAuthenticatedUser(c, MockAdmin())
	c.Params = gin.Params{{Key: "imam_id", Value: "404"}}
	AdminDeleteImam(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
