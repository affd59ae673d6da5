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

func TestAdminStats(t *testing.T) {
	_, mock, cleanup := SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT COUNT.*FROM \"mosque\"").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(120))
	mock.ExpectQuery("SELECT COUNT.*FROM \"imam\"").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(95))
	mock.ExpectQuery("SELECT COUNT.*FROM \"public_user\"").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(400))
	mock.ExpectQuery("SELECT COUNT.*FROM \"community_request\".*IN \\('pending', 'needs_info'\\)").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	c, w := SetupTestContext()
	SetAuthenticatedUser(c, MockModerator())
	AdminStats(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"mosque_count":120,"imam_count":95,"user_count":400,"pending_requests":7}`, w.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Test UpdateUserRole - Only admins may change roles
func TestUpdateUserRole(t *testing.T) {
	tests := []struct {
		name           string
		currentUser    models.PublicUser
		body           interface{}
		setupMock      func(sqlmock.Sqlmock)
		expectedStatus int
	}{
		{
			name:        "admin promotes a user",
			currentUser: MockAdmin(),
			body:        models.RoleUpdate{Role: models.RoleModerator},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT COUNT").
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
				mock.ExpectExec("UPDATE \"public_user\" SET \"role\"='moderator'").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "moderator cannot change roles",
			currentUser:    MockModerator(),
			body:           models.RoleUpdate{Role: models.RoleAdmin},
			setupMock:      func(mock sqlmock.Sqlmock) {},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:        "unknown role",
			currentUser: MockAdmin(),
			body:        gin.H{"role": "owner"},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT COUNT").
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "unknown user",
			currentUser: MockAdmin(),
			body:        models.RoleUpdate{Role: models.RoleUser},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT COUNT").
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
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
			SetJSONBody(c, http.MethodPut, tt.body)
			SetAuthenticatedUser(c, tt.currentUser)
			c.Params = gin.Params{{Key: "user_id", Value: "1"}}
			UpdateUserRole(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUpdateUserTrustLevelRejectsUnknownLevel(t *testing.T) {
	_, mock, cleanup := SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	c, w := SetupTestContext()
	SetJSONBody(c, http.MethodPut, gin.H{"trust_level": "gold"})
	SetAuthenticatedUser(c, MockModerator())
	c.Params = gin.Params{{Key: "user_id", Value: "1"}}
	UpdateUserTrustLevel(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "مستوى الثقة غير صالح", response["error"])
	assert.NoError(t, mock.ExpectationsWereMet())
}
