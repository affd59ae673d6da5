package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Taraweeh/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// Test GetFavorites - Favorites in the order they were added
func TestGetFavorites(t *testing.T) {
	tests := []struct {
		name           string
		registered     bool
		setupMock      func(sqlmock.Sqlmock)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:       "registered user",
			registered: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT \"mosque_id\" FROM \"user_favorite\"").
					WillReturnRows(sqlmock.NewRows([]string{"mosque_id"}).AddRow(4).AddRow(2))
			},
			expectedStatus: http.StatusOK,
			expectedBody:   "[4,2]",
		},
		{
			name:       "no favorites yet",
			registered: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"mosque_id"}))
			},
			expectedStatus: http.StatusOK,
			expectedBody:   "[]",
		},
		{
			name:           "not registered",
			registered:     false,
			setupMock:      func(mock sqlmock.Sqlmock) {},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, mock, cleanup := SetupTestDB(t)
			defer cleanup()

			tt.setupMock(mock)

			c, w := SetupTestContext()
			if tt.registered {
				SetAuthenticatedUser(c, MockPublicUser())
			}
			GetFavorites(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, w.Body.String())
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// Test SetFavorites - Replace favorites, dropping unknown mosques
func TestSetFavorites(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		setupMock      func(sqlmock.Sqlmock)
		expectedStatus int
		expectedIDs    []int
	}{
		{
			name: "unknown and repeated ids dropped",
			body: models.FavoritesSet{Mosque_IDs: []int{3, 99, 1, 3}},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery("SELECT \"mosque_id\" FROM \"mosque\"").
					WillReturnRows(sqlmock.NewRows([]string{"mosque_id"}).AddRow(1).AddRow(3))
				mock.ExpectExec("DELETE FROM \"user_favorite\"").
					WillReturnResult(sqlmock.NewResult(0, 2))
				mock.ExpectExec("INSERT INTO \"user_favorite\"").
					WillReturnResult(sqlmock.NewResult(0, 2))
				mock.ExpectCommit()
			},
			expectedStatus: http.StatusOK,
			expectedIDs:    []int{3, 1},
		},
		{
			name: "empty list clears favorites",
			body: models.FavoritesSet{Mosque_IDs: []int{}},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("DELETE FROM \"user_favorite\"").
					WillReturnResult(sqlmock.NewResult(0, 3))
				mock.ExpectCommit()
			},
			expectedStatus: http.StatusOK,
			expectedIDs:    []int{},
		},
		{
			name:           "ids not a list",
			body:           gin.H{"mosque_ids": "1,2"},
			setupMock:      func(mock sqlmock.Sqlmock) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "delete fails and rolls back",
			body: models.FavoritesSet{Mosque_IDs: []int{1}},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery("SELECT").
					WillReturnRows(sqlmock.NewRows([]string{"mosque_id"}).AddRow(1))
				mock.ExpectExec("DELETE").WillReturnError(errors.New("deadlock"))
				mock.ExpectRollback()
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, mock, cleanup := SetupTestDB(t)
			defer cleanup()

			tt.setupMock(mock)

			c, w := SetupTestContext()
			SetAuthenticatedUser(c, MockPublicUser())
			SetJSONBody(c, http.MethodPut, tt.body)
			SetFavorites(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedIDs != nil {
				var ids []int
				assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &ids))
				assert.Equal(t, tt.expectedIDs, ids)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// Test AddFavorite - Favorite an existing mosque
func TestAddFavorite(t *testing.T) {
	tests := []struct {
		name           string
		mosqueID       string
		setupMock      func(sqlmock.Sqlmock)
		expectedStatus int
	}{
		{
			name:     "mosque exists",
			mosqueID: "5",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT COUNT").
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
				mock.ExpectExec("INSERT INTO \"user_favorite\" .* ON CONFLICT DO NOTHING").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:     "mosque missing",
			mosqueID: "404",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT COUNT").
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "bad id",
			mosqueID:       "x",
			setupMock:      func(mock sqlmock.Sqlmock) {},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, mock, cleanup := SetupTestDB(t)
			defer cleanup()

			tt.setupMock(mock)

			c, w := SetupTestContext()
			SetAuthenticatedUser(c, MockPublicUser())
			c.Params = gin.Params{{Key: "mosque_id", Value: tt.mosqueID}}
			AddFavorite(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRemoveFavorite(t *testing.T) {
	_, mock, cleanup := SetupTestDB(t)
	defer cleanup()

	// removing a favorite that was never added still succeeds
	mock.ExpectExec("DELETE FROM \"user_favorite\"").
		WillReturnResult(sqlmock.NewResult(0, 0))

	c, w := SetupTestContext()
	SetAuthenticatedUser(c, MockPublicUser())
	c.Params = gin.Params{{Key: "mosque_id", Value: "7"}}
	RemoveFavorite(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
