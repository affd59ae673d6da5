package controllers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Taraweeh/initializers"
	"github.com/Taraweeh/models"
	"github.com/Taraweeh/services"
	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
)

var registerValidatorsOnce sync.Once

// SetupTestDB creates a mock database and sets it as the global DB for testing
func SetupTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}

	// Create goqu database instance
	goquDB := goqu.New("postgres", db)

	// Store original DB to restore after test
	originalDB := initializers.DB
	initializers.DB = goquDB

	// Cached responses from earlier tests must not leak in
	services.InvalidateCaches()

	// Return cleanup function
	cleanup := func() {
		// Small delay to allow goroutines (like push notifications) to complete
		time.Sleep(10 * time.Millisecond)
		db.Close()
		initializers.DB = originalDB
	}

	return db, mock, cleanup
}

// SetupTestContext creates a test Gin context with a response recorder and an empty GET request
func SetupTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	registerValidatorsOnce.Do(initializers.RegisterValidators)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

// SetJSONBody replaces the request with one carrying body encoded as JSON
func SetJSONBody(c *gin.Context, method string, body interface{}) {
	raw, _ := json.Marshal(body)
	c.Request = httptest.NewRequest(method, "/", bytes.NewBuffer(raw))
	c.Request.Header.Set("Content-Type", "application/json")
}

// SetAuthenticatedUser sets the authToken and currentUser values in the Gin context
// This simulates what the CheckAuth middleware does for a registered user
func SetAuthenticatedUser(c *gin.Context, user models.PublicUser) {
	c.Set("authToken", models.AuthToken{UID: user.Firebase_UID})
	c.Set("currentUser", user)
}
