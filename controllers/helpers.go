package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Taraweeh/models"
	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const msgServerError = "حدث خطأ في الخادم"

const msgNotFound = "غير موجود"

// apiError is returned from transaction bodies to abort with a client facing status.
type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	return e.Message
}

func newAPIError(status int, message string) *apiError {
	return &apiError{Status: status, Message: message}
}

// uniqueViolation reports whether err is a Postgres unique constraint failure
// and returns the violated constraint.
func uniqueViolation(err error) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return pqErr.Constraint, true
	}
	return "", false
}

func requestLogger(c *gin.Context) *zerolog.Logger {
	if c.Request == nil {
		return &log.Logger
	}
	return log.Ctx(c.Request.Context())
}

func serverError(c *gin.Context, err error, message string) {
	requestLogger(c).Error().Err(err).Str("route", c.FullPath()).Msg(message)
	c.JSON(http.StatusInternalServerError, gin.H{"error": message})
}

// respondError writes an apiError as is; anything else is logged and becomes a 500.
func respondError(c *gin.Context, err error, message string) {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.Status, gin.H{"error": apiErr.Message})
		return
	}
	serverError(c, err, message)
}

// registeredUser returns the caller's profile or answers 401 when they have
// not registered yet.
func registeredUser(c *gin.Context) (models.PublicUser, bool) {
	value, exists := c.Get("currentUser")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not registered"})
		return models.PublicUser{}, false
	}
	return value.(models.PublicUser), true
}

func paramInt(c *gin.Context, key string) (int, bool) {
	id, err := strconv.Atoi(c.Param(key))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
		return 0, false
	}
	return id, true
}

// pageParams reads page and per_page, clamped to 1.. and 1..200.
func pageParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}

	perPage, err := strconv.Atoi(c.Query("per_page"))
	if err != nil {
		perPage = models.DefaultPerPage
	}
	if perPage < 1 {
		perPage = 1
	}
	if perPage > models.MaxPerPage {
		perPage = models.MaxPerPage
	}
	return page, perPage
}

func paginate(ds *goqu.SelectDataset, page, perPage int) *goqu.SelectDataset {
	return ds.Offset(uint((page - 1) * perPage)).Limit(uint(perPage))
}

// nilIfEmpty maps blank strings to NULL.
func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func stringOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

// bindingMessage maps validator failures on domain tags to their user facing
// message, falling back to fallback.
func bindingMessage(err error, fallback string) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fallback
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return fallback
		}
	}
	for _, fe := range verrs {
		switch fe.Tag() {
		case "area":
			return "المنطقة غير صالحة"
		case "night":
			return "Night must be 1-30"
		}
	}
	return fallback
}

// nullable turns a nil pointer into an untyped nil so goqu writes NULL.
func nullable[T any](p *T) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
