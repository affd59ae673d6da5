package controllers

import (
	"net/http"
	"strings"

	"github.com/Taraweeh/models"
	"github.com/Taraweeh/services"
	"github.com/gin-gonic/gin"
)

// SearchImams - Fuzzy imam name search for the transfer and request forms
func SearchImams(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		c.JSON(http.StatusOK, []models.ImamSearchResult{})
		return
	}

	index, err := services.GetImamIndex()
	if err != nil {
		serverError(c, err, "حدث خطأ في البحث")
		return
	}

	c.JSON(http.StatusOK, services.SearchImams(q, index))
}
