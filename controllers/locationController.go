package controllers

import (
	"net/http"
	"sort"

	"github.com/Taraweeh/initializers"
	"github.com/Taraweeh/models"
	"github.com/Taraweeh/services"
	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
)

// GetLocations - Distinct locations, optionally within an area. With
// areas_only=1 the distinct areas are returned instead.
func GetLocations(c *gin.Context) {
	if c.Query("areas_only") == "1" {
		areas, err := cachedAreas()
		if err != nil {
			serverError(c, err, msgServerError)
			return
		}
		c.JSON(http.StatusOK, areas)
		return
	}

	area := c.Query("area")
	filtered := area != "" && area != models.AllAreas
	cacheKey := "locations:"
	if filtered {
		cacheKey += area
	}

	var locations []string
	if services.CacheGet(cacheKey, &locations) {
		c.JSON(http.StatusOK, locations)
		return
	}

	query := initializers.DB.From("mosque").
		Select(goqu.C("location")).Distinct().
		Where(goqu.C("location").Neq(""))
	if filtered {
		query = query.Where(goqu.C("area").Eq(area))
	}

	locations = []string{}
	if err := query.ScanVals(&locations); err != nil {
		serverError(c, err, msgServerError)
		return
	}
	sort.Strings(locations)

	services.CacheSet(cacheKey, locations)
	c.JSON(http.StatusOK, locations)
}

// GetAreas - Distinct non-empty areas
func GetAreas(c *gin.Context) {
	areas, err := distinctAreas()
	if err != nil {
		serverError(c, err, msgServerError)
		return
	}
	c.JSON(http.StatusOK, areas)
}

func cachedAreas() ([]string, error) {
	var areas []string
	if services.CacheGet("areas", &areas) {
		return areas, nil
	}
	areas, err := distinctAreas()
	if err != nil {
		return nil, err
	}
	services.CacheSet("areas", areas)
	return areas, nil
}

// distinctAreas orders by code point so the result does not depend on the
// database collation.
func distinctAreas() ([]string, error) {
	areas := []string{}
	err := initializers.DB.From("mosque").
		Select(goqu.C("area")).Distinct().
		Where(goqu.C("area").Neq("")).
		ScanVals(&areas)
	if err != nil {
		return nil, err
	}
	sort.Strings(areas)
	return areas, nil
}
