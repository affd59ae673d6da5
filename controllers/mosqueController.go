package controllers

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/Taraweeh/models"
	"github.com/Taraweeh/services"
	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
)

// GetMosques - List every mosque with its imam, ordered by name
func GetMosques(c *gin.Context) {
	var cached []models.MosqueResponse
	if services.CacheGet("mosques", &cached) {
		c.JSON(http.StatusOK, cached)
		return
	}

	var rows []models.MosqueWithImam
	err := mosqueWithImamQuery().Order(goqu.I("m.name").Asc()).ScanStructs(&rows)
	if err != nil {
		serverError(c, err, "Failed to fetch mosques")
		return
	}

	mosques := toMosqueResponses(rows)
	services.CacheSet("mosques", mosques)
	c.JSON(http.StatusOK, mosques)
}

// GetMosque - Get a single mosque by id
func GetMosque(c *gin.Context) {
	mosqueID, err := strconv.Atoi(c.Param("mosque_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Mosque not found"})
		return
	}

	mosque, found, err := getMosqueWithImam(mosqueID)
	if err != nil {
		serverError(c, err, "Failed to fetch mosque")
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Mosque not found"})
		return
	}

	c.JSON(http.StatusOK, mosque.Response())
}

// SearchMosques - Filter by area and location, then match q against mosque,
// location and imam names
func SearchMosques(c *gin.Context) {
	q := c.Query("q")
	area := c.Query("area")
	location := c.Query("location")

	query := mosqueWithImamQuery().Order(goqu.I("m.name").Asc())
	if area != "" && area != models.AllAreas {
		query = query.Where(goqu.I("m.area").Eq(area))
	}
	if location != "" && location != models.AllAreas {
		query = query.Where(goqu.I("m.location").Eq(location))
	}

	var rows []models.MosqueWithImam
	if err := query.ScanStructs(&rows); err != nil {
		serverError(c, err, "Failed to search mosques")
		return
	}

	results := make([]models.MosqueResponse, 0, len(rows))
	for _, r := range rows {
		if q == "" || matchesMosque(r, q) {
			results = append(results, r.Response())
		}
	}

	c.JSON(http.StatusOK, results)
}

func matchesMosque(m models.MosqueWithImam, q string) bool {
	if services.ContainsNormalized(m.Name, q) || services.ContainsNormalized(m.Location, q) {
		return true
	}
	return m.Imam_Name != nil && services.ContainsNormalized(*m.Imam_Name, q)
}

// NearbyMosques - Mosques with coordinates sorted by distance from lat/lng
func NearbyMosques(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr != nil || lngErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Latitude and longitude are required"})
		return
	}

	var rows []models.MosqueWithImam
	err := mosqueWithImamQuery().
		Where(goqu.I("m.latitude").IsNotNull(), goqu.I("m.longitude").IsNotNull()).
		ScanStructs(&rows)
	if err != nil {
		serverError(c, err, "Failed to fetch mosques")
		return
	}

	results := make([]models.MosqueResponse, 0, len(rows))
	for _, r := range rows {
		if r.Latitude == nil || r.Longitude == nil {
			continue
		}
		resp := r.Response()
		d := services.DistanceKm(lat, lng, *r.Latitude, *r.Longitude)
		resp.Distance = &d
		results = append(results, resp)
	}
	sort.SliceStable(results, func(i, j int) bool { return *results[i].Distance < *results[j].Distance })

	c.JSON(http.StatusOK, results)
}
