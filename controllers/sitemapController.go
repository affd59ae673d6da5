package controllers

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"

	"github.com/Taraweeh/initializers"
	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
)

type sitemapURL struct {
	Loc        string `xml:"loc"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

var sitemapPages = []string{"", "/about", "/contact", "/leaderboard"}

// Sitemap - XML sitemap of the static pages and every mosque page
func Sitemap(c *gin.Context) {
	var mosqueIDs []int
	err := initializers.DB.From("mosque").
		Select("mosque_id").
		Order(goqu.C("mosque_id").Asc()).
		ScanVals(&mosqueIDs)
	if err != nil {
		serverError(c, err, msgServerError)
		return
	}

	site := strings.TrimRight(initializers.Getenv("SITE_URL", "https://taraweeh.org"), "/")
	set := sitemapURLSet{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, page := range sitemapPages {
		set.URLs = append(set.URLs, sitemapURL{Loc: site + page, ChangeFreq: "daily", Priority: "0.8"})
	}
	for _, id := range mosqueIDs {
		set.URLs = append(set.URLs, sitemapURL{Loc: fmt.Sprintf("%s/mosque/%d", site, id), ChangeFreq: "weekly", Priority: "0.6"})
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		serverError(c, err, msgServerError)
		return
	}

	c.Data(http.StatusOK, "application/xml; charset=utf-8", append([]byte(xml.Header), body...))
}
