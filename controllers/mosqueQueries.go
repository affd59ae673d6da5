package controllers

import (
	"github.com/Taraweeh/initializers"
	"github.com/Taraweeh/models"
	"github.com/doug-martin/goqu/v9"
)

// mosqueWithImamQuery selects mosques joined with their first attached imam.
func mosqueWithImamQuery() *goqu.SelectDataset {
	firstImam := initializers.DB.From("imam").
		Select(goqu.MIN("imam_id")).
		Where(goqu.I("imam.mosque_id").Eq(goqu.I("m.mosque_id")))

	return initializers.DB.From(goqu.T("mosque").As("m")).
		LeftJoin(goqu.T("imam").As("i"), goqu.On(goqu.I("i.imam_id").Eq(firstImam))).
		Select(
			goqu.I("m.mosque_id"),
			goqu.I("m.name"),
			goqu.I("m.location"),
			goqu.I("m.area"),
			goqu.I("m.map_link"),
			goqu.I("m.latitude"),
			goqu.I("m.longitude"),
			goqu.I("i.imam_id"),
			goqu.I("i.name").As("imam_name"),
			goqu.I("i.audio_sample"),
			goqu.I("i.youtube_link"),
		)
}

func getMosqueWithImam(mosqueID int) (models.MosqueWithImam, bool, error) {
	var mosque models.MosqueWithImam
	found, err := mosqueWithImamQuery().
		Where(goqu.I("m.mosque_id").Eq(mosqueID)).
		ScanStruct(&mosque)
	return mosque, found, err
}

func mosqueExists(mosqueID int) (bool, error) {
	count, err := initializers.DB.From("mosque").Where(goqu.C("mosque_id").Eq(mosqueID)).Count()
	return count > 0, err
}

func toMosqueResponses(rows []models.MosqueWithImam) []models.MosqueResponse {
	out := make([]models.MosqueResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Response())
	}
	return out
}
