package models

type Imam struct {
	Imam_ID      int     `json:"id" goqu:"skipinsert"`
	Name         string  `json:"name"`
	Mosque_ID    *int    `json:"mosque_id"`
	Audio_Sample *string `json:"audio_sample"`
	Youtube_Link *string `json:"youtube_link"`
}

type ImamWithMosque struct {
	Imam_ID      int     `json:"id"`
	Name         string  `json:"name"`
	Mosque_ID    *int    `json:"mosque_id"`
	Mosque_Name  *string `json:"mosque_name"`
	Audio_Sample *string `json:"audio_sample"`
	Youtube_Link *string `json:"youtube_link"`
}

type ImamCreate struct {
	Name         string `json:"name" binding:"required"`
	Mosque_ID    *int   `json:"mosque_id"`
	Audio_Sample string `json:"audio_sample"`
	Youtube_Link string `json:"youtube_link"`
}

type ImamUpdate struct {
	Name         *string `json:"name"`
	Mosque_ID    *int    `json:"mosque_id"`
	Audio_Sample *string `json:"audio_sample"`
	Youtube_Link *string `json:"youtube_link"`
}

type ImamSearchResult struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	MosqueName *string `json:"mosque_name"`
	MosqueID   *int    `json:"mosque_id"`
}
