package models

// AllAreas is the client-side sentinel for "no area/location filter".
const AllAreas = "الكل"

var Areas = []string{"شمال", "جنوب", "شرق", "غرب"}

type Mosque struct {
	Mosque_ID int      `json:"id" goqu:"skipinsert"`
	Name      string   `json:"name"`
	Location  string   `json:"location"`
	Area      string   `json:"area"`
	Map_Link  *string  `json:"map_link"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// MosqueWithImam is a mosque row joined with the first imam attached to it.
type MosqueWithImam struct {
	Mosque_ID    int
	Name         string
	Location     string
	Area         string
	Map_Link     *string
	Latitude     *float64
	Longitude    *float64
	Imam_ID      *int
	Imam_Name    *string
	Audio_Sample *string
	Youtube_Link *string
}

type MosqueResponse struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Location    string   `json:"location"`
	Area        string   `json:"area"`
	MapLink     *string  `json:"map_link"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Imam        *string  `json:"imam"`
	AudioSample *string  `json:"audio_sample"`
	YoutubeLink *string  `json:"youtube_link"`
	Distance    *float64 `json:"distance,omitempty"`
}

type AdminMosqueResponse struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Location    string   `json:"location"`
	Area        string   `json:"area"`
	MapLink     *string  `json:"map_link"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	ImamID      *int     `json:"imam_id"`
	ImamName    *string  `json:"imam_name"`
	AudioSample *string  `json:"audio_sample"`
	YoutubeLink *string  `json:"youtube_link"`
}

func (m MosqueWithImam) Response() MosqueResponse {
	return MosqueResponse{
		ID:          m.Mosque_ID,
		Name:        m.Name,
		Location:    m.Location,
		Area:        m.Area,
		MapLink:     m.Map_Link,
		Latitude:    m.Latitude,
		Longitude:   m.Longitude,
		Imam:        m.Imam_Name,
		AudioSample: m.Audio_Sample,
		YoutubeLink: m.Youtube_Link,
	}
}

func (m MosqueWithImam) AdminResponse() AdminMosqueResponse {
	return AdminMosqueResponse{
		ID:          m.Mosque_ID,
		Name:        m.Name,
		Location:    m.Location,
		Area:        m.Area,
		MapLink:     m.Map_Link,
		Latitude:    m.Latitude,
		Longitude:   m.Longitude,
		ImamID:      m.Imam_ID,
		ImamName:    m.Imam_Name,
		AudioSample: m.Audio_Sample,
		YoutubeLink: m.Youtube_Link,
	}
}

type MosqueCreate struct {
	Name             string   `json:"name" binding:"required"`
	Location         string   `json:"location" binding:"required"`
	Area             string   `json:"area" binding:"required,area"`
	Map_Link         string   `json:"map_link"`
	Latitude         *float64 `json:"latitude" binding:"omitempty,latitude"`
	Longitude        *float64 `json:"longitude" binding:"omitempty,longitude"`
	Existing_Imam_ID *int     `json:"existing_imam_id"`
	Imam_Name        string   `json:"imam_name"`
	Audio_Sample     string   `json:"audio_sample"`
	Youtube_Link     string   `json:"youtube_link"`
}

// MosqueUpdate fields are optional; nil means "leave unchanged".
// An empty Imam_Name detaches the current imam.
type MosqueUpdate struct {
	Name             *string  `json:"name"`
	Location         *string  `json:"location"`
	Area             *string  `json:"area" binding:"omitempty,area"`
	Map_Link         *string  `json:"map_link"`
	Latitude         *float64 `json:"latitude" binding:"omitempty,latitude"`
	Longitude        *float64 `json:"longitude" binding:"omitempty,longitude"`
	Existing_Imam_ID *int     `json:"existing_imam_id"`
	Imam_Name        *string  `json:"imam_name"`
	Audio_Sample     *string  `json:"audio_sample"`
	Youtube_Link     *string  `json:"youtube_link"`
}
