package models

import "time"

const (
	RequestNewMosque    = "new_mosque"
	RequestNewImam      = "new_imam"
	RequestImamTransfer = "imam_transfer"
)

const (
	ImamSourceExisting = "existing"
	ImamSourceNew      = "new"
)

type CommunityRequest struct {
	Community_Request_ID int        `json:"id" goqu:"skipinsert"`
	Submitter_ID         int        `json:"submitter_id"`
	Request_Type         string     `json:"request_type"`
	Mosque_Name          *string    `json:"mosque_name"`
	Mosque_Location      *string    `json:"mosque_location"`
	Mosque_Area          *string    `json:"mosque_area"`
	Mosque_Map_Link      *string    `json:"mosque_map_link"`
	Imam_Name            *string    `json:"imam_name"`
	Imam_Audio_URL       *string    `json:"imam_audio_url"`
	Imam_Youtube_Link    *string    `json:"imam_youtube_link"`
	Imam_Source          *string    `json:"imam_source"`
	Existing_Imam_ID     *int       `json:"existing_imam_id"`
	Target_Mosque_ID     *int       `json:"target_mosque_id"`
	Notes                *string    `json:"notes"`
	Status               string     `json:"status" goqu:"skipinsert"`
	Reject_Reason        *string    `json:"reject_reason" goqu:"skipinsert"`
	Admin_Notes          *string    `json:"admin_notes" goqu:"skipinsert"`
	Created_At           time.Time  `json:"created_at" goqu:"skipinsert"`
	Reviewed_At          *time.Time `json:"reviewed_at" goqu:"skipinsert"`
	Reviewed_By          *int       `json:"-" goqu:"skipinsert"`
	Duplicate_Of         *int       `json:"duplicate_of" goqu:"skipinsert"`
}

// CommunityRequestRow is a community request joined with its submitter,
// target mosque and referenced imam.
type CommunityRequestRow struct {
	CommunityRequest
	Target_Mosque_Name    *string `json:"target_mosque_name"`
	Existing_Imam_Name    *string `json:"existing_imam_name"`
	Submitter_Name        *string `json:"submitter_name"`
	Submitter_Trust_Level *string `json:"submitter_trust_level"`
}

type CommunityRequestCreate struct {
	Request_Type      string `json:"request_type"`
	Mosque_Name       string `json:"mosque_name"`
	Mosque_Location   string `json:"mosque_location"`
	Mosque_Area       string `json:"mosque_area"`
	Mosque_Map_Link   string `json:"mosque_map_link"`
	Imam_Source       string `json:"imam_source"`
	Existing_Imam_ID  *int   `json:"existing_imam_id"`
	Target_Mosque_ID  *int   `json:"target_mosque_id"`
	Imam_Name         string `json:"imam_name"`
	Imam_Youtube_Link string `json:"imam_youtube_link"`
	Imam_Audio_URL    string `json:"imam_audio_url"`
	Notes             string `json:"notes"`
}

// RequestApproval lets a reviewer override submitted values; nil keeps the submitted one.
type RequestApproval struct {
	Mosque_Name       *string  `json:"mosque_name"`
	Mosque_Area       *string  `json:"mosque_area"`
	Mosque_Location   *string  `json:"mosque_location"`
	Mosque_Map_Link   *string  `json:"mosque_map_link"`
	Latitude          *float64 `json:"latitude"`
	Longitude         *float64 `json:"longitude"`
	Imam_Name         *string  `json:"imam_name"`
	Imam_Youtube_Link *string  `json:"imam_youtube_link"`
	Audio_Sample      *string  `json:"audio_sample"`
	Admin_Notes       string   `json:"admin_notes"`
}

type DuplicateMatch struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	Area       string  `json:"area,omitempty"`
	Location   string  `json:"location,omitempty"`
	MosqueID   *int    `json:"mosque_id,omitempty"`
	MosqueName *string `json:"mosque_name,omitempty"`
}
