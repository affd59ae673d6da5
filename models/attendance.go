package models

import "time"

const RamadanNights = 30

type TaraweehAttendance struct {
	Taraweeh_Attendance_ID int       `json:"-" goqu:"skipinsert"`
	Public_User_ID         int       `json:"-"`
	Night                  int       `json:"night"`
	Mosque_ID              *int      `json:"mosque_id"`
	Rakaat                 *int      `json:"rakaat"`
	Attended_At            time.Time `json:"attended_at" goqu:"skipinsert"`
}

type AttendanceMark struct {
	Mosque_ID *int `json:"mosque_id"`
	Rakaat    *int `json:"rakaat" binding:"omitempty,min=0,max=100"`
}

type TrackerStats struct {
	Attended      int `json:"attended"`
	Total         int `json:"total"`
	CurrentStreak int `json:"current_streak"`
	BestStreak    int `json:"best_streak"`
}

type TrackerResponse struct {
	Username    string               `json:"username,omitempty"`
	DisplayName *string              `json:"display_name,omitempty"`
	Nights      []TaraweehAttendance `json:"nights"`
	Stats       TrackerStats         `json:"stats"`
}

type NightParam struct {
	Night int `uri:"night" binding:"night"`
}
