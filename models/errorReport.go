package models

type ErrorReport struct {
	Mosque_ID      int      `form:"mosque_id" json:"mosque_id" binding:"required"`
	Error_Types    []string `form:"error_type" json:"error_type"`
	Error_Details  string   `form:"error_details" json:"error_details"`
	Reporter_Email string   `form:"reporter_email" json:"reporter_email" binding:"omitempty,email"`
}
