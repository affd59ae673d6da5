package models

const (
	DefaultPerPage = 50
	MaxPerPage     = 200
)

type Page struct {
	Items   interface{} `json:"items"`
	Total   int64       `json:"total"`
	Page    int         `json:"page"`
	PerPage int         `json:"per_page"`
}
