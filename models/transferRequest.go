package models

import "time"

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusNeedsInfo = "needs_info"
)

type ImamTransferRequest struct {
	Imam_Transfer_Request_ID int        `json:"id" goqu:"skipinsert"`
	Submitter_ID             int        `json:"submitter_id"`
	Mosque_ID                int        `json:"mosque_id"`
	Current_Imam_ID          *int       `json:"current_imam_id"`
	New_Imam_ID              *int       `json:"new_imam_id"`
	New_Imam_Name            *string    `json:"new_imam_name"`
	Notes                    *string    `json:"notes"`
	Status                   string     `json:"status" goqu:"skipinsert"`
	Reject_Reason            *string    `json:"reject_reason" goqu:"skipinsert"`
	Created_At               time.Time  `json:"created_at" goqu:"skipinsert"`
	Reviewed_At              *time.Time `json:"reviewed_at" goqu:"skipinsert"`
	Reviewed_By              *int       `json:"-" goqu:"skipinsert"`
}

// TransferListItem is a transfer request joined with the names it refers to.
type TransferListItem struct {
	Imam_Transfer_Request_ID int        `json:"id"`
	Submitter_Name           *string    `json:"submitter_name,omitempty"`
	Mosque_ID                int        `json:"mosque_id"`
	Mosque_Name              *string    `json:"mosque_name"`
	Current_Imam_Name        *string    `json:"current_imam_name"`
	New_Imam_Name            *string    `json:"new_imam_name"`
	Notes                    *string    `json:"notes"`
	Status                   string     `json:"status"`
	Reject_Reason            *string    `json:"reject_reason"`
	Created_At               time.Time  `json:"created_at"`
	Reviewed_At              *time.Time `json:"reviewed_at"`
}

type TransferCreate struct {
	Mosque_ID     int    `json:"mosque_id"`
	New_Imam_ID   *int   `json:"new_imam_id"`
	New_Imam_Name string `json:"new_imam_name"`
	Notes         string `json:"notes"`
}

// ReviewDecision is the body of reject and needs-info calls.
type ReviewDecision struct {
	Reason      string `json:"reason"`
	Admin_Notes string `json:"admin_notes"`
}
