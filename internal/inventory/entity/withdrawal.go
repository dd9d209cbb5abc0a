package entity

import "time"

// RequestStatus is the state of a withdrawal request. pending is the
// initial state; approved and rejected are terminal.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

// Valid reports whether s is one of the known statuses.
func (s RequestStatus) Valid() bool {
	return s == RequestStatusPending || s == RequestStatusApproved || s == RequestStatusRejected
}

// Terminal reports whether the status permits no further transition.
func (s RequestStatus) Terminal() bool {
	return s == RequestStatusApproved || s == RequestStatusRejected
}

// WithdrawalRequest is a user's ask to remove stock, subject to admin
// approval. ItemName is denormalized from the item at submission time
// so the record survives item deletion. Requests are never deleted.
type WithdrawalRequest struct {
	ID                string        `json:"id" gorm:"primaryKey;size:36"`
	ItemID            string        `json:"item_id" gorm:"size:36;not null;index"`
	ItemName          string        `json:"item_name" gorm:"size:256;not null"`
	RequestedQuantity int           `json:"requested_quantity" gorm:"not null"`
	Purpose           string        `json:"purpose" gorm:"type:text"`
	RequestedBy       string        `json:"requested_by" gorm:"size:36;not null;index"`
	RequestedByName   string        `json:"requested_by_name" gorm:"size:128;not null"`
	Status            RequestStatus `json:"status" gorm:"size:16;not null;default:'pending';index"`
	AdminComments     string        `json:"admin_comments"`
	ProcessedBy       string        `json:"processed_by" gorm:"size:32"`
	ProcessedAt       *time.Time    `json:"processed_at"`
	CreatedAt         time.Time     `json:"created_at" gorm:"index"`
}

func (WithdrawalRequest) TableName() string {
	return "withdrawal_requests"
}
