package models

import "time"

// JobStatus is the lifecycle status of a transfer job in the ledger.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// TransferJob is the persisted record of one marketplace settlement. The
// orchestrator only reads it and updates its status; the marketplace owns it.
type TransferJob struct {
	ID              string     `json:"id"`
	ListingID       string     `json:"listing_id,omitempty"`
	ChannelUsername string     `json:"channel_username"`
	BuyerUsername   string     `json:"buyer_username"`
	Status          JobStatus  `json:"status"`
	Error           string     `json:"error,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

// Listing is the marketplace listing a job settles.
type Listing struct {
	ID        string     `json:"id"`
	Status    string     `json:"status"`
	UpdatedAt time.Time  `json:"updated_at"`
	SoldAt    *time.Time `json:"sold_at,omitempty"`
}

const ListingStatusSold = "sold"
