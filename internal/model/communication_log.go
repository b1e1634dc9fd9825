// internal/model/communication_log.go
package model

import "time"

// LogStatus is the per-message delivery lifecycle state.
type LogStatus string

const (
	LogStatusPending   LogStatus = "PENDING"
	LogStatusSent      LogStatus = "SENT"
	LogStatusFailed    LogStatus = "FAILED"
	LogStatusDelivered LogStatus = "DELIVERED"
	LogStatusOpened    LogStatus = "OPENED"
	LogStatusClicked   LogStatus = "CLICKED"
)

// logStatusRank orders statuses along the forward-only lifecycle
// PENDING -> {SENT, FAILED} -> DELIVERED -> {OPENED, CLICKED}.
// FAILED is absorbing: nothing ranks above it on its branch.
var logStatusRank = map[LogStatus]int{
	LogStatusPending:   0,
	LogStatusSent:      1,
	LogStatusFailed:    1,
	LogStatusDelivered: 2,
	LogStatusOpened:    3,
	LogStatusClicked:   3,
}

// CanTransition reports whether a log may move from -> to. Statuses
// never move backward, FAILED never advances, and the engagement
// states only follow DELIVERED.
func CanTransition(from, to LogStatus) bool {
	if from == LogStatusFailed {
		return false
	}
	fromRank, ok := logStatusRank[from]
	if !ok {
		return false
	}
	toRank, ok := logStatusRank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}

// CommunicationLog is one record per (campaign, customer) send attempt.
// VendorMessageID is the globally unique correlation key receipts are
// matched on.
type CommunicationLog struct {
	ID              int        `db:"id" json:"id"`
	CampaignID      int        `db:"campaign_id" json:"campaign_id"`
	CustomerID      int        `db:"customer_id" json:"customer_id"`
	Message         string     `db:"message" json:"message"`
	Status          LogStatus  `db:"status" json:"status"`
	VendorMessageID string     `db:"vendor_message_id" json:"vendor_message_id"`
	SentAt          *time.Time `db:"sent_at" json:"sent_at,omitempty"`
	DeliveredAt     *time.Time `db:"delivered_at" json:"delivered_at,omitempty"`
	FailureReason   string     `db:"failure_reason" json:"failure_reason,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
}
