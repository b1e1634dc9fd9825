// internal/model/campaign.go
package model

import (
	"fmt"
	"time"
)

// CampaignStatus represents valid campaign statuses.
// SCHEDULED and FAILED are reserved for the scheduler, which does not
// run in this service; dispatch only ever produces DRAFT, RUNNING and
// COMPLETED.
type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "DRAFT"
	CampaignStatusScheduled CampaignStatus = "SCHEDULED"
	CampaignStatusRunning   CampaignStatus = "RUNNING"
	CampaignStatusCompleted CampaignStatus = "COMPLETED"
	CampaignStatusFailed    CampaignStatus = "FAILED"
)

// CampaignStats are aggregate delivery counters for one campaign.
// They are only ever mutated through atomic SQL increments; loading the
// struct, bumping a field and saving it back would lose concurrent updates.
type CampaignStats struct {
	Sent      int `db:"stats_sent" json:"sent"`
	Failed    int `db:"stats_failed" json:"failed"`
	Delivered int `db:"stats_delivered" json:"delivered"`
	Opened    int `db:"stats_opened" json:"opened"`
	Clicked   int `db:"stats_clicked" json:"clicked"`
}

type Campaign struct {
	ID           int            `db:"id" json:"id"`
	SegmentID    int            `db:"segment_id" json:"segment_id"`
	Name         string         `db:"name" json:"name"`
	Message      string         `db:"message" json:"message"`
	AudienceSize int            `db:"audience_size" json:"audience_size"`
	Status       CampaignStatus `db:"status" json:"status"`
	Stats        CampaignStats  `db:"stats" json:"stats"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    *time.Time     `db:"updated_at" json:"updated_at,omitempty"`
}

// Validate checks the fields required before a campaign may be persisted.
func (c *Campaign) Validate() error {
	if c.SegmentID == 0 {
		return fmt.Errorf("campaign segment_id is required")
	}
	if c.Name == "" {
		return fmt.Errorf("campaign name is required")
	}
	if c.Message == "" {
		return fmt.Errorf("campaign message is required")
	}
	return nil
}

// CanLaunch reports whether dispatch may pick this campaign up.
// Only DRAFT campaigns are launchable; re-launching a RUNNING or
// COMPLETED campaign would duplicate logs and re-send.
func (c *Campaign) CanLaunch() bool {
	return c.Status == CampaignStatusDraft
}
