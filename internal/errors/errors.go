// internal/errors/errors.go
package appErrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions callers branch on.
var (
	// ErrEmptyAudience rejects a campaign launch whose segment matches
	// no customers. Nothing is created or sent in that case.
	ErrEmptyAudience = errors.New("campaign audience is empty")

	// ErrReceiptUnknownMessage reports a receipt whose vendor message id
	// does not correspond to any communication log.
	ErrReceiptUnknownMessage = errors.New("no communication log for vendor message id")
)

// ErrCampaignNotFound is a sentinel error
type ErrCampaignNotFound struct {
	CampaignID int
}

func (e *ErrCampaignNotFound) Error() string {
	return fmt.Sprintf("campaign with ID %d not found", e.CampaignID)
}

// Helper constructor
func NewCampaignNotFound(id int) error {
	return &ErrCampaignNotFound{CampaignID: id}
}

// ErrSegmentNotFound is returned when a segment id resolves to nothing.
type ErrSegmentNotFound struct {
	SegmentID int
}

func (e *ErrSegmentNotFound) Error() string {
	return fmt.Sprintf("segment with ID %d not found", e.SegmentID)
}

func NewSegmentNotFound(id int) error {
	return &ErrSegmentNotFound{SegmentID: id}
}

// ErrCustomerNotFound is returned when a customer id resolves to nothing.
type ErrCustomerNotFound struct {
	CustomerID int
}

func (e *ErrCustomerNotFound) Error() string {
	return fmt.Sprintf("customer with ID %d not found", e.CustomerID)
}

func NewCustomerNotFound(id int) error {
	return &ErrCustomerNotFound{CustomerID: id}
}

// ErrCampaignNotLaunchable rejects a launch for a campaign that is not
// in DRAFT. Guards against double dispatch of the same audience.
type ErrCampaignNotLaunchable struct {
	CampaignID int
	Status     string
}

func (e *ErrCampaignNotLaunchable) Error() string {
	return fmt.Sprintf("campaign %d cannot be launched in status %s", e.CampaignID, e.Status)
}

func NewCampaignNotLaunchable(id int, status string) error {
	return &ErrCampaignNotLaunchable{CampaignID: id, Status: status}
}

// ErrInvalidRule reports a rule the compiler rejected, before any state
// was created from it.
type ErrInvalidRule struct {
	Index  int
	Reason string
}

func (e *ErrInvalidRule) Error() string {
	return fmt.Sprintf("rule %d is invalid: %s", e.Index, e.Reason)
}

func NewInvalidRule(index int, format string, args ...any) error {
	return &ErrInvalidRule{Index: index, Reason: fmt.Sprintf(format, args...)}
}
