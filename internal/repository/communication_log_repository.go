// internal/repository/communication_log_repository.go
package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/unclebandit/minicrm-backend/internal/model"
)

type CommunicationLogRepositoryInterface interface {
	Create(l *model.CommunicationLog) error
	GetByVendorMessageID(vendorMessageID string) (*model.CommunicationLog, error)
	ListByCampaign(campaignID int) ([]model.CommunicationLog, error)
	CountByStatus(campaignID int) (map[string]int, error)

	MarkSent(id int, sentAt time.Time) error
	MarkFailed(id int, reason string) error
	// MarkDelivered transitions SENT -> DELIVERED in one conditional
	// update and reports whether the transition happened. Duplicate
	// receipts find the log already DELIVERED and report false.
	MarkDelivered(vendorMessageID string, deliveredAt time.Time) (bool, error)
	// TransitionStatus is the generic forward-only conditional update
	// used for engagement states (DELIVERED -> OPENED/CLICKED).
	TransitionStatus(vendorMessageID string, from, to model.LogStatus) (bool, error)
}

type CommunicationLogRepository struct {
	DB *sqlx.DB
}

const logColumns = `id, campaign_id, customer_id, message, status, vendor_message_id,
        sent_at, delivered_at, failure_reason, created_at`

// Create inserts a PENDING log for one (campaign, customer) send.
// vendor_message_id is unique; a duplicate insert fails rather than
// silently producing two logs for the same correlation key.
func (r *CommunicationLogRepository) Create(l *model.CommunicationLog) error {
	if l.Status == "" {
		l.Status = model.LogStatusPending
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	query := r.DB.Rebind(`
        INSERT INTO communication_logs (campaign_id, customer_id, message, status, vendor_message_id, failure_reason, created_at)
        VALUES (?, ?, ?, ?, ?, '', ?)
        RETURNING id
    `)
	return r.DB.QueryRow(query, l.CampaignID, l.CustomerID, l.Message, l.Status, l.VendorMessageID, l.CreatedAt).Scan(&l.ID)
}

func (r *CommunicationLogRepository) GetByVendorMessageID(vendorMessageID string) (*model.CommunicationLog, error) {
	query := r.DB.Rebind(`SELECT ` + logColumns + ` FROM communication_logs WHERE vendor_message_id = ?`)

	var l model.CommunicationLog
	if err := r.DB.Get(&l, query, vendorMessageID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // not found
		}
		return nil, err
	}
	return &l, nil
}

func (r *CommunicationLogRepository) ListByCampaign(campaignID int) ([]model.CommunicationLog, error) {
	logs := []model.CommunicationLog{}
	query := r.DB.Rebind(`SELECT ` + logColumns + ` FROM communication_logs WHERE campaign_id = ? ORDER BY id`)
	if err := r.DB.Select(&logs, query, campaignID); err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *CommunicationLogRepository) CountByStatus(campaignID int) (map[string]int, error) {
	query := r.DB.Rebind(`SELECT status, COUNT(*) FROM communication_logs WHERE campaign_id = ? GROUP BY status`)
	rows, err := r.DB.Query(query, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := map[string]int{}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

func (r *CommunicationLogRepository) MarkSent(id int, sentAt time.Time) error {
	query := r.DB.Rebind(`UPDATE communication_logs SET status = ?, sent_at = ? WHERE id = ?`)
	_, err := r.DB.Exec(query, model.LogStatusSent, sentAt, id)
	return err
}

func (r *CommunicationLogRepository) MarkFailed(id int, reason string) error {
	query := r.DB.Rebind(`UPDATE communication_logs SET status = ?, failure_reason = ? WHERE id = ?`)
	_, err := r.DB.Exec(query, model.LogStatusFailed, reason, id)
	return err
}

func (r *CommunicationLogRepository) MarkDelivered(vendorMessageID string, deliveredAt time.Time) (bool, error) {
	query := r.DB.Rebind(`
        UPDATE communication_logs SET status = ?, delivered_at = ?
        WHERE vendor_message_id = ? AND status = ?
    `)
	res, err := r.DB.Exec(query, model.LogStatusDelivered, deliveredAt, vendorMessageID, model.LogStatusSent)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *CommunicationLogRepository) TransitionStatus(vendorMessageID string, from, to model.LogStatus) (bool, error) {
	if !model.CanTransition(from, to) {
		return false, nil
	}
	query := r.DB.Rebind(`
        UPDATE communication_logs SET status = ?
        WHERE vendor_message_id = ? AND status = ?
    `)
	res, err := r.DB.Exec(query, to, vendorMessageID, from)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

var _ CommunicationLogRepositoryInterface = (*CommunicationLogRepository)(nil)
