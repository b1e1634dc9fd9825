// internal/repository/campaign_repository.go
package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	appErrors "github.com/unclebandit/minicrm-backend/internal/errors"
	"github.com/unclebandit/minicrm-backend/internal/model"
)

type CampaignRepositoryInterface interface {
	Create(c *model.Campaign) error
	GetByID(id int) (*model.Campaign, error)
	List(offset, limit int) ([]model.Campaign, int, error)
	// TransitionStatus flips status from -> to and reports whether the
	// row was in the expected state. Guards launch (DRAFT -> RUNNING)
	// against double dispatch.
	TransitionStatus(id int, from, to model.CampaignStatus) (bool, error)
	UpdateStatus(id int, status model.CampaignStatus) error
	SetAudienceSize(id, size int) error

	// Stats counters. Increments happen inside the database so
	// concurrent dispatch tasks and receipt ingestion never lose
	// updates to a read-modify-write cycle.
	IncrementSent(id int) error
	IncrementFailed(id int) error
	IncrementDelivered(id int) error
}

type CampaignRepository struct {
	DB *sqlx.DB
}

const campaignColumns = `id, segment_id, name, message, audience_size, status,
        stats_sent, stats_failed, stats_delivered, stats_opened, stats_clicked,
        created_at, updated_at`

func (r *CampaignRepository) Create(c *model.Campaign) error {
	if c.Status == "" {
		c.Status = model.CampaignStatusDraft
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	query := r.DB.Rebind(`
        INSERT INTO campaigns (segment_id, name, message, audience_size, status, created_at)
        VALUES (?, ?, ?, ?, ?, ?)
        RETURNING id
    `)
	return r.DB.QueryRow(query, c.SegmentID, c.Name, c.Message, c.AudienceSize, c.Status, c.CreatedAt).Scan(&c.ID)
}

func (r *CampaignRepository) GetByID(id int) (*model.Campaign, error) {
	query := r.DB.Rebind(`SELECT ` + campaignColumns + ` FROM campaigns WHERE id = ?`)

	c, err := scanCampaign(r.DB.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NewCampaignNotFound(id)
		}
		return nil, err
	}
	return c, nil
}

func (r *CampaignRepository) List(offset, limit int) ([]model.Campaign, int, error) {
	query := r.DB.Rebind(`SELECT ` + campaignColumns + ` FROM campaigns ORDER BY id DESC LIMIT ? OFFSET ?`)
	rows, err := r.DB.Query(query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	campaigns := []model.Campaign{}
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, 0, err
		}
		campaigns = append(campaigns, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.DB.Get(&total, `SELECT COUNT(*) FROM campaigns`); err != nil {
		return nil, 0, err
	}
	return campaigns, total, nil
}

func (r *CampaignRepository) TransitionStatus(id int, from, to model.CampaignStatus) (bool, error) {
	query := r.DB.Rebind(`UPDATE campaigns SET status = ?, updated_at = ? WHERE id = ? AND status = ?`)
	res, err := r.DB.Exec(query, to, time.Now(), id, from)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *CampaignRepository) UpdateStatus(id int, status model.CampaignStatus) error {
	query := r.DB.Rebind(`UPDATE campaigns SET status = ?, updated_at = ? WHERE id = ?`)
	_, err := r.DB.Exec(query, status, time.Now(), id)
	return err
}

func (r *CampaignRepository) SetAudienceSize(id, size int) error {
	query := r.DB.Rebind(`UPDATE campaigns SET audience_size = ?, updated_at = ? WHERE id = ?`)
	_, err := r.DB.Exec(query, size, time.Now(), id)
	return err
}

func (r *CampaignRepository) IncrementSent(id int) error {
	return r.increment(id, "stats_sent")
}

func (r *CampaignRepository) IncrementFailed(id int) error {
	return r.increment(id, "stats_failed")
}

func (r *CampaignRepository) IncrementDelivered(id int) error {
	return r.increment(id, "stats_delivered")
}

// increment bumps one counter column atomically in SQL. Column names
// come from the fixed callers above, never from input.
func (r *CampaignRepository) increment(id int, column string) error {
	query := r.DB.Rebind(`UPDATE campaigns SET ` + column + ` = ` + column + ` + 1 WHERE id = ?`)
	_, err := r.DB.Exec(query, id)
	return err
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCampaign(row rowScanner) (*model.Campaign, error) {
	var c model.Campaign
	err := row.Scan(
		&c.ID, &c.SegmentID, &c.Name, &c.Message, &c.AudienceSize, &c.Status,
		&c.Stats.Sent, &c.Stats.Failed, &c.Stats.Delivered, &c.Stats.Opened, &c.Stats.Clicked,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
