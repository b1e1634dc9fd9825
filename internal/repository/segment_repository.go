// internal/repository/segment_repository.go
package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	appErrors "github.com/unclebandit/minicrm-backend/internal/errors"
	"github.com/unclebandit/minicrm-backend/internal/model"
)

type SegmentRepositoryInterface interface {
	Create(s *model.Segment) error
	GetByID(id int) (*model.Segment, error)
	List(offset, limit int) ([]model.Segment, int, error)
}

type SegmentRepository struct {
	DB *sqlx.DB
}

// Create persists a segment with its rule list serialized as JSON.
// Rules are immutable once stored; there is deliberately no update path.
func (r *SegmentRepository) Create(s *model.Segment) error {
	rulesJSON, err := json.Marshal(s.Rules)
	if err != nil {
		return fmt.Errorf("failed to encode segment rules: %w", err)
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}

	query := r.DB.Rebind(`
        INSERT INTO segments (name, rules, audience_size, last_calculated, created_at)
        VALUES (?, ?, ?, ?, ?)
        RETURNING id
    `)
	return r.DB.QueryRow(query, s.Name, string(rulesJSON), s.AudienceSize, s.LastCalculated, s.CreatedAt).Scan(&s.ID)
}

func (r *SegmentRepository) GetByID(id int) (*model.Segment, error) {
	query := r.DB.Rebind(`
        SELECT id, name, rules, audience_size, last_calculated, created_at
        FROM segments WHERE id = ?
    `)

	var s model.Segment
	var rulesJSON string
	err := r.DB.QueryRow(query, id).Scan(&s.ID, &s.Name, &rulesJSON, &s.AudienceSize, &s.LastCalculated, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NewSegmentNotFound(id)
		}
		return nil, err
	}
	if err := json.Unmarshal([]byte(rulesJSON), &s.Rules); err != nil {
		return nil, fmt.Errorf("failed to decode rules for segment %d: %w", id, err)
	}
	return &s, nil
}

func (r *SegmentRepository) List(offset, limit int) ([]model.Segment, int, error) {
	query := r.DB.Rebind(`
        SELECT id, name, rules, audience_size, last_calculated, created_at
        FROM segments ORDER BY id DESC LIMIT ? OFFSET ?
    `)
	rows, err := r.DB.Query(query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	segments := []model.Segment{}
	for rows.Next() {
		var s model.Segment
		var rulesJSON string
		if err := rows.Scan(&s.ID, &s.Name, &rulesJSON, &s.AudienceSize, &s.LastCalculated, &s.CreatedAt); err != nil {
			return nil, 0, err
		}
		if err := json.Unmarshal([]byte(rulesJSON), &s.Rules); err != nil {
			return nil, 0, fmt.Errorf("failed to decode rules for segment %d: %w", s.ID, err)
		}
		segments = append(segments, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.DB.Get(&total, `SELECT COUNT(*) FROM segments`); err != nil {
		return nil, 0, err
	}
	return segments, total, nil
}

var _ SegmentRepositoryInterface = (*SegmentRepository)(nil)
