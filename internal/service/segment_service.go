// internal/service/segment_service.go
package service

import (
	"time"

	"github.com/unclebandit/minicrm-backend/internal/model"
	"github.com/unclebandit/minicrm-backend/internal/repository"
	"github.com/unclebandit/minicrm-backend/internal/rules"
	"github.com/unclebandit/minicrm-backend/internal/segment"
)

// SegmentService creates segments and previews rule audiences.
type SegmentService struct {
	SegmentRepo repository.SegmentRepositoryInterface
	Evaluator   *segment.Evaluator
}

// CreateSegment validates and compiles the rule list, previews the
// audience once, and persists the segment with that snapshot. The
// cached audience size is never recomputed in the background.
func (s *SegmentService) CreateSegment(name string, ruleList []model.Rule) (*model.Segment, error) {
	seg := &model.Segment{Name: name, Rules: ruleList}
	if err := seg.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	pred, err := rules.Compile(ruleList, now)
	if err != nil {
		return nil, err
	}

	size, err := s.Evaluator.Preview(pred)
	if err != nil {
		return nil, err
	}

	seg.AudienceSize = size
	seg.LastCalculated = now
	if err := s.SegmentRepo.Create(seg); err != nil {
		return nil, err
	}
	return seg, nil
}

// PreviewAudience compiles an ad-hoc rule list and returns the current
// audience size without persisting anything.
func (s *SegmentService) PreviewAudience(ruleList []model.Rule) (int, error) {
	pred, err := rules.Compile(ruleList, time.Now())
	if err != nil {
		return 0, err
	}
	return s.Evaluator.Preview(pred)
}

// MaterializeAudience returns up to limit members of an ad-hoc rule
// list's audience with the fixed projection.
func (s *SegmentService) MaterializeAudience(ruleList []model.Rule, limit int) ([]segment.AudienceMember, error) {
	pred, err := rules.Compile(ruleList, time.Now())
	if err != nil {
		return nil, err
	}
	return s.Evaluator.Materialize(pred, limit)
}

func (s *SegmentService) GetSegment(id int) (*model.Segment, error) {
	return s.SegmentRepo.GetByID(id)
}

// ListSegments fetches segments with pagination.
func (s *SegmentService) ListSegments(page, pageSize int) ([]model.Segment, map[string]int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	offset := (page - 1) * pageSize

	segments, total, err := s.SegmentRepo.List(offset, pageSize)
	if err != nil {
		return nil, nil, err
	}

	totalPages := (total + pageSize - 1) / pageSize
	pagination := map[string]int{
		"page":        page,
		"page_size":   pageSize,
		"total_count": total,
		"total_pages": totalPages,
	}
	return segments, pagination, nil
}
