// internal/service/campaign_service.go
package service

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	appErrors "github.com/unclebandit/minicrm-backend/internal/errors"
	"github.com/unclebandit/minicrm-backend/internal/model"
	"github.com/unclebandit/minicrm-backend/internal/repository"
	"github.com/unclebandit/minicrm-backend/internal/rules"
	"github.com/unclebandit/minicrm-backend/internal/segment"
	"github.com/unclebandit/minicrm-backend/internal/vendor"
)

// CampaignService owns campaign creation and dispatch. After launch it
// is the only writer of campaign status and the sent/failed counters;
// delivered is owned by receipt ingestion.
type CampaignService struct {
	CampaignRepo repository.CampaignRepositoryInterface
	SegmentRepo  repository.SegmentRepositoryInterface
	LogRepo      repository.CommunicationLogRepositoryInterface
	Evaluator    *segment.Evaluator
	Gateway      vendor.Gateway

	// MaxConcurrentSends bounds the dispatch fan-out. Zero removes the
	// bound and fans out the entire audience at once.
	MaxConcurrentSends int
}

// CampaignDetails is a campaign plus its per-status log breakdown.
type CampaignDetails struct {
	model.Campaign
	LogCounts map[string]int `json:"log_counts"`
}

// CreateCampaign persists a DRAFT campaign bound to a segment. The
// audience size snapshot is taken from the segment; launch refreshes
// it to the actually materialized count.
func (s *CampaignService) CreateCampaign(segmentID int, name, message string) (*model.Campaign, error) {
	c := &model.Campaign{
		SegmentID: segmentID,
		Name:      name,
		Message:   message,
		Status:    model.CampaignStatusDraft,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	seg, err := s.SegmentRepo.GetByID(segmentID)
	if err != nil {
		return nil, err
	}
	c.AudienceSize = seg.AudienceSize

	if err := s.CampaignRepo.Create(c); err != nil {
		return nil, err
	}
	return c, nil
}

// LaunchCampaign resolves the campaign's audience and dispatches one
// personalized send per matched customer. It blocks until every send
// attempt has settled (not until delivery), then marks the campaign
// COMPLETED regardless of how many sends failed.
func (s *CampaignService) LaunchCampaign(campaignID int) (*model.Campaign, error) {
	campaign, err := s.CampaignRepo.GetByID(campaignID)
	if err != nil {
		return nil, err
	}

	seg, err := s.SegmentRepo.GetByID(campaign.SegmentID)
	if err != nil {
		return nil, err
	}

	pred, err := rules.Compile(seg.Rules, time.Now())
	if err != nil {
		return nil, err
	}
	audience, err := s.Evaluator.MaterializeAll(pred)
	if err != nil {
		return nil, err
	}
	if len(audience) == 0 {
		return nil, appErrors.ErrEmptyAudience
	}

	// DRAFT -> RUNNING is conditional in the database so two
	// concurrent launch calls cannot both dispatch the audience.
	ok, err := s.CampaignRepo.TransitionStatus(campaignID, model.CampaignStatusDraft, model.CampaignStatusRunning)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, appErrors.NewCampaignNotLaunchable(campaignID, string(campaign.Status))
	}
	if err := s.CampaignRepo.SetAudienceSize(campaignID, len(audience)); err != nil {
		return nil, err
	}

	log.Println("launching campaign", campaignID, "to", len(audience), "customers")

	var sem chan struct{}
	if s.MaxConcurrentSends > 0 {
		sem = make(chan struct{}, s.MaxConcurrentSends)
	}

	var wg sync.WaitGroup
	for _, cust := range audience {
		wg.Add(1)
		go func(cust model.Customer) {
			defer wg.Done()
			if sem != nil {
				sem <- struct{}{}
				defer func() { <-sem }()
			}
			s.dispatchOne(campaignID, campaign.Message, cust)
		}(cust)
	}
	wg.Wait()

	// All attempts settled; delivery receipts keep arriving on their
	// own schedule long after this.
	if err := s.CampaignRepo.UpdateStatus(campaignID, model.CampaignStatusCompleted); err != nil {
		return nil, err
	}
	return s.CampaignRepo.GetByID(campaignID)
}

// dispatchOne owns one customer's log creation, send and stat update.
// Failures stay on this log and this counter; sibling sends never see
// them.
func (s *CampaignService) dispatchOne(campaignID int, template string, cust model.Customer) {
	vendorMessageID := newVendorMessageID(campaignID, cust.ID)
	message := RenderMessage(template, cust)

	entry := &model.CommunicationLog{
		CampaignID:      campaignID,
		CustomerID:      cust.ID,
		Message:         message,
		VendorMessageID: vendorMessageID,
	}
	if err := s.LogRepo.Create(entry); err != nil {
		log.Println("failed to create communication log for customer", cust.ID, ":", err)
		if err := s.CampaignRepo.IncrementFailed(campaignID); err != nil {
			log.Println("failed to count failed send:", err)
		}
		return
	}

	res, err := s.Gateway.Send(cust.ID, message, vendorMessageID)
	if err != nil || !res.Success {
		reason := "vendor call failed"
		if err != nil {
			reason = err.Error()
		} else if res.Error != "" {
			reason = res.Error
		}
		if err := s.LogRepo.MarkFailed(entry.ID, reason); err != nil {
			log.Println("failed to mark log failed:", err)
		}
		if err := s.CampaignRepo.IncrementFailed(campaignID); err != nil {
			log.Println("failed to count failed send:", err)
		}
		return
	}

	if err := s.LogRepo.MarkSent(entry.ID, time.Now()); err != nil {
		log.Println("failed to mark log sent:", err)
	}
	if err := s.CampaignRepo.IncrementSent(campaignID); err != nil {
		log.Println("failed to count sent message:", err)
	}
}

// newVendorMessageID builds the globally unique correlation key for
// one send. The UUIDv7 suffix keeps ids distinct and time-ordered even
// if the same campaign/customer pair were ever dispatched twice.
func newVendorMessageID(campaignID, customerID int) string {
	return fmt.Sprintf("msg-%d-%d-%s", campaignID, customerID, uuid.Must(uuid.NewV7()))
}

func (s *CampaignService) GetCampaign(id int) (*model.Campaign, error) {
	return s.CampaignRepo.GetByID(id)
}

// GetCampaignDetails fetches a campaign along with its log breakdown.
func (s *CampaignService) GetCampaignDetails(campaignID int) (*CampaignDetails, error) {
	campaign, err := s.CampaignRepo.GetByID(campaignID)
	if err != nil {
		return nil, err
	}
	counts, err := s.LogRepo.CountByStatus(campaignID)
	if err != nil {
		return nil, err
	}
	return &CampaignDetails{Campaign: *campaign, LogCounts: counts}, nil
}

// ListCampaigns fetches campaigns with pagination.
func (s *CampaignService) ListCampaigns(page, pageSize int) ([]model.Campaign, map[string]int, error) {
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

	campaigns, total, err := s.CampaignRepo.List(offset, pageSize)
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
	return campaigns, pagination, nil
}
