// internal/service/mocks_test.go
package service_test

import (
	"fmt"
	"sync"
	"time"

	appErrors "github.com/unclebandit/minicrm-backend/internal/errors"
	"github.com/unclebandit/minicrm-backend/internal/model"
	"github.com/unclebandit/minicrm-backend/internal/repository"
	"github.com/unclebandit/minicrm-backend/internal/vendor"
)

// In-memory repository mocks. The campaign and log mocks are guarded
// by mutexes because dispatch hits them from many goroutines at once.

type mockSegmentRepo struct {
	mu       sync.Mutex
	nextID   int
	segments map[int]*model.Segment
}

func newMockSegmentRepo() *mockSegmentRepo {
	return &mockSegmentRepo{segments: map[int]*model.Segment{}}
}

func (m *mockSegmentRepo) Create(s *model.Segment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	s.ID = m.nextID
	cp := *s
	m.segments[s.ID] = &cp
	return nil
}

func (m *mockSegmentRepo) GetByID(id int) (*model.Segment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.segments[id]
	if !ok {
		return nil, appErrors.NewSegmentNotFound(id)
	}
	cp := *s
	return &cp, nil
}

func (m *mockSegmentRepo) List(offset, limit int) ([]model.Segment, int, error) {
	return nil, 0, nil
}

type mockCampaignRepo struct {
	mu        sync.Mutex
	nextID    int
	campaigns map[int]*model.Campaign
}

func newMockCampaignRepo() *mockCampaignRepo {
	return &mockCampaignRepo{campaigns: map[int]*model.Campaign{}}
}

func (m *mockCampaignRepo) Create(c *model.Campaign) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	c.ID = m.nextID
	if c.Status == "" {
		c.Status = model.CampaignStatusDraft
	}
	cp := *c
	m.campaigns[c.ID] = &cp
	return nil
}

func (m *mockCampaignRepo) GetByID(id int) (*model.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok {
		return nil, appErrors.NewCampaignNotFound(id)
	}
	cp := *c
	return &cp, nil
}

func (m *mockCampaignRepo) List(offset, limit int) ([]model.Campaign, int, error) {
	return nil, 0, nil
}

func (m *mockCampaignRepo) TransitionStatus(id int, from, to model.CampaignStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok || c.Status != from {
		return false, nil
	}
	c.Status = to
	return true, nil
}

func (m *mockCampaignRepo) UpdateStatus(id int, status model.CampaignStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.campaigns[id]; ok {
		c.Status = status
	}
	return nil
}

func (m *mockCampaignRepo) SetAudienceSize(id, size int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.campaigns[id]; ok {
		c.AudienceSize = size
	}
	return nil
}

func (m *mockCampaignRepo) IncrementSent(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.campaigns[id]; ok {
		c.Stats.Sent++
	}
	return nil
}

func (m *mockCampaignRepo) IncrementFailed(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.campaigns[id]; ok {
		c.Stats.Failed++
	}
	return nil
}

func (m *mockCampaignRepo) IncrementDelivered(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.campaigns[id]; ok {
		c.Stats.Delivered++
	}
	return nil
}

type mockLogRepo struct {
	mu     sync.Mutex
	nextID int
	logs   map[int]*model.CommunicationLog
	byVMID map[string]int
}

func newMockLogRepo() *mockLogRepo {
	return &mockLogRepo{logs: map[int]*model.CommunicationLog{}, byVMID: map[string]int{}}
}

func (m *mockLogRepo) Create(l *model.CommunicationLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byVMID[l.VendorMessageID]; exists {
		return fmt.Errorf("duplicate vendor_message_id %s", l.VendorMessageID)
	}
	m.nextID++
	l.ID = m.nextID
	if l.Status == "" {
		l.Status = model.LogStatusPending
	}
	cp := *l
	m.logs[l.ID] = &cp
	m.byVMID[l.VendorMessageID] = l.ID
	return nil
}

func (m *mockLogRepo) GetByVendorMessageID(vendorMessageID string) (*model.CommunicationLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byVMID[vendorMessageID]
	if !ok {
		return nil, nil
	}
	cp := *m.logs[id]
	return &cp, nil
}

func (m *mockLogRepo) ListByCampaign(campaignID int) ([]model.CommunicationLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	logs := []model.CommunicationLog{}
	for i := 1; i <= m.nextID; i++ {
		if l, ok := m.logs[i]; ok && l.CampaignID == campaignID {
			logs = append(logs, *l)
		}
	}
	return logs, nil
}

func (m *mockLogRepo) CountByStatus(campaignID int) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := map[string]int{}
	for _, l := range m.logs {
		if l.CampaignID == campaignID {
			stats[string(l.Status)]++
		}
	}
	return stats, nil
}

func (m *mockLogRepo) MarkSent(id int, sentAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.logs[id]; ok {
		l.Status = model.LogStatusSent
		l.SentAt = &sentAt
	}
	return nil
}

func (m *mockLogRepo) MarkFailed(id int, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.logs[id]; ok {
		l.Status = model.LogStatusFailed
		l.FailureReason = reason
	}
	return nil
}

func (m *mockLogRepo) MarkDelivered(vendorMessageID string, deliveredAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byVMID[vendorMessageID]
	if !ok {
		return false, nil
	}
	l := m.logs[id]
	if l.Status != model.LogStatusSent {
		return false, nil
	}
	l.Status = model.LogStatusDelivered
	l.DeliveredAt = &deliveredAt
	return true, nil
}

func (m *mockLogRepo) TransitionStatus(vendorMessageID string, from, to model.LogStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !model.CanTransition(from, to) {
		return false, nil
	}
	id, ok := m.byVMID[vendorMessageID]
	if !ok {
		return false, nil
	}
	l := m.logs[id]
	if l.Status != from {
		return false, nil
	}
	l.Status = to
	return true, nil
}

// stubGateway lets tests script the vendor outcome per customer and
// tracks the peak number of in-flight sends.
type stubGateway struct {
	mu         sync.Mutex
	inFlight   int
	maxSeen    int
	calls      int
	outcome    func(customerID int) (*vendor.SendResult, error)
	perCallGap time.Duration
}

func (g *stubGateway) Send(customerID int, message, vendorMessageID string) (*vendor.SendResult, error) {
	g.mu.Lock()
	g.calls++
	g.inFlight++
	if g.inFlight > g.maxSeen {
		g.maxSeen = g.inFlight
	}
	g.mu.Unlock()

	if g.perCallGap > 0 {
		time.Sleep(g.perCallGap)
	}

	defer func() {
		g.mu.Lock()
		g.inFlight--
		g.mu.Unlock()
	}()

	if g.outcome != nil {
		return g.outcome(customerID)
	}
	return &vendor.SendResult{Success: true, VendorMessageID: vendorMessageID}, nil
}

var (
	_ repository.SegmentRepositoryInterface          = (*mockSegmentRepo)(nil)
	_ repository.CampaignRepositoryInterface         = (*mockCampaignRepo)(nil)
	_ repository.CommunicationLogRepositoryInterface = (*mockLogRepo)(nil)
	_ vendor.Gateway                                 = (*stubGateway)(nil)
)
