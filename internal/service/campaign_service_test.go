// internal/service/campaign_service_test.go
package service_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	appErrors "github.com/unclebandit/minicrm-backend/internal/errors"
	"github.com/unclebandit/minicrm-backend/internal/model"
	"github.com/unclebandit/minicrm-backend/internal/segment"
	"github.com/unclebandit/minicrm-backend/internal/service"
	"github.com/unclebandit/minicrm-backend/internal/vendor"
)

type stubCustomers struct {
	customers []model.Customer
}

func (s *stubCustomers) ListAll() ([]model.Customer, error) {
	return s.customers, nil
}

func spenders(n int) []model.Customer {
	customers := make([]model.Customer, 0, n)
	for i := 1; i <= n; i++ {
		customers = append(customers, model.Customer{
			ID:         i,
			Name:       fmt.Sprintf("Customer %d", i),
			Email:      fmt.Sprintf("c%d@example.com", i),
			TotalSpent: 15000,
		})
	}
	return customers
}

func bigSpenderRules() []model.Rule {
	return []model.Rule{{Field: "totalSpent", Operator: ">", Value: 10000}}
}

type fixture struct {
	campaigns *mockCampaignRepo
	segments  *mockSegmentRepo
	logs      *mockLogRepo
	gateway   *stubGateway
	svc       *service.CampaignService
}

func newFixture(customers []model.Customer) *fixture {
	f := &fixture{
		campaigns: newMockCampaignRepo(),
		segments:  newMockSegmentRepo(),
		logs:      newMockLogRepo(),
		gateway:   &stubGateway{},
	}
	f.svc = &service.CampaignService{
		CampaignRepo: f.campaigns,
		SegmentRepo:  f.segments,
		LogRepo:      f.logs,
		Evaluator:    segment.NewEvaluator(&stubCustomers{customers: customers}),
		Gateway:      f.gateway,
	}
	return f
}

func (f *fixture) draftCampaign(t *testing.T, ruleList []model.Rule) *model.Campaign {
	t.Helper()
	seg := &model.Segment{Name: "Big spenders", Rules: ruleList}
	if err := f.segments.Create(seg); err != nil {
		t.Fatalf("failed to create segment: %v", err)
	}
	campaign, err := f.svc.CreateCampaign(seg.ID, "Summer Sale", "Hi {name}, enjoy 20% off!")
	if err != nil {
		t.Fatalf("failed to create campaign: %v", err)
	}
	return campaign
}

func TestLaunchCampaignCreatesLogPerCustomer(t *testing.T) {
	f := newFixture(spenders(5))
	campaign := f.draftCampaign(t, bigSpenderRules())

	got, err := f.svc.LaunchCampaign(campaign.ID)
	if err != nil {
		t.Fatalf("launch failed: %v", err)
	}

	if got.Status != model.CampaignStatusCompleted {
		t.Errorf("expected COMPLETED, got %s", got.Status)
	}
	if got.AudienceSize != 5 {
		t.Errorf("expected audience size 5, got %d", got.AudienceSize)
	}
	if got.Stats.Sent != 5 || got.Stats.Failed != 0 {
		t.Errorf("expected 5 sent / 0 failed, got %d / %d", got.Stats.Sent, got.Stats.Failed)
	}

	logs, _ := f.logs.ListByCampaign(campaign.ID)
	if len(logs) != 5 {
		t.Fatalf("expected 5 logs, got %d", len(logs))
	}
	seen := map[string]bool{}
	for _, l := range logs {
		if l.Status != model.LogStatusSent {
			t.Errorf("log %d: expected SENT, got %s", l.ID, l.Status)
		}
		if l.SentAt == nil {
			t.Errorf("log %d: SentAt not set", l.ID)
		}
		if seen[l.VendorMessageID] {
			t.Errorf("duplicate vendor message id %s", l.VendorMessageID)
		}
		seen[l.VendorMessageID] = true
	}
}

func TestLaunchCampaignPersonalizesMessage(t *testing.T) {
	f := newFixture([]model.Customer{{ID: 1, Name: "Asha", TotalSpent: 15000}})
	campaign := f.draftCampaign(t, bigSpenderRules())

	if _, err := f.svc.LaunchCampaign(campaign.ID); err != nil {
		t.Fatalf("launch failed: %v", err)
	}

	logs, _ := f.logs.ListByCampaign(campaign.ID)
	if len(logs) != 1 {
		t.Fatalf("expected 1 log, got %d", len(logs))
	}
	if logs[0].Message != "Hi Asha, enjoy 20% off!" {
		t.Errorf("unexpected rendered message: %q", logs[0].Message)
	}
}

func TestLaunchCampaignCountsFailures(t *testing.T) {
	f := newFixture(spenders(10))
	f.gateway.outcome = func(customerID int) (*vendor.SendResult, error) {
		if customerID%2 == 0 {
			return &vendor.SendResult{Success: false, Error: "simulated vendor rejection"}, nil
		}
		return &vendor.SendResult{Success: true}, nil
	}
	campaign := f.draftCampaign(t, bigSpenderRules())

	got, err := f.svc.LaunchCampaign(campaign.ID)
	if err != nil {
		t.Fatalf("launch failed: %v", err)
	}

	if got.Stats.Sent != 5 || got.Stats.Failed != 5 {
		t.Errorf("expected 5 sent / 5 failed, got %d / %d", got.Stats.Sent, got.Stats.Failed)
	}
	if got.Stats.Sent+got.Stats.Failed != 10 {
		t.Errorf("sent+failed should equal audience size, got %d", got.Stats.Sent+got.Stats.Failed)
	}

	logs, _ := f.logs.ListByCampaign(campaign.ID)
	for _, l := range logs {
		if l.Status == model.LogStatusFailed && l.FailureReason == "" {
			t.Errorf("failed log %d has no failure reason", l.ID)
		}
	}
}

func TestLaunchCampaignCompletesEvenWhenEverySendFails(t *testing.T) {
	f := newFixture(spenders(4))
	f.gateway.outcome = func(customerID int) (*vendor.SendResult, error) {
		return nil, errors.New("vendor unreachable")
	}
	campaign := f.draftCampaign(t, bigSpenderRules())

	got, err := f.svc.LaunchCampaign(campaign.ID)
	if err != nil {
		t.Fatalf("launch failed: %v", err)
	}
	if got.Status != model.CampaignStatusCompleted {
		t.Errorf("expected COMPLETED, got %s", got.Status)
	}
	if got.Stats.Sent != 0 || got.Stats.Failed != 4 {
		t.Errorf("expected 0 sent / 4 failed, got %d / %d", got.Stats.Sent, got.Stats.Failed)
	}
}

func TestLaunchCampaignRejectsEmptyAudience(t *testing.T) {
	f := newFixture(nil)
	campaign := f.draftCampaign(t, bigSpenderRules())

	_, err := f.svc.LaunchCampaign(campaign.ID)
	if !errors.Is(err, appErrors.ErrEmptyAudience) {
		t.Fatalf("expected ErrEmptyAudience, got %v", err)
	}

	got, _ := f.campaigns.GetByID(campaign.ID)
	if got.Status != model.CampaignStatusDraft {
		t.Errorf("campaign should stay DRAFT, got %s", got.Status)
	}
	logs, _ := f.logs.ListByCampaign(campaign.ID)
	if len(logs) != 0 {
		t.Errorf("expected no logs, got %d", len(logs))
	}
}

func TestLaunchCampaignOnlyFromDraft(t *testing.T) {
	f := newFixture(spenders(3))
	campaign := f.draftCampaign(t, bigSpenderRules())

	if _, err := f.svc.LaunchCampaign(campaign.ID); err != nil {
		t.Fatalf("first launch failed: %v", err)
	}

	_, err := f.svc.LaunchCampaign(campaign.ID)
	var notLaunchable *appErrors.ErrCampaignNotLaunchable
	if !errors.As(err, &notLaunchable) {
		t.Fatalf("expected ErrCampaignNotLaunchable, got %v", err)
	}
	if f.gateway.calls != 3 {
		t.Errorf("second launch must not dispatch again, gateway saw %d calls", f.gateway.calls)
	}
}

func TestLaunchCampaignBoundsConcurrency(t *testing.T) {
	f := newFixture(spenders(20))
	f.gateway.perCallGap = 5 * time.Millisecond
	f.svc.MaxConcurrentSends = 3
	campaign := f.draftCampaign(t, bigSpenderRules())

	if _, err := f.svc.LaunchCampaign(campaign.ID); err != nil {
		t.Fatalf("launch failed: %v", err)
	}
	if f.gateway.maxSeen > 3 {
		t.Errorf("expected at most 3 concurrent sends, saw %d", f.gateway.maxSeen)
	}
	if f.gateway.calls != 20 {
		t.Errorf("expected 20 sends, got %d", f.gateway.calls)
	}
}

func TestCreateCampaignRequiresSegment(t *testing.T) {
	f := newFixture(nil)
	_, err := f.svc.CreateCampaign(42, "Ghost", "Hi {name}")
	var notFound *appErrors.ErrSegmentNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ErrSegmentNotFound, got %v", err)
	}
}

func TestCreateCampaignValidates(t *testing.T) {
	f := newFixture(nil)
	if _, err := f.svc.CreateCampaign(1, "", "Hi {name}"); err == nil {
		t.Error("expected error for missing name")
	}
	if _, err := f.svc.CreateCampaign(1, "No body", ""); err == nil {
		t.Error("expected error for missing message")
	}
}
