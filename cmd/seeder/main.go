//cmd/seeder/main.go
package main

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/unclebandit/minicrm-backend/internal/config"
	"github.com/unclebandit/minicrm-backend/internal/db"
	"github.com/unclebandit/minicrm-backend/internal/model"
	"github.com/unclebandit/minicrm-backend/internal/repository"
	"github.com/unclebandit/minicrm-backend/internal/segment"
	"github.com/unclebandit/minicrm-backend/internal/service"
)

// seedCustomer describes one demo customer; LastVisitDays is turned
// into a concrete timestamp relative to now so day-based rules keep
// matching no matter when the seeder runs.
type seedCustomer struct {
	Name          string
	Email         string
	Phone         string
	City          string
	TotalSpent    float64
	VisitCount    int
	LastVisitDays int // -1 means never visited
}

var seedCustomers = []seedCustomer{
	{"Asha Patel", "asha@example.com", "+254700000001", "Nairobi", 62000, 48, 3},
	{"Ben Carter", "ben@example.com", "+254700000002", "Mombasa", 23500, 22, 12},
	{"Chen Wei", "chen@example.com", "+254700000003", "Nairobi", 18000, 30, 45},
	{"Diana Okafor", "diana@example.com", "+254700000004", "Kisumu", 7400, 9, 8},
	{"Elias Mwangi", "elias@example.com", "+254700000005", "Nakuru", 4100, 5, 95},
	{"Fatima Noor", "fatima@example.com", "+254700000006", "Mombasa", 51200, 40, 1},
	{"George Kim", "george@example.com", "+254700000007", "Nairobi", 950, 2, 200},
	{"Halima Yusuf", "halima@example.com", "+254700000008", "Kisumu", 12800, 15, 31},
	{"Ivan Petrov", "ivan@example.com", "+254700000009", "Nakuru", 3300, 6, -1},
	{"Joy Wanjiru", "joy@example.com", "+254700000010", "Nairobi", 27600, 19, 6},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}
	cfg := config.FromEnv()

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()
	if err := db.Migrate(conn); err != nil {
		log.Fatal("failed to run migrations:", err)
	}

	customerRepo := &repository.CustomerRepository{DB: conn}
	segmentRepo := &repository.SegmentRepository{DB: conn}
	campaignRepo := &repository.CampaignRepository{DB: conn}

	now := time.Now()
	for _, sc := range seedCustomers {
		c := &model.Customer{
			Name:       sc.Name,
			Email:      sc.Email,
			Phone:      sc.Phone,
			City:       sc.City,
			TotalSpent: sc.TotalSpent,
			VisitCount: sc.VisitCount,
		}
		if sc.LastVisitDays >= 0 {
			visit := now.AddDate(0, 0, -sc.LastVisitDays)
			c.LastVisit = &visit
		}
		if err := customerRepo.Create(c); err != nil {
			log.Fatalf("failed to seed customer %s: %v", sc.Email, err)
		}
	}
	fmt.Printf("Seeded: %d customers\n", len(seedCustomers))

	segmentService := &service.SegmentService{
		SegmentRepo: segmentRepo,
		Evaluator:   segment.NewEvaluator(customerRepo),
	}
	seg, err := segmentService.CreateSegment("Lapsing big spenders", []model.Rule{
		{Field: "totalSpent", Operator: ">", Value: 10000, LogicalOperator: "AND"},
		{Field: "daysSinceLastVisit", Operator: ">", Value: 10},
	})
	if err != nil {
		log.Fatalf("failed to seed segment: %v", err)
	}
	fmt.Printf("Seeded: segment %d (%s) with audience %d\n", seg.ID, seg.Name, seg.AudienceSize)

	campaignService := &service.CampaignService{
		CampaignRepo: campaignRepo,
		SegmentRepo:  segmentRepo,
	}
	campaign, err := campaignService.CreateCampaign(seg.ID, "Win-back Offer", "Hi {name}, we miss you! Enjoy 20% off your next visit.")
	if err != nil {
		log.Fatalf("failed to seed campaign: %v", err)
	}
	fmt.Printf("Seeded: draft campaign %d (%s)\n", campaign.ID, campaign.Name)

	fmt.Println("Database seeding completed successfully!")
}
