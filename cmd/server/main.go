// cmd/server/main.go
package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/unclebandit/minicrm-backend/internal/config"
	"github.com/unclebandit/minicrm-backend/internal/db"
	"github.com/unclebandit/minicrm-backend/internal/handler"
	"github.com/unclebandit/minicrm-backend/internal/queue"
	"github.com/unclebandit/minicrm-backend/internal/repository"
	"github.com/unclebandit/minicrm-backend/internal/segment"
	"github.com/unclebandit/minicrm-backend/internal/service"
	"github.com/unclebandit/minicrm-backend/internal/vendor"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}
	cfg := config.FromEnv()

	// Init DB
	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect to DB:", err)
	}
	defer conn.Close()
	if err := db.Migrate(conn); err != nil {
		log.Fatal("failed to run migrations:", err)
	}

	customerRepo := &repository.CustomerRepository{DB: conn}
	segmentRepo := &repository.SegmentRepository{DB: conn}
	campaignRepo := &repository.CampaignRepository{DB: conn}
	logRepo := &repository.CommunicationLogRepository{DB: conn}

	evaluator := segment.NewEvaluator(customerRepo)

	// The simulated vendor publishes delivery receipts onto the
	// in-process queue; the subscriber below reconciles them.
	q := queue.NewInMemoryQueue()
	gateway := vendor.NewSimulatedGateway(q)
	gateway.SuccessRate = cfg.VendorSuccessRate
	gateway.SendDelayMin = cfg.VendorSendDelayMin
	gateway.SendDelayMax = cfg.VendorSendDelayMax
	gateway.ReceiptDelayMin = cfg.ReceiptDelayMin
	gateway.ReceiptDelayMax = cfg.ReceiptDelayMax

	segmentService := &service.SegmentService{
		SegmentRepo: segmentRepo,
		Evaluator:   evaluator,
	}
	campaignService := &service.CampaignService{
		CampaignRepo:       campaignRepo,
		SegmentRepo:        segmentRepo,
		LogRepo:            logRepo,
		Evaluator:          evaluator,
		Gateway:            gateway,
		MaxConcurrentSends: cfg.MaxConcurrentSends,
	}
	receiptService := &service.ReceiptService{
		LogRepo:      logRepo,
		CampaignRepo: campaignRepo,
	}

	if err := q.Subscribe(gateway.ReceiptTopic, receiptService.HandleReceiptPayload); err != nil {
		log.Fatal("failed to subscribe to receipts:", err)
	}

	segmentHandler := &handler.SegmentHandler{Service: segmentService}
	campaignHandler := &handler.CampaignHandler{Service: campaignService}
	receiptHandler := &handler.ReceiptHandler{Service: receiptService}
	customerHandler := &handler.CustomerHandler{Repo: customerRepo}

	r := chi.NewRouter()

	// Segment routes
	r.Post("/segments", segmentHandler.CreateSegmentHandler)
	r.Post("/segments/preview", segmentHandler.PreviewSegmentHandler)
	r.Get("/segments", segmentHandler.ListSegmentsHandler)
	r.Get("/segments/{id}", segmentHandler.GetSegmentHandler)

	// Campaign routes
	r.Post("/campaigns", campaignHandler.CreateCampaignHandler)
	r.Get("/campaigns", campaignHandler.ListCampaignsHandler)
	r.Get("/campaigns/{id}", campaignHandler.GetCampaignHandler)
	r.Post("/campaigns/{id}/launch", campaignHandler.LaunchCampaignHandler)

	// Receipt webhook (same ingestion path as the queue subscriber)
	r.Post("/receipts", receiptHandler.IngestReceiptHandler)

	// Customer routes
	r.Get("/customers", customerHandler.ListCustomersHandler)
	r.Get("/customers/{id}", customerHandler.GetCustomerHandler)
	r.Post("/customers", customerHandler.CreateCustomerHandler)

	log.Println("🚀 Server running on", cfg.Addr)
	log.Fatal(http.ListenAndServe(cfg.Addr, r))
}
