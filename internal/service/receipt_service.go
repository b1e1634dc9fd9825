// internal/service/receipt_service.go
package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	appErrors "github.com/unclebandit/minicrm-backend/internal/errors"
	"github.com/unclebandit/minicrm-backend/internal/model"
	"github.com/unclebandit/minicrm-backend/internal/repository"
	"github.com/unclebandit/minicrm-backend/internal/vendor"
)

// ReceiptService reconciles out-of-band vendor receipts against
// communication logs and the owning campaign's delivered counter. It
// holds no dispatch state: a receipt is correlated purely by vendor
// message id and is valid however late it arrives.
type ReceiptService struct {
	LogRepo      repository.CommunicationLogRepositoryInterface
	CampaignRepo repository.CampaignRepositoryInterface
}

// IngestReceipt applies one receipt. Unknown ids report
// ErrReceiptUnknownMessage and change nothing. DELIVERED receipts are
// idempotent: the SENT -> DELIVERED transition is a conditional update
// and the campaign counter only moves when the transition actually
// happened, so duplicates and replays never double-count.
func (s *ReceiptService) IngestReceipt(vendorMessageID string, status model.LogStatus, deliveredAt time.Time) error {
	entry, err := s.LogRepo.GetByVendorMessageID(vendorMessageID)
	if err != nil {
		return err
	}
	if entry == nil {
		return appErrors.ErrReceiptUnknownMessage
	}

	switch status {
	case model.LogStatusDelivered:
		transitioned, err := s.LogRepo.MarkDelivered(vendorMessageID, deliveredAt)
		if err != nil {
			return err
		}
		if !transitioned {
			// Duplicate receipt, or the send had already failed.
			return nil
		}
		return s.CampaignRepo.IncrementDelivered(entry.CampaignID)

	case model.LogStatusOpened, model.LogStatusClicked:
		_, err := s.LogRepo.TransitionStatus(vendorMessageID, entry.Status, status)
		return err

	default:
		return fmt.Errorf("unsupported receipt status %q", status)
	}
}

// HandleReceiptPayload adapts queue payloads onto IngestReceipt; it is
// the subscriber wired to the vendor's receipt topic. Unknown ids are
// logged and dropped — there is nothing to retry against.
func (s *ReceiptService) HandleReceiptPayload(payload any) error {
	receipt, ok := payload.(vendor.Receipt)
	if !ok {
		log.Printf("receipt: unexpected payload type %T", payload)
		return nil
	}
	err := s.IngestReceipt(receipt.VendorMessageID, model.LogStatus(receipt.Status), receipt.DeliveredAt)
	if err != nil {
		if errors.Is(err, appErrors.ErrReceiptUnknownMessage) {
			log.Println("receipt for unknown vendor message id:", receipt.VendorMessageID)
			return nil
		}
		log.Println("failed to ingest receipt:", err)
		return err
	}
	return nil
}
