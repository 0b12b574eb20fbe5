package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/metung95-cpu/ajet-stock/internal/domain/models"
	client "github.com/metung95-cpu/ajet-stock/pkg/clients/whatsapp"
)

// ErrNoRecipient is returned when no group id is configured.
var ErrNoRecipient = errors.New("whatsapp recipient not configured")

// NotificationService pushes shipment and ledger messages to the operations group.
type NotificationService struct {
	client  client.Client
	groupID string
	logger  *zap.Logger
}

// NewNotificationService wires a new service instance.
func NewNotificationService(c client.Client, groupID string, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{client: c, groupID: groupID, logger: logger}
}

// NotifyShipment announces a registered shipment.
func (s *NotificationService) NotifyShipment(ctx context.Context, audit models.ShipmentAudit) error {
	return s.send(ctx, FormatShipment(audit))
}

// SendSummary posts the daily ledger summary.
func (s *NotificationService) SendSummary(ctx context.Context, summary models.LedgerSummary) error {
	return s.send(ctx, FormatSummary(summary))
}

func (s *NotificationService) send(ctx context.Context, body string) error {
	if s.groupID == "" {
		return ErrNoRecipient
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	resp, err := s.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{
		To:   s.groupID,
		Body: body,
	})
	if err != nil {
		return err
	}

	if len(resp.Messages) > 0 {
		s.logger.Debug("whatsapp message sent", zap.String("message_id", resp.Messages[0].ID))
	}
	return nil
}

// FormatShipment renders the group message for one shipment.
func FormatShipment(a models.ShipmentAudit) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🚚 출고 등록 (%s / %d행)\n", a.LedgerDate, a.Row)
	fmt.Fprintf(&b, "거래처: %s\n", a.Client)
	fmt.Fprintf(&b, "품목: %s %s %s\n", a.Brand, a.ItemName, a.Identifier)
	fmt.Fprintf(&b, "수량: %d / 단가: %d\n", a.Quantity, a.Price)
	fmt.Fprintf(&b, "창고: %s", a.Warehouse)
	if a.Transfer {
		b.WriteString(" / 이체")
	}
	fmt.Fprintf(&b, "\n담당: %s (%s)", a.Manager, a.SubmittedBy)
	return b.String()
}

// FormatSummary renders the daily ledger summary.
func FormatSummary(s models.LedgerSummary) string {
	return fmt.Sprintf("📋 %s 출고 요약\n등록 %d건 / 총 수량 %d / 금액 %d\n남은 빈 행 %d개",
		s.Date, s.FilledRows, s.TotalQuantity, s.TotalAmount, s.AvailableRows)
}
