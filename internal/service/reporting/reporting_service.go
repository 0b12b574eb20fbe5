package reporting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/metung95-cpu/ajet-stock/internal/domain/models"
	repo "github.com/metung95-cpu/ajet-stock/internal/repository/sheets"
	"github.com/metung95-cpu/ajet-stock/internal/service/shipment"
)

// Ledger columns, 0-based.
const (
	colDate     = 2
	colManager  = 3
	colQuantity = 8
	colPrice    = 10
)

// Service aggregates the shipment ledger for daily summaries.
type Service struct {
	repo   repo.Repository
	sheet  string
	logger *zap.Logger
}

// NewService wires a new reporting service instance.
func NewService(repository repo.Repository, sheet string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repository, sheet: sheet, logger: logger}
}

// DailySummary counts filled and blank ledger rows of day and totals their quantity
// and amount.
func (s *Service) DailySummary(ctx context.Context, day time.Time) (models.LedgerSummary, error) {
	rows, err := s.repo.ReadRange(ctx, shipment.LedgerReadRange(s.sheet))
	if err != nil {
		return models.LedgerSummary{}, fmt.Errorf("load ledger range: %w", err)
	}

	date := shipment.LedgerDate(day)
	summary := models.LedgerSummary{Date: date}

	for _, row := range repo.CellGrid(rows) {
		if cell(row, colDate) != date {
			continue
		}
		if cell(row, colManager) == "" {
			summary.AvailableRows++
			continue
		}

		qty, ok := shipment.SanitizeInt(cell(row, colQuantity))
		if !ok {
			s.logger.Debug("skip ledger qty", zap.String("value", cell(row, colQuantity)))
		}
		price, ok := shipment.SanitizeInt(cell(row, colPrice))
		if !ok {
			s.logger.Debug("skip ledger price", zap.String("value", cell(row, colPrice)))
		}

		summary.FilledRows++
		summary.TotalQuantity += qty
		summary.TotalAmount += qty * price
	}

	return summary, nil
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
