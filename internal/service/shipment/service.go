package shipment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/metung95-cpu/ajet-stock/internal/domain/models"
	"github.com/metung95-cpu/ajet-stock/internal/metrics"
	repo "github.com/metung95-cpu/ajet-stock/internal/repository/sheets"
	"github.com/metung95-cpu/ajet-stock/internal/service/inventory"
)

const dateLayout = "2006-01-02"

var (
	// ErrForbidden is returned when the session's role cannot write shipments.
	ErrForbidden = errors.New("role may not register shipments")
	// ErrItemNotFound is returned when the selected item is not in the visible inventory.
	ErrItemNotFound = errors.New("selected inventory item not found")
	// ErrInvalidDate is returned for a shipment date that is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid shipment date")
	// ErrLedgerRead wraps failures reading the ledger sheet.
	ErrLedgerRead = errors.New("failed to read shipment ledger")
	// ErrLedgerWrite wraps failures writing the ledger row.
	ErrLedgerWrite = errors.New("failed to write shipment ledger")
	// ErrInventoryUnavailable is returned when the inventory sheet could not be read.
	ErrInventoryUnavailable = errors.New("inventory is unavailable")
)

// InventorySource provides the role-scoped inventory snapshot.
type InventorySource interface {
	Scoped(ctx context.Context, caps models.Capabilities) ([]models.InventoryRecord, inventory.Snapshot)
	MainWarehouse() string
}

// Auditor persists a copy of every ledger write.
type Auditor interface {
	SaveShipment(ctx context.Context, audit models.ShipmentAudit) error
}

// Notifier announces a registered shipment.
type Notifier interface {
	NotifyShipment(ctx context.Context, audit models.ShipmentAudit) error
}

// Defaults fills in fields the operator leaves blank.
type Defaults struct {
	Manager   string
	Warehouse string
	Location  *time.Location
}

// Service registers outbound shipments in the ledger sheet.
type Service struct {
	inventory InventorySource
	ledger    repo.Repository
	sheet     string
	defaults  Defaults
	auditor   Auditor
	notifier  Notifier
	metrics   *metrics.Metrics
	logger    *zap.Logger
	now       func() time.Time

	mu    sync.Mutex
	locks map[string]*dateLock
}

type dateLock struct {
	mu   sync.Mutex
	refs int
}

// Option customises a Service.
type Option func(*Service)

// WithAuditor stores an audit document after each write.
func WithAuditor(a Auditor) Option { return func(s *Service) { s.auditor = a } }

// WithNotifier announces each write.
func WithNotifier(n Notifier) Option { return func(s *Service) { s.notifier = n } }

// WithMetrics counts submission outcomes.
func WithMetrics(m *metrics.Metrics) Option { return func(s *Service) { s.metrics = m } }

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// NewService wires a shipment service writing into sheet of the ledger spreadsheet.
func NewService(source InventorySource, ledger repo.Repository, sheet string, defaults Defaults, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaults.Location == nil {
		defaults.Location = time.Local
	}
	s := &Service{
		inventory: source,
		ledger:    ledger,
		sheet:     sheet,
		defaults:  defaults,
		logger:    logger,
		now:       time.Now,
		locks:     make(map[string]*dateLock),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Candidates lists the inventory rows a role may ship, filtered with substring brand
// matching and ordered like the inventory view.
func (s *Service) Candidates(ctx context.Context, caps models.Capabilities, filter inventory.Filter) ([]models.ShipmentCandidate, string, error) {
	if !caps.CanWriteShipments {
		return nil, "", ErrForbidden
	}
	records, snap := s.inventory.Scoped(ctx, caps)
	filter.BrandMode = inventory.BrandContains
	records = inventory.Sort(filter.Apply(records), inventory.SortOptions{
		MainWarehouse:      s.inventory.MainWarehouse(),
		MainWarehouseFirst: caps.MainWarehouseFirst,
	})

	out := make([]models.ShipmentCandidate, 0, len(records))
	for _, r := range records {
		out = append(out, models.ShipmentCandidate{
			Label:      fmt.Sprintf("%s %s %s %s", r.Brand(), r.ItemName(), r.Warehouse(), r.Identifier()),
			ItemName:   r.ItemName(),
			Brand:      r.Brand(),
			Warehouse:  r.Warehouse(),
			Identifier: r.Identifier(),
			Quantity:   r.Quantity(),
		})
	}
	return out, snap.Warning, nil
}

// Submit validates the request, finds the available ledger row for the shipment date
// and writes the shipment into it with one range update.
func (s *Service) Submit(ctx context.Context, session models.Session, req models.ShipmentRequest) (models.ShipmentResult, error) {
	result, audit, err := s.submit(ctx, session, req)
	if err != nil {
		s.metrics.ShipmentSubmitted(outcome(err))
		return models.ShipmentResult{}, err
	}
	s.metrics.ShipmentSubmitted("written")
	s.afterWrite(ctx, audit)
	return result, nil
}

func (s *Service) submit(ctx context.Context, session models.Session, req models.ShipmentRequest) (models.ShipmentResult, models.ShipmentAudit, error) {
	caps := session.Role.Capabilities()
	if !caps.CanWriteShipments {
		return models.ShipmentResult{}, models.ShipmentAudit{}, ErrForbidden
	}

	day, err := s.shipmentDay(req.Date)
	if err != nil {
		return models.ShipmentResult{}, models.ShipmentAudit{}, err
	}

	records, snap := s.inventory.Scoped(ctx, caps)
	if snap.Warning != "" {
		return models.ShipmentResult{}, models.ShipmentAudit{}, fmt.Errorf("%w: %s", ErrInventoryUnavailable, snap.Warning)
	}
	item, ok := findItem(records, req)
	if !ok {
		return models.ShipmentResult{}, models.ShipmentAudit{}, ErrItemNotFound
	}

	requested, _ := SanitizeInt(string(req.Quantity))
	if err := ValidateSubmission(req.Client, requested, item.Quantity()); err != nil {
		return models.ShipmentResult{}, models.ShipmentAudit{}, err
	}
	price, _ := SanitizeInt(string(req.Price))
	if err := ValidatePrice(price); err != nil {
		return models.ShipmentResult{}, models.ShipmentAudit{}, err
	}

	record := s.buildRecord(req, item)
	values, coerced := LedgerValues(record)
	if len(coerced) > 0 {
		s.logger.Warn("non-numeric shipment fields written as 0",
			zap.Strings("fields", coerced),
			zap.String("quantity", record.Quantity),
			zap.String("price", record.Price))
	}

	date := LedgerDate(day)
	unlock := s.lockDate(date)
	defer unlock()

	rows, err := s.ledger.ReadRange(ctx, LedgerReadRange(s.sheet))
	if err != nil {
		return models.ShipmentResult{}, models.ShipmentAudit{}, fmt.Errorf("%w: %v", ErrLedgerRead, err)
	}

	row, err := LocateAvailableRow(repo.CellGrid(rows), date)
	if err != nil {
		return models.ShipmentResult{}, models.ShipmentAudit{}, err
	}

	rng := LedgerRange(s.sheet, row)
	if err := s.ledger.UpdateRange(ctx, rng, values); err != nil {
		return models.ShipmentResult{}, models.ShipmentAudit{}, fmt.Errorf("%w: %v", ErrLedgerWrite, err)
	}

	s.logger.Info("shipment written",
		zap.String("user", session.Username),
		zap.String("date", date),
		zap.Int("row", row),
		zap.String("item", record.ItemName),
		zap.String("client", record.Client))

	audit := models.ShipmentAudit{
		ID:          uuid.NewString(),
		SubmittedBy: session.Username,
		LedgerDate:  date,
		Row:         row,
		Manager:     record.Manager,
		Client:      record.Client,
		ItemName:    record.ItemName,
		Brand:       record.Brand,
		Identifier:  values[4].(string),
		Quantity:    values[5].(int),
		Warehouse:   record.Warehouse,
		Price:       values[7].(int),
		Transfer:    record.Transfer,
		CreatedAt:   s.now().UTC(),
	}

	return models.ShipmentResult{Date: date, Row: row, Range: rng}, audit, nil
}

func (s *Service) shipmentDay(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return s.now().In(s.defaults.Location), nil
	}
	day, err := time.ParseInLocation(dateLayout, raw, s.defaults.Location)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q", ErrInvalidDate, raw)
	}
	return day, nil
}

func (s *Service) buildRecord(req models.ShipmentRequest, item models.InventoryRecord) models.ShipmentRecord {
	manager := strings.TrimSpace(req.Manager)
	if manager == "" {
		manager = s.defaults.Manager
	}

	warehouse := strings.TrimSpace(req.ShipFrom)
	if warehouse == "" {
		warehouse = item.Warehouse()
	}
	if warehouse == "" {
		warehouse = s.defaults.Warehouse
	}

	transfer := true
	if req.Transfer != nil {
		transfer = *req.Transfer
	}

	return models.ShipmentRecord{
		Manager:    manager,
		Client:     strings.TrimSpace(req.Client),
		ItemName:   item.ItemName(),
		Brand:      item.Brand(),
		Identifier: item.Identifier(),
		Quantity:   string(req.Quantity),
		Warehouse:  warehouse,
		Price:      string(req.Price),
		Transfer:   transfer,
	}
}

// afterWrite runs the best-effort side effects. The ledger row is already written, so
// failures are only logged.
func (s *Service) afterWrite(ctx context.Context, audit models.ShipmentAudit) {
	if s.auditor != nil {
		if err := s.auditor.SaveShipment(ctx, audit); err != nil {
			s.logger.Error("failed to store shipment audit", zap.Error(err), zap.String("audit_id", audit.ID))
		}
	}
	if s.notifier != nil {
		if err := s.notifier.NotifyShipment(ctx, audit); err != nil {
			s.logger.Warn("failed to send shipment notification", zap.Error(err), zap.String("audit_id", audit.ID))
		}
	}
}

// lockDate serialises read-locate-write for one ledger date within this process.
// Writers in other processes are not excluded. The entry is dropped once the last
// holder or waiter releases it.
func (s *Service) lockDate(date string) func() {
	s.mu.Lock()
	l, ok := s.locks[date]
	if !ok {
		l = &dateLock{}
		s.locks[date] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, date)
		}
		s.mu.Unlock()
	}
}

func findItem(records []models.InventoryRecord, req models.ShipmentRequest) (models.InventoryRecord, bool) {
	name := strings.TrimSpace(req.ItemName)
	brand := strings.TrimSpace(req.Brand)
	warehouse := strings.TrimSpace(req.Warehouse)
	identifier := strings.TrimSpace(req.Identifier)

	for _, r := range records {
		if r.ItemName() != name {
			continue
		}
		if brand != "" && r.Brand() != brand {
			continue
		}
		if warehouse != "" && r.Warehouse() != warehouse {
			continue
		}
		if identifier != "" && r.Identifier() != identifier {
			continue
		}
		return r, true
	}
	return nil, false
}

func outcome(err error) string {
	switch {
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrItemNotFound):
		return "item_not_found"
	case errors.Is(err, ErrClientRequired), errors.Is(err, ErrInsufficientStock), errors.Is(err, ErrInvalidDate),
		errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrInvalidPrice):
		return "rejected"
	case errors.Is(err, ErrInventoryUnavailable):
		return "inventory_unavailable"
	case errors.Is(err, ErrNoAvailableRow):
		return "no_row"
	default:
		return "error"
	}
}
