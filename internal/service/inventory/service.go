package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/metung95-cpu/ajet-stock/internal/cache"
	"github.com/metung95-cpu/ajet-stock/internal/domain/models"
	"github.com/metung95-cpu/ajet-stock/internal/metrics"
	repo "github.com/metung95-cpu/ajet-stock/internal/repository/sheets"
)

const snapshotKey = "inventory:snapshot"

// LoadWarning is shown to users when the sheet could not be read.
const LoadWarning = "재고 데이터를 불러오지 못했습니다. 잠시 후 새로고침 해주세요."

// Snapshot is one read of the inventory sheet.
type Snapshot struct {
	Records   []models.InventoryRecord `json:"records"`
	FetchedAt time.Time                `json:"fetched_at"`
	Warning   string                   `json:"-"`
}

// View is a role-scoped, filtered and ordered projection of a snapshot.
type View struct {
	Columns   []string
	Records   []models.InventoryRecord
	FetchedAt time.Time
	Warning   string
}

// Rows projects the view onto its visible columns.
func (v View) Rows() [][]string {
	rows := make([][]string, len(v.Records))
	for i, r := range v.Records {
		rows[i] = r.Project(v.Columns)
	}
	return rows
}

// Service serves normalized inventory snapshots through a read-through cache.
type Service struct {
	repo          repo.Repository
	store         cache.Store
	sheetRange    string
	ttl           time.Duration
	mainWarehouse string
	metrics       *metrics.Metrics
	logger        *zap.Logger
	now           func() time.Time
}

// Options configures a Service.
type Options struct {
	SheetRange    string
	TTL           time.Duration
	MainWarehouse string
	Metrics       *metrics.Metrics
}

// NewService wires an inventory service. A nil store falls back to an in-process cache.
func NewService(repository repo.Repository, store cache.Store, opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if store == nil {
		store = cache.NewMemoryStore()
	}
	if opts.TTL <= 0 {
		opts.TTL = time.Minute
	}
	return &Service{
		repo:          repository,
		store:         store,
		sheetRange:    opts.SheetRange,
		ttl:           opts.TTL,
		mainWarehouse: opts.MainWarehouse,
		metrics:       opts.Metrics,
		logger:        logger,
		now:           time.Now,
	}
}

// MainWarehouse returns the token identifying the main warehouse.
func (s *Service) MainWarehouse() string {
	return s.mainWarehouse
}

// Snapshot returns the cached snapshot or reads the sheet. It never fails: when the
// sheet cannot be read the snapshot is empty and carries a warning. Failed reads are
// not cached.
func (s *Service) Snapshot(ctx context.Context) Snapshot {
	if snap, ok := s.cached(ctx); ok {
		s.metrics.InventoryCacheHit()
		return snap
	}

	snap, err := s.load(ctx)
	if err != nil {
		s.metrics.InventoryLoaded("error")
		s.logger.Warn("inventory load failed", zap.Error(err))
		return Snapshot{Records: []models.InventoryRecord{}, FetchedAt: s.now(), Warning: LoadWarning}
	}
	s.metrics.InventoryLoaded("ok")
	s.save(ctx, snap)
	return snap
}

// Invalidate drops the cached snapshot so the next read goes to the sheet.
func (s *Service) Invalidate(ctx context.Context) error {
	if err := s.store.Delete(ctx, snapshotKey); err != nil {
		return fmt.Errorf("invalidate inventory cache: %w", err)
	}
	s.logger.Info("inventory cache invalidated")
	return nil
}

// Warm reloads the sheet unconditionally and replaces the cached snapshot.
func (s *Service) Warm(ctx context.Context) error {
	snap, err := s.load(ctx)
	if err != nil {
		s.metrics.InventoryLoaded("error")
		return err
	}
	s.metrics.InventoryLoaded("ok")
	s.save(ctx, snap)
	s.logger.Debug("inventory cache warmed", zap.Int("records", len(snap.Records)))
	return nil
}

// Scoped returns the snapshot restricted and ordered for a role.
func (s *Service) Scoped(ctx context.Context, caps models.Capabilities) ([]models.InventoryRecord, Snapshot) {
	snap := s.Snapshot(ctx)
	records := append([]models.InventoryRecord(nil), snap.Records...)
	if caps.ExcludeMainWarehouse {
		records = ExcludeMainWarehouse(records, s.mainWarehouse)
	}
	return records, snap
}

// View filters and orders the role-scoped snapshot.
func (s *Service) View(ctx context.Context, caps models.Capabilities, filter Filter, byExpiry bool) View {
	records, snap := s.Scoped(ctx, caps)
	records = filter.Apply(records)
	records = Sort(records, SortOptions{
		MainWarehouse:      s.mainWarehouse,
		MainWarehouseFirst: caps.MainWarehouseFirst,
		ByExpiry:           byExpiry,
	})

	var columns []string
	if len(snap.Records) > 0 {
		columns = presentColumns(caps.VisibleColumns, snap.Records)
	}

	return View{
		Columns:   columns,
		Records:   records,
		FetchedAt: snap.FetchedAt,
		Warning:   snap.Warning,
	}
}

func (s *Service) load(ctx context.Context) (Snapshot, error) {
	rows, err := s.repo.ReadRange(ctx, s.sheetRange)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read inventory sheet: %w", err)
	}
	records := Normalize(repo.RecordsFromRows(rows))
	return Snapshot{Records: records, FetchedAt: s.now()}, nil
}

func (s *Service) cached(ctx context.Context) (Snapshot, bool) {
	payload, ok, err := s.store.Get(ctx, snapshotKey)
	if err != nil {
		s.logger.Warn("inventory cache read failed", zap.Error(err))
		return Snapshot{}, false
	}
	if !ok {
		return Snapshot{}, false
	}
	var snap Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		s.logger.Warn("discarding unreadable inventory cache entry", zap.Error(err))
		return Snapshot{}, false
	}
	return snap, true
}

func (s *Service) save(ctx context.Context, snap Snapshot) {
	payload, err := json.Marshal(snap)
	if err != nil {
		s.logger.Warn("failed to encode inventory snapshot", zap.Error(err))
		return
	}
	if err := s.store.Set(ctx, snapshotKey, payload, s.ttl); err != nil {
		s.logger.Warn("inventory cache write failed", zap.Error(err))
	}
}

// presentColumns keeps the visible columns that exist in at least one record.
func presentColumns(visible []string, records []models.InventoryRecord) []string {
	out := make([]string, 0, len(visible))
	for _, col := range visible {
		for _, r := range records {
			if _, ok := r[col]; ok {
				out = append(out, col)
				break
			}
		}
	}
	return out
}
