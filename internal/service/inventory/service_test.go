package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metung95-cpu/ajet-stock/internal/cache"
	"github.com/metung95-cpu/ajet-stock/internal/domain/models"
	"github.com/metung95-cpu/ajet-stock/internal/service/inventory"
)

type mockSheetRepo struct {
	rows    [][]interface{}
	readErr error
	reads   int
	ranges  []string
}

func (m *mockSheetRepo) ReadRange(_ context.Context, sheetRange string) ([][]interface{}, error) {
	m.reads++
	m.ranges = append(m.ranges, sheetRange)
	return m.rows, m.readErr
}

func (m *mockSheetRepo) UpdateRange(_ context.Context, _ string, _ []interface{}) error {
	return errors.New("not expected")
}

func inventoryRows() [][]interface{} {
	return [][]interface{}{
		{"품명", "브랜드-등급-est", "재고수량", "B/L NO", "창고명", "소비기한", "평균중량"},
		{"Ribeye", "Kilcoy", "7", "SLAM1", "곤지암", "2026-05-01", "3.2"},
		{"Brisket", "MCKILLOP", "20", "", "광주본점", "2026-04-01", "4.1"},
		{"", "Ghost", "1", "", "곤지암", "", ""},
	}
}

func newInventoryService(repo *mockSheetRepo) *inventory.Service {
	return inventory.NewService(repo, cache.NewMemoryStore(), inventory.Options{
		SheetRange:    "raw_운영부재고",
		TTL:           time.Minute,
		MainWarehouse: "본점",
	}, nil)
}

func TestSnapshot_NormalizesAndCaches(t *testing.T) {
	repo := &mockSheetRepo{rows: inventoryRows()}
	svc := newInventoryService(repo)

	snap := svc.Snapshot(context.Background())
	again := svc.Snapshot(context.Background())

	require.Len(t, snap.Records, 2)
	assert.Empty(t, snap.Warning)
	assert.Equal(t, "Kilcoy", snap.Records[0].Brand())
	assert.Equal(t, "SLAM1", snap.Records[0].Get(models.FieldIdentifier))
	assert.Len(t, again.Records, 2)
	assert.Equal(t, 1, repo.reads)
	assert.Equal(t, []string{"raw_운영부재고"}, repo.ranges)
}

func TestSnapshot_ReadFailureReturnsEmptyWithWarning(t *testing.T) {
	repo := &mockSheetRepo{readErr: errors.New("403 permission denied")}
	svc := newInventoryService(repo)

	snap := svc.Snapshot(context.Background())

	assert.Empty(t, snap.Records)
	assert.Equal(t, inventory.LoadWarning, snap.Warning)

	repo.readErr = nil
	repo.rows = inventoryRows()
	snap = svc.Snapshot(context.Background())
	assert.Len(t, snap.Records, 2)
	assert.Equal(t, 2, repo.reads)
}

func TestInvalidate_ForcesReload(t *testing.T) {
	repo := &mockSheetRepo{rows: inventoryRows()}
	svc := newInventoryService(repo)

	svc.Snapshot(context.Background())
	require.NoError(t, svc.Invalidate(context.Background()))
	svc.Snapshot(context.Background())

	assert.Equal(t, 2, repo.reads)
}

func TestWarm_ReplacesCachedSnapshot(t *testing.T) {
	repo := &mockSheetRepo{rows: inventoryRows()}
	svc := newInventoryService(repo)

	require.NoError(t, svc.Warm(context.Background()))
	svc.Snapshot(context.Background())
	assert.Equal(t, 1, repo.reads)

	repo.readErr = errors.New("timeout")
	assert.Error(t, svc.Warm(context.Background()))
}

func TestView_SalesOperatorExcludesMainWarehouse(t *testing.T) {
	svc := newInventoryService(&mockSheetRepo{rows: inventoryRows()})

	view := svc.View(context.Background(), models.RoleSalesOperator.Capabilities(), inventory.Filter{}, false)

	require.Len(t, view.Records, 1)
	assert.Equal(t, "Ribeye", view.Records[0].ItemName())
	assert.Contains(t, view.Columns, models.FieldIdentifier)
	assert.Equal(t, [][]string{{"Ribeye", "Kilcoy", "7", "SLAM1", "곤지암", "2026-05-01", "3.2"}}, view.Rows())
}

func TestView_AdministratorSeesMainWarehouseFirst(t *testing.T) {
	svc := newInventoryService(&mockSheetRepo{rows: inventoryRows()})

	view := svc.View(context.Background(), models.RoleAdministrator.Capabilities(), inventory.Filter{}, false)

	require.Len(t, view.Records, 2)
	assert.Equal(t, "Brisket", view.Records[0].ItemName())
	assert.NotContains(t, view.Columns, models.FieldIdentifier)
}

func TestView_EmptyOnFailure(t *testing.T) {
	svc := newInventoryService(&mockSheetRepo{readErr: errors.New("boom")})

	view := svc.View(context.Background(), models.RoleAdministrator.Capabilities(), inventory.Filter{Item: "rib"}, false)

	assert.Empty(t, view.Records)
	assert.Empty(t, view.Columns)
	assert.Equal(t, inventory.LoadWarning, view.Warning)
}
