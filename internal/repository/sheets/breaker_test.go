package sheets_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/metung95-cpu/ajet-stock/internal/repository/sheets"
)

type failingRepo struct {
	calls int
	err   error
	rows  [][]interface{}
}

func (f *failingRepo) ReadRange(_ context.Context, _ string) ([][]interface{}, error) {
	f.calls++
	return f.rows, f.err
}

func (f *failingRepo) UpdateRange(_ context.Context, _ string, _ []interface{}) error {
	f.calls++
	return f.err
}

func TestBreakerRepository_OpensAfterConsecutiveFailures(t *testing.T) {
	inner := &failingRepo{err: errors.New("503 backend error")}
	repo := sheets.NewBreakerRepository("test", inner, time.Minute, nil)

	for i := 0; i < 5; i++ {
		_, err := repo.ReadRange(context.Background(), "A:B")
		assert.EqualError(t, err, "503 backend error")
	}

	_, err := repo.ReadRange(context.Background(), "A:B")
	assert.ErrorIs(t, err, sheets.ErrCircuitOpen)
	assert.Equal(t, 5, inner.calls)

	err = repo.UpdateRange(context.Background(), "D1:L1", []interface{}{"x"})
	assert.ErrorIs(t, err, sheets.ErrCircuitOpen)
	assert.Equal(t, 5, inner.calls)
}

func TestBreakerRepository_PassesThroughRows(t *testing.T) {
	inner := &failingRepo{rows: [][]interface{}{{"a"}}}
	repo := sheets.NewBreakerRepository("test", inner, time.Minute, nil)

	rows, err := repo.ReadRange(context.Background(), "A:A")

	assert.NoError(t, err)
	assert.Equal(t, [][]interface{}{{"a"}}, rows)
}
