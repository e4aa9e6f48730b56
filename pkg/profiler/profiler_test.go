package profiler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schemalens-ai/schemalens-engine/pkg/models"
)

type fakeDriver struct {
	connectErr error
	overview   models.DatabaseOverview
	tableErrs  map[string]error
	rowCounts  map[string]int64
	closed     bool
}

func (f *fakeDriver) Connect(ctx context.Context) error { return f.connectErr }

func (f *fakeDriver) Overview(ctx context.Context) (models.DatabaseOverview, error) {
	return f.overview, nil
}

func (f *fakeDriver) TableStatistics(ctx context.Context, table models.Table) (models.TableStatistics, error) {
	name := table.FullName()
	if err := f.tableErrs[name]; err != nil {
		return models.TableStatistics{}, err
	}
	return models.TableStatistics{TableName: name, RowCount: f.rowCounts[name]}, nil
}

func (f *fakeDriver) Close() { f.closed = true }

func collectorWith(driver *fakeDriver) *Collector {
	open := func(info ConnectionInfo, logger *zap.Logger) (Driver, error) {
		return driver, nil
	}
	return NewCollectorWithOpener(open, zap.NewNop())
}

func TestProfileNoURL(t *testing.T) {
	c := NewCollector(zap.NewNop())
	assert.Nil(t, c.Profile(context.Background(), "", nil))
}

func TestProfileInvalidURL(t *testing.T) {
	c := NewCollector(zap.NewNop())
	result := c.Profile(context.Background(), "postgresql://host/db", nil)

	require.NotNil(t, result)
	assert.NotEmpty(t, result.Error)
	assert.False(t, result.Overview.Connected)
}

func TestProfileConnectionFailure(t *testing.T) {
	driver := &fakeDriver{connectErr: errors.New("connection refused")}
	result := collectorWith(driver).Profile(context.Background(),
		"jdbc:postgresql://host:5432/db?user=u&password=secret", nil)

	require.NotNil(t, result)
	assert.False(t, result.Overview.Connected)
	assert.NotEmpty(t, result.Error)
	assert.True(t, driver.closed)
}

func TestProfileBestEffortPerTable(t *testing.T) {
	driver := &fakeDriver{
		overview:  models.DatabaseOverview{Version: "PostgreSQL 16.1", TotalTables: 2},
		rowCounts: map[string]int64{"flights": 100},
		tableErrs: map[string]error{"crews": errors.New("permission denied")},
	}
	tables := []models.Table{{Name: "flights"}, {Name: "crews"}}
	result := collectorWith(driver).Profile(context.Background(),
		"jdbc:postgresql://host:5432/db?user=u&password=secret", tables)

	require.NotNil(t, result)
	assert.Empty(t, result.Error)
	assert.True(t, result.Overview.Connected)
	assert.Equal(t, "PostgreSQL 16.1", result.Overview.Version)
	assert.Equal(t, "postgresql", result.Overview.Driver)

	require.Len(t, result.TableStatistics, 2)
	assert.Equal(t, int64(100), result.TableStatistics[0].RowCount)
	assert.Empty(t, result.TableStatistics[0].Error)
	assert.Equal(t, "crews", result.TableStatistics[1].TableName)
	assert.NotEmpty(t, result.TableStatistics[1].Error)
	assert.True(t, driver.closed)
}

func TestProfileUnsupportedDriver(t *testing.T) {
	c := NewCollector(zap.NewNop())
	result := c.Profile(context.Background(), "jdbc:oracle://host:1521/db", nil)

	require.NotNil(t, result)
	assert.NotEmpty(t, result.Error)
}
