package profiler

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/schemalens-ai/schemalens-engine/pkg/apperrors"
	"github.com/schemalens-ai/schemalens-engine/pkg/logging"
	"github.com/schemalens-ai/schemalens-engine/pkg/models"
)

// Driver speaks one database engine's dialect for profiling queries. Close
// must be safe to call after a failed Connect.
type Driver interface {
	Connect(ctx context.Context) error
	Overview(ctx context.Context) (models.DatabaseOverview, error)
	TableStatistics(ctx context.Context, table models.Table) (models.TableStatistics, error)
	Close()
}

// OpenDriver constructs a Driver for parsed connection info.
type OpenDriver func(info ConnectionInfo, logger *zap.Logger) (Driver, error)

func defaultOpenDriver(info ConnectionInfo, logger *zap.Logger) (Driver, error) {
	switch info.Driver {
	case DriverPostgres, "postgres":
		return newPostgresDriver(info, logger), nil
	case DriverSQLServer, "mssql":
		return newMSSQLDriver(info, logger), nil
	default:
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnsupportedDriver, info.Driver)
	}
}

// Collector runs the optional live-profiling phase.
type Collector struct {
	open   OpenDriver
	logger *zap.Logger
}

// NewCollector creates a Collector using the built-in driver set. A nil
// logger disables logging.
func NewCollector(logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{open: defaultOpenDriver, logger: logger.Named("profiler")}
}

// NewCollectorWithOpener creates a Collector with a custom driver opener.
// Used by tests to substitute a fake driver.
func NewCollectorWithOpener(open OpenDriver, logger *zap.Logger) *Collector {
	c := NewCollector(logger)
	c.open = open
	return c
}

// Profile collects statistics for every declared table. A nil return means no
// connection URL was configured. Any other failure degrades: the result
// carries the error and whatever statistics were collected before it. The
// driver is always closed before return.
func (c *Collector) Profile(ctx context.Context, rawURL string, tables []models.Table) *models.ProfileResult {
	if rawURL == "" {
		return nil
	}
	result := &models.ProfileResult{}

	info, err := ParseJDBCURL(rawURL)
	if err != nil {
		c.logger.Warn("connection url rejected", zap.String("error", logging.SanitizeError(err)))
		result.Error = logging.SanitizeError(err)
		return result
	}
	result.Overview.Driver = info.Driver
	result.Overview.Host = info.Host
	result.Overview.Database = info.Database

	driver, err := c.open(info, c.logger)
	if err != nil {
		result.Error = logging.SanitizeError(err)
		return result
	}
	defer driver.Close()

	if err := driver.Connect(ctx); err != nil {
		c.logger.Warn("database connection failed",
			zap.String("host", info.Host),
			zap.String("error", logging.SanitizeError(err)))
		result.Overview.Error = logging.SanitizeError(err)
		result.Error = logging.SanitizeError(err)
		return result
	}

	overview, err := driver.Overview(ctx)
	if err != nil {
		result.Overview.Error = logging.SanitizeError(err)
	} else {
		overview.Driver = info.Driver
		overview.Host = info.Host
		overview.Database = info.Database
		result.Overview = overview
	}
	result.Overview.Connected = true

	for _, table := range tables {
		stats, err := driver.TableStatistics(ctx, table)
		if err != nil {
			c.logger.Warn("table profiling failed",
				zap.String("table", table.FullName()),
				zap.String("error", logging.SanitizeError(err)))
			stats = models.TableStatistics{
				TableName: table.FullName(),
				Error:     logging.SanitizeError(err),
			}
		}
		result.TableStatistics = append(result.TableStatistics, stats)
	}
	c.logger.Info("profiling complete",
		zap.String("database", info.Database),
		zap.Int("tables", len(result.TableStatistics)))
	return result
}
