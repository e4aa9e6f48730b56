package profiler

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	_ "github.com/microsoft/go-mssqldb"
	"go.uber.org/zap"

	"github.com/schemalens-ai/schemalens-engine/pkg/models"
)

type mssqlDriver struct {
	info   ConnectionInfo
	db     *sql.DB
	logger *zap.Logger
}

func newMSSQLDriver(info ConnectionInfo, logger *zap.Logger) *mssqlDriver {
	return &mssqlDriver{info: info, logger: logger.Named("mssql")}
}

func (d *mssqlDriver) dsn() string {
	hostPort := d.info.Host
	if d.info.Port != "" {
		hostPort += ":" + d.info.Port
	}
	u := url.URL{
		Scheme:   "sqlserver",
		Host:     hostPort,
		RawQuery: url.Values{"database": {d.info.Database}}.Encode(),
	}
	if d.info.User != "" {
		u.User = url.UserPassword(d.info.User, d.info.Password)
	}
	return u.String()
}

func (d *mssqlDriver) Connect(ctx context.Context) error {
	db, err := sql.Open("sqlserver", d.dsn())
	if err != nil {
		return fmt.Errorf("open connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("ping database: %w", err)
	}
	d.db = db
	return nil
}

func (d *mssqlDriver) Close() {
	if d.db != nil {
		d.db.Close()
		d.db = nil
	}
}

func (d *mssqlDriver) Overview(ctx context.Context) (models.DatabaseOverview, error) {
	overview := models.DatabaseOverview{}

	if err := d.db.QueryRowContext(ctx, "SELECT @@VERSION").Scan(&overview.Version); err != nil {
		return overview, fmt.Errorf("query version: %w", err)
	}

	rows, err := d.db.QueryContext(ctx, `
		SELECT name FROM sys.schemas
		WHERE name NOT IN ('sys', 'INFORMATION_SCHEMA', 'guest')
		ORDER BY name`)
	if err != nil {
		return overview, fmt.Errorf("query schemas: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var schema string
		if err := rows.Scan(&schema); err != nil {
			return overview, fmt.Errorf("scan schema row: %w", err)
		}
		overview.Schemas = append(overview.Schemas, schema)
	}
	if err := rows.Err(); err != nil {
		return overview, fmt.Errorf("iterate schema rows: %w", err)
	}

	err = d.db.QueryRowContext(ctx,
		"SELECT count(*) FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_TYPE = 'BASE TABLE'").
		Scan(&overview.TotalTables)
	if err != nil {
		return overview, fmt.Errorf("count tables: %w", err)
	}
	return overview, nil
}

func (d *mssqlDriver) TableStatistics(ctx context.Context, table models.Table) (models.TableStatistics, error) {
	relation := d.relationName(table)
	stats := models.TableStatistics{
		TableName:   table.FullName(),
		ColumnStats: map[string]models.ColumnStatistics{},
	}

	if err := d.db.QueryRowContext(ctx, "SELECT count_big(*) FROM "+relation).Scan(&stats.RowCount); err != nil {
		return stats, fmt.Errorf("count rows of %s: %w", table.FullName(), err)
	}

	// Reserved + used pages for every index and partition of the table.
	err := d.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(ps.used_page_count), 0) * 8 * 1024
		FROM sys.dm_db_partition_stats ps
		WHERE ps.object_id = OBJECT_ID(@p1)`, relation).
		Scan(&stats.SizeBytes)
	if err != nil {
		return stats, fmt.Errorf("size of %s: %w", table.FullName(), err)
	}

	for _, col := range table.Columns {
		colStats := models.ColumnStatistics{DataType: col.DataType}
		ident := bracketIdent(col.Name)

		query := fmt.Sprintf(
			"SELECT count_big(DISTINCT %s), count_big(*) - count_big(%s) FROM %s", ident, ident, relation)
		if err := d.db.QueryRowContext(ctx, query).Scan(&colStats.DistinctCount, &colStats.NullCount); err != nil {
			colStats.Error = err.Error()
			stats.ColumnStats[col.Name] = colStats
			continue
		}

		if col.IsNumeric() {
			var minV, maxV, avgV *float64
			query = fmt.Sprintf(
				"SELECT CAST(min(%s) AS float), CAST(max(%s) AS float), CAST(avg(CAST(%s AS float)) AS float) FROM %s",
				ident, ident, ident, relation)
			if err := d.db.QueryRowContext(ctx, query).Scan(&minV, &maxV, &avgV); err != nil {
				colStats.Error = err.Error()
			} else {
				colStats.MinValue = minV
				colStats.MaxValue = maxV
				colStats.AvgValue = avgV
			}
		}
		stats.ColumnStats[col.Name] = colStats
	}
	return stats, nil
}

func (d *mssqlDriver) relationName(table models.Table) string {
	if table.Schema != "" {
		return bracketIdent(table.Schema) + "." + bracketIdent(table.Name)
	}
	return bracketIdent(table.Name)
}

func bracketIdent(name string) string {
	escaped := ""
	for _, r := range name {
		if r == ']' {
			escaped += "]]"
			continue
		}
		escaped += string(r)
	}
	return "[" + escaped + "]"
}
