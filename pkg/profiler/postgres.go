package profiler

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/schemalens-ai/schemalens-engine/pkg/models"
)

type postgresDriver struct {
	info   ConnectionInfo
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func newPostgresDriver(info ConnectionInfo, logger *zap.Logger) *postgresDriver {
	return &postgresDriver{info: info, logger: logger.Named("postgres")}
}

func (d *postgresDriver) Connect(ctx context.Context) error {
	pool, err := pgxpool.New(ctx, d.info.DSN())
	if err != nil {
		return fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("ping database: %w", err)
	}
	d.pool = pool
	return nil
}

func (d *postgresDriver) Close() {
	if d.pool != nil {
		d.pool.Close()
		d.pool = nil
	}
}

func (d *postgresDriver) Overview(ctx context.Context) (models.DatabaseOverview, error) {
	overview := models.DatabaseOverview{}

	if err := d.pool.QueryRow(ctx, "SELECT version()").Scan(&overview.Version); err != nil {
		return overview, fmt.Errorf("query version: %w", err)
	}

	rows, err := d.pool.Query(ctx, `
		SELECT schema_name FROM information_schema.schemata
		WHERE schema_name NOT IN ('pg_catalog', 'information_schema', 'pg_toast')
		ORDER BY schema_name`)
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

	err = d.pool.QueryRow(ctx, `
		SELECT count(*) FROM information_schema.tables
		WHERE table_type = 'BASE TABLE'
		  AND table_schema NOT IN ('pg_catalog', 'information_schema')`).
		Scan(&overview.TotalTables)
	if err != nil {
		return overview, fmt.Errorf("count tables: %w", err)
	}
	return overview, nil
}

func (d *postgresDriver) TableStatistics(ctx context.Context, table models.Table) (models.TableStatistics, error) {
	relation := d.relationName(table)
	stats := models.TableStatistics{
		TableName:   table.FullName(),
		ColumnStats: map[string]models.ColumnStatistics{},
	}

	if err := d.pool.QueryRow(ctx, "SELECT count(*) FROM "+relation).Scan(&stats.RowCount); err != nil {
		return stats, fmt.Errorf("count rows of %s: %w", table.FullName(), err)
	}
	if err := d.pool.QueryRow(ctx, "SELECT pg_total_relation_size($1)", relation).Scan(&stats.SizeBytes); err != nil {
		return stats, fmt.Errorf("size of %s: %w", table.FullName(), err)
	}

	for _, col := range table.Columns {
		colStats := models.ColumnStatistics{DataType: col.DataType}
		ident := quoteIdent(col.Name)

		query := fmt.Sprintf(
			"SELECT count(DISTINCT %s), count(*) - count(%s) FROM %s", ident, ident, relation)
		if err := d.pool.QueryRow(ctx, query).Scan(&colStats.DistinctCount, &colStats.NullCount); err != nil {
			colStats.Error = err.Error()
			stats.ColumnStats[col.Name] = colStats
			continue
		}

		if col.IsNumeric() {
			var minV, maxV, avgV *float64
			query = fmt.Sprintf(
				"SELECT min(%s)::float8, max(%s)::float8, avg(%s)::float8 FROM %s",
				ident, ident, ident, relation)
			if err := d.pool.QueryRow(ctx, query).Scan(&minV, &maxV, &avgV); err != nil {
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

// relationName builds a quoted schema-qualified relation reference. The
// catalog segment is dropped: postgres connections are already scoped to one
// database.
func (d *postgresDriver) relationName(table models.Table) string {
	if table.Schema != "" {
		return quoteIdent(table.Schema) + "." + quoteIdent(table.Name)
	}
	return quoteIdent(table.Name)
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
