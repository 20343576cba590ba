package activitylog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reftrack/reftrack/internal/platform/db"
)

type queryable interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func conn(ctx context.Context, pool *pgxpool.Pool) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return pool
}

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) Create(ctx context.Context, e *Entry) error {
	e.ID = uuid.New()

	var data []byte
	if e.LogData != nil {
		var err error
		data, err = json.Marshal(e.LogData)
		if err != nil {
			return fmt.Errorf("encode log_data: %w", err)
		}
	}

	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO logging (id, log_level, log_activity, log_data, log_details)
		VALUES ($1,$2,$3,$4,$5)`,
		e.ID, e.LogLevel, e.LogActivity, data, e.LogDetails,
	)
	return db.ClassifyError(err)
}

func (r *repoPG) List(ctx context.Context, f Filters, limit, offset int) ([]*Entry, int, error) {
	countQuery := `SELECT COUNT(*) FROM logging WHERE 1=1`
	query := `SELECT id, log_level, log_activity, log_data, log_details, created_at FROM logging WHERE 1=1`
	var args []interface{}
	idx := 1

	addEq := func(col, val string) {
		if val == "" {
			return
		}
		clause := fmt.Sprintf(" AND %s = $%d", col, idx)
		countQuery += clause
		query += clause
		args = append(args, val)
		idx++
	}
	addEq("log_level", f.LogLevel)
	addEq("log_activity", f.LogActivity)

	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, offset)

	rows, err := conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*Entry
	for rows.Next() {
		var e Entry
		var data []byte
		if err := rows.Scan(&e.ID, &e.LogLevel, &e.LogActivity, &data, &e.LogDetails, &e.CreatedAt); err != nil {
			return nil, 0, err
		}
		if len(data) > 0 {
			if err := json.Unmarshal(data, &e.LogData); err != nil {
				return nil, 0, fmt.Errorf("decode log_data: %w", err)
			}
		}
		out = append(out, &e)
	}
	return out, total, nil
}
