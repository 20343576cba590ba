package location

import (
	"context"
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

// -- State Repository --

type stateRepoPG struct {
	pool *pgxpool.Pool
}

func NewStateRepo(pool *pgxpool.Pool) StateRepository {
	return &stateRepoPG{pool: pool}
}

func (r *stateRepoPG) Create(ctx context.Context, s *State) error {
	s.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx,
		`INSERT INTO state (id, state_name, num_code) VALUES ($1, $2, $3)`,
		s.ID, s.StateName, s.NumCode)
	return db.ClassifyError(err)
}

func (r *stateRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*State, error) {
	var s State
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT id, state_name, num_code, created_at FROM state WHERE id = $1`, id).
		Scan(&s.ID, &s.StateName, &s.NumCode, &s.CreatedAt)
	if err != nil {
		return nil, db.ClassifyError(err)
	}
	return &s, nil
}

func (r *stateRepoPG) Update(ctx context.Context, s *State) error {
	tag, err := conn(ctx, r.pool).Exec(ctx,
		`UPDATE state SET state_name = $2, num_code = $3 WHERE id = $1`,
		s.ID, s.StateName, s.NumCode)
	if err != nil {
		return db.ClassifyError(err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

// Delete fails with ErrProtected while districts or hospitals still reference
// the state (FK RESTRICT).
func (r *stateRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM state WHERE id = $1`, id)
	if err != nil {
		return db.ClassifyDeleteError(err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *stateRepoPG) List(ctx context.Context, name string, limit, offset int) ([]*State, int, error) {
	countQuery := `SELECT COUNT(*) FROM state`
	query := `SELECT id, state_name, num_code, created_at FROM state`
	var args []interface{}
	idx := 1

	if name != "" {
		clause := fmt.Sprintf(` WHERE state_name ILIKE $%d`, idx)
		countQuery += clause
		query += clause
		args = append(args, "%"+name+"%")
		idx++
	}

	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY state_name LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*State
	for rows.Next() {
		var s State
		if err := rows.Scan(&s.ID, &s.StateName, &s.NumCode, &s.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, &s)
	}
	return out, total, nil
}

// -- District Repository --

type districtRepoPG struct {
	pool *pgxpool.Pool
}

func NewDistrictRepo(pool *pgxpool.Pool) DistrictRepository {
	return &districtRepoPG{pool: pool}
}

func (r *districtRepoPG) Create(ctx context.Context, d *District) error {
	d.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx,
		`INSERT INTO district (id, state_id, district_name, district_num_code) VALUES ($1, $2, $3, $4)`,
		d.ID, d.StateID, d.DistrictName, d.DistrictNumCode)
	return db.ClassifyError(err)
}

func (r *districtRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*District, error) {
	var d District
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT id, state_id, district_name, district_num_code, created_at FROM district WHERE id = $1`, id).
		Scan(&d.ID, &d.StateID, &d.DistrictName, &d.DistrictNumCode, &d.CreatedAt)
	if err != nil {
		return nil, db.ClassifyError(err)
	}
	return &d, nil
}

func (r *districtRepoPG) Update(ctx context.Context, d *District) error {
	tag, err := conn(ctx, r.pool).Exec(ctx,
		`UPDATE district SET state_id = $2, district_name = $3, district_num_code = $4 WHERE id = $1`,
		d.ID, d.StateID, d.DistrictName, d.DistrictNumCode)
	if err != nil {
		return db.ClassifyError(err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *districtRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM district WHERE id = $1`, id)
	if err != nil {
		return db.ClassifyDeleteError(err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *districtRepoPG) List(ctx context.Context, stateID *uuid.UUID, name string, limit, offset int) ([]*District, int, error) {
	countQuery := `SELECT COUNT(*) FROM district WHERE 1=1`
	query := `SELECT id, state_id, district_name, district_num_code, created_at FROM district WHERE 1=1`
	var args []interface{}
	idx := 1

	if stateID != nil {
		clause := fmt.Sprintf(` AND state_id = $%d`, idx)
		countQuery += clause
		query += clause
		args = append(args, *stateID)
		idx++
	}
	if name != "" {
		clause := fmt.Sprintf(` AND district_name ILIKE $%d`, idx)
		countQuery += clause
		query += clause
		args = append(args, "%"+name+"%")
		idx++
	}

	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY district_name LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*District
	for rows.Next() {
		var d District
		if err := rows.Scan(&d.ID, &d.StateID, &d.DistrictName, &d.DistrictNumCode, &d.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, &d)
	}
	return out, total, nil
}

// -- Block Repository --

type blockRepoPG struct {
	pool *pgxpool.Pool
}

func NewBlockRepo(pool *pgxpool.Pool) BlockRepository {
	return &blockRepoPG{pool: pool}
}

func (r *blockRepoPG) Create(ctx context.Context, b *Block) error {
	b.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx,
		`INSERT INTO block (id, district_id, block_name, block_num_code) VALUES ($1, $2, $3, $4)`,
		b.ID, b.DistrictID, b.BlockName, b.BlockNumCode)
	return db.ClassifyError(err)
}

func (r *blockRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Block, error) {
	var b Block
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT id, district_id, block_name, block_num_code, created_at FROM block WHERE id = $1`, id).
		Scan(&b.ID, &b.DistrictID, &b.BlockName, &b.BlockNumCode, &b.CreatedAt)
	if err != nil {
		return nil, db.ClassifyError(err)
	}
	return &b, nil
}

func (r *blockRepoPG) Update(ctx context.Context, b *Block) error {
	tag, err := conn(ctx, r.pool).Exec(ctx,
		`UPDATE block SET district_id = $2, block_name = $3, block_num_code = $4 WHERE id = $1`,
		b.ID, b.DistrictID, b.BlockName, b.BlockNumCode)
	if err != nil {
		return db.ClassifyError(err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *blockRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM block WHERE id = $1`, id)
	if err != nil {
		return db.ClassifyDeleteError(err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *blockRepoPG) List(ctx context.Context, districtID *uuid.UUID, name string, limit, offset int) ([]*Block, int, error) {
	countQuery := `SELECT COUNT(*) FROM block WHERE 1=1`
	query := `SELECT id, district_id, block_name, block_num_code, created_at FROM block WHERE 1=1`
	var args []interface{}
	idx := 1

	if districtID != nil {
		clause := fmt.Sprintf(` AND district_id = $%d`, idx)
		countQuery += clause
		query += clause
		args = append(args, *districtID)
		idx++
	}
	if name != "" {
		clause := fmt.Sprintf(` AND block_name ILIKE $%d`, idx)
		countQuery += clause
		query += clause
		args = append(args, "%"+name+"%")
		idx++
	}

	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY block_name LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*Block
	for rows.Next() {
		var b Block
		if err := rows.Scan(&b.ID, &b.DistrictID, &b.BlockName, &b.BlockNumCode, &b.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, &b)
	}
	return out, total, nil
}
