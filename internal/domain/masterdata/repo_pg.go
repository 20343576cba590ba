package masterdata

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reftrack/reftrack/internal/platform/db"
)

// queryable abstracts pgxpool.Pool, pgxpool.Conn, and pgx.Tx.
type queryable interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// -- Lookup Repository --

type lookupRepoPG struct {
	pool *pgxpool.Pool
}

func NewLookupRepo(pool *pgxpool.Pool) LookupRepository {
	return &lookupRepoPG{pool: pool}
}

func (r *lookupRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

// table resolves the backing table for a kind. Kinds come from the fixed
// lookupTables map, so interpolating the name into SQL is safe.
func table(kind LookupKind) (string, error) {
	t, ok := lookupTables[kind]
	if !ok {
		return "", fmt.Errorf("unknown lookup kind %q", kind)
	}
	return t, nil
}

func (r *lookupRepoPG) Create(ctx context.Context, kind LookupKind, row *Lookup) error {
	t, err := table(kind)
	if err != nil {
		return err
	}
	row.ID = uuid.New()
	_, err = r.conn(ctx).Exec(ctx,
		`INSERT INTO `+t+` (id, name) VALUES ($1, $2)`, row.ID, row.Name)
	return db.ClassifyError(err)
}

func (r *lookupRepoPG) GetByID(ctx context.Context, kind LookupKind, id uuid.UUID) (*Lookup, error) {
	t, err := table(kind)
	if err != nil {
		return nil, err
	}
	var l Lookup
	err = r.conn(ctx).QueryRow(ctx,
		`SELECT id, name, created_at FROM `+t+` WHERE id = $1`, id).
		Scan(&l.ID, &l.Name, &l.CreatedAt)
	if err != nil {
		return nil, db.ClassifyError(err)
	}
	return &l, nil
}

func (r *lookupRepoPG) Update(ctx context.Context, kind LookupKind, row *Lookup) error {
	t, err := table(kind)
	if err != nil {
		return err
	}
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE `+t+` SET name = $2 WHERE id = $1`, row.ID, row.Name)
	if err != nil {
		return db.ClassifyError(err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *lookupRepoPG) Delete(ctx context.Context, kind LookupKind, id uuid.UUID) error {
	t, err := table(kind)
	if err != nil {
		return err
	}
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM `+t+` WHERE id = $1`, id)
	if err != nil {
		return db.ClassifyDeleteError(err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *lookupRepoPG) List(ctx context.Context, kind LookupKind, name string, limit, offset int) ([]*Lookup, int, error) {
	t, err := table(kind)
	if err != nil {
		return nil, 0, err
	}

	countQuery := `SELECT COUNT(*) FROM ` + t
	query := `SELECT id, name, created_at FROM ` + t
	var args []interface{}
	idx := 1

	if name != "" {
		clause := fmt.Sprintf(` WHERE name ILIKE $%d`, idx)
		countQuery += clause
		query += clause
		args = append(args, "%"+name+"%")
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY name LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*Lookup
	for rows.Next() {
		var l Lookup
		if err := rows.Scan(&l.ID, &l.Name, &l.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, &l)
	}
	return out, total, nil
}

// -- MedicalCondition Repository --

type conditionRepoPG struct {
	pool *pgxpool.Pool
}

func NewMedicalConditionRepo(pool *pgxpool.Pool) MedicalConditionRepository {
	return &conditionRepoPG{pool: pool}
}

func (r *conditionRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const conditionColumns = `id, icd, name, head_name, sub_head_name, diagnosis, status, created_at`

func (r *conditionRepoPG) Create(ctx context.Context, mc *MedicalCondition) error {
	mc.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO medical_condition (id, icd, name, head_name, sub_head_name, diagnosis, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		mc.ID, mc.ICD, mc.Name, mc.HeadName, mc.SubHeadName, mc.Diagnosis, mc.Status,
	)
	return db.ClassifyError(err)
}

func (r *conditionRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*MedicalCondition, error) {
	return r.scanCondition(r.conn(ctx).QueryRow(ctx,
		`SELECT `+conditionColumns+` FROM medical_condition WHERE id = $1`, id))
}

func (r *conditionRepoPG) Update(ctx context.Context, mc *MedicalCondition) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE medical_condition SET
			icd=$2, name=$3, head_name=$4, sub_head_name=$5, diagnosis=$6, status=$7
		WHERE id = $1`,
		mc.ID, mc.ICD, mc.Name, mc.HeadName, mc.SubHeadName, mc.Diagnosis, mc.Status,
	)
	if err != nil {
		return db.ClassifyError(err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *conditionRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM medical_condition WHERE id = $1`, id)
	if err != nil {
		return db.ClassifyDeleteError(err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *conditionRepoPG) List(ctx context.Context, search string, limit, offset int) ([]*MedicalCondition, int, error) {
	countQuery := `SELECT COUNT(*) FROM medical_condition`
	query := `SELECT ` + conditionColumns + ` FROM medical_condition`
	var args []interface{}
	idx := 1

	if search != "" {
		clause := fmt.Sprintf(` WHERE (name ILIKE $%d OR icd ILIKE $%d)`, idx, idx)
		countQuery += clause
		query += clause
		args = append(args, "%"+search+"%")
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY icd LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*MedicalCondition
	for rows.Next() {
		var m MedicalCondition
		if err := rows.Scan(&m.ID, &m.ICD, &m.Name, &m.HeadName, &m.SubHeadName, &m.Diagnosis, &m.Status, &m.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, &m)
	}
	return out, total, nil
}

func (r *conditionRepoPG) scanCondition(row pgx.Row) (*MedicalCondition, error) {
	var m MedicalCondition
	err := row.Scan(&m.ID, &m.ICD, &m.Name, &m.HeadName, &m.SubHeadName, &m.Diagnosis, &m.Status, &m.CreatedAt)
	if err != nil {
		return nil, db.ClassifyError(err)
	}
	return &m, nil
}
