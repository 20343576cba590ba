package hospital

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

// -- Hospital Repository --

type hospitalRepoPG struct {
	pool *pgxpool.Pool
}

func NewHospitalRepo(pool *pgxpool.Pool) HospitalRepository {
	return &hospitalRepoPG{pool: pool}
}

const hospitalColumns = `id, hospital_name, hospital_id, hospital_type_id, setting, contact_number,
	email, picture, hospital_description, ownership, empanelment_id, org_facility_id,
	state_id, district_id, block_id, city_or_village, address, geo_lat, geo_long, geo_alt,
	status, higher_facility, delivery_point, training_institute, fru, sncu, nbsu,
	created_at, updated_at`

func (r *hospitalRepoPG) Create(ctx context.Context, h *Hospital) error {
	h.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO hospital (
			id, hospital_name, hospital_id, hospital_type_id, setting, contact_number,
			email, picture, hospital_description, ownership, empanelment_id, org_facility_id,
			state_id, district_id, block_id, city_or_village, address, geo_lat, geo_long, geo_alt,
			status, higher_facility, delivery_point, training_institute, fru, sncu, nbsu
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27)`,
		h.ID, h.HospitalName, h.HospitalID, h.HospitalTypeID, h.Setting, h.ContactNumber,
		h.Email, h.Picture, h.HospitalDescription, h.Ownership, h.EmpanelmentID, h.OrgFacilityID,
		h.StateID, h.DistrictID, h.BlockID, h.CityOrVillage, h.Address, h.GeoLat, h.GeoLong, h.GeoAlt,
		h.Status, h.HigherFacility, h.DeliveryPoint, h.TrainingInstitute, h.FRU, h.SNCU, h.NBSU,
	)
	return db.ClassifyError(err)
}

func (r *hospitalRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Hospital, error) {
	return scanHospital(conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+hospitalColumns+` FROM hospital WHERE id = $1`, id))
}

func (r *hospitalRepoPG) Update(ctx context.Context, h *Hospital) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE hospital SET
			hospital_name=$2, hospital_id=$3, hospital_type_id=$4, setting=$5, contact_number=$6,
			email=$7, picture=$8, hospital_description=$9, ownership=$10, empanelment_id=$11,
			org_facility_id=$12, state_id=$13, district_id=$14, block_id=$15, city_or_village=$16,
			address=$17, geo_lat=$18, geo_long=$19, geo_alt=$20, status=$21, higher_facility=$22,
			delivery_point=$23, training_institute=$24, fru=$25, sncu=$26, nbsu=$27, updated_at=NOW()
		WHERE id = $1`,
		h.ID, h.HospitalName, h.HospitalID, h.HospitalTypeID, h.Setting, h.ContactNumber,
		h.Email, h.Picture, h.HospitalDescription, h.Ownership, h.EmpanelmentID,
		h.OrgFacilityID, h.StateID, h.DistrictID, h.BlockID, h.CityOrVillage,
		h.Address, h.GeoLat, h.GeoLong, h.GeoAlt, h.Status, h.HigherFacility,
		h.DeliveryPoint, h.TrainingInstitute, h.FRU, h.SNCU, h.NBSU,
	)
	if err != nil {
		return db.ClassifyError(err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *hospitalRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM hospital WHERE id = $1`, id)
	if err != nil {
		return db.ClassifyDeleteError(err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *hospitalRepoPG) List(ctx context.Context, f ListFilters, limit, offset int) ([]*Hospital, int, error) {
	countQuery := `SELECT COUNT(*) FROM hospital WHERE 1=1`
	query := `SELECT ` + hospitalColumns + ` FROM hospital WHERE 1=1`
	var args []interface{}
	idx := 1

	addEq := func(col string, val interface{}) {
		clause := fmt.Sprintf(" AND %s = $%d", col, idx)
		countQuery += clause
		query += clause
		args = append(args, val)
		idx++
	}

	if f.Status != "" {
		addEq("status", f.Status)
	}
	if f.Setting != "" {
		addEq("setting", f.Setting)
	}
	if f.Ownership != "" {
		addEq("ownership", f.Ownership)
	}
	if f.StateID != nil {
		addEq("state_id", *f.StateID)
	}
	if f.DistrictID != nil {
		addEq("district_id", *f.DistrictID)
	}
	if f.BlockID != nil {
		addEq("block_id", *f.BlockID)
	}
	if f.CityOrVillage != "" {
		addEq("city_or_village", f.CityOrVillage)
	}
	if f.Name != "" {
		clause := fmt.Sprintf(" AND hospital_name ILIKE $%d", idx)
		countQuery += clause
		query += clause
		args = append(args, "%"+f.Name+"%")
		idx++
	}

	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY hospital_name LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, offset)

	rows, err := conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*Hospital
	for rows.Next() {
		h, err := scanHospitalRow(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, h)
	}
	return out, total, nil
}

// ReplaceMSUs swaps the whole association set. Callers run it inside the same
// transaction as the parent write so a failure rolls everything back.
func (r *hospitalRepoPG) ReplaceMSUs(ctx context.Context, hospitalID uuid.UUID, msuIDs []uuid.UUID) error {
	q := conn(ctx, r.pool)
	if _, err := q.Exec(ctx,
		`DELETE FROM hospital_medical_service_unit WHERE hospital_id = $1`, hospitalID); err != nil {
		return db.ClassifyError(err)
	}
	for _, msuID := range msuIDs {
		if _, err := q.Exec(ctx,
			`INSERT INTO hospital_medical_service_unit (hospital_id, msu_id) VALUES ($1, $2)`,
			hospitalID, msuID); err != nil {
			return db.ClassifyError(err)
		}
	}
	return nil
}

const msuLinkColumns = `hospital_id, msu_id, msu_services, bed_count, contact_number, empanelments`

func (r *hospitalRepoPG) ListMSUs(ctx context.Context, hospitalID uuid.UUID) ([]*HospitalMedicalServiceUnit, error) {
	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT `+msuLinkColumns+` FROM hospital_medical_service_unit WHERE hospital_id = $1 ORDER BY msu_id`,
		hospitalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*HospitalMedicalServiceUnit
	for rows.Next() {
		var l HospitalMedicalServiceUnit
		if err := rows.Scan(&l.HospitalID, &l.MSUID, &l.MSUServices, &l.BedCount, &l.ContactNumber, &l.Empanelments); err != nil {
			return nil, err
		}
		out = append(out, &l)
	}
	return out, nil
}

func (r *hospitalRepoPG) GetMSULink(ctx context.Context, hospitalID, msuID uuid.UUID) (*HospitalMedicalServiceUnit, error) {
	var l HospitalMedicalServiceUnit
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+msuLinkColumns+` FROM hospital_medical_service_unit WHERE hospital_id = $1 AND msu_id = $2`,
		hospitalID, msuID).
		Scan(&l.HospitalID, &l.MSUID, &l.MSUServices, &l.BedCount, &l.ContactNumber, &l.Empanelments)
	if err != nil {
		return nil, db.ClassifyError(err)
	}
	return &l, nil
}

func (r *hospitalRepoPG) UpdateMSULink(ctx context.Context, link *HospitalMedicalServiceUnit) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE hospital_medical_service_unit SET
			msu_services=$3, bed_count=$4, contact_number=$5, empanelments=$6
		WHERE hospital_id = $1 AND msu_id = $2`,
		link.HospitalID, link.MSUID, link.MSUServices, link.BedCount, link.ContactNumber, link.Empanelments,
	)
	if err != nil {
		return db.ClassifyError(err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func scanHospital(row pgx.Row) (*Hospital, error) {
	var h Hospital
	err := row.Scan(
		&h.ID, &h.HospitalName, &h.HospitalID, &h.HospitalTypeID, &h.Setting, &h.ContactNumber,
		&h.Email, &h.Picture, &h.HospitalDescription, &h.Ownership, &h.EmpanelmentID, &h.OrgFacilityID,
		&h.StateID, &h.DistrictID, &h.BlockID, &h.CityOrVillage, &h.Address, &h.GeoLat, &h.GeoLong, &h.GeoAlt,
		&h.Status, &h.HigherFacility, &h.DeliveryPoint, &h.TrainingInstitute, &h.FRU, &h.SNCU, &h.NBSU,
		&h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		return nil, db.ClassifyError(err)
	}
	return &h, nil
}

func scanHospitalRow(rows pgx.Rows) (*Hospital, error) {
	var h Hospital
	err := rows.Scan(
		&h.ID, &h.HospitalName, &h.HospitalID, &h.HospitalTypeID, &h.Setting, &h.ContactNumber,
		&h.Email, &h.Picture, &h.HospitalDescription, &h.Ownership, &h.EmpanelmentID, &h.OrgFacilityID,
		&h.StateID, &h.DistrictID, &h.BlockID, &h.CityOrVillage, &h.Address, &h.GeoLat, &h.GeoLong, &h.GeoAlt,
		&h.Status, &h.HigherFacility, &h.DeliveryPoint, &h.TrainingInstitute, &h.FRU, &h.SNCU, &h.NBSU,
		&h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// -- MSU Repository --

type msuRepoPG struct {
	pool *pgxpool.Pool
}

func NewMSURepo(pool *pgxpool.Pool) MSURepository {
	return &msuRepoPG{pool: pool}
}

func (r *msuRepoPG) Create(ctx context.Context, m *MedicalServiceUnit) error {
	m.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO medical_service_unit (id, msu_name, msu_picture, msu_description, msu_department, status)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		m.ID, m.MSUName, m.MSUPicture, m.MSUDescription, m.MSUDepartment, m.Status,
	)
	return db.ClassifyError(err)
}

func (r *msuRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*MedicalServiceUnit, error) {
	var m MedicalServiceUnit
	err := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT id, msu_name, msu_picture, msu_description, msu_department, status, created_at
		FROM medical_service_unit WHERE id = $1`, id).
		Scan(&m.ID, &m.MSUName, &m.MSUPicture, &m.MSUDescription, &m.MSUDepartment, &m.Status, &m.CreatedAt)
	if err != nil {
		return nil, db.ClassifyError(err)
	}
	return &m, nil
}

func (r *msuRepoPG) Update(ctx context.Context, m *MedicalServiceUnit) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE medical_service_unit SET
			msu_name=$2, msu_picture=$3, msu_description=$4, msu_department=$5, status=$6
		WHERE id = $1`,
		m.ID, m.MSUName, m.MSUPicture, m.MSUDescription, m.MSUDepartment, m.Status,
	)
	if err != nil {
		return db.ClassifyError(err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *msuRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM medical_service_unit WHERE id = $1`, id)
	if err != nil {
		return db.ClassifyDeleteError(err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *msuRepoPG) List(ctx context.Context, name string, limit, offset int) ([]*MedicalServiceUnit, int, error) {
	countQuery := `SELECT COUNT(*) FROM medical_service_unit`
	query := `SELECT id, msu_name, msu_picture, msu_description, msu_department, status, created_at
		FROM medical_service_unit`
	var args []interface{}
	idx := 1

	if name != "" {
		clause := fmt.Sprintf(` WHERE msu_name ILIKE $%d`, idx)
		countQuery += clause
		query += clause
		args = append(args, "%"+name+"%")
		idx++
	}

	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY msu_name LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*MedicalServiceUnit
	for rows.Next() {
		var m MedicalServiceUnit
		if err := rows.Scan(&m.ID, &m.MSUName, &m.MSUPicture, &m.MSUDescription, &m.MSUDepartment, &m.Status, &m.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, &m)
	}
	return out, total, nil
}

func (r *msuRepoPG) ExistingIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	existing := make(map[uuid.UUID]bool, len(ids))
	if len(ids) == 0 {
		return existing, nil
	}
	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT id FROM medical_service_unit WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		existing[id] = true
	}
	return existing, nil
}

// -- Incharge Repository --

type inchargeRepoPG struct {
	pool *pgxpool.Pool
}

func NewInchargeRepo(pool *pgxpool.Pool) InchargeRepository {
	return &inchargeRepoPG{pool: pool}
}

func (r *inchargeRepoPG) Add(ctx context.Context, hi *HospitalIncharge) error {
	hi.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO hospital_incharge (id, hospital_id, staff_user_id, incharge_role_id)
		VALUES ($1,$2,$3,$4)`,
		hi.ID, hi.HospitalID, hi.StaffUserID, hi.InchargeRoleID,
	)
	return db.ClassifyError(err)
}

func (r *inchargeRepoPG) ListByHospital(ctx context.Context, hospitalID uuid.UUID) ([]*HospitalIncharge, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT id, hospital_id, staff_user_id, incharge_role_id, created_at
		FROM hospital_incharge WHERE hospital_id = $1 ORDER BY created_at`, hospitalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*HospitalIncharge
	for rows.Next() {
		var hi HospitalIncharge
		if err := rows.Scan(&hi.ID, &hi.HospitalID, &hi.StaffUserID, &hi.InchargeRoleID, &hi.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &hi)
	}
	return out, nil
}

func (r *inchargeRepoPG) Remove(ctx context.Context, hospitalID, inchargeID uuid.UUID) error {
	tag, err := conn(ctx, r.pool).Exec(ctx,
		`DELETE FROM hospital_incharge WHERE hospital_id = $1 AND id = $2`, hospitalID, inchargeID)
	if err != nil {
		return db.ClassifyDeleteError(err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}
