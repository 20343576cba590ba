package staff

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

// -- Staff Repository --

type staffRepoPG struct {
	pool *pgxpool.Pool
}

func NewStaffRepo(pool *pgxpool.Pool) StaffRepository {
	return &staffRepoPG{pool: pool}
}

const staffColumns = `id, full_name, salutations, staff_user_id, email, password_hash,
	mobile_number, profile_picture, gender, dob, blood_group, emergency_contact_number,
	medical_service_unit_id, work_role_id, work_status, service_joining_year, employer_id,
	service_status, service_cadre_id, speciality_id, place_of_posting_hospital_id,
	position_id, sign_in_status, status, unit_incharge, unit_nursing_incharge,
	role, is_active, is_staff, created_at, updated_at`

func (r *staffRepoPG) Create(ctx context.Context, u *StaffUser) error {
	u.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO staff_user (
			id, full_name, salutations, staff_user_id, email, password_hash,
			mobile_number, profile_picture, gender, dob, blood_group, emergency_contact_number,
			medical_service_unit_id, work_role_id, work_status, service_joining_year, employer_id,
			service_status, service_cadre_id, speciality_id, place_of_posting_hospital_id,
			position_id, sign_in_status, status, unit_incharge, unit_nursing_incharge,
			role, is_active, is_staff
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27,$28,$29)`,
		u.ID, u.FullName, u.Salutations, u.StaffUserID, u.Email, u.PasswordHash,
		u.MobileNumber, u.ProfilePicture, u.Gender, u.DOB, u.BloodGroup, u.EmergencyContactNumber,
		u.MedicalServiceUnitID, u.WorkRoleID, u.WorkStatus, u.ServiceJoiningYear, u.EmployerID,
		u.ServiceStatus, u.ServiceCadreID, u.SpecialityID, u.PlaceOfPostingHospitalID,
		u.PositionID, u.SignInStatus, u.Status, u.UnitIncharge, u.UnitNursingIncharge,
		u.Role, u.IsActive, u.IsStaff,
	)
	return db.ClassifyError(err)
}

func (r *staffRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*StaffUser, error) {
	return scanStaff(conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+staffColumns+` FROM staff_user WHERE id = $1`, id))
}

func (r *staffRepoPG) GetByEmail(ctx context.Context, email string) (*StaffUser, error) {
	return scanStaff(conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+staffColumns+` FROM staff_user WHERE email = $1`, email))
}

func (r *staffRepoPG) Update(ctx context.Context, u *StaffUser) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE staff_user SET
			full_name=$2, salutations=$3, staff_user_id=$4, email=$5, password_hash=$6,
			mobile_number=$7, profile_picture=$8, gender=$9, dob=$10, blood_group=$11,
			emergency_contact_number=$12, medical_service_unit_id=$13, work_role_id=$14,
			work_status=$15, service_joining_year=$16, employer_id=$17, service_status=$18,
			service_cadre_id=$19, speciality_id=$20, place_of_posting_hospital_id=$21,
			position_id=$22, sign_in_status=$23, status=$24, unit_incharge=$25,
			unit_nursing_incharge=$26, role=$27, is_active=$28, is_staff=$29, updated_at=NOW()
		WHERE id = $1`,
		u.ID, u.FullName, u.Salutations, u.StaffUserID, u.Email, u.PasswordHash,
		u.MobileNumber, u.ProfilePicture, u.Gender, u.DOB, u.BloodGroup,
		u.EmergencyContactNumber, u.MedicalServiceUnitID, u.WorkRoleID,
		u.WorkStatus, u.ServiceJoiningYear, u.EmployerID, u.ServiceStatus,
		u.ServiceCadreID, u.SpecialityID, u.PlaceOfPostingHospitalID,
		u.PositionID, u.SignInStatus, u.Status, u.UnitIncharge,
		u.UnitNursingIncharge, u.Role, u.IsActive, u.IsStaff,
	)
	if err != nil {
		return db.ClassifyError(err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *staffRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM staff_user WHERE id = $1`, id)
	if err != nil {
		return db.ClassifyDeleteError(err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *staffRepoPG) List(ctx context.Context, f ListFilters, limit, offset int) ([]*StaffUser, int, error) {
	countQuery := `SELECT COUNT(*) FROM staff_user WHERE 1=1`
	query := `SELECT ` + staffColumns + ` FROM staff_user WHERE 1=1`
	var args []interface{}
	idx := 1

	addEq := func(col string, val interface{}) {
		clause := fmt.Sprintf(" AND %s = $%d", col, idx)
		countQuery += clause
		query += clause
		args = append(args, val)
		idx++
	}

	if f.Role != "" {
		addEq("role", f.Role)
	}
	if f.WorkStatus != "" {
		addEq("work_status", f.WorkStatus)
	}
	if f.PlaceOfPostingHospitalID != nil {
		addEq("place_of_posting_hospital_id", *f.PlaceOfPostingHospitalID)
	}
	if f.MedicalServiceUnitID != nil {
		addEq("medical_service_unit_id", *f.MedicalServiceUnitID)
	}
	if f.Search != "" {
		clause := fmt.Sprintf(" AND (full_name ILIKE $%d OR email ILIKE $%d OR staff_user_id ILIKE $%d)", idx, idx, idx)
		countQuery += clause
		query += clause
		args = append(args, "%"+f.Search+"%")
		idx++
	}

	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY full_name NULLS LAST LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, offset)

	rows, err := conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*StaffUser
	for rows.Next() {
		u, err := scanStaffRow(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	return out, total, nil
}

func scanStaff(row pgx.Row) (*StaffUser, error) {
	var u StaffUser
	err := row.Scan(
		&u.ID, &u.FullName, &u.Salutations, &u.StaffUserID, &u.Email, &u.PasswordHash,
		&u.MobileNumber, &u.ProfilePicture, &u.Gender, &u.DOB, &u.BloodGroup, &u.EmergencyContactNumber,
		&u.MedicalServiceUnitID, &u.WorkRoleID, &u.WorkStatus, &u.ServiceJoiningYear, &u.EmployerID,
		&u.ServiceStatus, &u.ServiceCadreID, &u.SpecialityID, &u.PlaceOfPostingHospitalID,
		&u.PositionID, &u.SignInStatus, &u.Status, &u.UnitIncharge, &u.UnitNursingIncharge,
		&u.Role, &u.IsActive, &u.IsStaff, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, db.ClassifyError(err)
	}
	return &u, nil
}

func scanStaffRow(rows pgx.Rows) (*StaffUser, error) {
	var u StaffUser
	err := rows.Scan(
		&u.ID, &u.FullName, &u.Salutations, &u.StaffUserID, &u.Email, &u.PasswordHash,
		&u.MobileNumber, &u.ProfilePicture, &u.Gender, &u.DOB, &u.BloodGroup, &u.EmergencyContactNumber,
		&u.MedicalServiceUnitID, &u.WorkRoleID, &u.WorkStatus, &u.ServiceJoiningYear, &u.EmployerID,
		&u.ServiceStatus, &u.ServiceCadreID, &u.SpecialityID, &u.PlaceOfPostingHospitalID,
		&u.PositionID, &u.SignInStatus, &u.Status, &u.UnitIncharge, &u.UnitNursingIncharge,
		&u.Role, &u.IsActive, &u.IsStaff, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// -- Association Repository --

type assocRepoPG struct {
	pool *pgxpool.Pool
}

func NewAssociationRepo(pool *pgxpool.Pool) AssociationRepository {
	return &assocRepoPG{pool: pool}
}

func (r *assocRepoPG) add(ctx context.Context, table, otherCol string, staffID, otherID uuid.UUID) error {
	_, err := conn(ctx, r.pool).Exec(ctx,
		`INSERT INTO `+table+` (staff_user_id, `+otherCol+`) VALUES ($1, $2)`, staffID, otherID)
	return db.ClassifyError(err)
}

func (r *assocRepoPG) list(ctx context.Context, table, otherCol string, staffID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT `+otherCol+` FROM `+table+` WHERE staff_user_id = $1 ORDER BY `+otherCol, staffID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func (r *assocRepoPG) remove(ctx context.Context, table, otherCol string, staffID, otherID uuid.UUID) error {
	tag, err := conn(ctx, r.pool).Exec(ctx,
		`DELETE FROM `+table+` WHERE staff_user_id = $1 AND `+otherCol+` = $2`, staffID, otherID)
	if err != nil {
		return db.ClassifyDeleteError(err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *assocRepoPG) AddExpertise(ctx context.Context, staffID, keywordID uuid.UUID) error {
	return r.add(ctx, "staff_user_expertise", "expert_keyword_id", staffID, keywordID)
}

func (r *assocRepoPG) ListExpertise(ctx context.Context, staffID uuid.UUID) ([]uuid.UUID, error) {
	return r.list(ctx, "staff_user_expertise", "expert_keyword_id", staffID)
}

func (r *assocRepoPG) RemoveExpertise(ctx context.Context, staffID, keywordID uuid.UUID) error {
	return r.remove(ctx, "staff_user_expertise", "expert_keyword_id", staffID, keywordID)
}

func (r *assocRepoPG) AddInchargeRole(ctx context.Context, staffID, roleID uuid.UUID) error {
	return r.add(ctx, "staff_user_incharge_role", "incharge_role_id", staffID, roleID)
}

func (r *assocRepoPG) ListInchargeRoles(ctx context.Context, staffID uuid.UUID) ([]uuid.UUID, error) {
	return r.list(ctx, "staff_user_incharge_role", "incharge_role_id", staffID)
}

func (r *assocRepoPG) RemoveInchargeRole(ctx context.Context, staffID, roleID uuid.UUID) error {
	return r.remove(ctx, "staff_user_incharge_role", "incharge_role_id", staffID, roleID)
}

func (r *assocRepoPG) AddSavedHospital(ctx context.Context, staffID, hospitalID uuid.UUID) error {
	return r.add(ctx, "staff_user_saved_hospital", "hospital_id", staffID, hospitalID)
}

func (r *assocRepoPG) ListSavedHospitals(ctx context.Context, staffID uuid.UUID) ([]uuid.UUID, error) {
	return r.list(ctx, "staff_user_saved_hospital", "hospital_id", staffID)
}

func (r *assocRepoPG) RemoveSavedHospital(ctx context.Context, staffID, hospitalID uuid.UUID) error {
	return r.remove(ctx, "staff_user_saved_hospital", "hospital_id", staffID, hospitalID)
}

func (r *assocRepoPG) AddSavedExpert(ctx context.Context, staffID, expertID uuid.UUID) error {
	return r.add(ctx, "staff_user_saved_expert", "expert_staff_user_id", staffID, expertID)
}

func (r *assocRepoPG) ListSavedExperts(ctx context.Context, staffID uuid.UUID) ([]uuid.UUID, error) {
	return r.list(ctx, "staff_user_saved_expert", "expert_staff_user_id", staffID)
}

func (r *assocRepoPG) RemoveSavedExpert(ctx context.Context, staffID, expertID uuid.UUID) error {
	return r.remove(ctx, "staff_user_saved_expert", "expert_staff_user_id", staffID, expertID)
}

// -- Education Repository --

type educationRepoPG struct {
	pool *pgxpool.Pool
}

func NewEducationRepo(pool *pgxpool.Pool) EducationRepository {
	return &educationRepoPG{pool: pool}
}

func (r *educationRepoPG) Add(ctx context.Context, e *StaffUserEducation) error {
	e.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO staff_user_education (id, staff_user_id, program, passing_year, training_provider_id, attachment)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		e.ID, e.StaffUserID, e.Program, e.PassingYear, e.TrainingProviderID, e.Attachment,
	)
	return db.ClassifyError(err)
}

func (r *educationRepoPG) ListByStaff(ctx context.Context, staffID uuid.UUID) ([]*StaffUserEducation, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT id, staff_user_id, program, passing_year, training_provider_id, attachment, created_at
		FROM staff_user_education WHERE staff_user_id = $1 ORDER BY passing_year`, staffID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*StaffUserEducation
	for rows.Next() {
		var e StaffUserEducation
		if err := rows.Scan(&e.ID, &e.StaffUserID, &e.Program, &e.PassingYear, &e.TrainingProviderID, &e.Attachment, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, nil
}

func (r *educationRepoPG) Remove(ctx context.Context, staffID, educationID uuid.UUID) error {
	tag, err := conn(ctx, r.pool).Exec(ctx,
		`DELETE FROM staff_user_education WHERE staff_user_id = $1 AND id = $2`, staffID, educationID)
	if err != nil {
		return db.ClassifyDeleteError(err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}
