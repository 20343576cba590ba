package referral

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

// -- CaseFile Repository --

type caseFileRepoPG struct {
	pool *pgxpool.Pool
}

func NewCaseFileRepo(pool *pgxpool.Pool) CaseFileRepository {
	return &caseFileRepoPG{pool: pool}
}

const caseFileColumns = `id, patient_name, years, months, gender, patient_attendant_name,
	patient_attendant_relation, contact_number, medical_condition_id, created_at`

func (r *caseFileRepoPG) Create(ctx context.Context, cf *CaseFile) error {
	cf.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO case_file (
			id, patient_name, years, months, gender, patient_attendant_name,
			patient_attendant_relation, contact_number, medical_condition_id
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		cf.ID, cf.PatientName, cf.Years, cf.Months, cf.Gender, cf.PatientAttendantName,
		cf.PatientAttendantRelation, cf.ContactNumber, cf.MedicalConditionID,
	)
	return db.ClassifyError(err)
}

func (r *caseFileRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*CaseFile, error) {
	var cf CaseFile
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+caseFileColumns+` FROM case_file WHERE id = $1`, id).
		Scan(&cf.ID, &cf.PatientName, &cf.Years, &cf.Months, &cf.Gender, &cf.PatientAttendantName,
			&cf.PatientAttendantRelation, &cf.ContactNumber, &cf.MedicalConditionID, &cf.CreatedAt)
	if err != nil {
		return nil, db.ClassifyError(err)
	}
	return &cf, nil
}

func (r *caseFileRepoPG) Update(ctx context.Context, cf *CaseFile) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE case_file SET
			patient_name=$2, years=$3, months=$4, gender=$5, patient_attendant_name=$6,
			patient_attendant_relation=$7, contact_number=$8, medical_condition_id=$9
		WHERE id = $1`,
		cf.ID, cf.PatientName, cf.Years, cf.Months, cf.Gender, cf.PatientAttendantName,
		cf.PatientAttendantRelation, cf.ContactNumber, cf.MedicalConditionID,
	)
	if err != nil {
		return db.ClassifyError(err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *caseFileRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM case_file WHERE id = $1`, id)
	if err != nil {
		return db.ClassifyDeleteError(err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *caseFileRepoPG) List(ctx context.Context, search string, limit, offset int) ([]*CaseFile, int, error) {
	countQuery := `SELECT COUNT(*) FROM case_file`
	query := `SELECT ` + caseFileColumns + ` FROM case_file`
	var args []interface{}
	idx := 1

	if search != "" {
		clause := fmt.Sprintf(` WHERE (patient_name ILIKE $%d OR contact_number ILIKE $%d)`, idx, idx)
		countQuery += clause
		query += clause
		args = append(args, "%"+search+"%")
		idx++
	}

	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*CaseFile
	for rows.Next() {
		var cf CaseFile
		if err := rows.Scan(&cf.ID, &cf.PatientName, &cf.Years, &cf.Months, &cf.Gender,
			&cf.PatientAttendantName, &cf.PatientAttendantRelation, &cf.ContactNumber,
			&cf.MedicalConditionID, &cf.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, &cf)
	}
	return out, total, nil
}

// -- Referral Repository --

type referralRepoPG struct {
	pool *pgxpool.Pool
}

func NewReferralRepo(pool *pgxpool.Pool) ReferralRepository {
	return &referralRepoPG{pool: pool}
}

const referralColumns = `id, case_notes, referral_reason, advance_information_send,
	referred_facility_staff_informed, referred_facility_staff_informed_person_name,
	transport_mode, referred_hospital_id, source_hospital_id, datetime,
	referred_by_staff_id, site_of_demise, medical_service_unit_id, created_at`

func (r *referralRepoPG) Create(ctx context.Context, ref *Referral) error {
	ref.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO referral (
			id, case_notes, referral_reason, advance_information_send,
			referred_facility_staff_informed, referred_facility_staff_informed_person_name,
			transport_mode, referred_hospital_id, source_hospital_id, datetime,
			referred_by_staff_id, site_of_demise, medical_service_unit_id
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		ref.ID, ref.CaseNotes, ref.ReferralReason, ref.AdvanceInformationSend,
		ref.ReferredFacilityStaffInformed, ref.ReferredFacilityStaffInformedPersonName,
		ref.TransportMode, ref.ReferredHospitalID, ref.SourceHospitalID, ref.Datetime,
		ref.ReferredByStaffID, ref.SiteOfDemise, ref.MedicalServiceUnitID,
	)
	return db.ClassifyError(err)
}

func (r *referralRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Referral, error) {
	return scanReferral(conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+referralColumns+` FROM referral WHERE id = $1`, id))
}

func (r *referralRepoPG) Update(ctx context.Context, ref *Referral) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE referral SET
			case_notes=$2, referral_reason=$3, advance_information_send=$4,
			referred_facility_staff_informed=$5, referred_facility_staff_informed_person_name=$6,
			transport_mode=$7, referred_hospital_id=$8, source_hospital_id=$9, datetime=$10,
			referred_by_staff_id=$11, site_of_demise=$12, medical_service_unit_id=$13
		WHERE id = $1`,
		ref.ID, ref.CaseNotes, ref.ReferralReason, ref.AdvanceInformationSend,
		ref.ReferredFacilityStaffInformed, ref.ReferredFacilityStaffInformedPersonName,
		ref.TransportMode, ref.ReferredHospitalID, ref.SourceHospitalID, ref.Datetime,
		ref.ReferredByStaffID, ref.SiteOfDemise, ref.MedicalServiceUnitID,
	)
	if err != nil {
		return db.ClassifyError(err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *referralRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM referral WHERE id = $1`, id)
	if err != nil {
		return db.ClassifyDeleteError(err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *referralRepoPG) List(ctx context.Context, f ReferralFilters, limit, offset int) ([]*Referral, int, error) {
	countQuery := `SELECT COUNT(*) FROM referral WHERE 1=1`
	query := `SELECT ` + referralColumns + ` FROM referral WHERE 1=1`
	var args []interface{}
	idx := 1

	addEq := func(col string, val interface{}) {
		clause := fmt.Sprintf(" AND %s = $%d", col, idx)
		countQuery += clause
		query += clause
		args = append(args, val)
		idx++
	}

	if f.SourceHospitalID != nil {
		addEq("source_hospital_id", *f.SourceHospitalID)
	}
	if f.ReferredHospitalID != nil {
		addEq("referred_hospital_id", *f.ReferredHospitalID)
	}
	if f.ReferredByStaffID != nil {
		addEq("referred_by_staff_id", *f.ReferredByStaffID)
	}

	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY datetime DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, offset)

	rows, err := conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*Referral
	for rows.Next() {
		ref, err := scanReferralRow(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, ref)
	}
	return out, total, nil
}

func (r *referralRepoPG) ReplaceAttachments(ctx context.Context, referralID uuid.UUID, kind AttachmentKind, fileIDs []uuid.UUID) error {
	table, ok := attachmentTables[kind]
	if !ok {
		return fmt.Errorf("unknown attachment kind %q", kind)
	}
	q := conn(ctx, r.pool)
	if _, err := q.Exec(ctx, `DELETE FROM `+table+` WHERE referral_id = $1`, referralID); err != nil {
		return db.ClassifyError(err)
	}
	for _, fileID := range fileIDs {
		if _, err := q.Exec(ctx,
			`INSERT INTO `+table+` (referral_id, file_id) VALUES ($1, $2)`, referralID, fileID); err != nil {
			return db.ClassifyError(err)
		}
	}
	return nil
}

func (r *referralRepoPG) ListAttachments(ctx context.Context, referralID uuid.UUID, kind AttachmentKind) ([]uuid.UUID, error) {
	table, ok := attachmentTables[kind]
	if !ok {
		return nil, fmt.Errorf("unknown attachment kind %q", kind)
	}
	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT file_id FROM `+table+` WHERE referral_id = $1 ORDER BY file_id`, referralID)
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

func scanReferral(row pgx.Row) (*Referral, error) {
	var ref Referral
	err := row.Scan(
		&ref.ID, &ref.CaseNotes, &ref.ReferralReason, &ref.AdvanceInformationSend,
		&ref.ReferredFacilityStaffInformed, &ref.ReferredFacilityStaffInformedPersonName,
		&ref.TransportMode, &ref.ReferredHospitalID, &ref.SourceHospitalID, &ref.Datetime,
		&ref.ReferredByStaffID, &ref.SiteOfDemise, &ref.MedicalServiceUnitID, &ref.CreatedAt,
	)
	if err != nil {
		return nil, db.ClassifyError(err)
	}
	return &ref, nil
}

func scanReferralRow(rows pgx.Rows) (*Referral, error) {
	var ref Referral
	err := rows.Scan(
		&ref.ID, &ref.CaseNotes, &ref.ReferralReason, &ref.AdvanceInformationSend,
		&ref.ReferredFacilityStaffInformed, &ref.ReferredFacilityStaffInformedPersonName,
		&ref.TransportMode, &ref.ReferredHospitalID, &ref.SourceHospitalID, &ref.Datetime,
		&ref.ReferredByStaffID, &ref.SiteOfDemise, &ref.MedicalServiceUnitID, &ref.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

// -- CaseStatus Repository (append-only) --

type caseStatusRepoPG struct {
	pool *pgxpool.Pool
}

func NewCaseStatusRepo(pool *pgxpool.Pool) CaseStatusRepository {
	return &caseStatusRepoPG{pool: pool}
}

func (r *caseStatusRepoPG) Create(ctx context.Context, cs *CaseStatus) error {
	cs.ID = uuid.New()
	// datetime is set by the database, then read back so the caller sees it.
	err := conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO case_status (id, case_file_id, status, medical_condition, note, side_of_demise, referral_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING datetime`,
		cs.ID, cs.CaseFileID, cs.Status, cs.MedicalCondition, cs.Note, cs.SideOfDemise, cs.ReferralID,
	).Scan(&cs.Datetime)
	return db.ClassifyError(err)
}

func (r *caseStatusRepoPG) ListByCaseFile(ctx context.Context, caseFileID uuid.UUID) ([]*CaseStatus, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT id, case_file_id, status, datetime, medical_condition, note, side_of_demise, referral_id
		FROM case_status WHERE case_file_id = $1 ORDER BY datetime`, caseFileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*CaseStatus
	for rows.Next() {
		var cs CaseStatus
		if err := rows.Scan(&cs.ID, &cs.CaseFileID, &cs.Status, &cs.Datetime,
			&cs.MedicalCondition, &cs.Note, &cs.SideOfDemise, &cs.ReferralID); err != nil {
			return nil, err
		}
		out = append(out, &cs)
	}
	return out, nil
}

// -- FollowUp Repository --

type followUpRepoPG struct {
	pool *pgxpool.Pool
}

func NewFollowUpRepo(pool *pgxpool.Pool) FollowUpRepository {
	return &followUpRepoPG{pool: pool}
}

const followUpColumns = `id, referral_id, caller_staff_id, call_date, call_answered,
	call_not_answered_reason, case_location, support_required, support_notes,
	grievance_reported, grievance_notes, call_close_time, patient_status, created_at`

func (r *followUpRepoPG) Create(ctx context.Context, f *CaseFollowUp) error {
	f.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO case_follow_up (
			id, referral_id, caller_staff_id, call_date, call_answered,
			call_not_answered_reason, case_location, support_required, support_notes,
			grievance_reported, grievance_notes, call_close_time, patient_status
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		f.ID, f.ReferralID, f.CallerStaffID, f.CallDate, f.CallAnswered,
		f.CallNotAnsweredReason, f.CaseLocation, f.SupportRequired, f.SupportNotes,
		f.GrievanceReported, f.GrievanceNotes, f.CallCloseTime, f.PatientStatus,
	)
	return db.ClassifyError(err)
}

func (r *followUpRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*CaseFollowUp, error) {
	var f CaseFollowUp
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+followUpColumns+` FROM case_follow_up WHERE id = $1`, id).
		Scan(&f.ID, &f.ReferralID, &f.CallerStaffID, &f.CallDate, &f.CallAnswered,
			&f.CallNotAnsweredReason, &f.CaseLocation, &f.SupportRequired, &f.SupportNotes,
			&f.GrievanceReported, &f.GrievanceNotes, &f.CallCloseTime, &f.PatientStatus, &f.CreatedAt)
	if err != nil {
		return nil, db.ClassifyError(err)
	}
	return &f, nil
}

func (r *followUpRepoPG) ListByReferral(ctx context.Context, referralID uuid.UUID) ([]*CaseFollowUp, error) {
	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT `+followUpColumns+` FROM case_follow_up WHERE referral_id = $1 ORDER BY call_date`, referralID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*CaseFollowUp
	for rows.Next() {
		var f CaseFollowUp
		if err := rows.Scan(&f.ID, &f.ReferralID, &f.CallerStaffID, &f.CallDate, &f.CallAnswered,
			&f.CallNotAnsweredReason, &f.CaseLocation, &f.SupportRequired, &f.SupportNotes,
			&f.GrievanceReported, &f.GrievanceNotes, &f.CallCloseTime, &f.PatientStatus, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &f)
	}
	return out, nil
}

// -- File Repository --

type fileRepoPG struct {
	pool *pgxpool.Pool
}

func NewFileRepo(pool *pgxpool.Pool) FileRepository {
	return &fileRepoPG{pool: pool}
}

func (r *fileRepoPG) Create(ctx context.Context, f *File) error {
	f.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx,
		`INSERT INTO file (id, blob_ref, file_name, content_type) VALUES ($1,$2,$3,$4)`,
		f.ID, f.BlobRef, f.FileName, f.ContentType)
	return db.ClassifyError(err)
}

func (r *fileRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*File, error) {
	var f File
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT id, blob_ref, file_name, content_type, created_at FROM file WHERE id = $1`, id).
		Scan(&f.ID, &f.BlobRef, &f.FileName, &f.ContentType, &f.CreatedAt)
	if err != nil {
		return nil, db.ClassifyError(err)
	}
	return &f, nil
}

func (r *fileRepoPG) ExistingIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	existing := make(map[uuid.UUID]bool, len(ids))
	if len(ids) == 0 {
		return existing, nil
	}
	rows, err := conn(ctx, r.pool).Query(ctx, `SELECT id FROM file WHERE id = ANY($1)`, ids)
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
