package staff

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type StaffUser struct {
	ID                       uuid.UUID  `json:"id" db:"id"`
	FullName                 *string    `json:"full_name,omitempty" db:"full_name"`
	Salutations              *string    `json:"salutations,omitempty" db:"salutations"`
	StaffUserID              string     `json:"staff_user_id" db:"staff_user_id"`
	Email                    string     `json:"email" db:"email"`
	PasswordHash             string     `json:"-" db:"password_hash"`
	MobileNumber             *string    `json:"mobile_number,omitempty" db:"mobile_number"`
	ProfilePicture           *string    `json:"profile_picture,omitempty" db:"profile_picture"`
	Gender                   *string    `json:"gender,omitempty" db:"gender"`
	DOB                      *time.Time `json:"dob,omitempty" db:"dob"`
	BloodGroup               *string    `json:"blood_group,omitempty" db:"blood_group"`
	EmergencyContactNumber   *string    `json:"emergency_contact_number,omitempty" db:"emergency_contact_number"`
	MedicalServiceUnitID     *uuid.UUID `json:"medical_service_unit_id,omitempty" db:"medical_service_unit_id"`
	WorkRoleID               *uuid.UUID `json:"work_role_id,omitempty" db:"work_role_id"`
	WorkStatus               *string    `json:"work_status,omitempty" db:"work_status"`
	ServiceJoiningYear       *int       `json:"service_joining_year,omitempty" db:"service_joining_year"`
	EmployerID               *uuid.UUID `json:"employer_id,omitempty" db:"employer_id"`
	ServiceStatus            *string    `json:"service_status,omitempty" db:"service_status"`
	ServiceCadreID           *uuid.UUID `json:"service_cadre_id,omitempty" db:"service_cadre_id"`
	SpecialityID             *uuid.UUID `json:"speciality_id,omitempty" db:"speciality_id"`
	PlaceOfPostingHospitalID *uuid.UUID `json:"place_of_posting_hospital_id,omitempty" db:"place_of_posting_hospital_id"`
	PositionID               *uuid.UUID `json:"position_id,omitempty" db:"position_id"`
	SignInStatus             bool       `json:"sign_in_status" db:"sign_in_status"`
	Status                   bool       `json:"status" db:"status"`
	UnitIncharge             bool       `json:"unit_incharge" db:"unit_incharge"`
	UnitNursingIncharge      bool       `json:"unit_nursing_incharge" db:"unit_nursing_incharge"`
	Role                     string     `json:"role" db:"role"`
	IsActive                 bool       `json:"is_active" db:"is_active"`
	IsStaff                  bool       `json:"is_staff" db:"is_staff"`
	CreatedAt                time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt                time.Time  `json:"updated_at" db:"updated_at"`
}

// StaffUserEducation records a training/qualification entry. One row per
// (staff_user, program, passing_year).
type StaffUserEducation struct {
	ID                 uuid.UUID  `json:"id" db:"id"`
	StaffUserID        uuid.UUID  `json:"staff_user_id" db:"staff_user_id"`
	Program            *string    `json:"program,omitempty" db:"program"`
	PassingYear        int        `json:"passing_year" db:"passing_year"`
	TrainingProviderID *uuid.UUID `json:"training_provider_id,omitempty" db:"training_provider_id"`
	Attachment         *string    `json:"attachment,omitempty" db:"attachment"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
}

// ListFilters narrows the staff list endpoint.
type ListFilters struct {
	Role                     string
	WorkStatus               string
	PlaceOfPostingHospitalID *uuid.UUID
	MedicalServiceUnitID     *uuid.UUID
	Search                   string
}

// NormalizeEmail lowercases the domain part of an address. The local part is
// left as entered.
func NormalizeEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}
