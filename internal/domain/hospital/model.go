package hospital

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

// ValidStatus reports whether s is one of the two facility statuses.
func ValidStatus(s string) bool {
	return s == StatusActive || s == StatusInactive
}

type Hospital struct {
	ID                  uuid.UUID  `json:"id" db:"id"`
	HospitalName        string     `json:"hospital_name" db:"hospital_name"`
	HospitalID          string     `json:"hospital_id" db:"hospital_id"`
	HospitalTypeID      *uuid.UUID `json:"hospital_type_id,omitempty" db:"hospital_type_id"`
	Setting             *string    `json:"setting,omitempty" db:"setting"`
	ContactNumber       *string    `json:"contact_number,omitempty" db:"contact_number"`
	Email               *string    `json:"email,omitempty" db:"email"`
	Picture             *string    `json:"picture,omitempty" db:"picture"`
	HospitalDescription *string    `json:"hospital_description,omitempty" db:"hospital_description"`
	Ownership           *string    `json:"ownership,omitempty" db:"ownership"`
	EmpanelmentID       *uuid.UUID `json:"empanelment_id,omitempty" db:"empanelment_id"`
	OrgFacilityID       *string    `json:"org_facility_id,omitempty" db:"org_facility_id"`
	StateID             *uuid.UUID `json:"state_id,omitempty" db:"state_id"`
	DistrictID          *uuid.UUID `json:"district_id,omitempty" db:"district_id"`
	BlockID             *uuid.UUID `json:"block_id,omitempty" db:"block_id"`
	CityOrVillage       *string    `json:"city_or_village,omitempty" db:"city_or_village"`
	Address             *string    `json:"address,omitempty" db:"address"`
	GeoLat              *float64   `json:"geo_lat,omitempty" db:"geo_lat"`
	GeoLong             *float64   `json:"geo_long,omitempty" db:"geo_long"`
	GeoAlt              *float64   `json:"geo_alt,omitempty" db:"geo_alt"`
	Status              string     `json:"status" db:"status"`
	HigherFacility      bool       `json:"higher_facility" db:"higher_facility"`
	DeliveryPoint       bool       `json:"delivery_point" db:"delivery_point"`
	TrainingInstitute   bool       `json:"training_institute" db:"training_institute"`
	FRU                 bool       `json:"fru" db:"fru"`
	SNCU                bool       `json:"sncu" db:"sncu"`
	NBSU                bool       `json:"nbsu" db:"nbsu"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at" db:"updated_at"`
}

type MedicalServiceUnit struct {
	ID             uuid.UUID `json:"id" db:"id"`
	MSUName        string    `json:"msu_name" db:"msu_name"`
	MSUPicture     *string   `json:"msu_picture,omitempty" db:"msu_picture"`
	MSUDescription *string   `json:"msu_description,omitempty" db:"msu_description"`
	MSUDepartment  *string   `json:"msu_department,omitempty" db:"msu_department"`
	Status         string    `json:"status" db:"status"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// HospitalMedicalServiceUnit is the join row between a hospital and an MSU,
// carrying attributes that belong to the pair rather than either side.
type HospitalMedicalServiceUnit struct {
	HospitalID    uuid.UUID `json:"hospital_id" db:"hospital_id"`
	MSUID         uuid.UUID `json:"msu_id" db:"msu_id"`
	MSUServices   *string   `json:"msu_services,omitempty" db:"msu_services"`
	BedCount      *int      `json:"bed_count,omitempty" db:"bed_count"`
	ContactNumber *string   `json:"contact_number,omitempty" db:"contact_number"`
	Empanelments  *string   `json:"empanelments,omitempty" db:"empanelments"`
}

// HospitalIncharge assigns a staff user to an incharge role at a hospital.
// One row per (hospital, incharge_role).
type HospitalIncharge struct {
	ID             uuid.UUID `json:"id" db:"id"`
	HospitalID     uuid.UUID `json:"hospital_id" db:"hospital_id"`
	StaffUserID    uuid.UUID `json:"staff_user_id" db:"staff_user_id"`
	InchargeRoleID uuid.UUID `json:"incharge_role_id" db:"incharge_role_id"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// ListFilters are the field-equality filters the hospital list endpoint accepts.
type ListFilters struct {
	Status        string
	Setting       string
	Ownership     string
	StateID       *uuid.UUID
	DistrictID    *uuid.UUID
	BlockID       *uuid.UUID
	CityOrVillage string
	Name          string
}

// HospitalPatch carries a partial update; nil fields are left untouched.
type HospitalPatch struct {
	HospitalName        *string     `json:"hospital_name"`
	HospitalTypeID      *uuid.UUID  `json:"hospital_type_id"`
	Setting             *string     `json:"setting"`
	ContactNumber       *string     `json:"contact_number"`
	Email               *string     `json:"email"`
	Picture             *string     `json:"picture"`
	HospitalDescription *string     `json:"hospital_description"`
	Ownership           *string     `json:"ownership"`
	EmpanelmentID       *uuid.UUID  `json:"empanelment_id"`
	OrgFacilityID       *string     `json:"org_facility_id"`
	StateID             *uuid.UUID  `json:"state_id"`
	DistrictID          *uuid.UUID  `json:"district_id"`
	BlockID             *uuid.UUID  `json:"block_id"`
	CityOrVillage       *string     `json:"city_or_village"`
	Address             *string     `json:"address"`
	GeoLat              *float64    `json:"geo_lat"`
	GeoLong             *float64    `json:"geo_long"`
	GeoAlt              *float64    `json:"geo_alt"`
	Status              *string     `json:"status"`
	HigherFacility      *bool       `json:"higher_facility"`
	DeliveryPoint       *bool       `json:"delivery_point"`
	TrainingInstitute   *bool       `json:"training_institute"`
	FRU                 *bool       `json:"fru"`
	SNCU                *bool       `json:"sncu"`
	NBSU                *bool       `json:"nbsu"`
	MedicalServiceUnit  *[]uuid.UUID `json:"medical_service_unit"`
}
