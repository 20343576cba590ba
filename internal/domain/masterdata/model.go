package masterdata

import (
	"time"

	"github.com/google/uuid"
)

// Lookup is a simple named master-data row. All lookup kinds share this
// shape; the kind selects the backing table.
type Lookup struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// LookupKind identifies one of the lookup tables.
type LookupKind string

const (
	KindHospitalType     LookupKind = "hospital-types"
	KindWorkRole         LookupKind = "work-roles"
	KindEmployer         LookupKind = "employers"
	KindServiceCadre     LookupKind = "service-cadres"
	KindSpeciality       LookupKind = "specialities"
	KindPosition         LookupKind = "positions"
	KindInchargeRole     LookupKind = "incharge-roles"
	KindEmpanelment      LookupKind = "empanelments"
	KindTrainingProvider LookupKind = "training-providers"
	KindExpertKeyword    LookupKind = "expert-keywords"
)

// lookupTables maps each kind to its table name. The table name is taken
// from this fixed map, never from request input.
var lookupTables = map[LookupKind]string{
	KindHospitalType:     "hospital_type",
	KindWorkRole:         "work_role",
	KindEmployer:         "employer",
	KindServiceCadre:     "service_cadre",
	KindSpeciality:       "speciality",
	KindPosition:         "staff_position",
	KindInchargeRole:     "incharge_role",
	KindEmpanelment:      "empanelment",
	KindTrainingProvider: "training_provider",
	KindExpertKeyword:    "expert_keyword",
}

// Kinds returns all lookup kinds in registration order.
func Kinds() []LookupKind {
	return []LookupKind{
		KindHospitalType, KindWorkRole, KindEmployer, KindServiceCadre,
		KindSpeciality, KindPosition, KindInchargeRole, KindEmpanelment,
		KindTrainingProvider, KindExpertKeyword,
	}
}

// ValidKind reports whether the given slug names a lookup table.
func ValidKind(kind string) bool {
	_, ok := lookupTables[LookupKind(kind)]
	return ok
}

// MedicalCondition maps to the medical_condition table. Unlike the plain
// lookups it carries the ICD code and diagnostic descriptors.
type MedicalCondition struct {
	ID          uuid.UUID `db:"id" json:"id"`
	ICD         string    `db:"icd" json:"icd"`
	Name        string    `db:"name" json:"name"`
	HeadName    *string   `db:"head_name" json:"head_name,omitempty"`
	SubHeadName *string   `db:"sub_head_name" json:"sub_head_name,omitempty"`
	Diagnosis   *string   `db:"diagnosis" json:"diagnosis,omitempty"`
	Status      *string   `db:"status" json:"status,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
