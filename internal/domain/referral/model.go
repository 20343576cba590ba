package referral

import (
	"time"

	"github.com/google/uuid"
)

// CaseFile is one patient encounter. Downstream status and referral records
// hang off it; referential integrity keeps it effectively immutable once they
// exist.
type CaseFile struct {
	ID                      uuid.UUID  `json:"id" db:"id"`
	PatientName             string     `json:"patient_name" db:"patient_name"`
	Years                   *int       `json:"years,omitempty" db:"years"`
	Months                  *int       `json:"months,omitempty" db:"months"`
	Gender                  string     `json:"gender" db:"gender"`
	PatientAttendantName    string     `json:"patient_attendant_name" db:"patient_attendant_name"`
	PatientAttendantRelation string    `json:"patient_attendant_relation" db:"patient_attendant_relation"`
	ContactNumber           string     `json:"contact_number" db:"contact_number"`
	MedicalConditionID      *uuid.UUID `json:"medical_condition_id,omitempty" db:"medical_condition_id"`
	CreatedAt               time.Time  `json:"created_at" db:"created_at"`
}

// Referral is a transfer between hospitals. Its two attachment sets (referral
// forms and investigation reports) live in separate tables and are never
// merged.
type Referral struct {
	ID                                 uuid.UUID  `json:"id" db:"id"`
	CaseNotes                          *string    `json:"case_notes,omitempty" db:"case_notes"`
	ReferralReason                     *string    `json:"referral_reason,omitempty" db:"referral_reason"`
	AdvanceInformationSend             bool       `json:"advance_information_send" db:"advance_information_send"`
	ReferredFacilityStaffInformed      bool       `json:"referred_facility_staff_informed" db:"referred_facility_staff_informed"`
	ReferredFacilityStaffInformedPersonName *string `json:"referred_facility_staff_informed_person_name,omitempty" db:"referred_facility_staff_informed_person_name"`
	TransportMode                      *string    `json:"transport_mode,omitempty" db:"transport_mode"`
	ReferredHospitalID                 *uuid.UUID `json:"referred_hospital_id,omitempty" db:"referred_hospital_id"`
	SourceHospitalID                   *uuid.UUID `json:"source_hospital_id,omitempty" db:"source_hospital_id"`
	Datetime                           time.Time  `json:"datetime" db:"datetime"`
	ReferredByStaffID                  *uuid.UUID `json:"referred_by_staff_id,omitempty" db:"referred_by_staff_id"`
	SiteOfDemise                       *string    `json:"site_of_demise,omitempty" db:"site_of_demise"`
	MedicalServiceUnitID               *uuid.UUID `json:"medical_service_unit_id,omitempty" db:"medical_service_unit_id"`
	CreatedAt                          time.Time  `json:"created_at" db:"created_at"`
}

// Case status values. A flat tag set: no transition graph is enforced, any
// status may follow any other.
const (
	StatusInTransit       = "IN-TRANSIT"
	StatusReturnDischarge = "RETURN-DISCHARGE"
	StatusTriageCare      = "TRIAGE-CARE"
	StatusOPDCare         = "OPD_CARE"
	StatusDayCareAdmission = "DAY-CARE-ADMISSION"
	StatusIPDAdmission    = "IPD-ADMISSION"
	StatusDischarged      = "DISCHARGED"
	StatusReferred        = "REFERRED"
	StatusLAMA            = "LAMA"
	StatusDemise          = "DEMISE"
	StatusDidNotArrive    = "DID-NOT-ARRIVE"
	StatusOther           = "OTHER"
)

var caseStatusValues = map[string]bool{
	StatusInTransit:        true,
	StatusReturnDischarge:  true,
	StatusTriageCare:       true,
	StatusOPDCare:          true,
	StatusDayCareAdmission: true,
	StatusIPDAdmission:     true,
	StatusDischarged:       true,
	StatusReferred:         true,
	StatusLAMA:             true,
	StatusDemise:           true,
	StatusDidNotArrive:     true,
	StatusOther:            true,
}

func ValidCaseStatus(s string) bool {
	return caseStatusValues[s]
}

// CaseStatus is one point-in-time entry in a case file's append-only history.
// Rows are created and listed, never updated or deleted.
type CaseStatus struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	CaseFileID       uuid.UUID  `json:"case_file_id" db:"case_file_id"`
	Status           string     `json:"status" db:"status"`
	Datetime         time.Time  `json:"datetime" db:"datetime"`
	MedicalCondition *string    `json:"medical_condition,omitempty" db:"medical_condition"`
	Note             *string    `json:"note,omitempty" db:"note"`
	SideOfDemise     *string    `json:"side_of_demise,omitempty" db:"side_of_demise"`
	ReferralID       *uuid.UUID `json:"referral_id,omitempty" db:"referral_id"`
}

// CaseFollowUp records one post-transfer check-in call against a referral.
type CaseFollowUp struct {
	ID                    uuid.UUID  `json:"id" db:"id"`
	ReferralID            uuid.UUID  `json:"referral_id" db:"referral_id"`
	CallerStaffID         *uuid.UUID `json:"caller_staff_id,omitempty" db:"caller_staff_id"`
	CallDate              time.Time  `json:"call_date" db:"call_date"`
	CallAnswered          bool       `json:"call_answered" db:"call_answered"`
	CallNotAnsweredReason *string    `json:"call_not_answered_reason,omitempty" db:"call_not_answered_reason"`
	CaseLocation          *string    `json:"case_location,omitempty" db:"case_location"`
	SupportRequired       bool       `json:"support_required" db:"support_required"`
	SupportNotes          *string    `json:"support_notes,omitempty" db:"support_notes"`
	GrievanceReported     bool       `json:"grievance_reported" db:"grievance_reported"`
	GrievanceNotes        *string    `json:"grievance_notes,omitempty" db:"grievance_notes"`
	CallCloseTime         *time.Time `json:"call_close_time,omitempty" db:"call_close_time"`
	PatientStatus         *string    `json:"patient_status,omitempty" db:"patient_status"`
	CreatedAt             time.Time  `json:"created_at" db:"created_at"`
}

// File points at an object in the blob store; referrals reference files
// through the two attachment tables.
type File struct {
	ID          uuid.UUID `json:"id" db:"id"`
	BlobRef     string    `json:"blob_ref" db:"blob_ref"`
	FileName    *string   `json:"file_name,omitempty" db:"file_name"`
	ContentType *string   `json:"content_type,omitempty" db:"content_type"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// AttachmentKind selects one of the two referral attachment sets.
type AttachmentKind string

const (
	AttachmentReferralForm        AttachmentKind = "referral-form"
	AttachmentInvestigationReport AttachmentKind = "investigation-report"
)

// attachmentTables is the fixed kind-to-table map; kinds never come from
// request input unchecked.
var attachmentTables = map[AttachmentKind]string{
	AttachmentReferralForm:        "referral_form_file",
	AttachmentInvestigationReport: "referral_investigation_file",
}

func ValidAttachmentKind(kind string) bool {
	_, ok := attachmentTables[AttachmentKind(kind)]
	return ok
}

// ReferralFilters narrows the referral list endpoint.
type ReferralFilters struct {
	SourceHospitalID   *uuid.UUID
	ReferredHospitalID *uuid.UUID
	ReferredByStaffID  *uuid.UUID
}
