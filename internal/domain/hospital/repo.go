package hospital

import (
	"context"

	"github.com/google/uuid"
)

type HospitalRepository interface {
	Create(ctx context.Context, h *Hospital) error
	GetByID(ctx context.Context, id uuid.UUID) (*Hospital, error)
	Update(ctx context.Context, h *Hospital) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters ListFilters, limit, offset int) ([]*Hospital, int, error)

	// Association set with per-pair attributes.
	ReplaceMSUs(ctx context.Context, hospitalID uuid.UUID, msuIDs []uuid.UUID) error
	ListMSUs(ctx context.Context, hospitalID uuid.UUID) ([]*HospitalMedicalServiceUnit, error)
	GetMSULink(ctx context.Context, hospitalID, msuID uuid.UUID) (*HospitalMedicalServiceUnit, error)
	UpdateMSULink(ctx context.Context, link *HospitalMedicalServiceUnit) error
}

type MSURepository interface {
	Create(ctx context.Context, m *MedicalServiceUnit) error
	GetByID(ctx context.Context, id uuid.UUID) (*MedicalServiceUnit, error)
	Update(ctx context.Context, m *MedicalServiceUnit) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, name string, limit, offset int) ([]*MedicalServiceUnit, int, error)
	// ExistingIDs returns the subset of ids that exist.
	ExistingIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error)
}

type InchargeRepository interface {
	Add(ctx context.Context, hi *HospitalIncharge) error
	ListByHospital(ctx context.Context, hospitalID uuid.UUID) ([]*HospitalIncharge, error)
	Remove(ctx context.Context, hospitalID, inchargeID uuid.UUID) error
}
