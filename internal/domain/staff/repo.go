package staff

import (
	"context"

	"github.com/google/uuid"
)

type StaffRepository interface {
	Create(ctx context.Context, u *StaffUser) error
	GetByID(ctx context.Context, id uuid.UUID) (*StaffUser, error)
	GetByEmail(ctx context.Context, email string) (*StaffUser, error)
	Update(ctx context.Context, u *StaffUser) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters ListFilters, limit, offset int) ([]*StaffUser, int, error)
}

// AssociationRepository manages the four explicit link tables hanging off a
// staff user. Each set is add/list/remove; membership is unique per pair.
type AssociationRepository interface {
	AddExpertise(ctx context.Context, staffID, keywordID uuid.UUID) error
	ListExpertise(ctx context.Context, staffID uuid.UUID) ([]uuid.UUID, error)
	RemoveExpertise(ctx context.Context, staffID, keywordID uuid.UUID) error

	AddInchargeRole(ctx context.Context, staffID, roleID uuid.UUID) error
	ListInchargeRoles(ctx context.Context, staffID uuid.UUID) ([]uuid.UUID, error)
	RemoveInchargeRole(ctx context.Context, staffID, roleID uuid.UUID) error

	AddSavedHospital(ctx context.Context, staffID, hospitalID uuid.UUID) error
	ListSavedHospitals(ctx context.Context, staffID uuid.UUID) ([]uuid.UUID, error)
	RemoveSavedHospital(ctx context.Context, staffID, hospitalID uuid.UUID) error

	AddSavedExpert(ctx context.Context, staffID, expertID uuid.UUID) error
	ListSavedExperts(ctx context.Context, staffID uuid.UUID) ([]uuid.UUID, error)
	RemoveSavedExpert(ctx context.Context, staffID, expertID uuid.UUID) error
}

type EducationRepository interface {
	Add(ctx context.Context, e *StaffUserEducation) error
	ListByStaff(ctx context.Context, staffID uuid.UUID) ([]*StaffUserEducation, error)
	Remove(ctx context.Context, staffID, educationID uuid.UUID) error
}
