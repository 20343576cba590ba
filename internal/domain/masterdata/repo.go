package masterdata

import (
	"context"

	"github.com/google/uuid"
)

// LookupRepository defines the persistence interface for the shared lookup
// tables. The kind selects which table an operation touches.
type LookupRepository interface {
	Create(ctx context.Context, kind LookupKind, row *Lookup) error
	GetByID(ctx context.Context, kind LookupKind, id uuid.UUID) (*Lookup, error)
	Update(ctx context.Context, kind LookupKind, row *Lookup) error
	Delete(ctx context.Context, kind LookupKind, id uuid.UUID) error
	List(ctx context.Context, kind LookupKind, name string, limit, offset int) ([]*Lookup, int, error)
}

// MedicalConditionRepository defines the persistence interface for medical
// conditions.
type MedicalConditionRepository interface {
	Create(ctx context.Context, mc *MedicalCondition) error
	GetByID(ctx context.Context, id uuid.UUID) (*MedicalCondition, error)
	Update(ctx context.Context, mc *MedicalCondition) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, search string, limit, offset int) ([]*MedicalCondition, int, error)
}
