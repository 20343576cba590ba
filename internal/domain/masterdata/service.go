package masterdata

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	lookups    LookupRepository
	conditions MedicalConditionRepository
}

func NewService(lookups LookupRepository, conditions MedicalConditionRepository) *Service {
	return &Service{lookups: lookups, conditions: conditions}
}

// -- Lookups --

func (s *Service) CreateLookup(ctx context.Context, kind LookupKind, row *Lookup) error {
	if row.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.lookups.Create(ctx, kind, row)
}

func (s *Service) GetLookup(ctx context.Context, kind LookupKind, id uuid.UUID) (*Lookup, error) {
	return s.lookups.GetByID(ctx, kind, id)
}

func (s *Service) UpdateLookup(ctx context.Context, kind LookupKind, row *Lookup) error {
	if row.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.lookups.Update(ctx, kind, row)
}

func (s *Service) DeleteLookup(ctx context.Context, kind LookupKind, id uuid.UUID) error {
	return s.lookups.Delete(ctx, kind, id)
}

func (s *Service) ListLookups(ctx context.Context, kind LookupKind, name string, limit, offset int) ([]*Lookup, int, error) {
	return s.lookups.List(ctx, kind, name, limit, offset)
}

// -- Medical conditions --

func (s *Service) CreateMedicalCondition(ctx context.Context, mc *MedicalCondition) error {
	if mc.ICD == "" {
		return fmt.Errorf("icd is required")
	}
	if mc.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.conditions.Create(ctx, mc)
}

func (s *Service) GetMedicalCondition(ctx context.Context, id uuid.UUID) (*MedicalCondition, error) {
	return s.conditions.GetByID(ctx, id)
}

func (s *Service) UpdateMedicalCondition(ctx context.Context, mc *MedicalCondition) error {
	if mc.ICD == "" {
		return fmt.Errorf("icd is required")
	}
	if mc.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.conditions.Update(ctx, mc)
}

func (s *Service) DeleteMedicalCondition(ctx context.Context, id uuid.UUID) error {
	return s.conditions.Delete(ctx, id)
}

func (s *Service) ListMedicalConditions(ctx context.Context, search string, limit, offset int) ([]*MedicalCondition, int, error) {
	return s.conditions.List(ctx, search, limit, offset)
}
