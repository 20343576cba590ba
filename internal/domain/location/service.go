package location

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	states    StateRepository
	districts DistrictRepository
	blocks    BlockRepository
}

func NewService(states StateRepository, districts DistrictRepository, blocks BlockRepository) *Service {
	return &Service{states: states, districts: districts, blocks: blocks}
}

// -- States --

func (s *Service) CreateState(ctx context.Context, st *State) error {
	if st.StateName == "" {
		return fmt.Errorf("state_name is required")
	}
	if st.NumCode <= 0 {
		return fmt.Errorf("num_code must be positive")
	}
	return s.states.Create(ctx, st)
}

func (s *Service) GetState(ctx context.Context, id uuid.UUID) (*State, error) {
	return s.states.GetByID(ctx, id)
}

func (s *Service) UpdateState(ctx context.Context, st *State) error {
	if st.StateName == "" {
		return fmt.Errorf("state_name is required")
	}
	return s.states.Update(ctx, st)
}

func (s *Service) DeleteState(ctx context.Context, id uuid.UUID) error {
	return s.states.Delete(ctx, id)
}

func (s *Service) ListStates(ctx context.Context, name string, limit, offset int) ([]*State, int, error) {
	return s.states.List(ctx, name, limit, offset)
}

// -- Districts --

func (s *Service) CreateDistrict(ctx context.Context, d *District) error {
	if d.DistrictName == "" {
		return fmt.Errorf("district_name is required")
	}
	if d.StateID == uuid.Nil {
		return fmt.Errorf("state_id is required")
	}
	if _, err := s.states.GetByID(ctx, d.StateID); err != nil {
		return fmt.Errorf("unknown state %s", d.StateID)
	}
	return s.districts.Create(ctx, d)
}

func (s *Service) GetDistrict(ctx context.Context, id uuid.UUID) (*District, error) {
	return s.districts.GetByID(ctx, id)
}

func (s *Service) UpdateDistrict(ctx context.Context, d *District) error {
	if d.DistrictName == "" {
		return fmt.Errorf("district_name is required")
	}
	if d.StateID == uuid.Nil {
		return fmt.Errorf("state_id is required")
	}
	return s.districts.Update(ctx, d)
}

func (s *Service) DeleteDistrict(ctx context.Context, id uuid.UUID) error {
	return s.districts.Delete(ctx, id)
}

func (s *Service) ListDistricts(ctx context.Context, stateID *uuid.UUID, name string, limit, offset int) ([]*District, int, error) {
	return s.districts.List(ctx, stateID, name, limit, offset)
}

// -- Blocks --

func (s *Service) CreateBlock(ctx context.Context, b *Block) error {
	if b.BlockName == "" {
		return fmt.Errorf("block_name is required")
	}
	if b.DistrictID == uuid.Nil {
		return fmt.Errorf("district_id is required")
	}
	if _, err := s.districts.GetByID(ctx, b.DistrictID); err != nil {
		return fmt.Errorf("unknown district %s", b.DistrictID)
	}
	return s.blocks.Create(ctx, b)
}

func (s *Service) GetBlock(ctx context.Context, id uuid.UUID) (*Block, error) {
	return s.blocks.GetByID(ctx, id)
}

func (s *Service) UpdateBlock(ctx context.Context, b *Block) error {
	if b.BlockName == "" {
		return fmt.Errorf("block_name is required")
	}
	if b.DistrictID == uuid.Nil {
		return fmt.Errorf("district_id is required")
	}
	return s.blocks.Update(ctx, b)
}

func (s *Service) DeleteBlock(ctx context.Context, id uuid.UUID) error {
	return s.blocks.Delete(ctx, id)
}

func (s *Service) ListBlocks(ctx context.Context, districtID *uuid.UUID, name string, limit, offset int) ([]*Block, int, error) {
	return s.blocks.List(ctx, districtID, name, limit, offset)
}
