package location

import (
	"context"

	"github.com/google/uuid"
)

type StateRepository interface {
	Create(ctx context.Context, s *State) error
	GetByID(ctx context.Context, id uuid.UUID) (*State, error)
	Update(ctx context.Context, s *State) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, name string, limit, offset int) ([]*State, int, error)
}

type DistrictRepository interface {
	Create(ctx context.Context, d *District) error
	GetByID(ctx context.Context, id uuid.UUID) (*District, error)
	Update(ctx context.Context, d *District) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, stateID *uuid.UUID, name string, limit, offset int) ([]*District, int, error)
}

type BlockRepository interface {
	Create(ctx context.Context, b *Block) error
	GetByID(ctx context.Context, id uuid.UUID) (*Block, error)
	Update(ctx context.Context, b *Block) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, districtID *uuid.UUID, name string, limit, offset int) ([]*Block, int, error)
}
