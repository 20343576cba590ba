package location

import (
	"time"

	"github.com/google/uuid"
)

// State is the top of the strict State > District > Block containment tree.
type State struct {
	ID        uuid.UUID `json:"id" db:"id"`
	StateName string    `json:"state_name" db:"state_name"`
	NumCode   int       `json:"num_code" db:"num_code"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type District struct {
	ID              uuid.UUID `json:"id" db:"id"`
	StateID         uuid.UUID `json:"state_id" db:"state_id"`
	DistrictName    string    `json:"district_name" db:"district_name"`
	DistrictNumCode int       `json:"district_num_code" db:"district_num_code"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

type Block struct {
	ID           uuid.UUID `json:"id" db:"id"`
	DistrictID   uuid.UUID `json:"district_id" db:"district_id"`
	BlockName    string    `json:"block_name" db:"block_name"`
	BlockNumCode int       `json:"block_num_code" db:"block_num_code"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
