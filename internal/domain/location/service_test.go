package location

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/reftrack/reftrack/internal/platform/db"
)

// -- Mock repositories --
//
// The state/district mocks honour the FK RESTRICT behaviour of the real
// schema: deleting a parent with live children returns ErrProtected.

type mockStateRepo struct {
	states    map[uuid.UUID]*State
	districts *mockDistrictRepo
}

func (m *mockStateRepo) Create(_ context.Context, s *State) error {
	for _, existing := range m.states {
		if existing.StateName == s.StateName || existing.NumCode == s.NumCode {
			return db.ErrConflict
		}
	}
	s.ID = uuid.New()
	s.CreatedAt = time.Now()
	m.states[s.ID] = s
	return nil
}

func (m *mockStateRepo) GetByID(_ context.Context, id uuid.UUID) (*State, error) {
	s, ok := m.states[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return s, nil
}

func (m *mockStateRepo) Update(_ context.Context, s *State) error {
	if _, ok := m.states[s.ID]; !ok {
		return db.ErrNotFound
	}
	m.states[s.ID] = s
	return nil
}

func (m *mockStateRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.states[id]; !ok {
		return db.ErrNotFound
	}
	for _, d := range m.districts.districts {
		if d.StateID == id {
			return db.ErrProtected
		}
	}
	delete(m.states, id)
	return nil
}

func (m *mockStateRepo) List(_ context.Context, _ string, limit, offset int) ([]*State, int, error) {
	var result []*State
	for _, s := range m.states {
		result = append(result, s)
	}
	total := len(result)
	if offset >= len(result) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

type mockDistrictRepo struct {
	districts map[uuid.UUID]*District
	blocks    *mockBlockRepo
}

func (m *mockDistrictRepo) Create(_ context.Context, d *District) error {
	for _, existing := range m.districts {
		if existing.DistrictNumCode == d.DistrictNumCode {
			return db.ErrConflict
		}
	}
	d.ID = uuid.New()
	d.CreatedAt = time.Now()
	m.districts[d.ID] = d
	return nil
}

func (m *mockDistrictRepo) GetByID(_ context.Context, id uuid.UUID) (*District, error) {
	d, ok := m.districts[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return d, nil
}

func (m *mockDistrictRepo) Update(_ context.Context, d *District) error {
	if _, ok := m.districts[d.ID]; !ok {
		return db.ErrNotFound
	}
	m.districts[d.ID] = d
	return nil
}

func (m *mockDistrictRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.districts[id]; !ok {
		return db.ErrNotFound
	}
	for _, b := range m.blocks.blocks {
		if b.DistrictID == id {
			return db.ErrProtected
		}
	}
	delete(m.districts, id)
	return nil
}

func (m *mockDistrictRepo) List(_ context.Context, stateID *uuid.UUID, _ string, limit, offset int) ([]*District, int, error) {
	var result []*District
	for _, d := range m.districts {
		if stateID != nil && d.StateID != *stateID {
			continue
		}
		result = append(result, d)
	}
	total := len(result)
	if offset >= len(result) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

type mockBlockRepo struct {
	blocks map[uuid.UUID]*Block
}

func (m *mockBlockRepo) Create(_ context.Context, b *Block) error {
	for _, existing := range m.blocks {
		if existing.BlockNumCode == b.BlockNumCode {
			return db.ErrConflict
		}
	}
	b.ID = uuid.New()
	b.CreatedAt = time.Now()
	m.blocks[b.ID] = b
	return nil
}

func (m *mockBlockRepo) GetByID(_ context.Context, id uuid.UUID) (*Block, error) {
	b, ok := m.blocks[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return b, nil
}

func (m *mockBlockRepo) Update(_ context.Context, b *Block) error {
	if _, ok := m.blocks[b.ID]; !ok {
		return db.ErrNotFound
	}
	m.blocks[b.ID] = b
	return nil
}

func (m *mockBlockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.blocks[id]; !ok {
		return db.ErrNotFound
	}
	delete(m.blocks, id)
	return nil
}

func (m *mockBlockRepo) List(_ context.Context, districtID *uuid.UUID, _ string, limit, offset int) ([]*Block, int, error) {
	var result []*Block
	for _, b := range m.blocks {
		if districtID != nil && b.DistrictID != *districtID {
			continue
		}
		result = append(result, b)
	}
	total := len(result)
	if offset >= len(result) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

func newTestService() *Service {
	blocks := &mockBlockRepo{blocks: make(map[uuid.UUID]*Block)}
	districts := &mockDistrictRepo{districts: make(map[uuid.UUID]*District), blocks: blocks}
	states := &mockStateRepo{states: make(map[uuid.UUID]*State), districts: districts}
	return NewService(states, districts, blocks)
}

// -- Tests --

func TestService_CreateState(t *testing.T) {
	svc := newTestService()
	st := &State{StateName: "Bihar", NumCode: 10}
	if err := svc.CreateState(context.Background(), st); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.ID == uuid.Nil {
		t.Error("expected id to be assigned")
	}
}

func TestService_CreateState_Validation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	if err := svc.CreateState(ctx, &State{NumCode: 10}); err == nil {
		t.Error("expected error for missing name")
	}
	if err := svc.CreateState(ctx, &State{StateName: "Bihar"}); err == nil {
		t.Error("expected error for missing num_code")
	}
}

func TestService_CreateState_DuplicateNumCode(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	svc.CreateState(ctx, &State{StateName: "Bihar", NumCode: 10})
	if err := svc.CreateState(ctx, &State{StateName: "Jharkhand", NumCode: 10}); err != db.ErrConflict {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestService_CreateDistrict_RequiresKnownState(t *testing.T) {
	svc := newTestService()
	d := &District{StateID: uuid.New(), DistrictName: "Patna", DistrictNumCode: 101}
	if err := svc.CreateDistrict(context.Background(), d); err == nil {
		t.Error("expected error for unknown state")
	}
}

func TestService_CreateBlock_RequiresKnownDistrict(t *testing.T) {
	svc := newTestService()
	b := &Block{DistrictID: uuid.New(), BlockName: "Danapur", BlockNumCode: 1001}
	if err := svc.CreateBlock(context.Background(), b); err == nil {
		t.Error("expected error for unknown district")
	}
}

func TestService_DeleteState_ProtectedByDistrict(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	st := &State{StateName: "Bihar", NumCode: 10}
	if err := svc.CreateState(ctx, st); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d := &District{StateID: st.ID, DistrictName: "Patna", DistrictNumCode: 101}
	if err := svc.CreateDistrict(ctx, d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.DeleteState(ctx, st.ID); err != db.ErrProtected {
		t.Fatalf("expected ErrProtected, got %v", err)
	}

	// Both rows must survive the rejected delete.
	if _, err := svc.GetState(ctx, st.ID); err != nil {
		t.Errorf("state should remain after rejected delete: %v", err)
	}
	if _, err := svc.GetDistrict(ctx, d.ID); err != nil {
		t.Errorf("district should remain after rejected delete: %v", err)
	}
}

func TestService_DeleteDistrict_ProtectedByBlock(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	st := &State{StateName: "Bihar", NumCode: 10}
	svc.CreateState(ctx, st)
	d := &District{StateID: st.ID, DistrictName: "Patna", DistrictNumCode: 101}
	svc.CreateDistrict(ctx, d)
	b := &Block{DistrictID: d.ID, BlockName: "Danapur", BlockNumCode: 1001}
	if err := svc.CreateBlock(ctx, b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.DeleteDistrict(ctx, d.ID); err != db.ErrProtected {
		t.Errorf("expected ErrProtected, got %v", err)
	}
}

func TestService_DeleteState_LeafSucceeds(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	st := &State{StateName: "Goa", NumCode: 30}
	svc.CreateState(ctx, st)
	if err := svc.DeleteState(ctx, st.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.GetState(ctx, st.ID); err != db.ErrNotFound {
		t.Errorf("expected not found after delete, got %v", err)
	}
}

func TestService_ListDistricts_FilterByState(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	st1 := &State{StateName: "Bihar", NumCode: 10}
	st2 := &State{StateName: "Odisha", NumCode: 21}
	svc.CreateState(ctx, st1)
	svc.CreateState(ctx, st2)
	svc.CreateDistrict(ctx, &District{StateID: st1.ID, DistrictName: "Patna", DistrictNumCode: 101})
	svc.CreateDistrict(ctx, &District{StateID: st2.ID, DistrictName: "Puri", DistrictNumCode: 201})

	rows, total, err := svc.ListDistricts(ctx, &st1.ID, "", 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("expected exactly one district for state, got total=%d len=%d", total, len(rows))
	}
	if rows[0].DistrictName != "Patna" {
		t.Errorf("expected Patna, got %s", rows[0].DistrictName)
	}
}
