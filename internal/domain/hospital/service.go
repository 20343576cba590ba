package hospital

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// TxRunner executes fn inside a database transaction; repository calls made
// with the ctx passed to fn join that transaction.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

type Service struct {
	hospitals HospitalRepository
	msus      MSURepository
	incharges InchargeRepository
	inTx      TxRunner
}

func NewService(hospitals HospitalRepository, msus MSURepository, incharges InchargeRepository, inTx TxRunner) *Service {
	return &Service{hospitals: hospitals, msus: msus, incharges: incharges, inTx: inTx}
}

func generateFacilityCode() string {
	return "HOSP-" + strings.ToUpper(uuid.New().String()[:8])
}

func (s *Service) validateHospital(h *Hospital) error {
	if h.HospitalName == "" {
		return fmt.Errorf("hospital_name is required")
	}
	if h.Status == "" {
		h.Status = StatusActive
	}
	if !ValidStatus(h.Status) {
		return fmt.Errorf("status must be ACTIVE or INACTIVE")
	}
	return nil
}

// verifyMSUs fails on the first id that does not resolve, so an association
// write never partially succeeds.
func (s *Service) verifyMSUs(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	existing, err := s.msus.ExistingIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if !existing[id] {
			return fmt.Errorf("unknown medical service unit %s", id)
		}
	}
	return nil
}

// CreateHospital writes the hospital row and its full MSU association set in
// one transaction; an unresolvable MSU id fails the whole operation.
func (s *Service) CreateHospital(ctx context.Context, h *Hospital, msuIDs []uuid.UUID) error {
	if err := s.validateHospital(h); err != nil {
		return err
	}
	if h.HospitalID == "" {
		h.HospitalID = generateFacilityCode()
	}
	return s.inTx(ctx, func(txCtx context.Context) error {
		if err := s.verifyMSUs(txCtx, msuIDs); err != nil {
			return err
		}
		if err := s.hospitals.Create(txCtx, h); err != nil {
			return err
		}
		return s.hospitals.ReplaceMSUs(txCtx, h.ID, msuIDs)
	})
}

func (s *Service) GetHospital(ctx context.Context, id uuid.UUID) (*Hospital, error) {
	return s.hospitals.GetByID(ctx, id)
}

// UpdateHospital replaces every field and the whole association set; it never
// merges with the stored list.
func (s *Service) UpdateHospital(ctx context.Context, h *Hospital, msuIDs []uuid.UUID) error {
	if err := s.validateHospital(h); err != nil {
		return err
	}
	if h.HospitalID == "" {
		return fmt.Errorf("hospital_id is required")
	}
	return s.inTx(ctx, func(txCtx context.Context) error {
		if err := s.verifyMSUs(txCtx, msuIDs); err != nil {
			return err
		}
		if err := s.hospitals.Update(txCtx, h); err != nil {
			return err
		}
		return s.hospitals.ReplaceMSUs(txCtx, h.ID, msuIDs)
	})
}

// PatchHospital applies the non-nil fields of patch to the stored hospital.
// When the patch carries an MSU list the association set is replaced too,
// inside the same transaction.
func (s *Service) PatchHospital(ctx context.Context, id uuid.UUID, patch *HospitalPatch) (*Hospital, error) {
	h, err := s.hospitals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyPatch(h, patch)
	if err := s.validateHospital(h); err != nil {
		return nil, err
	}
	err = s.inTx(ctx, func(txCtx context.Context) error {
		if patch.MedicalServiceUnit != nil {
			if err := s.verifyMSUs(txCtx, *patch.MedicalServiceUnit); err != nil {
				return err
			}
		}
		if err := s.hospitals.Update(txCtx, h); err != nil {
			return err
		}
		if patch.MedicalServiceUnit != nil {
			return s.hospitals.ReplaceMSUs(txCtx, h.ID, *patch.MedicalServiceUnit)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return h, nil
}

func applyPatch(h *Hospital, p *HospitalPatch) {
	if p.HospitalName != nil {
		h.HospitalName = *p.HospitalName
	}
	if p.HospitalTypeID != nil {
		h.HospitalTypeID = p.HospitalTypeID
	}
	if p.Setting != nil {
		h.Setting = p.Setting
	}
	if p.ContactNumber != nil {
		h.ContactNumber = p.ContactNumber
	}
	if p.Email != nil {
		h.Email = p.Email
	}
	if p.Picture != nil {
		h.Picture = p.Picture
	}
	if p.HospitalDescription != nil {
		h.HospitalDescription = p.HospitalDescription
	}
	if p.Ownership != nil {
		h.Ownership = p.Ownership
	}
	if p.EmpanelmentID != nil {
		h.EmpanelmentID = p.EmpanelmentID
	}
	if p.OrgFacilityID != nil {
		h.OrgFacilityID = p.OrgFacilityID
	}
	if p.StateID != nil {
		h.StateID = p.StateID
	}
	if p.DistrictID != nil {
		h.DistrictID = p.DistrictID
	}
	if p.BlockID != nil {
		h.BlockID = p.BlockID
	}
	if p.CityOrVillage != nil {
		h.CityOrVillage = p.CityOrVillage
	}
	if p.Address != nil {
		h.Address = p.Address
	}
	if p.GeoLat != nil {
		h.GeoLat = p.GeoLat
	}
	if p.GeoLong != nil {
		h.GeoLong = p.GeoLong
	}
	if p.GeoAlt != nil {
		h.GeoAlt = p.GeoAlt
	}
	if p.Status != nil {
		h.Status = *p.Status
	}
	if p.HigherFacility != nil {
		h.HigherFacility = *p.HigherFacility
	}
	if p.DeliveryPoint != nil {
		h.DeliveryPoint = *p.DeliveryPoint
	}
	if p.TrainingInstitute != nil {
		h.TrainingInstitute = *p.TrainingInstitute
	}
	if p.FRU != nil {
		h.FRU = *p.FRU
	}
	if p.SNCU != nil {
		h.SNCU = *p.SNCU
	}
	if p.NBSU != nil {
		h.NBSU = *p.NBSU
	}
}

func (s *Service) DeleteHospital(ctx context.Context, id uuid.UUID) error {
	return s.hospitals.Delete(ctx, id)
}

func (s *Service) ListHospitals(ctx context.Context, f ListFilters, limit, offset int) ([]*Hospital, int, error) {
	return s.hospitals.List(ctx, f, limit, offset)
}

func (s *Service) ListHospitalMSUs(ctx context.Context, hospitalID uuid.UUID) ([]*HospitalMedicalServiceUnit, error) {
	if _, err := s.hospitals.GetByID(ctx, hospitalID); err != nil {
		return nil, err
	}
	return s.hospitals.ListMSUs(ctx, hospitalID)
}

func (s *Service) GetMSULink(ctx context.Context, hospitalID, msuID uuid.UUID) (*HospitalMedicalServiceUnit, error) {
	return s.hospitals.GetMSULink(ctx, hospitalID, msuID)
}

// UpdateMSULink sets the pair attributes on an existing association row.
func (s *Service) UpdateMSULink(ctx context.Context, link *HospitalMedicalServiceUnit) error {
	return s.hospitals.UpdateMSULink(ctx, link)
}

// -- Medical service units --

func (s *Service) CreateMSU(ctx context.Context, m *MedicalServiceUnit) error {
	if m.MSUName == "" {
		return fmt.Errorf("msu_name is required")
	}
	if m.Status == "" {
		m.Status = StatusActive
	}
	if !ValidStatus(m.Status) {
		return fmt.Errorf("status must be ACTIVE or INACTIVE")
	}
	return s.msus.Create(ctx, m)
}

func (s *Service) GetMSU(ctx context.Context, id uuid.UUID) (*MedicalServiceUnit, error) {
	return s.msus.GetByID(ctx, id)
}

func (s *Service) UpdateMSU(ctx context.Context, m *MedicalServiceUnit) error {
	if m.MSUName == "" {
		return fmt.Errorf("msu_name is required")
	}
	if !ValidStatus(m.Status) {
		return fmt.Errorf("status must be ACTIVE or INACTIVE")
	}
	return s.msus.Update(ctx, m)
}

func (s *Service) DeleteMSU(ctx context.Context, id uuid.UUID) error {
	return s.msus.Delete(ctx, id)
}

func (s *Service) ListMSUs(ctx context.Context, name string, limit, offset int) ([]*MedicalServiceUnit, int, error) {
	return s.msus.List(ctx, name, limit, offset)
}

// -- Incharges --

func (s *Service) AddIncharge(ctx context.Context, hi *HospitalIncharge) error {
	if hi.HospitalID == uuid.Nil || hi.StaffUserID == uuid.Nil || hi.InchargeRoleID == uuid.Nil {
		return fmt.Errorf("hospital_id, staff_user_id and incharge_role_id are required")
	}
	return s.incharges.Add(ctx, hi)
}

func (s *Service) ListIncharges(ctx context.Context, hospitalID uuid.UUID) ([]*HospitalIncharge, error) {
	if _, err := s.hospitals.GetByID(ctx, hospitalID); err != nil {
		return nil, err
	}
	return s.incharges.ListByHospital(ctx, hospitalID)
}

func (s *Service) RemoveIncharge(ctx context.Context, hospitalID, inchargeID uuid.UUID) error {
	return s.incharges.Remove(ctx, hospitalID, inchargeID)
}
