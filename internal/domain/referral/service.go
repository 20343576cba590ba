package referral

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TxRunner executes fn inside a database transaction; repository calls made
// with the ctx passed to fn join that transaction.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

type Service struct {
	caseFiles CaseFileRepository
	referrals ReferralRepository
	statuses  CaseStatusRepository
	followUps FollowUpRepository
	files     FileRepository
	inTx      TxRunner
}

func NewService(caseFiles CaseFileRepository, referrals ReferralRepository,
	statuses CaseStatusRepository, followUps FollowUpRepository,
	files FileRepository, inTx TxRunner) *Service {
	return &Service{
		caseFiles: caseFiles,
		referrals: referrals,
		statuses:  statuses,
		followUps: followUps,
		files:     files,
		inTx:      inTx,
	}
}

// -- Case files --

func (s *Service) CreateCaseFile(ctx context.Context, cf *CaseFile) error {
	if cf.PatientName == "" {
		return fmt.Errorf("patient_name is required")
	}
	if cf.Gender == "" {
		return fmt.Errorf("gender is required")
	}
	if cf.PatientAttendantName == "" {
		return fmt.Errorf("patient_attendant_name is required")
	}
	if cf.PatientAttendantRelation == "" {
		return fmt.Errorf("patient_attendant_relation is required")
	}
	if cf.ContactNumber == "" {
		return fmt.Errorf("contact_number is required")
	}
	return s.caseFiles.Create(ctx, cf)
}

func (s *Service) GetCaseFile(ctx context.Context, id uuid.UUID) (*CaseFile, error) {
	return s.caseFiles.GetByID(ctx, id)
}

func (s *Service) UpdateCaseFile(ctx context.Context, cf *CaseFile) error {
	if cf.PatientName == "" {
		return fmt.Errorf("patient_name is required")
	}
	return s.caseFiles.Update(ctx, cf)
}

func (s *Service) DeleteCaseFile(ctx context.Context, id uuid.UUID) error {
	return s.caseFiles.Delete(ctx, id)
}

func (s *Service) ListCaseFiles(ctx context.Context, search string, limit, offset int) ([]*CaseFile, int, error) {
	return s.caseFiles.List(ctx, search, limit, offset)
}

// -- Referrals --

func (s *Service) CreateReferral(ctx context.Context, r *Referral) error {
	if r.Datetime.IsZero() {
		r.Datetime = time.Now()
	}
	return s.referrals.Create(ctx, r)
}

func (s *Service) GetReferral(ctx context.Context, id uuid.UUID) (*Referral, error) {
	return s.referrals.GetByID(ctx, id)
}

func (s *Service) UpdateReferral(ctx context.Context, r *Referral) error {
	if r.Datetime.IsZero() {
		return fmt.Errorf("datetime is required")
	}
	return s.referrals.Update(ctx, r)
}

func (s *Service) DeleteReferral(ctx context.Context, id uuid.UUID) error {
	return s.referrals.Delete(ctx, id)
}

func (s *Service) ListReferrals(ctx context.Context, f ReferralFilters, limit, offset int) ([]*Referral, int, error) {
	return s.referrals.List(ctx, f, limit, offset)
}

// ReplaceAttachments swaps one attachment set whole, inside a transaction.
// Any unknown file id fails the operation and the stored set is untouched.
func (s *Service) ReplaceAttachments(ctx context.Context, referralID uuid.UUID, kind AttachmentKind, fileIDs []uuid.UUID) error {
	if _, err := s.referrals.GetByID(ctx, referralID); err != nil {
		return err
	}
	return s.inTx(ctx, func(txCtx context.Context) error {
		existing, err := s.files.ExistingIDs(txCtx, fileIDs)
		if err != nil {
			return err
		}
		for _, id := range fileIDs {
			if !existing[id] {
				return fmt.Errorf("unknown file %s", id)
			}
		}
		return s.referrals.ReplaceAttachments(txCtx, referralID, kind, fileIDs)
	})
}

func (s *Service) ListAttachments(ctx context.Context, referralID uuid.UUID, kind AttachmentKind) ([]uuid.UUID, error) {
	if _, err := s.referrals.GetByID(ctx, referralID); err != nil {
		return nil, err
	}
	return s.referrals.ListAttachments(ctx, referralID, kind)
}

// -- Case statuses (append-only) --

// AppendCaseStatus adds one history entry. There is no update or delete, and
// no transition check: any status may follow any other.
func (s *Service) AppendCaseStatus(ctx context.Context, cs *CaseStatus) error {
	if !ValidCaseStatus(cs.Status) {
		return fmt.Errorf("unknown status %q", cs.Status)
	}
	if _, err := s.caseFiles.GetByID(ctx, cs.CaseFileID); err != nil {
		return fmt.Errorf("unknown case file %s", cs.CaseFileID)
	}
	if cs.ReferralID != nil {
		if _, err := s.referrals.GetByID(ctx, *cs.ReferralID); err != nil {
			return fmt.Errorf("unknown referral %s", *cs.ReferralID)
		}
	}
	return s.statuses.Create(ctx, cs)
}

func (s *Service) ListCaseStatuses(ctx context.Context, caseFileID uuid.UUID) ([]*CaseStatus, error) {
	if _, err := s.caseFiles.GetByID(ctx, caseFileID); err != nil {
		return nil, err
	}
	return s.statuses.ListByCaseFile(ctx, caseFileID)
}

// -- Follow-ups --

func (s *Service) CreateFollowUp(ctx context.Context, f *CaseFollowUp) error {
	if f.ReferralID == uuid.Nil {
		return fmt.Errorf("referral_id is required")
	}
	if f.CallDate.IsZero() {
		return fmt.Errorf("call_date is required")
	}
	if !f.CallAnswered && f.CallNotAnsweredReason == nil {
		return fmt.Errorf("call_not_answered_reason is required when the call was not answered")
	}
	if _, err := s.referrals.GetByID(ctx, f.ReferralID); err != nil {
		return fmt.Errorf("unknown referral %s", f.ReferralID)
	}
	return s.followUps.Create(ctx, f)
}

func (s *Service) GetFollowUp(ctx context.Context, id uuid.UUID) (*CaseFollowUp, error) {
	return s.followUps.GetByID(ctx, id)
}

func (s *Service) ListFollowUps(ctx context.Context, referralID uuid.UUID) ([]*CaseFollowUp, error) {
	if _, err := s.referrals.GetByID(ctx, referralID); err != nil {
		return nil, err
	}
	return s.followUps.ListByReferral(ctx, referralID)
}

// -- Files --

func (s *Service) RegisterFile(ctx context.Context, f *File) error {
	if f.BlobRef == "" {
		return fmt.Errorf("blob_ref is required")
	}
	return s.files.Create(ctx, f)
}

func (s *Service) GetFile(ctx context.Context, id uuid.UUID) (*File, error) {
	return s.files.GetByID(ctx, id)
}
