package referral

import (
	"context"

	"github.com/google/uuid"
)

type CaseFileRepository interface {
	Create(ctx context.Context, cf *CaseFile) error
	GetByID(ctx context.Context, id uuid.UUID) (*CaseFile, error)
	Update(ctx context.Context, cf *CaseFile) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, search string, limit, offset int) ([]*CaseFile, int, error)
}

type ReferralRepository interface {
	Create(ctx context.Context, r *Referral) error
	GetByID(ctx context.Context, id uuid.UUID) (*Referral, error)
	Update(ctx context.Context, r *Referral) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters ReferralFilters, limit, offset int) ([]*Referral, int, error)

	// Attachment sets; each kind is its own table and is replaced whole.
	ReplaceAttachments(ctx context.Context, referralID uuid.UUID, kind AttachmentKind, fileIDs []uuid.UUID) error
	ListAttachments(ctx context.Context, referralID uuid.UUID, kind AttachmentKind) ([]uuid.UUID, error)
}

// CaseStatusRepository is append-only: no update or delete.
type CaseStatusRepository interface {
	Create(ctx context.Context, cs *CaseStatus) error
	ListByCaseFile(ctx context.Context, caseFileID uuid.UUID) ([]*CaseStatus, error)
}

type FollowUpRepository interface {
	Create(ctx context.Context, f *CaseFollowUp) error
	GetByID(ctx context.Context, id uuid.UUID) (*CaseFollowUp, error)
	ListByReferral(ctx context.Context, referralID uuid.UUID) ([]*CaseFollowUp, error)
}

type FileRepository interface {
	Create(ctx context.Context, f *File) error
	GetByID(ctx context.Context, id uuid.UUID) (*File, error)
	ExistingIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error)
}
