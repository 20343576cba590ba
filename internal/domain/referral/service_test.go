package referral

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/reftrack/reftrack/internal/platform/db"
)

// -- mocks --

type mockCaseFileRepo struct {
	caseFiles map[uuid.UUID]*CaseFile
}

func newMockCaseFileRepo() *mockCaseFileRepo {
	return &mockCaseFileRepo{caseFiles: make(map[uuid.UUID]*CaseFile)}
}

func (m *mockCaseFileRepo) Create(_ context.Context, cf *CaseFile) error {
	cf.ID = uuid.New()
	cf.CreatedAt = time.Now()
	cp := *cf
	m.caseFiles[cf.ID] = &cp
	return nil
}

func (m *mockCaseFileRepo) GetByID(_ context.Context, id uuid.UUID) (*CaseFile, error) {
	cf, ok := m.caseFiles[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *cf
	return &cp, nil
}

func (m *mockCaseFileRepo) Update(_ context.Context, cf *CaseFile) error {
	if _, ok := m.caseFiles[cf.ID]; !ok {
		return db.ErrNotFound
	}
	cp := *cf
	m.caseFiles[cf.ID] = &cp
	return nil
}

func (m *mockCaseFileRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.caseFiles[id]; !ok {
		return db.ErrNotFound
	}
	delete(m.caseFiles, id)
	return nil
}

func (m *mockCaseFileRepo) List(_ context.Context, search string, limit, offset int) ([]*CaseFile, int, error) {
	var out []*CaseFile
	for _, cf := range m.caseFiles {
		if search != "" && !strings.Contains(strings.ToLower(cf.PatientName), strings.ToLower(search)) {
			continue
		}
		out = append(out, cf)
	}
	return out, len(out), nil
}

type mockReferralRepo struct {
	referrals   map[uuid.UUID]*Referral
	attachments map[AttachmentKind]map[uuid.UUID][]uuid.UUID
}

func newMockReferralRepo() *mockReferralRepo {
	return &mockReferralRepo{
		referrals: make(map[uuid.UUID]*Referral),
		attachments: map[AttachmentKind]map[uuid.UUID][]uuid.UUID{
			AttachmentReferralForm:        {},
			AttachmentInvestigationReport: {},
		},
	}
}

func (m *mockReferralRepo) Create(_ context.Context, r *Referral) error {
	r.ID = uuid.New()
	r.CreatedAt = time.Now()
	cp := *r
	m.referrals[r.ID] = &cp
	return nil
}

func (m *mockReferralRepo) GetByID(_ context.Context, id uuid.UUID) (*Referral, error) {
	r, ok := m.referrals[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *mockReferralRepo) Update(_ context.Context, r *Referral) error {
	if _, ok := m.referrals[r.ID]; !ok {
		return db.ErrNotFound
	}
	cp := *r
	m.referrals[r.ID] = &cp
	return nil
}

func (m *mockReferralRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.referrals[id]; !ok {
		return db.ErrNotFound
	}
	delete(m.referrals, id)
	return nil
}

func (m *mockReferralRepo) List(_ context.Context, f ReferralFilters, limit, offset int) ([]*Referral, int, error) {
	var out []*Referral
	for _, r := range m.referrals {
		if f.SourceHospitalID != nil && (r.SourceHospitalID == nil || *r.SourceHospitalID != *f.SourceHospitalID) {
			continue
		}
		if f.ReferredHospitalID != nil && (r.ReferredHospitalID == nil || *r.ReferredHospitalID != *f.ReferredHospitalID) {
			continue
		}
		if f.ReferredByStaffID != nil && (r.ReferredByStaffID == nil || *r.ReferredByStaffID != *f.ReferredByStaffID) {
			continue
		}
		out = append(out, r)
	}
	return out, len(out), nil
}

func (m *mockReferralRepo) ReplaceAttachments(_ context.Context, referralID uuid.UUID, kind AttachmentKind, fileIDs []uuid.UUID) error {
	m.attachments[kind][referralID] = append([]uuid.UUID(nil), fileIDs...)
	return nil
}

func (m *mockReferralRepo) ListAttachments(_ context.Context, referralID uuid.UUID, kind AttachmentKind) ([]uuid.UUID, error) {
	return m.attachments[kind][referralID], nil
}

type mockCaseStatusRepo struct {
	statuses []*CaseStatus
}

func (m *mockCaseStatusRepo) Create(_ context.Context, cs *CaseStatus) error {
	cs.ID = uuid.New()
	if cs.Datetime.IsZero() {
		cs.Datetime = time.Now()
	}
	cp := *cs
	m.statuses = append(m.statuses, &cp)
	return nil
}

func (m *mockCaseStatusRepo) ListByCaseFile(_ context.Context, caseFileID uuid.UUID) ([]*CaseStatus, error) {
	var out []*CaseStatus
	for _, cs := range m.statuses {
		if cs.CaseFileID == caseFileID {
			out = append(out, cs)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Datetime.Before(out[j].Datetime) })
	return out, nil
}

type mockFollowUpRepo struct {
	followUps map[uuid.UUID]*CaseFollowUp
}

func newMockFollowUpRepo() *mockFollowUpRepo {
	return &mockFollowUpRepo{followUps: make(map[uuid.UUID]*CaseFollowUp)}
}

func (m *mockFollowUpRepo) Create(_ context.Context, f *CaseFollowUp) error {
	f.ID = uuid.New()
	f.CreatedAt = time.Now()
	cp := *f
	m.followUps[f.ID] = &cp
	return nil
}

func (m *mockFollowUpRepo) GetByID(_ context.Context, id uuid.UUID) (*CaseFollowUp, error) {
	f, ok := m.followUps[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (m *mockFollowUpRepo) ListByReferral(_ context.Context, referralID uuid.UUID) ([]*CaseFollowUp, error) {
	var out []*CaseFollowUp
	for _, f := range m.followUps {
		if f.ReferralID == referralID {
			out = append(out, f)
		}
	}
	return out, nil
}

type mockFileRepo struct {
	files map[uuid.UUID]*File
}

func newMockFileRepo() *mockFileRepo {
	return &mockFileRepo{files: make(map[uuid.UUID]*File)}
}

func (m *mockFileRepo) Create(_ context.Context, f *File) error {
	f.ID = uuid.New()
	f.CreatedAt = time.Now()
	cp := *f
	m.files[f.ID] = &cp
	return nil
}

func (m *mockFileRepo) GetByID(_ context.Context, id uuid.UUID) (*File, error) {
	f, ok := m.files[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (m *mockFileRepo) ExistingIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	out := make(map[uuid.UUID]bool)
	for _, id := range ids {
		if _, ok := m.files[id]; ok {
			out[id] = true
		}
	}
	return out, nil
}

func passthroughTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixture struct {
	caseFiles *mockCaseFileRepo
	referrals *mockReferralRepo
	statuses  *mockCaseStatusRepo
	followUps *mockFollowUpRepo
	files     *mockFileRepo
	svc       *Service
}

func newFixture() *fixture {
	f := &fixture{
		caseFiles: newMockCaseFileRepo(),
		referrals: newMockReferralRepo(),
		statuses:  &mockCaseStatusRepo{},
		followUps: newMockFollowUpRepo(),
		files:     newMockFileRepo(),
	}
	f.svc = NewService(f.caseFiles, f.referrals, f.statuses, f.followUps, f.files, passthroughTx)
	return f
}

func (f *fixture) caseFile(t *testing.T) *CaseFile {
	t.Helper()
	cf := &CaseFile{
		PatientName:              "Asha Verma",
		Gender:                   "FEMALE",
		PatientAttendantName:     "Ram Verma",
		PatientAttendantRelation: "FATHER",
		ContactNumber:            "9876543210",
	}
	if err := f.svc.CreateCaseFile(context.Background(), cf); err != nil {
		t.Fatalf("create case file: %v", err)
	}
	return cf
}

func (f *fixture) referral(t *testing.T) *Referral {
	t.Helper()
	r := &Referral{}
	if err := f.svc.CreateReferral(context.Background(), r); err != nil {
		t.Fatalf("create referral: %v", err)
	}
	return r
}

func (f *fixture) file(t *testing.T) *File {
	t.Helper()
	fl := &File{BlobRef: "referrals/" + uuid.NewString() + ".pdf"}
	if err := f.svc.RegisterFile(context.Background(), fl); err != nil {
		t.Fatalf("register file: %v", err)
	}
	return fl
}

// -- case files --

func TestService_CreateCaseFile_RequiresCoreFields(t *testing.T) {
	f := newFixture()
	tests := []struct {
		name string
		cf   CaseFile
	}{
		{"missing patient name", CaseFile{Gender: "MALE", PatientAttendantName: "x", PatientAttendantRelation: "y", ContactNumber: "z"}},
		{"missing gender", CaseFile{PatientName: "x", PatientAttendantName: "x", PatientAttendantRelation: "y", ContactNumber: "z"}},
		{"missing attendant", CaseFile{PatientName: "x", Gender: "MALE", PatientAttendantRelation: "y", ContactNumber: "z"}},
		{"missing relation", CaseFile{PatientName: "x", Gender: "MALE", PatientAttendantName: "x", ContactNumber: "z"}},
		{"missing contact", CaseFile{PatientName: "x", Gender: "MALE", PatientAttendantName: "x", PatientAttendantRelation: "y"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := f.svc.CreateCaseFile(context.Background(), &tt.cf); err == nil {
				t.Error("expected validation error")
			}
		})
	}
	if len(f.caseFiles.caseFiles) != 0 {
		t.Errorf("expected no case files persisted, got %d", len(f.caseFiles.caseFiles))
	}
}

// -- case statuses --

func TestService_AppendCaseStatus_RejectsUnknownStatus(t *testing.T) {
	f := newFixture()
	cf := f.caseFile(t)

	err := f.svc.AppendCaseStatus(context.Background(), &CaseStatus{
		CaseFileID: cf.ID,
		Status:     "TELEPORTED",
	})
	if err == nil {
		t.Fatal("expected error for unknown status")
	}
	if len(f.statuses.statuses) != 0 {
		t.Error("expected no status rows persisted")
	}
}

func TestService_AppendCaseStatus_AnyOrderAllowed(t *testing.T) {
	f := newFixture()
	cf := f.caseFile(t)

	// DISCHARGED before IN-TRANSIT: there is no transition graph.
	for _, status := range []string{StatusDischarged, StatusInTransit, StatusDemise} {
		if err := f.svc.AppendCaseStatus(context.Background(), &CaseStatus{CaseFileID: cf.ID, Status: status}); err != nil {
			t.Fatalf("append %s: %v", status, err)
		}
	}

	rows, err := f.svc.ListCaseStatuses(context.Background(), cf.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(rows))
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].Datetime.Before(rows[i-1].Datetime) {
			t.Error("expected entries ordered by datetime")
		}
	}
}

func TestService_AppendCaseStatus_UnknownCaseFile(t *testing.T) {
	f := newFixture()
	err := f.svc.AppendCaseStatus(context.Background(), &CaseStatus{
		CaseFileID: uuid.New(),
		Status:     StatusInTransit,
	})
	if err == nil {
		t.Fatal("expected error for unknown case file")
	}
	if errors.Is(err, db.ErrNotFound) {
		t.Error("reference check should report a validation error, not not-found")
	}
}

func TestService_AppendCaseStatus_UnknownReferral(t *testing.T) {
	f := newFixture()
	cf := f.caseFile(t)
	bogus := uuid.New()

	err := f.svc.AppendCaseStatus(context.Background(), &CaseStatus{
		CaseFileID: cf.ID,
		Status:     StatusReferred,
		ReferralID: &bogus,
	})
	if err == nil {
		t.Fatal("expected error for unknown referral")
	}
}

func TestService_AppendCaseStatus_LinksReferral(t *testing.T) {
	f := newFixture()
	cf := f.caseFile(t)
	r := f.referral(t)

	if err := f.svc.AppendCaseStatus(context.Background(), &CaseStatus{
		CaseFileID: cf.ID,
		Status:     StatusReferred,
		ReferralID: &r.ID,
	}); err != nil {
		t.Fatalf("append: %v", err)
	}

	rows, _ := f.svc.ListCaseStatuses(context.Background(), cf.ID)
	if len(rows) != 1 || rows[0].ReferralID == nil || *rows[0].ReferralID != r.ID {
		t.Error("expected status entry linked to referral")
	}
}

// -- attachments --

func TestService_ReplaceAttachments_SwapsSetWhole(t *testing.T) {
	f := newFixture()
	r := f.referral(t)
	a, b, c := f.file(t), f.file(t), f.file(t)

	if err := f.svc.ReplaceAttachments(context.Background(), r.ID, AttachmentReferralForm, []uuid.UUID{a.ID, b.ID}); err != nil {
		t.Fatalf("first replace: %v", err)
	}
	if err := f.svc.ReplaceAttachments(context.Background(), r.ID, AttachmentReferralForm, []uuid.UUID{c.ID}); err != nil {
		t.Fatalf("second replace: %v", err)
	}

	ids, err := f.svc.ListAttachments(context.Background(), r.ID, AttachmentReferralForm)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ids) != 1 || ids[0] != c.ID {
		t.Errorf("expected set replaced whole, got %v", ids)
	}
}

func TestService_ReplaceAttachments_UnknownFileFailsWholly(t *testing.T) {
	f := newFixture()
	r := f.referral(t)
	known := f.file(t)

	err := f.svc.ReplaceAttachments(context.Background(), r.ID, AttachmentReferralForm,
		[]uuid.UUID{known.ID, uuid.New()})
	if err == nil {
		t.Fatal("expected error for unknown file id")
	}

	ids, _ := f.svc.ListAttachments(context.Background(), r.ID, AttachmentReferralForm)
	if len(ids) != 0 {
		t.Errorf("expected stored set untouched, got %v", ids)
	}
}

func TestService_Attachments_KindsIndependent(t *testing.T) {
	f := newFixture()
	r := f.referral(t)
	form, report := f.file(t), f.file(t)

	if err := f.svc.ReplaceAttachments(context.Background(), r.ID, AttachmentReferralForm, []uuid.UUID{form.ID}); err != nil {
		t.Fatalf("replace forms: %v", err)
	}
	if err := f.svc.ReplaceAttachments(context.Background(), r.ID, AttachmentInvestigationReport, []uuid.UUID{report.ID}); err != nil {
		t.Fatalf("replace reports: %v", err)
	}
	// Clearing one kind must not touch the other.
	if err := f.svc.ReplaceAttachments(context.Background(), r.ID, AttachmentReferralForm, nil); err != nil {
		t.Fatalf("clear forms: %v", err)
	}

	forms, _ := f.svc.ListAttachments(context.Background(), r.ID, AttachmentReferralForm)
	reports, _ := f.svc.ListAttachments(context.Background(), r.ID, AttachmentInvestigationReport)
	if len(forms) != 0 {
		t.Errorf("expected forms cleared, got %v", forms)
	}
	if len(reports) != 1 || reports[0] != report.ID {
		t.Errorf("expected reports untouched, got %v", reports)
	}
}

func TestService_ReplaceAttachments_UnknownReferral(t *testing.T) {
	f := newFixture()
	err := f.svc.ReplaceAttachments(context.Background(), uuid.New(), AttachmentReferralForm, nil)
	if !errors.Is(err, db.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// -- follow-ups --

func TestService_CreateFollowUp_ReasonRequiredWhenUnanswered(t *testing.T) {
	f := newFixture()
	r := f.referral(t)

	fu := &CaseFollowUp{
		ReferralID:   r.ID,
		CallDate:     time.Now(),
		CallAnswered: false,
	}
	if err := f.svc.CreateFollowUp(context.Background(), fu); err == nil {
		t.Fatal("expected error when unanswered call has no reason")
	}

	reason := "switched off"
	fu.CallNotAnsweredReason = &reason
	if err := f.svc.CreateFollowUp(context.Background(), fu); err != nil {
		t.Fatalf("create with reason: %v", err)
	}
}

func TestService_CreateFollowUp_AnsweredNeedsNoReason(t *testing.T) {
	f := newFixture()
	r := f.referral(t)

	fu := &CaseFollowUp{
		ReferralID:   r.ID,
		CallDate:     time.Now(),
		CallAnswered: true,
	}
	if err := f.svc.CreateFollowUp(context.Background(), fu); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestService_CreateFollowUp_UnknownReferral(t *testing.T) {
	f := newFixture()
	fu := &CaseFollowUp{
		ReferralID:   uuid.New(),
		CallDate:     time.Now(),
		CallAnswered: true,
	}
	if err := f.svc.CreateFollowUp(context.Background(), fu); err == nil {
		t.Fatal("expected error for unknown referral")
	}
	if len(f.followUps.followUps) != 0 {
		t.Error("expected no follow-up persisted")
	}
}

// -- referrals --

func TestService_CreateReferral_DefaultsDatetime(t *testing.T) {
	f := newFixture()
	r := f.referral(t)
	if r.Datetime.IsZero() {
		t.Error("expected datetime defaulted to now")
	}
}

func TestService_ListReferrals_FiltersBySourceHospital(t *testing.T) {
	f := newFixture()
	h1, h2 := uuid.New(), uuid.New()

	r1 := &Referral{SourceHospitalID: &h1}
	r2 := &Referral{SourceHospitalID: &h2}
	for _, r := range []*Referral{r1, r2} {
		if err := f.svc.CreateReferral(context.Background(), r); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	rows, total, err := f.svc.ListReferrals(context.Background(), ReferralFilters{SourceHospitalID: &h1}, 50, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(rows) != 1 || rows[0].ID != r1.ID {
		t.Errorf("expected only referral from h1, got total=%d", total)
	}
}

// -- files --

func TestService_RegisterFile_RequiresBlobRef(t *testing.T) {
	f := newFixture()
	if err := f.svc.RegisterFile(context.Background(), &File{}); err == nil {
		t.Error("expected error for missing blob_ref")
	}
}
