package staff

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/reftrack/reftrack/internal/platform/auth"
)

// ErrInvalidCredentials is returned by Login for an unknown email, a wrong
// password, or a deactivated account. Callers answer 401 without revealing
// which check failed.
var ErrInvalidCredentials = errors.New("invalid credentials")

type Service struct {
	staff        StaffRepository
	associations AssociationRepository
	education    EducationRepository
}

func NewService(staff StaffRepository, associations AssociationRepository, education EducationRepository) *Service {
	return &Service{staff: staff, associations: associations, education: education}
}

func generateStaffCode() string {
	return "STF-" + strings.ToUpper(uuid.New().String()[:8])
}

// CreateStaffUser hashes the password, normalises the email, fills a staff
// code when absent, and derives the access flag from the role.
func (s *Service) CreateStaffUser(ctx context.Context, u *StaffUser, password string) error {
	if u.Email == "" {
		return fmt.Errorf("email is required")
	}
	if password == "" {
		return fmt.Errorf("password is required")
	}
	if u.Role == "" {
		u.Role = auth.RoleStaff
	}
	if !ValidRole(u.Role) {
		return fmt.Errorf("role must be SITE_ADMIN, HOSPITAL_ADMIN or STAFF")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.Email = NormalizeEmail(u.Email)
	if u.StaffUserID == "" {
		u.StaffUserID = generateStaffCode()
	}
	u.IsStaff = DeriveStaffAccess(u.Role)
	return s.staff.Create(ctx, u)
}

func (s *Service) GetStaffUser(ctx context.Context, id uuid.UUID) (*StaffUser, error) {
	return s.staff.GetByID(ctx, id)
}

// UpdateStaffUser replaces the stored record. The password hash is carried
// over unless newPassword is set; the access flag is re-derived from the role
// on every update.
func (s *Service) UpdateStaffUser(ctx context.Context, u *StaffUser, newPassword string) error {
	if u.Email == "" {
		return fmt.Errorf("email is required")
	}
	if !ValidRole(u.Role) {
		return fmt.Errorf("role must be SITE_ADMIN, HOSPITAL_ADMIN or STAFF")
	}

	existing, err := s.staff.GetByID(ctx, u.ID)
	if err != nil {
		return err
	}
	if newPassword != "" {
		hash, err := auth.HashPassword(newPassword)
		if err != nil {
			return err
		}
		u.PasswordHash = hash
	} else {
		u.PasswordHash = existing.PasswordHash
	}
	if u.StaffUserID == "" {
		u.StaffUserID = existing.StaffUserID
	}
	u.Email = NormalizeEmail(u.Email)
	u.IsStaff = DeriveStaffAccess(u.Role)
	return s.staff.Update(ctx, u)
}

func (s *Service) DeleteStaffUser(ctx context.Context, id uuid.UUID) error {
	return s.staff.Delete(ctx, id)
}

func (s *Service) ListStaffUsers(ctx context.Context, f ListFilters, limit, offset int) ([]*StaffUser, int, error) {
	return s.staff.List(ctx, f, limit, offset)
}

// Login verifies credentials and marks the account signed in.
func (s *Service) Login(ctx context.Context, email, password string) (*StaffUser, error) {
	u, err := s.staff.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrInvalidCredentials
	}
	if !u.SignInStatus {
		u.SignInStatus = true
		if err := s.staff.Update(ctx, u); err != nil {
			return nil, err
		}
	}
	return u, nil
}

// -- Association sets --

func (s *Service) requireStaff(ctx context.Context, id uuid.UUID) error {
	_, err := s.staff.GetByID(ctx, id)
	return err
}

func (s *Service) AddExpertise(ctx context.Context, staffID, keywordID uuid.UUID) error {
	if err := s.requireStaff(ctx, staffID); err != nil {
		return err
	}
	return s.associations.AddExpertise(ctx, staffID, keywordID)
}

func (s *Service) ListExpertise(ctx context.Context, staffID uuid.UUID) ([]uuid.UUID, error) {
	if err := s.requireStaff(ctx, staffID); err != nil {
		return nil, err
	}
	return s.associations.ListExpertise(ctx, staffID)
}

func (s *Service) RemoveExpertise(ctx context.Context, staffID, keywordID uuid.UUID) error {
	return s.associations.RemoveExpertise(ctx, staffID, keywordID)
}

func (s *Service) AddInchargeRole(ctx context.Context, staffID, roleID uuid.UUID) error {
	if err := s.requireStaff(ctx, staffID); err != nil {
		return err
	}
	return s.associations.AddInchargeRole(ctx, staffID, roleID)
}

func (s *Service) ListInchargeRoles(ctx context.Context, staffID uuid.UUID) ([]uuid.UUID, error) {
	if err := s.requireStaff(ctx, staffID); err != nil {
		return nil, err
	}
	return s.associations.ListInchargeRoles(ctx, staffID)
}

func (s *Service) RemoveInchargeRole(ctx context.Context, staffID, roleID uuid.UUID) error {
	return s.associations.RemoveInchargeRole(ctx, staffID, roleID)
}

func (s *Service) AddSavedHospital(ctx context.Context, staffID, hospitalID uuid.UUID) error {
	if err := s.requireStaff(ctx, staffID); err != nil {
		return err
	}
	return s.associations.AddSavedHospital(ctx, staffID, hospitalID)
}

func (s *Service) ListSavedHospitals(ctx context.Context, staffID uuid.UUID) ([]uuid.UUID, error) {
	if err := s.requireStaff(ctx, staffID); err != nil {
		return nil, err
	}
	return s.associations.ListSavedHospitals(ctx, staffID)
}

func (s *Service) RemoveSavedHospital(ctx context.Context, staffID, hospitalID uuid.UUID) error {
	return s.associations.RemoveSavedHospital(ctx, staffID, hospitalID)
}

// AddSavedExpert links a staff user to another staff user. Mutual saves are
// allowed; only self-saves are rejected.
func (s *Service) AddSavedExpert(ctx context.Context, staffID, expertID uuid.UUID) error {
	if staffID == expertID {
		return fmt.Errorf("cannot save yourself as an expert")
	}
	if err := s.requireStaff(ctx, staffID); err != nil {
		return err
	}
	if err := s.requireStaff(ctx, expertID); err != nil {
		return fmt.Errorf("unknown expert %s", expertID)
	}
	return s.associations.AddSavedExpert(ctx, staffID, expertID)
}

func (s *Service) ListSavedExperts(ctx context.Context, staffID uuid.UUID) ([]uuid.UUID, error) {
	if err := s.requireStaff(ctx, staffID); err != nil {
		return nil, err
	}
	return s.associations.ListSavedExperts(ctx, staffID)
}

func (s *Service) RemoveSavedExpert(ctx context.Context, staffID, expertID uuid.UUID) error {
	return s.associations.RemoveSavedExpert(ctx, staffID, expertID)
}

// -- Education --

func (s *Service) AddEducation(ctx context.Context, e *StaffUserEducation) error {
	if e.PassingYear <= 0 {
		return fmt.Errorf("passing_year is required")
	}
	if err := s.requireStaff(ctx, e.StaffUserID); err != nil {
		return err
	}
	return s.education.Add(ctx, e)
}

func (s *Service) ListEducation(ctx context.Context, staffID uuid.UUID) ([]*StaffUserEducation, error) {
	if err := s.requireStaff(ctx, staffID); err != nil {
		return nil, err
	}
	return s.education.ListByStaff(ctx, staffID)
}

func (s *Service) RemoveEducation(ctx context.Context, staffID, educationID uuid.UUID) error {
	return s.education.Remove(ctx, staffID, educationID)
}
