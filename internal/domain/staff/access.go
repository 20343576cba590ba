package staff

import "github.com/reftrack/reftrack/internal/platform/auth"

// DeriveStaffAccess reports whether a role carries administrative access.
// Services call it on every create and update so a role change always
// re-derives the flag.
func DeriveStaffAccess(role string) bool {
	return role == auth.RoleSiteAdmin || role == auth.RoleHospitalAdmin
}

func IsSiteAdmin(role string) bool { return role == auth.RoleSiteAdmin }

func IsHospitalAdmin(role string) bool { return role == auth.RoleHospitalAdmin }

func IsHospitalStaff(role string) bool { return role == auth.RoleStaff }

// ValidRole reports whether role is one of the three account roles.
func ValidRole(role string) bool {
	switch role {
	case auth.RoleSiteAdmin, auth.RoleHospitalAdmin, auth.RoleStaff:
		return true
	}
	return false
}
