package auth

import "testing"

func TestIsPublicPath_HealthEndpoints(t *testing.T) {
	if !IsPublicPath("/health") {
		t.Error("expected /health to be public")
	}
	if !IsPublicPath("/health/db") {
		t.Error("expected /health/db to be public")
	}
	if IsPublicPath("/api/v1/hospitals") {
		t.Error("expected /api/v1/hospitals to require auth")
	}
}

func TestPublic_RegistersPath(t *testing.T) {
	path := Public("/api/v1/auth/login")
	if path != "/api/v1/auth/login" {
		t.Errorf("Public should return the path unchanged, got %s", path)
	}
	if !IsPublicPath("/api/v1/auth/login") {
		t.Error("expected registered path to be public")
	}
}

func TestIsPublicPath_NoSubstringMatching(t *testing.T) {
	// Paths merely containing "login" are not exempt; only registered
	// routes are.
	if IsPublicPath("/api/v1/staff-users/login-history") {
		t.Error("expected unregistered path to require auth")
	}
}
