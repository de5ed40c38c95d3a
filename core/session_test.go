package core

import "testing"

func TestApplyLoginSuccess(t *testing.T) {
	s := NewSession()
	r := Success(Payload{"success": true, "user_id": "u1", "role": "ADMIN"})
	if !s.ApplyLogin("admin", r) {
		t.Fatal("successful login not applied")
	}
	if !s.Authenticated || s.UserID != "u1" || s.Username != "admin" || s.Role != "ADMIN" {
		t.Fatalf("unexpected session: %+v", s)
	}
}

func TestApplyLoginDefaults(t *testing.T) {
	s := NewSession()
	// Backend confirms but omits user_id and role.
	if !s.ApplyLogin("alice", Success(Payload{"success": true})) {
		t.Fatal("login not applied")
	}
	if s.UserID != "alice" {
		t.Errorf("user_id fallback = %q, want submitted username", s.UserID)
	}
	if s.Role != RoleCustomer {
		t.Errorf("role default = %q, want %q", s.Role, RoleCustomer)
	}
}

func TestFailedLoginLeavesSessionUntouched(t *testing.T) {
	s := NewSession()
	if s.ApplyLogin("admin", Success(Payload{"success": false, "message": "Invalid credentials"})) {
		t.Fatal("rejected login applied")
	}
	if s.Authenticated || s.UserID != "" || s.Username != "" || s.Role != "" {
		t.Fatalf("anonymous session mutated: %+v", s)
	}

	// Same for transport failures.
	if s.ApplyLogin("admin", Failure(ErrTransportUnavailable, "cannot connect to backend")) {
		t.Fatal("transport failure applied as login")
	}
	if s.Authenticated {
		t.Fatal("session authenticated after transport failure")
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	s := NewSession()
	s.ApplyLogin("admin", Success(Payload{"success": true, "user_id": "u1", "role": "ADMIN"}))
	s.Logout()
	if s.Authenticated || s.UserID != "" || s.Username != "" || s.Role != "" {
		t.Fatalf("stale identity after logout: %+v", s)
	}
}

func TestSecondLoginOverwritesIdentity(t *testing.T) {
	s := NewSession()
	s.ApplyLogin("alice", Success(Payload{"success": true, "user_id": "u1"}))
	s.ApplyLogin("bob", Success(Payload{"success": true, "user_id": "u2", "role": "ADMIN"}))
	if s.Username != "bob" || s.UserID != "u2" || s.Role != "ADMIN" {
		t.Fatalf("last login must win: %+v", s)
	}
}

func TestIdentityFieldInvariant(t *testing.T) {
	// Authenticated implies both user_id and username present; a login
	// payload can never produce one without the other.
	s := NewSession()
	s.ApplyLogin("x", Success(Payload{"success": true, "user_id": ""}))
	if s.Authenticated && (s.UserID == "" || s.Username == "") {
		t.Fatalf("invariant violated: %+v", s)
	}
}

func TestIsAdmin(t *testing.T) {
	s := NewSession()
	if s.IsAdmin() {
		t.Error("anonymous session cannot be admin")
	}
	s.ApplyLogin("admin", Success(Payload{"success": true, "role": "ADMIN"}))
	if !s.IsAdmin() {
		t.Error("admin role not recognized")
	}
	s.Logout()
	if s.IsAdmin() {
		t.Error("admin survives logout")
	}
}
