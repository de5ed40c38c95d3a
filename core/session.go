package core

import "github.com/gorilla/sessions"

// Roles reported by the backend. Unknown roles are kept verbatim; CUSTOMER
// is the fallback when the login payload omits one.
const (
	RoleCustomer = "CUSTOMER"
	RoleAdmin    = "ADMIN"
)

// Session is the authenticated-identity state for one browser user.
// Anonymous sessions carry no identity at all; an authenticated session
// always has both UserID and Username set. The value is mutated only by
// ApplyLogin and Logout, and each user gets an isolated copy — never a
// process-wide variable.
type Session struct {
	Authenticated bool   `json:"authenticated"`
	UserID        string `json:"user_id,omitempty"`
	Username      string `json:"username,omitempty"`
	Role          string `json:"role,omitempty"`
}

// NewSession returns the anonymous state.
func NewSession() Session {
	return Session{}
}

// ApplyLogin moves Anonymous -> Authenticated when the login Result's
// business payload reports success. user_id falls back to the submitted
// username, role defaults to CUSTOMER. A failed Result leaves the session
// untouched. A second successful login simply overwrites the identity
// (single-session-per-client, last writer wins).
func (s *Session) ApplyLogin(submittedUsername string, r Result) bool {
	if !r.BusinessOK() {
		return false
	}
	s.Authenticated = true
	s.Username = submittedUsername
	// An empty user_id counts as absent so the identity invariant
	// (authenticated implies both fields) always holds.
	if id := r.Data.String("user_id", ""); id != "" {
		s.UserID = id
	} else {
		s.UserID = submittedUsername
	}
	if role := r.Data.String("role", ""); role != "" {
		s.Role = role
	} else {
		s.Role = RoleCustomer
	}
	return true
}

// Logout unconditionally returns the session to Anonymous, clearing every
// identity field so nothing stale survives.
func (s *Session) Logout() {
	*s = Session{}
}

// IsAdmin reports whether the authenticated identity holds the admin role.
func (s Session) IsAdmin() bool {
	return s.Authenticated && s.Role == RoleAdmin
}

// Cookie-session bridge. The gin middleware stores the identity as flat
// string values inside the gorilla session, mirroring how the login
// handler rotates them.

func sessionFromCookie(sess *sessions.Session) Session {
	if sess == nil {
		return Session{}
	}
	username, _ := sess.Values["username"].(string)
	userID, _ := sess.Values["user_id"].(string)
	role, _ := sess.Values["role"].(string)
	if username == "" || userID == "" {
		return Session{}
	}
	return Session{Authenticated: true, UserID: userID, Username: username, Role: role}
}

func storeSessionInCookie(sess *sessions.Session, s Session) {
	// Reset values first (simple rotation).
	sess.Values = map[interface{}]interface{}{}
	if !s.Authenticated {
		return
	}
	sess.Values["username"] = s.Username
	sess.Values["user_id"] = s.UserID
	sess.Values["role"] = s.Role
}
