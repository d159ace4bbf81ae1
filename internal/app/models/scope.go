package models

// Scope is the resolved authorization context of a caller: either
// unrestricted (administrator-equivalent) or restricted to one section.
// It is computed once at the entry of each operation and threaded
// explicitly into every subsequent check; it is never cached across
// requests.
type Scope struct {
	Unrestricted bool
	SectionID    int64
}

// UnrestrictedScope returns the administrator-equivalent scope.
func UnrestrictedScope() Scope {
	return Scope{Unrestricted: true}
}

// RestrictedScope returns a scope limited to a single section.
func RestrictedScope(sectionID int64) Scope {
	return Scope{SectionID: sectionID}
}

// Permits reports whether a record owned by the given section is visible
// and writable under this scope. Reads and writes share this single
// predicate: a class invisible under scope is also unwritable.
func (s Scope) Permits(sectionID int64) bool {
	return s.Unrestricted || s.SectionID == sectionID
}

// Principal identifies the authenticated caller, extracted from the
// access token by the auth middleware.
type Principal struct {
	UserID int64
	Email  string
	Role   RoleType
}
