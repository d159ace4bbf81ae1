package models

// Section is the organizational unit that owns a set of courses. It is
// the unit of authorization scoping for non-administrative callers.
type Section struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
	Code string `json:"code" db:"code"`
}
