package models

import "time"

// Semester represents an academic period. Exactly one semester is marked
// current at a time.
type Semester struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	StartDate time.Time `json:"startDate" db:"start_date"`
	EndDate   time.Time `json:"endDate" db:"end_date"`
	Current   bool      `json:"current" db:"current"`
}

// SemesterWindow is the date window of a semester, used by the duplication
// engine to remap copied class dates.
type SemesterWindow struct {
	StartDate time.Time
	EndDate   time.Time
}

// Window returns the semester's date window.
func (s *Semester) Window() SemesterWindow {
	return SemesterWindow{StartDate: s.StartDate, EndDate: s.EndDate}
}
