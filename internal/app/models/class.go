package models

import "time"

// Class status identifiers (status table seeded by migrations).
const (
	ClassStatusActive   int64 = 1
	ClassStatusInactive int64 = 2
)

// Class represents one planned offering of a course in a semester.
// The owning section is not stored here; it is resolved transitively
// through the course (class -> course -> section).
type Class struct {
	ID          int64      `json:"id" db:"id"`
	CourseID    int64      `json:"courseId" db:"course_id"`
	SemesterID  int64      `json:"semesterId" db:"semester_id"`
	Capacity    int        `json:"capacity" db:"capacity"`
	StartDate   *time.Time `json:"startDate,omitempty" db:"start_date"` // Nullable
	EndDate     *time.Time `json:"endDate,omitempty" db:"end_date"`     // Nullable
	Observation *string    `json:"observation,omitempty" db:"observation"`
	StatusID    int64      `json:"statusId" db:"status_id"`

	// Relations (populated when needed)
	Schedules []*ClassSchedule `json:"schedules,omitempty"`
}

// ClassFilter narrows class listings. Nil fields are not applied.
type ClassFilter struct {
	SemesterID *int64
	CourseID   *int64
}
