package models

// ClassSchedule represents one weekly recurring meeting slot of a class,
// tied to a single classroom.
//
// StartTime and EndTime are zero-padded 24h "HH:MM" strings; in that form
// lexicographic order equals temporal order, which the conflict arithmetic
// relies on. A slot occupies the half-open range [StartTime, EndTime).
type ClassSchedule struct {
	ID          int64  `json:"id" db:"id"`
	ClassID     int64  `json:"classId" db:"class_id"`
	ClassroomID int64  `json:"classroomId" db:"classroom_id"`
	Day         string `json:"day" db:"day" example:"Monday"`
	StartTime   string `json:"startTime" db:"start_time" example:"08:00"`
	EndTime     string `json:"endTime" db:"end_time" example:"10:00"`
	ModalityID  int64  `json:"modalityId" db:"modality_id"`
	Disability  bool   `json:"disability" db:"disability"`
}

// Overlaps reports whether two slots double-book a classroom: same room,
// same day, intersecting half-open time ranges. Touching endpoints
// (one ends exactly when the other starts) do not overlap.
func (s *ClassSchedule) Overlaps(other *ClassSchedule) bool {
	if s.ClassroomID != other.ClassroomID || s.Day != other.Day {
		return false
	}
	return s.StartTime < other.EndTime && other.StartTime < s.EndTime
}
