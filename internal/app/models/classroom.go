package models

// Classroom is a physical (or virtual) room schedules are assigned to.
// The room is the physically exclusive resource conflict detection guards.
type Classroom struct {
	ID       int64  `json:"id" db:"id"`
	Room     string `json:"room" db:"room"`
	Capacity int    `json:"capacity" db:"capacity"`
	TypeID   int64  `json:"typeId" db:"type_id"`
}

// Modality is a teaching modality (in-person, virtual, hybrid). It does
// not participate in conflict detection.
type Modality struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}
