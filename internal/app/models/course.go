package models

// Course represents a course owned by a section. Classes reference a
// course; the course's section determines who may manage those classes.
type Course struct {
	ID        int64   `json:"id" db:"id"`
	SectionID int64   `json:"sectionId" db:"section_id"`
	Code      string  `json:"code" db:"code"`
	Name      string  `json:"name" db:"name"`
	Credits   int     `json:"credits" db:"credits"`
	Description *string `json:"description,omitempty" db:"description"` // Nullable

	// Relations (populated when needed)
	Section *Section `json:"section,omitempty"`
}
