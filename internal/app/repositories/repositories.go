package repositories

import (
	"github.com/secchub/secchub-backend/internal/db"
)

// Repositories holds all repository instances
type Repositories struct {
	ClassRepository    *ClassRepository
	ScheduleRepository *ClassScheduleRepository
	CourseRepository   *CourseRepository
	SemesterRepository *SemesterRepository
	SectionRepository  *SectionRepository
	UserRepository     *UserRepository
}

// NewRepositories creates all repositories sharing one database handle.
func NewRepositories(database *db.PostgresDB) *Repositories {
	return &Repositories{
		ClassRepository:    NewClassRepository(database),
		ScheduleRepository: NewClassScheduleRepository(database),
		CourseRepository:   NewCourseRepository(database),
		SemesterRepository: NewSemesterRepository(database),
		SectionRepository:  NewSectionRepository(database),
		UserRepository:     NewUserRepository(database),
	}
}
