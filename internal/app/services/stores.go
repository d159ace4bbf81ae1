package services

import (
	"context"

	"github.com/secchub/secchub-backend/internal/app/models"
)

// The planning core talks to storage and to its external collaborators
// through the narrow interfaces below. The pgx-backed repositories satisfy
// them in production; tests substitute in-memory fakes.

// ClassStore is the persistence surface for planned classes.
type ClassStore interface {
	Create(ctx context.Context, class *models.Class) error
	CreateWithSchedules(ctx context.Context, class *models.Class, schedules []*models.ClassSchedule) error
	GetByID(ctx context.Context, id int64) (*models.Class, error)
	FindByFilter(ctx context.Context, filter models.ClassFilter) ([]*models.Class, error)
	CountBySemester(ctx context.Context, semesterID int64) (int64, error)
	ExistsActiveForCourseAndSemester(ctx context.Context, courseID, semesterID int64) (bool, error)
	Update(ctx context.Context, class *models.Class) error
	DeleteCascade(ctx context.Context, id int64) error
}

// ScheduleStore is the persistence surface for weekly meeting slots.
type ScheduleStore interface {
	Create(ctx context.Context, schedule *models.ClassSchedule) error
	GetByID(ctx context.Context, id int64) (*models.ClassSchedule, error)
	FindByClassID(ctx context.Context, classID int64) ([]*models.ClassSchedule, error)
	FindByClassroomAndDay(ctx context.Context, classroomID int64, day string) ([]*models.ClassSchedule, error)
	FindByClassroom(ctx context.Context, classroomID int64) ([]*models.ClassSchedule, error)
	FindByDay(ctx context.Context, day string) ([]*models.ClassSchedule, error)
	FindByDisability(ctx context.Context, disability bool) ([]*models.ClassSchedule, error)
	FindBySemester(ctx context.Context, semesterID int64) ([]*models.ClassSchedule, error)
	Update(ctx context.Context, schedule *models.ClassSchedule) error
	Delete(ctx context.Context, id int64) error
	DeleteByClassID(ctx context.Context, classID int64) error
}

// CourseDirectory resolves course data, notably the owning section used
// for scope checks.
type CourseDirectory interface {
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	SectionIDForCourse(ctx context.Context, courseID int64) (int64, error)
}

// SemesterDirectory resolves semester data and the current-semester default.
type SemesterDirectory interface {
	GetByID(ctx context.Context, id int64) (*models.Semester, error)
	CurrentSemesterID(ctx context.Context) (int64, error)
	Window(ctx context.Context, semesterID int64) (models.SemesterWindow, error)
}

// UserStore is the persistence surface for user accounts, used by
// authentication.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// ScopeResolver computes the caller's authorization scope. Satisfied by
// auth.ScopeResolver.
type ScopeResolver interface {
	Resolve(ctx context.Context, principal models.Principal) (models.Scope, error)
}
