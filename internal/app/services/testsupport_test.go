package services

import (
	"context"
	"errors"
	"sort"

	"github.com/secchub/secchub-backend/internal/app/models"
	"github.com/secchub/secchub-backend/internal/pkg/apperrors"
)

// memStore is an in-memory ClassStore plus ScheduleStore backing the
// service tests. It mirrors the repository error mapping: missing rows
// come back as the typed not-found errors.
type memStore struct {
	classes   map[int64]*models.Class
	schedules map[int64]*models.ClassSchedule

	nextClassID    int64
	nextScheduleID int64

	// failCreateForCourse makes CreateWithSchedules fail for classes of
	// that course, used to exercise mid-batch duplication failures.
	failCreateForCourse int64
}

func newMemStore() *memStore {
	return &memStore{
		classes:   make(map[int64]*models.Class),
		schedules: make(map[int64]*models.ClassSchedule),
	}
}

func (m *memStore) addClass(class models.Class) *models.Class {
	if class.ID == 0 {
		m.nextClassID++
		class.ID = m.nextClassID
	} else if class.ID > m.nextClassID {
		m.nextClassID = class.ID
	}
	if class.StatusID == 0 {
		class.StatusID = models.ClassStatusActive
	}
	stored := class
	m.classes[stored.ID] = &stored
	return &stored
}

func (m *memStore) addSchedule(schedule models.ClassSchedule) *models.ClassSchedule {
	if schedule.ID == 0 {
		m.nextScheduleID++
		schedule.ID = m.nextScheduleID
	} else if schedule.ID > m.nextScheduleID {
		m.nextScheduleID = schedule.ID
	}
	stored := schedule
	m.schedules[stored.ID] = &stored
	return &stored
}

func (m *memStore) Create(ctx context.Context, class *models.Class) error {
	m.nextClassID++
	class.ID = m.nextClassID
	stored := *class
	m.classes[stored.ID] = &stored
	return nil
}

func (m *memStore) CreateWithSchedules(ctx context.Context, class *models.Class, schedules []*models.ClassSchedule) error {
	if m.failCreateForCourse != 0 && class.CourseID == m.failCreateForCourse {
		return errors.New("storage unavailable")
	}
	if err := m.Create(ctx, class); err != nil {
		return err
	}
	for _, schedule := range schedules {
		schedule.ClassID = class.ID
		m.nextScheduleID++
		schedule.ID = m.nextScheduleID
		stored := *schedule
		m.schedules[stored.ID] = &stored
	}
	return nil
}

func (m *memStore) GetByID(ctx context.Context, id int64) (*models.Class, error) {
	class, ok := m.classes[id]
	if !ok {
		return nil, apperrors.ErrClassNotFound
	}
	copied := *class
	return &copied, nil
}

func (m *memStore) FindByFilter(ctx context.Context, filter models.ClassFilter) ([]*models.Class, error) {
	var result []*models.Class
	for _, class := range m.classes {
		if filter.SemesterID != nil && class.SemesterID != *filter.SemesterID {
			continue
		}
		if filter.CourseID != nil && class.CourseID != *filter.CourseID {
			continue
		}
		copied := *class
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *memStore) CountBySemester(ctx context.Context, semesterID int64) (int64, error) {
	var count int64
	for _, class := range m.classes {
		if class.SemesterID == semesterID {
			count++
		}
	}
	return count, nil
}

func (m *memStore) ExistsActiveForCourseAndSemester(ctx context.Context, courseID, semesterID int64) (bool, error) {
	for _, class := range m.classes {
		if class.CourseID == courseID && class.SemesterID == semesterID && class.StatusID == models.ClassStatusActive {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) Update(ctx context.Context, class *models.Class) error {
	if _, ok := m.classes[class.ID]; !ok {
		return apperrors.ErrClassNotFound
	}
	stored := *class
	m.classes[stored.ID] = &stored
	return nil
}

func (m *memStore) DeleteCascade(ctx context.Context, id int64) error {
	if _, ok := m.classes[id]; !ok {
		return apperrors.ErrClassNotFound
	}
	for scheduleID, schedule := range m.schedules {
		if schedule.ClassID == id {
			delete(m.schedules, scheduleID)
		}
	}
	delete(m.classes, id)
	return nil
}

func (m *memStore) CreateSchedule(ctx context.Context, schedule *models.ClassSchedule) error {
	m.nextScheduleID++
	schedule.ID = m.nextScheduleID
	stored := *schedule
	m.schedules[stored.ID] = &stored
	return nil
}

// scheduleStore adapts memStore to the ScheduleStore interface; Create
// would otherwise clash with the class Create method.
type scheduleStore struct {
	*memStore
}

func (m scheduleStore) Create(ctx context.Context, schedule *models.ClassSchedule) error {
	return m.memStore.CreateSchedule(ctx, schedule)
}

func (m scheduleStore) GetByID(ctx context.Context, id int64) (*models.ClassSchedule, error) {
	schedule, ok := m.schedules[id]
	if !ok {
		return nil, apperrors.ErrScheduleNotFound
	}
	copied := *schedule
	return &copied, nil
}

func (m scheduleStore) findSchedules(match func(*models.ClassSchedule) bool) ([]*models.ClassSchedule, error) {
	var result []*models.ClassSchedule
	for _, schedule := range m.schedules {
		if match(schedule) {
			copied := *schedule
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m scheduleStore) FindByClassID(ctx context.Context, classID int64) ([]*models.ClassSchedule, error) {
	return m.findSchedules(func(s *models.ClassSchedule) bool { return s.ClassID == classID })
}

func (m scheduleStore) FindByClassroomAndDay(ctx context.Context, classroomID int64, day string) ([]*models.ClassSchedule, error) {
	return m.findSchedules(func(s *models.ClassSchedule) bool { return s.ClassroomID == classroomID && s.Day == day })
}

func (m scheduleStore) FindByClassroom(ctx context.Context, classroomID int64) ([]*models.ClassSchedule, error) {
	return m.findSchedules(func(s *models.ClassSchedule) bool { return s.ClassroomID == classroomID })
}

func (m scheduleStore) FindByDay(ctx context.Context, day string) ([]*models.ClassSchedule, error) {
	return m.findSchedules(func(s *models.ClassSchedule) bool { return s.Day == day })
}

func (m scheduleStore) FindByDisability(ctx context.Context, disability bool) ([]*models.ClassSchedule, error) {
	return m.findSchedules(func(s *models.ClassSchedule) bool { return s.Disability == disability })
}

func (m scheduleStore) FindBySemester(ctx context.Context, semesterID int64) ([]*models.ClassSchedule, error) {
	return m.findSchedules(func(s *models.ClassSchedule) bool {
		class, ok := m.classes[s.ClassID]
		return ok && class.SemesterID == semesterID
	})
}

func (m scheduleStore) Update(ctx context.Context, schedule *models.ClassSchedule) error {
	if _, ok := m.schedules[schedule.ID]; !ok {
		return apperrors.ErrScheduleNotFound
	}
	stored := *schedule
	m.schedules[stored.ID] = &stored
	return nil
}

func (m scheduleStore) Delete(ctx context.Context, id int64) error {
	if _, ok := m.schedules[id]; !ok {
		return apperrors.ErrScheduleNotFound
	}
	delete(m.schedules, id)
	return nil
}

func (m scheduleStore) DeleteByClassID(ctx context.Context, classID int64) error {
	for id, schedule := range m.schedules {
		if schedule.ClassID == classID {
			delete(m.schedules, id)
		}
	}
	return nil
}

// fakeCourses maps course ids to owning sections.
type fakeCourses struct {
	sectionByCourse map[int64]int64
}

func (f fakeCourses) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	sectionID, ok := f.sectionByCourse[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	return &models.Course{ID: id, SectionID: sectionID}, nil
}

func (f fakeCourses) SectionIDForCourse(ctx context.Context, courseID int64) (int64, error) {
	sectionID, ok := f.sectionByCourse[courseID]
	if !ok {
		return 0, apperrors.ErrCourseNotFound
	}
	return sectionID, nil
}

// fakeSemesters serves semester lookups and the current-semester default.
type fakeSemesters struct {
	semesters map[int64]*models.Semester
	currentID int64
}

func (f fakeSemesters) GetByID(ctx context.Context, id int64) (*models.Semester, error) {
	semester, ok := f.semesters[id]
	if !ok {
		return nil, apperrors.ErrSemesterNotFound
	}
	return semester, nil
}

func (f fakeSemesters) CurrentSemesterID(ctx context.Context) (int64, error) {
	if f.currentID == 0 {
		return 0, apperrors.ErrSemesterNotFound
	}
	return f.currentID, nil
}

func (f fakeSemesters) Window(ctx context.Context, semesterID int64) (models.SemesterWindow, error) {
	semester, ok := f.semesters[semesterID]
	if !ok {
		return models.SemesterWindow{}, apperrors.ErrSemesterNotFound
	}
	return semester.Window(), nil
}

// roleScopes resolves scope from the principal role the way the real
// resolver does, with a fixed section for SECTION principals.
type roleScopes struct {
	sectionID int64
	err       error
}

func (f roleScopes) Resolve(ctx context.Context, principal models.Principal) (models.Scope, error) {
	if f.err != nil {
		return models.Scope{}, f.err
	}
	switch principal.Role {
	case models.RoleAdmin, models.RoleTeacher:
		return models.UnrestrictedScope(), nil
	case models.RoleSection:
		return models.RestrictedScope(f.sectionID), nil
	default:
		return models.Scope{}, apperrors.ErrPermissionDenied
	}
}

var (
	adminPrincipal   = models.Principal{UserID: 1, Email: "admin@secchub.edu", Role: models.RoleAdmin}
	sectionPrincipal = models.Principal{UserID: 2, Email: "sys.section@secchub.edu", Role: models.RoleSection}
)

func int64Ptr(v int64) *int64 { return &v }

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }
