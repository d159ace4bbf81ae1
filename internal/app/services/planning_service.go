package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/secchub/secchub-backend/internal/app/models"
	"github.com/secchub/secchub-backend/internal/app/models/dto"
	"github.com/secchub/secchub-backend/internal/pkg/apperrors"
	"github.com/secchub/secchub-backend/internal/pkg/helpers"
	"github.com/secchub/secchub-backend/internal/pkg/logger"
	"github.com/secchub/secchub-backend/internal/pkg/validation"
)

// PlanningService manages the lifecycle of planned classes and their
// weekly schedules. Every operation resolves the caller's scope first;
// a class outside the caller's section is reported as not found, never
// as forbidden, so existence is not disclosed to out-of-scope callers.
type PlanningService struct {
	classes   ClassStore
	schedules ScheduleStore
	courses   CourseDirectory
	semesters SemesterDirectory
	scopes    ScopeResolver
	detector  *ConflictDetector
}

// NewPlanningService creates a new planning service instance
func NewPlanningService(classes ClassStore, schedules ScheduleStore, courses CourseDirectory, semesters SemesterDirectory, scopes ScopeResolver, detector *ConflictDetector) *PlanningService {
	return &PlanningService{
		classes:   classes,
		schedules: schedules,
		courses:   courses,
		semesters: semesters,
		scopes:    scopes,
		detector:  detector,
	}
}

// CreateClass plans a new class. When the request omits the semester, the
// current semester is used. An active class already planned for the same
// course and semester is rejected as a duplicate regardless of the new
// class's own status. Embedded schedules pass the same classroom-and-day
// conflict check as AddSchedule, against persisted slots and against
// their request siblings, before anything is persisted.
func (s *PlanningService) CreateClass(ctx context.Context, principal models.Principal, req *dto.ClassCreateRequest) (*models.Class, error) {
	scope, err := s.scopes.Resolve(ctx, principal)
	if err != nil {
		return nil, err
	}

	if err := validateCapacity(req.Capacity); err != nil {
		return nil, err
	}

	startDate, err := parseOptionalDate(req.StartDate, "startDate")
	if err != nil {
		return nil, err
	}
	endDate, err := parseOptionalDate(req.EndDate, "endDate")
	if err != nil {
		return nil, err
	}
	if err := validateDateOrder(startDate, endDate); err != nil {
		return nil, err
	}

	sectionID, err := s.courses.SectionIDForCourse(ctx, req.CourseID)
	if err != nil {
		return nil, err
	}
	if !scope.Permits(sectionID) {
		// The course exists but belongs to another section; do not say so.
		return nil, apperrors.ErrCourseNotFound
	}

	semesterID, err := s.resolveSemesterID(ctx, req.SemesterID)
	if err != nil {
		return nil, err
	}

	exists, err := s.classes.ExistsActiveForCourseAndSemester(ctx, req.CourseID, semesterID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrDuplicateClass
	}

	statusID := models.ClassStatusActive
	if req.StatusID != nil {
		statusID = *req.StatusID
	}

	class := &models.Class{
		CourseID:    req.CourseID,
		SemesterID:  semesterID,
		Capacity:    req.Capacity,
		StartDate:   startDate,
		EndDate:     endDate,
		Observation: req.Observation,
		StatusID:    statusID,
	}

	schedules := make([]*models.ClassSchedule, 0, len(req.Schedules))
	for _, scheduleReq := range req.Schedules {
		schedule := &models.ClassSchedule{
			ClassroomID: scheduleReq.ClassroomID,
			Day:         scheduleReq.Day,
			StartTime:   scheduleReq.StartTime,
			EndTime:     scheduleReq.EndTime,
			ModalityID:  scheduleReq.ModalityID,
			Disability:  scheduleReq.Disability,
		}
		if err := validateScheduleFields(schedule); err != nil {
			return nil, err
		}
		for _, sibling := range schedules {
			if schedule.Overlaps(sibling) {
				return nil, apperrors.ErrScheduleConflict
			}
		}
		conflict, err := s.detector.HasConflict(ctx, schedule.ClassroomID, schedule.Day, schedule.StartTime, schedule.EndTime, 0)
		if err != nil {
			return nil, err
		}
		if conflict {
			return nil, apperrors.ErrScheduleConflict
		}
		schedules = append(schedules, schedule)
	}

	if err := s.classes.CreateWithSchedules(ctx, class, schedules); err != nil {
		return nil, err
	}

	class.Schedules = schedules
	logger.Info().Int64("classID", class.ID).Int64("courseID", class.CourseID).Int64("semesterID", class.SemesterID).Msg("Class created")
	return class, nil
}

// GetClass retrieves a class with its schedules, enforcing scope.
func (s *PlanningService) GetClass(ctx context.Context, principal models.Principal, id int64) (*models.Class, error) {
	class, _, err := s.visibleClass(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	schedules, err := s.schedules.FindByClassID(ctx, class.ID)
	if err != nil {
		return nil, err
	}
	class.Schedules = schedules
	return class, nil
}

// ListClasses retrieves classes matching the filter. Classes outside the
// caller's scope are silently omitted rather than failing the whole list.
func (s *PlanningService) ListClasses(ctx context.Context, principal models.Principal, filter models.ClassFilter) ([]*models.Class, error) {
	scope, err := s.scopes.Resolve(ctx, principal)
	if err != nil {
		return nil, err
	}

	classes, err := s.classes.FindByFilter(ctx, filter)
	if err != nil {
		return nil, err
	}

	sectionByCourse := make(map[int64]int64)
	visible := make([]*models.Class, 0, len(classes))
	for _, class := range classes {
		sectionID, ok := sectionByCourse[class.CourseID]
		if !ok {
			sectionID, err = s.courses.SectionIDForCourse(ctx, class.CourseID)
			if err != nil {
				return nil, err
			}
			sectionByCourse[class.CourseID] = sectionID
		}
		if !scope.Permits(sectionID) {
			continue
		}

		schedules, err := s.schedules.FindByClassID(ctx, class.ID)
		if err != nil {
			return nil, err
		}
		class.Schedules = schedules
		visible = append(visible, class)
	}

	return visible, nil
}

// UpdateClass applies a partial update: absent fields keep their previous
// values. Moving the class to another course or semester re-runs the
// duplicate-class check.
func (s *PlanningService) UpdateClass(ctx context.Context, principal models.Principal, id int64, req *dto.ClassUpdateRequest) (*models.Class, error) {
	class, scope, err := s.visibleClass(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	placementChanged := false
	if req.CourseID != nil && *req.CourseID != class.CourseID {
		sectionID, err := s.courses.SectionIDForCourse(ctx, *req.CourseID)
		if err != nil {
			return nil, err
		}
		if !scope.Permits(sectionID) {
			return nil, apperrors.ErrCourseNotFound
		}
		class.CourseID = *req.CourseID
		placementChanged = true
	}
	if req.SemesterID != nil && *req.SemesterID != class.SemesterID {
		if _, err := s.semesters.GetByID(ctx, *req.SemesterID); err != nil {
			return nil, err
		}
		class.SemesterID = *req.SemesterID
		placementChanged = true
	}
	if req.Capacity != nil {
		if err := validateCapacity(*req.Capacity); err != nil {
			return nil, err
		}
		class.Capacity = *req.Capacity
	}
	if req.StartDate != nil {
		startDate, err := parseOptionalDate(req.StartDate, "startDate")
		if err != nil {
			return nil, err
		}
		class.StartDate = startDate
	}
	if req.EndDate != nil {
		endDate, err := parseOptionalDate(req.EndDate, "endDate")
		if err != nil {
			return nil, err
		}
		class.EndDate = endDate
	}
	if err := validateDateOrder(class.StartDate, class.EndDate); err != nil {
		return nil, err
	}
	if req.Observation != nil {
		class.Observation = req.Observation
	}
	if req.StatusID != nil {
		class.StatusID = *req.StatusID
	}

	if placementChanged {
		exists, err := s.classes.ExistsActiveForCourseAndSemester(ctx, class.CourseID, class.SemesterID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperrors.ErrDuplicateClass
		}
	}

	if err := s.classes.Update(ctx, class); err != nil {
		return nil, err
	}

	schedules, err := s.schedules.FindByClassID(ctx, class.ID)
	if err != nil {
		return nil, err
	}
	class.Schedules = schedules
	return class, nil
}

// DeleteClass removes a class and all its schedules. The cascade deletes
// schedules first and runs as one unit so a cancelled request never leaves
// orphaned schedules or a half-applied cascade.
func (s *PlanningService) DeleteClass(ctx context.Context, principal models.Principal, id int64) error {
	class, _, err := s.visibleClass(ctx, principal, id)
	if err != nil {
		return err
	}

	if err := s.classes.DeleteCascade(ctx, class.ID); err != nil {
		return err
	}
	logger.Info().Int64("classID", class.ID).Msg("Class deleted with its schedules")
	return nil
}

// AddSchedule attaches a new weekly slot to a class after checking the
// slot against every other persisted slot in the same classroom and day.
// Conflicts across classes always count; no class is excluded.
func (s *PlanningService) AddSchedule(ctx context.Context, principal models.Principal, classID int64, req *dto.ClassScheduleRequest) (*models.ClassSchedule, error) {
	class, _, err := s.visibleClass(ctx, principal, classID)
	if err != nil {
		return nil, err
	}

	schedule := &models.ClassSchedule{
		ClassID:     class.ID,
		ClassroomID: req.ClassroomID,
		Day:         req.Day,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		ModalityID:  req.ModalityID,
		Disability:  req.Disability,
	}
	if err := validateScheduleFields(schedule); err != nil {
		return nil, err
	}

	conflict, err := s.detector.HasConflict(ctx, schedule.ClassroomID, schedule.Day, schedule.StartTime, schedule.EndTime, 0)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, apperrors.ErrScheduleConflict
	}

	if err := s.schedules.Create(ctx, schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}

// UpdateSchedule applies a partial update to a slot with the same
// null-retains-previous merge rule as UpdateClass. When the classroom,
// day or time range changes, conflict detection is re-run against all
// other slots, excluding this one by schedule id: a class may hold
// several same-day slots as long as they do not overlap each other.
func (s *PlanningService) UpdateSchedule(ctx context.Context, principal models.Principal, scheduleID int64, req *dto.ClassScheduleUpdateRequest) (*models.ClassSchedule, error) {
	schedule, err := s.visibleSchedule(ctx, principal, scheduleID)
	if err != nil {
		return nil, err
	}

	slotChanged := false
	if req.ClassroomID != nil && *req.ClassroomID != schedule.ClassroomID {
		schedule.ClassroomID = *req.ClassroomID
		slotChanged = true
	}
	if req.Day != nil && *req.Day != schedule.Day {
		schedule.Day = *req.Day
		slotChanged = true
	}
	if req.StartTime != nil && *req.StartTime != schedule.StartTime {
		schedule.StartTime = *req.StartTime
		slotChanged = true
	}
	if req.EndTime != nil && *req.EndTime != schedule.EndTime {
		schedule.EndTime = *req.EndTime
		slotChanged = true
	}
	if req.ModalityID != nil {
		schedule.ModalityID = *req.ModalityID
	}
	if req.Disability != nil {
		schedule.Disability = *req.Disability
	}

	if err := validateScheduleFields(schedule); err != nil {
		return nil, err
	}

	if slotChanged {
		conflict, err := s.detector.HasConflict(ctx, schedule.ClassroomID, schedule.Day, schedule.StartTime, schedule.EndTime, schedule.ID)
		if err != nil {
			return nil, err
		}
		if conflict {
			return nil, apperrors.ErrScheduleConflict
		}
	}

	if err := s.schedules.Update(ctx, schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}

// DeleteSchedule removes a single weekly slot.
func (s *PlanningService) DeleteSchedule(ctx context.Context, principal models.Principal, scheduleID int64) error {
	schedule, err := s.visibleSchedule(ctx, principal, scheduleID)
	if err != nil {
		return err
	}
	return s.schedules.Delete(ctx, schedule.ID)
}

// ListSchedulesForClass retrieves the weekly slots of a class.
func (s *PlanningService) ListSchedulesForClass(ctx context.Context, principal models.Principal, classID int64) ([]*models.ClassSchedule, error) {
	class, _, err := s.visibleClass(ctx, principal, classID)
	if err != nil {
		return nil, err
	}
	return s.schedules.FindByClassID(ctx, class.ID)
}

// ListSchedulesByClassroom retrieves the slots occupying a classroom,
// optionally narrowed to one day, omitting slots of out-of-scope classes.
func (s *PlanningService) ListSchedulesByClassroom(ctx context.Context, principal models.Principal, classroomID int64, day *string) ([]*models.ClassSchedule, error) {
	var schedules []*models.ClassSchedule
	var err error
	if day != nil {
		if !validation.IsValidDay(*day) {
			return nil, apperrors.NewBadRequestError(fmt.Sprintf("invalid day: %s", *day))
		}
		schedules, err = s.schedules.FindByClassroomAndDay(ctx, classroomID, *day)
	} else {
		schedules, err = s.schedules.FindByClassroom(ctx, classroomID)
	}
	if err != nil {
		return nil, err
	}
	return s.filterSchedulesByScope(ctx, principal, schedules)
}

// ListSchedulesByDay retrieves all slots on a day of the week, omitting
// slots of out-of-scope classes.
func (s *PlanningService) ListSchedulesByDay(ctx context.Context, principal models.Principal, day string) ([]*models.ClassSchedule, error) {
	if !validation.IsValidDay(day) {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("invalid day: %s", day))
	}
	schedules, err := s.schedules.FindByDay(ctx, day)
	if err != nil {
		return nil, err
	}
	return s.filterSchedulesByScope(ctx, principal, schedules)
}

// ListSchedulesByDisability retrieves slots by accessibility-accommodation
// flag, omitting slots of out-of-scope classes.
func (s *PlanningService) ListSchedulesByDisability(ctx context.Context, principal models.Principal, disability bool) ([]*models.ClassSchedule, error) {
	schedules, err := s.schedules.FindByDisability(ctx, disability)
	if err != nil {
		return nil, err
	}
	return s.filterSchedulesByScope(ctx, principal, schedules)
}

// ListClassroomConflicts reports double-booked classrooms in the current
// semester. Overlapping slots are grouped into clusters per classroom and
// day; a cluster is reported only when at least one of its classes is
// visible to the caller.
func (s *PlanningService) ListClassroomConflicts(ctx context.Context, principal models.Principal) ([]*dto.ClassroomConflictResponse, error) {
	scope, err := s.scopes.Resolve(ctx, principal)
	if err != nil {
		return nil, err
	}

	semesterID, err := s.semesters.CurrentSemesterID(ctx)
	if err != nil {
		return nil, err
	}

	schedules, err := s.schedules.FindBySemester(ctx, semesterID)
	if err != nil {
		return nil, err
	}

	sectionByClass := make(map[int64]int64)
	conflicts := []*dto.ClassroomConflictResponse{}
	for _, cluster := range OverlapClusters(schedules) {
		if len(cluster) < 2 {
			continue
		}

		anyVisible := false
		for _, schedule := range cluster {
			sectionID, err := s.sectionIDForClass(ctx, schedule.ClassID, sectionByClass)
			if err != nil {
				return nil, err
			}
			if scope.Permits(sectionID) {
				anyVisible = true
				break
			}
		}
		if !anyVisible {
			continue
		}

		conflicts = append(conflicts, dto.NewClassroomConflictResponse(cluster))
	}

	return conflicts, nil
}

// visibleClass loads a class and enforces the scope predicate. A class
// outside the caller's scope is indistinguishable from an absent one.
func (s *PlanningService) visibleClass(ctx context.Context, principal models.Principal, id int64) (*models.Class, models.Scope, error) {
	scope, err := s.scopes.Resolve(ctx, principal)
	if err != nil {
		return nil, models.Scope{}, err
	}

	class, err := s.classes.GetByID(ctx, id)
	if err != nil {
		return nil, models.Scope{}, err
	}

	sectionID, err := s.courses.SectionIDForCourse(ctx, class.CourseID)
	if err != nil {
		return nil, models.Scope{}, err
	}
	if !scope.Permits(sectionID) {
		return nil, models.Scope{}, apperrors.ErrClassNotFound
	}

	return class, scope, nil
}

// visibleSchedule loads a slot and enforces scope through its owning
// class. An out-of-scope slot is reported as absent.
func (s *PlanningService) visibleSchedule(ctx context.Context, principal models.Principal, scheduleID int64) (*models.ClassSchedule, error) {
	schedule, err := s.schedules.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	if _, _, err := s.visibleClass(ctx, principal, schedule.ClassID); err != nil {
		if errors.Is(err, apperrors.ErrClassNotFound) {
			return nil, apperrors.ErrScheduleNotFound
		}
		return nil, err
	}

	return schedule, nil
}

func (s *PlanningService) filterSchedulesByScope(ctx context.Context, principal models.Principal, schedules []*models.ClassSchedule) ([]*models.ClassSchedule, error) {
	scope, err := s.scopes.Resolve(ctx, principal)
	if err != nil {
		return nil, err
	}
	if scope.Unrestricted {
		return schedules, nil
	}

	sectionByClass := make(map[int64]int64)
	visible := make([]*models.ClassSchedule, 0, len(schedules))
	for _, schedule := range schedules {
		sectionID, err := s.sectionIDForClass(ctx, schedule.ClassID, sectionByClass)
		if err != nil {
			return nil, err
		}
		if scope.Permits(sectionID) {
			visible = append(visible, schedule)
		}
	}
	return visible, nil
}

func (s *PlanningService) sectionIDForClass(ctx context.Context, classID int64, cache map[int64]int64) (int64, error) {
	if sectionID, ok := cache[classID]; ok {
		return sectionID, nil
	}
	class, err := s.classes.GetByID(ctx, classID)
	if err != nil {
		return 0, err
	}
	sectionID, err := s.courses.SectionIDForCourse(ctx, class.CourseID)
	if err != nil {
		return 0, err
	}
	cache[classID] = sectionID
	return sectionID, nil
}

func (s *PlanningService) resolveSemesterID(ctx context.Context, requested *int64) (int64, error) {
	if requested != nil {
		if _, err := s.semesters.GetByID(ctx, *requested); err != nil {
			return 0, err
		}
		return *requested, nil
	}
	return s.semesters.CurrentSemesterID(ctx)
}

func validateCapacity(capacity int) error {
	if capacity < validation.ClassCapacityMin || capacity > validation.ClassCapacityMax {
		return apperrors.NewBadRequestError(fmt.Sprintf("capacity must be between %d and %d", validation.ClassCapacityMin, validation.ClassCapacityMax))
	}
	return nil
}

func parseOptionalDate(value *string, field string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	parsed, err := helpers.ParseDate(*value)
	if err != nil {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("%s must be a %q date", field, helpers.DateLayout))
	}
	return &parsed, nil
}

func validateDateOrder(start, end *time.Time) error {
	if start != nil && end != nil && start.After(*end) {
		return apperrors.NewBadRequestError("startDate must not be after endDate")
	}
	return nil
}

func validateScheduleFields(schedule *models.ClassSchedule) error {
	if !validation.IsValidDay(schedule.Day) {
		return apperrors.NewBadRequestError(fmt.Sprintf("invalid day: %s", schedule.Day))
	}
	if !validation.IsValidClockTime(schedule.StartTime) || !validation.IsValidClockTime(schedule.EndTime) {
		return apperrors.NewBadRequestError("startTime and endTime must be zero-padded 24h HH:MM values")
	}
	if schedule.StartTime >= schedule.EndTime {
		return apperrors.NewBadRequestError("startTime must be before endTime")
	}
	return nil
}
