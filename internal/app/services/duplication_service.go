package services

import (
	"context"
	"fmt"
	"time"

	"github.com/secchub/secchub-backend/internal/app/models"
	"github.com/secchub/secchub-backend/internal/pkg/apperrors"
	"github.com/secchub/secchub-backend/internal/pkg/helpers"
	"github.com/secchub/secchub-backend/internal/pkg/logger"
)

// DuplicationService copies a semester's planning into another semester.
// Classes are copied one at a time in id order; each class and its own
// schedules form one atomic unit, but there is no transaction boundary
// wider than that. A failure mid-batch therefore leaves the already
// copied prefix in place, and the error reports which source class broke.
type DuplicationService struct {
	classes   ClassStore
	schedules ScheduleStore
	courses   CourseDirectory
	semesters SemesterDirectory
	scopes    ScopeResolver
}

// NewDuplicationService creates a new duplication service instance
func NewDuplicationService(classes ClassStore, schedules ScheduleStore, courses CourseDirectory, semesters SemesterDirectory, scopes ScopeResolver) *DuplicationService {
	return &DuplicationService{
		classes:   classes,
		schedules: schedules,
		courses:   courses,
		semesters: semesters,
		scopes:    scopes,
	}
}

// DuplicateSemesterPlanning copies every class of the source semester that
// the caller's scope permits into the target semester, remapping class
// dates onto the target window. The target semester must be empty; that
// precondition is checked before any copy work begins. An empty source
// semester succeeds trivially with an empty result.
func (s *DuplicationService) DuplicateSemesterPlanning(ctx context.Context, principal models.Principal, sourceSemesterID, targetSemesterID int64) ([]*models.Class, error) {
	scope, err := s.scopes.Resolve(ctx, principal)
	if err != nil {
		return nil, err
	}

	if sourceSemesterID == targetSemesterID {
		return nil, apperrors.NewBadRequestError("source and target semester must differ")
	}

	sourceWindow, err := s.semesters.Window(ctx, sourceSemesterID)
	if err != nil {
		return nil, err
	}
	targetWindow, err := s.semesters.Window(ctx, targetSemesterID)
	if err != nil {
		return nil, err
	}

	count, err := s.classes.CountBySemester(ctx, targetSemesterID)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperrors.ErrTargetSemesterNotEmpty
	}

	sources, err := s.classes.FindByFilter(ctx, models.ClassFilter{SemesterID: &sourceSemesterID})
	if err != nil {
		return nil, err
	}

	created := []*models.Class{}
	for _, source := range sources {
		if err := ctx.Err(); err != nil {
			// Ordered loop: cancellation leaves a deterministic prefix.
			return created, err
		}

		sectionID, err := s.courses.SectionIDForCourse(ctx, source.CourseID)
		if err != nil {
			return created, withCopiedPrefix(apperrors.NewInternalError(err, fmt.Sprintf("duplication failed resolving section of class %d", source.ID)), created)
		}
		if !scope.Permits(sectionID) {
			continue
		}

		copied, err := s.copyClass(ctx, source, targetSemesterID, sourceWindow, targetWindow)
		if err != nil {
			logger.Error().Err(err).Int64("sourceClassID", source.ID).Int("copiedSoFar", len(created)).Msg("Semester duplication failed mid-batch")
			return created, withCopiedPrefix(apperrors.NewInternalError(err, fmt.Sprintf("duplication failed at source class %d", source.ID)), created)
		}
		created = append(created, copied)
	}

	logger.Info().Int64("sourceSemesterID", sourceSemesterID).Int64("targetSemesterID", targetSemesterID).Int("classes", len(created)).Msg("Semester planning duplicated")
	return created, nil
}

// ApplySemesterPlanningToCurrent duplicates the source semester's planning
// into whatever semester is marked current.
func (s *DuplicationService) ApplySemesterPlanningToCurrent(ctx context.Context, principal models.Principal, sourceSemesterID int64) ([]*models.Class, error) {
	targetSemesterID, err := s.semesters.CurrentSemesterID(ctx)
	if err != nil {
		return nil, err
	}
	return s.DuplicateSemesterPlanning(ctx, principal, sourceSemesterID, targetSemesterID)
}

// DuplicateClasses copies the named classes into the current semester,
// remapping their dates from their own semester's window. Unlike whole
// semester duplication the target need not be empty, but the duplicate
// active-class rule still applies per copied class.
func (s *DuplicationService) DuplicateClasses(ctx context.Context, principal models.Principal, classIDs []int64) ([]*models.Class, error) {
	scope, err := s.scopes.Resolve(ctx, principal)
	if err != nil {
		return nil, err
	}

	targetSemesterID, err := s.semesters.CurrentSemesterID(ctx)
	if err != nil {
		return nil, err
	}
	targetWindow, err := s.semesters.Window(ctx, targetSemesterID)
	if err != nil {
		return nil, err
	}

	windows := make(map[int64]models.SemesterWindow)
	created := []*models.Class{}
	for _, classID := range classIDs {
		if err := ctx.Err(); err != nil {
			return created, err
		}

		source, err := s.classes.GetByID(ctx, classID)
		if err != nil {
			return created, withCopiedPrefix(err, created)
		}
		if source.SemesterID == targetSemesterID {
			return created, withCopiedPrefix(apperrors.NewBadRequestError(fmt.Sprintf("class %d already belongs to the current semester", classID)), created)
		}

		sectionID, err := s.courses.SectionIDForCourse(ctx, source.CourseID)
		if err != nil {
			return created, withCopiedPrefix(err, created)
		}
		if !scope.Permits(sectionID) {
			return created, withCopiedPrefix(apperrors.ErrClassNotFound, created)
		}

		exists, err := s.classes.ExistsActiveForCourseAndSemester(ctx, source.CourseID, targetSemesterID)
		if err != nil {
			return created, withCopiedPrefix(err, created)
		}
		if exists {
			return created, withCopiedPrefix(apperrors.ErrDuplicateClass, created)
		}

		sourceWindow, ok := windows[source.SemesterID]
		if !ok {
			sourceWindow, err = s.semesters.Window(ctx, source.SemesterID)
			if err != nil {
				return created, withCopiedPrefix(err, created)
			}
			windows[source.SemesterID] = sourceWindow
		}

		copied, err := s.copyClass(ctx, source, targetSemesterID, sourceWindow, targetWindow)
		if err != nil {
			logger.Error().Err(err).Int64("sourceClassID", source.ID).Int("copiedSoFar", len(created)).Msg("Class duplication failed mid-batch")
			return created, withCopiedPrefix(apperrors.NewInternalError(err, fmt.Sprintf("duplication failed at source class %d", source.ID)), created)
		}
		created = append(created, copied)
	}

	return created, nil
}

// copyClass clones one class and its schedules into the target semester.
func (s *DuplicationService) copyClass(ctx context.Context, source *models.Class, targetSemesterID int64, sourceWindow, targetWindow models.SemesterWindow) (*models.Class, error) {
	schedules, err := s.schedules.FindByClassID(ctx, source.ID)
	if err != nil {
		return nil, err
	}

	copied := &models.Class{
		CourseID:    source.CourseID,
		SemesterID:  targetSemesterID,
		Capacity:    source.Capacity,
		StartDate:   remapDate(source.StartDate, sourceWindow, targetWindow, targetWindow.StartDate),
		EndDate:     remapDate(source.EndDate, sourceWindow, targetWindow, targetWindow.EndDate),
		Observation: source.Observation,
		StatusID:    source.StatusID,
	}

	copiedSchedules := make([]*models.ClassSchedule, 0, len(schedules))
	for _, schedule := range schedules {
		copiedSchedules = append(copiedSchedules, &models.ClassSchedule{
			ClassroomID: schedule.ClassroomID,
			Day:         schedule.Day,
			StartTime:   schedule.StartTime,
			EndTime:     schedule.EndTime,
			ModalityID:  schedule.ModalityID,
			Disability:  schedule.Disability,
		})
	}

	if err := s.classes.CreateWithSchedules(ctx, copied, copiedSchedules); err != nil {
		return nil, err
	}

	copied.Schedules = copiedSchedules
	return copied, nil
}

// withCopiedPrefix attaches the ids of classes already copied before a
// mid-batch failure, so the error response reports the surviving prefix
// alongside the failure itself.
func withCopiedPrefix(err error, created []*models.Class) error {
	if len(created) == 0 {
		return err
	}
	ids := make([]int64, len(created))
	for i, class := range created {
		ids[i] = class.ID
	}
	custom, ok := err.(*apperrors.CustomError)
	if !ok {
		custom = apperrors.NewCustomError(err, err.Error())
	}
	return custom.WithDetails(map[string]interface{}{"copiedClassIds": ids})
}

// remapDate projects a class date onto the target semester window,
// keeping the same offset from the window start and clamping the result
// into the window. An absent source date falls back to the given bound.
func remapDate(date *time.Time, sourceWindow, targetWindow models.SemesterWindow, fallback time.Time) *time.Time {
	if date == nil {
		return &fallback
	}
	offset := helpers.DaysBetween(sourceWindow.StartDate, *date)
	remapped := helpers.ClampDate(targetWindow.StartDate.AddDate(0, 0, offset), targetWindow.StartDate, targetWindow.EndDate)
	return &remapped
}
