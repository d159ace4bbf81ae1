package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/secchub/secchub-backend/internal/app/models"
	"github.com/secchub/secchub-backend/internal/pkg/apperrors"
)

// Semester 1 (2026-02-02..2026-06-19) is current; semester 2
// (2026-08-03..2026-12-11) serves as the source plan.
func newDuplicationFixture() (*DuplicationService, *memStore) {
	store := newMemStore()
	schedules := scheduleStore{store}
	courses := fakeCourses{sectionByCourse: map[int64]int64{10: 1, 20: 2}}
	semesters := fakeSemesters{
		semesters: map[int64]*models.Semester{
			1: {ID: 1, Name: "2026-1", StartDate: date(2026, 2, 2), EndDate: date(2026, 6, 19), Current: true},
			2: {ID: 2, Name: "2026-2", StartDate: date(2026, 8, 3), EndDate: date(2026, 12, 11)},
		},
		currentID: 1,
	}
	scopes := roleScopes{sectionID: 1}

	svc := NewDuplicationService(store, schedules, courses, semesters, scopes)
	return svc, store
}

func TestDuplicateSemesterPlanning(t *testing.T) {
	svc, store := newDuplicationFixture()

	start := date(2026, 8, 10) // one week into the source window
	source := store.addClass(models.Class{CourseID: 10, SemesterID: 2, Capacity: 30, StartDate: &start, Observation: strPtr("lab group")})
	bare := store.addClass(models.Class{CourseID: 20, SemesterID: 2, Capacity: 25})
	store.addSchedule(models.ClassSchedule{ClassID: source.ID, ClassroomID: 7, Day: "Monday", StartTime: "08:00", EndTime: "10:00", ModalityID: 1})
	store.addSchedule(models.ClassSchedule{ClassID: source.ID, ClassroomID: 7, Day: "Wednesday", StartTime: "08:00", EndTime: "10:00", ModalityID: 1})

	created, err := svc.DuplicateSemesterPlanning(context.Background(), adminPrincipal, 2, 1)
	if err != nil {
		t.Fatalf("DuplicateSemesterPlanning returned error: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("expected 2 copied classes, got %d", len(created))
	}

	first := created[0]
	if first.SemesterID != 1 {
		t.Errorf("copy landed in semester %d, want 1", first.SemesterID)
	}
	if first.ID == source.ID {
		t.Errorf("copy must be a new class, reused id %d", first.ID)
	}
	if first.StartDate == nil || !first.StartDate.Equal(date(2026, 2, 9)) {
		t.Errorf("start date should keep its one-week offset into the target window, got %v", first.StartDate)
	}
	if first.Observation == nil || *first.Observation != "lab group" {
		t.Errorf("observation should be carried over, got %v", first.Observation)
	}
	if len(first.Schedules) != 2 {
		t.Errorf("expected the 2 source slots copied, got %d", len(first.Schedules))
	}
	for _, schedule := range first.Schedules {
		if schedule.ClassID != first.ID {
			t.Errorf("copied slot bound to class %d, want %d", schedule.ClassID, first.ID)
		}
	}

	// A class without dates falls back to the target window bounds.
	second := created[1]
	if second.CourseID != bare.CourseID {
		t.Fatalf("expected the second copy to come from class %d", bare.ID)
	}
	if second.StartDate == nil || !second.StartDate.Equal(date(2026, 2, 2)) {
		t.Errorf("absent start date should default to the window start, got %v", second.StartDate)
	}
	if second.EndDate == nil || !second.EndDate.Equal(date(2026, 6, 19)) {
		t.Errorf("absent end date should default to the window end, got %v", second.EndDate)
	}

	// Source rows are untouched.
	kept, _ := store.GetByID(context.Background(), source.ID)
	if kept.SemesterID != 2 {
		t.Errorf("source class moved to semester %d", kept.SemesterID)
	}
}

func TestDuplicateSemesterPlanningPreconditions(t *testing.T) {
	svc, store := newDuplicationFixture()
	store.addClass(models.Class{CourseID: 10, SemesterID: 1, Capacity: 30})

	if _, err := svc.DuplicateSemesterPlanning(context.Background(), adminPrincipal, 2, 2); !errors.Is(err, apperrors.ErrBadRequest) {
		t.Errorf("expected ErrBadRequest for identical semesters, got %v", err)
	}
	if _, err := svc.DuplicateSemesterPlanning(context.Background(), adminPrincipal, 2, 1); !errors.Is(err, apperrors.ErrTargetSemesterNotEmpty) {
		t.Errorf("expected ErrTargetSemesterNotEmpty, got %v", err)
	}
	if _, err := svc.DuplicateSemesterPlanning(context.Background(), adminPrincipal, 9, 1); !errors.Is(err, apperrors.ErrSemesterNotFound) {
		t.Errorf("expected ErrSemesterNotFound for unknown source, got %v", err)
	}
}

func TestDuplicateSemesterPlanningEmptySource(t *testing.T) {
	svc, _ := newDuplicationFixture()

	created, err := svc.DuplicateSemesterPlanning(context.Background(), adminPrincipal, 2, 1)
	if err != nil {
		t.Fatalf("empty source should succeed trivially, got %v", err)
	}
	if len(created) != 0 {
		t.Errorf("expected no copies, got %d", len(created))
	}
}

func TestDuplicateSemesterPlanningScope(t *testing.T) {
	svc, store := newDuplicationFixture()
	store.addClass(models.Class{CourseID: 10, SemesterID: 2, Capacity: 30})
	store.addClass(models.Class{CourseID: 20, SemesterID: 2, Capacity: 30})

	created, err := svc.DuplicateSemesterPlanning(context.Background(), sectionPrincipal, 2, 1)
	if err != nil {
		t.Fatalf("DuplicateSemesterPlanning returned error: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("section caller should copy only its own section's classes, got %d", len(created))
	}
	if created[0].CourseID != 10 {
		t.Errorf("foreign class was copied: course %d", created[0].CourseID)
	}
}

func TestDuplicateSemesterPlanningPartialFailure(t *testing.T) {
	svc, store := newDuplicationFixture()
	store.addClass(models.Class{CourseID: 10, SemesterID: 2, Capacity: 30})
	store.addClass(models.Class{CourseID: 20, SemesterID: 2, Capacity: 30})
	store.failCreateForCourse = 20

	created, err := svc.DuplicateSemesterPlanning(context.Background(), adminPrincipal, 2, 1)
	if !errors.Is(err, apperrors.ErrInternal) {
		t.Fatalf("expected ErrInternal on mid-batch failure, got %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("expected the already copied prefix to be reported, got %d", len(created))
	}
	if created[0].CourseID != 10 {
		t.Errorf("prefix should hold the first copy, got course %d", created[0].CourseID)
	}

	// The error carries the copied prefix ids so the transport layer can
	// report them even though it discards the partial result.
	var custom *apperrors.CustomError
	if !errors.As(err, &custom) || custom.Details == nil {
		t.Fatalf("expected copied prefix ids in the error details, got %v", err)
	}
	ids, ok := custom.Details["copiedClassIds"].([]int64)
	if !ok || len(ids) != 1 || ids[0] != created[0].ID {
		t.Errorf("expected copied prefix ids [%d], got %v", created[0].ID, custom.Details["copiedClassIds"])
	}

	// The copied prefix stays in place.
	count, _ := store.CountBySemester(context.Background(), 1)
	if count != 1 {
		t.Errorf("expected 1 persisted copy in the target, got %d", count)
	}
}

func TestDuplicateSemesterPlanningCancellation(t *testing.T) {
	svc, store := newDuplicationFixture()
	store.addClass(models.Class{CourseID: 10, SemesterID: 2, Capacity: 30})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	created, err := svc.DuplicateSemesterPlanning(ctx, adminPrincipal, 2, 1)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(created) != 0 {
		t.Errorf("cancelled run copied %d classes", len(created))
	}
}

func TestApplySemesterPlanningToCurrent(t *testing.T) {
	svc, store := newDuplicationFixture()
	store.addClass(models.Class{CourseID: 10, SemesterID: 2, Capacity: 30})

	created, err := svc.ApplySemesterPlanningToCurrent(context.Background(), adminPrincipal, 2)
	if err != nil {
		t.Fatalf("ApplySemesterPlanningToCurrent returned error: %v", err)
	}
	if len(created) != 1 || created[0].SemesterID != 1 {
		t.Fatalf("expected 1 copy into the current semester, got %+v", created)
	}
}

func TestDuplicateClasses(t *testing.T) {
	svc, store := newDuplicationFixture()
	end := date(2026, 12, 11)
	source := store.addClass(models.Class{CourseID: 10, SemesterID: 2, Capacity: 30, EndDate: &end})
	store.addSchedule(models.ClassSchedule{ClassID: source.ID, ClassroomID: 7, Day: "Friday", StartTime: "14:00", EndTime: "16:00", ModalityID: 1})

	created, err := svc.DuplicateClasses(context.Background(), adminPrincipal, []int64{source.ID})
	if err != nil {
		t.Fatalf("DuplicateClasses returned error: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("expected 1 copy, got %d", len(created))
	}
	copied := created[0]
	if copied.SemesterID != 1 {
		t.Errorf("copy landed in semester %d, want the current one", copied.SemesterID)
	}
	// The source end date sits 130 days into its window; the copy keeps
	// that offset from the target window start.
	if copied.EndDate == nil || !copied.EndDate.Equal(date(2026, 6, 12)) {
		t.Errorf("end date should keep its offset into the target window, got %v", copied.EndDate)
	}
	if len(copied.Schedules) != 1 {
		t.Errorf("expected the source slot copied, got %d", len(copied.Schedules))
	}
}

func TestDuplicateClassesRules(t *testing.T) {
	svc, store := newDuplicationFixture()
	current := store.addClass(models.Class{CourseID: 10, SemesterID: 1, Capacity: 30})
	source := store.addClass(models.Class{CourseID: 10, SemesterID: 2, Capacity: 30})
	foreign := store.addClass(models.Class{CourseID: 20, SemesterID: 2, Capacity: 30})

	if _, err := svc.DuplicateClasses(context.Background(), adminPrincipal, []int64{current.ID}); !errors.Is(err, apperrors.ErrBadRequest) {
		t.Errorf("expected ErrBadRequest for a class already in the current semester, got %v", err)
	}

	// An active class for the same course already sits in the current
	// semester, so the copy is a duplicate.
	if _, err := svc.DuplicateClasses(context.Background(), adminPrincipal, []int64{source.ID}); !errors.Is(err, apperrors.ErrDuplicateClass) {
		t.Errorf("expected ErrDuplicateClass, got %v", err)
	}

	if _, err := svc.DuplicateClasses(context.Background(), sectionPrincipal, []int64{foreign.ID}); !errors.Is(err, apperrors.ErrClassNotFound) {
		t.Errorf("expected out-of-scope class to read as not found, got %v", err)
	}

	if _, err := svc.DuplicateClasses(context.Background(), adminPrincipal, []int64{999}); !errors.Is(err, apperrors.ErrClassNotFound) {
		t.Errorf("expected ErrClassNotFound for unknown class, got %v", err)
	}
}

func TestRemapDate(t *testing.T) {
	sourceWindow := models.SemesterWindow{StartDate: date(2026, 8, 3), EndDate: date(2026, 12, 11)}
	// The target window is shorter than the source, so late dates clamp.
	targetWindow := models.SemesterWindow{StartDate: date(2026, 2, 2), EndDate: date(2026, 5, 29)}

	tests := []struct {
		name     string
		input    *time.Time
		fallback time.Time
		want     time.Time
	}{
		{"nil uses fallback", nil, targetWindow.EndDate, targetWindow.EndDate},
		{"offset preserved", timePtr(date(2026, 8, 17)), targetWindow.StartDate, date(2026, 2, 16)},
		{"window start maps to window start", timePtr(date(2026, 8, 3)), targetWindow.StartDate, date(2026, 2, 2)},
		{"late date clamps to window end", timePtr(date(2026, 12, 11)), targetWindow.EndDate, date(2026, 5, 29)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := remapDate(tt.input, sourceWindow, targetWindow, tt.fallback)
			if got == nil || !got.Equal(tt.want) {
				t.Errorf("remapDate = %v, want %v", got, tt.want)
			}
		})
	}
}

func timePtr(t time.Time) *time.Time { return &t }
