package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/secchub/secchub-backend/internal/app/models"
	"github.com/secchub/secchub-backend/internal/db"
	"github.com/secchub/secchub-backend/internal/pkg/apperrors"
	"github.com/secchub/secchub-backend/internal/pkg/dberrors"
)

// ClassScheduleRepository handles database operations for class schedules
type ClassScheduleRepository struct {
	db *pgxpool.Pool
}

// NewClassScheduleRepository creates a new class schedule repository
func NewClassScheduleRepository(database *db.PostgresDB) *ClassScheduleRepository {
	return &ClassScheduleRepository{
		db: database.Pool,
	}
}

const scheduleColumns = `id, class_id, classroom_id, day, start_time, end_time, modality_id, disability`

func scanSchedule(row pgx.Row) (*models.ClassSchedule, error) {
	var schedule models.ClassSchedule
	err := row.Scan(
		&schedule.ID,
		&schedule.ClassID,
		&schedule.ClassroomID,
		&schedule.Day,
		&schedule.StartTime,
		&schedule.EndTime,
		&schedule.ModalityID,
		&schedule.Disability,
	)
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *ClassScheduleRepository) queryMany(ctx context.Context, query string, args ...interface{}) ([]*models.ClassSchedule, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error retrieving class schedules: %w", err)
	}
	defer rows.Close()

	var schedules []*models.ClassSchedule
	for rows.Next() {
		schedule, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, schedule)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return schedules, nil
}

// Create persists a new schedule. The database's exclusion constraint on
// (semester, classroom, day, time range) is the authoritative double-booking
// guard; a violation surfaces as ErrScheduleConflict even when the in-core
// check raced with a concurrent insert. The denormalized semester_id column
// is derived from the owning class, never supplied by callers.
func (r *ClassScheduleRepository) Create(ctx context.Context, schedule *models.ClassSchedule) error {
	query := `
		INSERT INTO class_schedule (class_id, classroom_id, day, start_time, end_time, modality_id, disability, semester_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, (SELECT semester_id FROM class WHERE id = $1))
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		schedule.ClassID,
		schedule.ClassroomID,
		schedule.Day,
		schedule.StartTime,
		schedule.EndTime,
		schedule.ModalityID,
		schedule.Disability,
	).Scan(&schedule.ID)
	if err != nil {
		if dberrors.IsExclusionViolation(err) {
			return apperrors.ErrScheduleConflict
		}
		return fmt.Errorf("error creating class schedule: %w", err)
	}

	return nil
}

// GetByID retrieves a schedule by ID
func (r *ClassScheduleRepository) GetByID(ctx context.Context, id int64) (*models.ClassSchedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM class_schedule WHERE id = $1`

	schedule, err := scanSchedule(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrScheduleNotFound
		}
		return nil, fmt.Errorf("error retrieving class schedule: %w", err)
	}

	return schedule, nil
}

// FindByClassID retrieves all schedules of a class ordered by day and time.
func (r *ClassScheduleRepository) FindByClassID(ctx context.Context, classID int64) ([]*models.ClassSchedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM class_schedule WHERE class_id = $1 ORDER BY day, start_time`
	return r.queryMany(ctx, query, classID)
}

// FindByClassroomAndDay retrieves every schedule occupying a classroom on
// a given day. This is the working set for conflict detection.
func (r *ClassScheduleRepository) FindByClassroomAndDay(ctx context.Context, classroomID int64, day string) ([]*models.ClassSchedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM class_schedule WHERE classroom_id = $1 AND day = $2 ORDER BY start_time`
	return r.queryMany(ctx, query, classroomID, day)
}

// FindByClassroom retrieves all schedules assigned to a classroom.
func (r *ClassScheduleRepository) FindByClassroom(ctx context.Context, classroomID int64) ([]*models.ClassSchedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM class_schedule WHERE classroom_id = $1 ORDER BY day, start_time`
	return r.queryMany(ctx, query, classroomID)
}

// FindByDay retrieves all schedules on a day of the week.
func (r *ClassScheduleRepository) FindByDay(ctx context.Context, day string) ([]*models.ClassSchedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM class_schedule WHERE day = $1 ORDER BY start_time`
	return r.queryMany(ctx, query, day)
}

// FindBySemester retrieves every schedule planned in a semester, grouped
// so that slots sharing a classroom and day come out adjacent.
func (r *ClassScheduleRepository) FindBySemester(ctx context.Context, semesterID int64) ([]*models.ClassSchedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM class_schedule WHERE semester_id = $1 ORDER BY classroom_id, day, start_time`
	return r.queryMany(ctx, query, semesterID)
}

// FindByDisability retrieves schedules by accessibility-accommodation flag.
func (r *ClassScheduleRepository) FindByDisability(ctx context.Context, disability bool) ([]*models.ClassSchedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM class_schedule WHERE disability = $1 ORDER BY day, start_time`
	return r.queryMany(ctx, query, disability)
}

// Update persists the full schedule row.
func (r *ClassScheduleRepository) Update(ctx context.Context, schedule *models.ClassSchedule) error {
	query := `
		UPDATE class_schedule
		SET class_id = $1, classroom_id = $2, day = $3, start_time = $4, end_time = $5, modality_id = $6, disability = $7,
			semester_id = (SELECT semester_id FROM class WHERE id = $1)
		WHERE id = $8
	`

	cmdTag, err := r.db.Exec(ctx, query,
		schedule.ClassID,
		schedule.ClassroomID,
		schedule.Day,
		schedule.StartTime,
		schedule.EndTime,
		schedule.ModalityID,
		schedule.Disability,
		schedule.ID,
	)
	if err != nil {
		if dberrors.IsExclusionViolation(err) {
			return apperrors.ErrScheduleConflict
		}
		return fmt.Errorf("error updating class schedule: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrScheduleNotFound
	}

	return nil
}

// Delete removes a schedule by ID.
func (r *ClassScheduleRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM class_schedule WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting class schedule: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrScheduleNotFound
	}
	return nil
}

// DeleteByClassID removes every schedule belonging to a class.
func (r *ClassScheduleRepository) DeleteByClassID(ctx context.Context, classID int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM class_schedule WHERE class_id = $1`, classID); err != nil {
		return fmt.Errorf("error deleting class schedules: %w", err)
	}
	return nil
}
