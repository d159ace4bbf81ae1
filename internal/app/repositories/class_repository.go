package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/secchub/secchub-backend/internal/app/models"
	"github.com/secchub/secchub-backend/internal/db"
	"github.com/secchub/secchub-backend/internal/pkg/apperrors"
	"github.com/secchub/secchub-backend/internal/pkg/dberrors"
	"github.com/secchub/secchub-backend/internal/pkg/helpers"
)

// ClassRepository handles database operations for planned classes
type ClassRepository struct {
	db       *pgxpool.Pool
	database *db.PostgresDB
}

// NewClassRepository creates a new class repository
func NewClassRepository(database *db.PostgresDB) *ClassRepository {
	return &ClassRepository{
		db:       database.Pool,
		database: database,
	}
}

const classColumns = `id, course_id, semester_id, capacity, start_date, end_date, observation, status_id`

func scanClass(row pgx.Row) (*models.Class, error) {
	var class models.Class
	var startDate, endDate sql.NullTime
	var observation sql.NullString

	err := row.Scan(
		&class.ID,
		&class.CourseID,
		&class.SemesterID,
		&class.Capacity,
		&startDate,
		&endDate,
		&observation,
		&class.StatusID,
	)
	if err != nil {
		return nil, err
	}

	class.StartDate = helpers.TimePtr(startDate)
	class.EndDate = helpers.TimePtr(endDate)
	class.Observation = helpers.StringPtr(observation)
	return &class, nil
}

// Create persists a new class and fills in its generated id.
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	query := `
		INSERT INTO class (course_id, semester_id, capacity, start_date, end_date, observation, status_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		class.CourseID,
		class.SemesterID,
		class.Capacity,
		helpers.GetNullTime(class.StartDate),
		helpers.GetNullTime(class.EndDate),
		helpers.GetNullString(class.Observation),
		class.StatusID,
	).Scan(&class.ID)
	if err != nil {
		return fmt.Errorf("error creating class: %w", err)
	}

	return nil
}

// CreateWithSchedules persists a class together with its schedules in a
// single transaction. This is the widest atomic unit the planning core
// has: one class plus its own schedules.
func (r *ClassRepository) CreateWithSchedules(ctx context.Context, class *models.Class, schedules []*models.ClassSchedule) error {
	return r.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		query := `
			INSERT INTO class (course_id, semester_id, capacity, start_date, end_date, observation, status_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`
		err := tx.QueryRow(ctx, query,
			class.CourseID,
			class.SemesterID,
			class.Capacity,
			helpers.GetNullTime(class.StartDate),
			helpers.GetNullTime(class.EndDate),
			helpers.GetNullString(class.Observation),
			class.StatusID,
		).Scan(&class.ID)
		if err != nil {
			return fmt.Errorf("error creating class: %w", err)
		}

		scheduleQuery := `
			INSERT INTO class_schedule (class_id, classroom_id, day, start_time, end_time, modality_id, disability, semester_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id
		`
		for _, schedule := range schedules {
			schedule.ClassID = class.ID
			err := tx.QueryRow(ctx, scheduleQuery,
				schedule.ClassID,
				schedule.ClassroomID,
				schedule.Day,
				schedule.StartTime,
				schedule.EndTime,
				schedule.ModalityID,
				schedule.Disability,
				class.SemesterID,
			).Scan(&schedule.ID)
			if err != nil {
				if dberrors.IsExclusionViolation(err) {
					return apperrors.ErrScheduleConflict
				}
				return fmt.Errorf("error creating class schedule: %w", err)
			}
		}
		return nil
	})
}

// GetByID retrieves a class by ID
func (r *ClassRepository) GetByID(ctx context.Context, id int64) (*models.Class, error) {
	query := `SELECT ` + classColumns + ` FROM class WHERE id = $1`

	class, err := scanClass(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrClassNotFound
		}
		return nil, fmt.Errorf("error retrieving class: %w", err)
	}

	return class, nil
}

// FindByFilter retrieves classes matching the filter in id order.
func (r *ClassRepository) FindByFilter(ctx context.Context, filter models.ClassFilter) ([]*models.Class, error) {
	query := `SELECT ` + classColumns + ` FROM class WHERE 1=1`
	args := []interface{}{}

	if filter.SemesterID != nil {
		args = append(args, *filter.SemesterID)
		query += fmt.Sprintf(" AND semester_id = $%d", len(args))
	}
	if filter.CourseID != nil {
		args = append(args, *filter.CourseID)
		query += fmt.Sprintf(" AND course_id = $%d", len(args))
	}
	query += " ORDER BY id"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error retrieving classes: %w", err)
	}
	defer rows.Close()

	var classes []*models.Class
	for rows.Next() {
		class, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		classes = append(classes, class)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return classes, nil
}

// CountBySemester counts the classes planned in a semester.
func (r *ClassRepository) CountBySemester(ctx context.Context, semesterID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM class WHERE semester_id = $1`, semesterID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting classes: %w", err)
	}
	return count, nil
}

// ExistsActiveForCourseAndSemester checks whether an active class is
// already planned for the course in the semester.
func (r *ClassRepository) ExistsActiveForCourseAndSemester(ctx context.Context, courseID, semesterID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM class WHERE course_id = $1 AND semester_id = $2 AND status_id = $3)`,
		courseID, semesterID, models.ClassStatusActive).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking class existence: %w", err)
	}
	return exists, nil
}

// Update persists the full class row. The schedules' denormalized
// semester_id is kept in sync when the class moves to another semester.
func (r *ClassRepository) Update(ctx context.Context, class *models.Class) error {
	return r.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		query := `
			UPDATE class
			SET course_id = $1, semester_id = $2, capacity = $3, start_date = $4, end_date = $5, observation = $6, status_id = $7
			WHERE id = $8
		`

		cmdTag, err := tx.Exec(ctx, query,
			class.CourseID,
			class.SemesterID,
			class.Capacity,
			helpers.GetNullTime(class.StartDate),
			helpers.GetNullTime(class.EndDate),
			helpers.GetNullString(class.Observation),
			class.StatusID,
			class.ID,
		)
		if err != nil {
			return fmt.Errorf("error updating class: %w", err)
		}

		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrClassNotFound
		}

		_, err = tx.Exec(ctx, `UPDATE class_schedule SET semester_id = $1 WHERE class_id = $2`, class.SemesterID, class.ID)
		if err != nil {
			if dberrors.IsExclusionViolation(err) {
				return apperrors.ErrScheduleConflict
			}
			return fmt.Errorf("error syncing class schedules: %w", err)
		}

		return nil
	})
}

// DeleteCascade removes a class and its schedules as one transaction,
// schedules first. A cancelled request can therefore never leave the
// cascade half applied.
func (r *ClassRepository) DeleteCascade(ctx context.Context, id int64) error {
	return r.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM class_schedule WHERE class_id = $1`, id); err != nil {
			return fmt.Errorf("error deleting class schedules: %w", err)
		}

		cmdTag, err := tx.Exec(ctx, `DELETE FROM class WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("error deleting class: %w", err)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrClassNotFound
		}
		return nil
	})
}
