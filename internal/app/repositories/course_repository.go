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
	"github.com/secchub/secchub-backend/internal/pkg/helpers"
)

// CourseRepository handles database operations for courses
type CourseRepository struct {
	db *pgxpool.Pool
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(database *db.PostgresDB) *CourseRepository {
	return &CourseRepository{
		db: database.Pool,
	}
}

// GetByID retrieves a course by ID
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	query := `
		SELECT id, section_id, code, name, credits, description
		FROM course
		WHERE id = $1
	`

	var course models.Course
	var description sql.NullString
	err := r.db.QueryRow(ctx, query, id).Scan(
		&course.ID,
		&course.SectionID,
		&course.Code,
		&course.Name,
		&course.Credits,
		&description,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}

	course.Description = helpers.StringPtr(description)
	return &course, nil
}

// SectionIDForCourse resolves the section owning a course. This is the
// lookup that gives a class its owning section transitively.
func (r *CourseRepository) SectionIDForCourse(ctx context.Context, courseID int64) (int64, error) {
	var sectionID int64
	err := r.db.QueryRow(ctx, `SELECT section_id FROM course WHERE id = $1`, courseID).Scan(&sectionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrCourseNotFound
		}
		return 0, fmt.Errorf("error resolving course section: %w", err)
	}
	return sectionID, nil
}
