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
)

// SemesterRepository handles database operations for semesters
type SemesterRepository struct {
	db *pgxpool.Pool
}

// NewSemesterRepository creates a new semester repository
func NewSemesterRepository(database *db.PostgresDB) *SemesterRepository {
	return &SemesterRepository{
		db: database.Pool,
	}
}

func (r *SemesterRepository) getOne(ctx context.Context, query string, args ...interface{}) (*models.Semester, error) {
	var semester models.Semester
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&semester.ID,
		&semester.Name,
		&semester.StartDate,
		&semester.EndDate,
		&semester.Current,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSemesterNotFound
		}
		return nil, fmt.Errorf("error retrieving semester: %w", err)
	}
	return &semester, nil
}

// GetByID retrieves a semester by ID
func (r *SemesterRepository) GetByID(ctx context.Context, id int64) (*models.Semester, error) {
	return r.getOne(ctx, `SELECT id, name, start_date, end_date, current FROM semester WHERE id = $1`, id)
}

// GetCurrent retrieves the semester marked current.
func (r *SemesterRepository) GetCurrent(ctx context.Context) (*models.Semester, error) {
	return r.getOne(ctx, `SELECT id, name, start_date, end_date, current FROM semester WHERE current = TRUE LIMIT 1`)
}

// CurrentSemesterID resolves the id of the current semester.
func (r *SemesterRepository) CurrentSemesterID(ctx context.Context) (int64, error) {
	semester, err := r.GetCurrent(ctx)
	if err != nil {
		return 0, err
	}
	return semester.ID, nil
}

// Window returns the date window of a semester.
func (r *SemesterRepository) Window(ctx context.Context, semesterID int64) (models.SemesterWindow, error) {
	semester, err := r.GetByID(ctx, semesterID)
	if err != nil {
		return models.SemesterWindow{}, err
	}
	return semester.Window(), nil
}
