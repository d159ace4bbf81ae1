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

// SectionRepository handles database operations for sections
type SectionRepository struct {
	db *pgxpool.Pool
}

// NewSectionRepository creates a new section repository
func NewSectionRepository(database *db.PostgresDB) *SectionRepository {
	return &SectionRepository{
		db: database.Pool,
	}
}

// GetByID retrieves a section by ID
func (r *SectionRepository) GetByID(ctx context.Context, id int64) (*models.Section, error) {
	var section models.Section
	err := r.db.QueryRow(ctx, `SELECT id, name, code FROM section WHERE id = $1`, id).Scan(
		&section.ID,
		&section.Name,
		&section.Code,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSectionNotFound
		}
		return nil, fmt.Errorf("error retrieving section: %w", err)
	}
	return &section, nil
}

// SectionIDForUser resolves the section a SECTION-role user belongs to.
// No row means the user is not bound to any section; callers treat that
// as an authorization failure, never as unrestricted access.
func (r *SectionRepository) SectionIDForUser(ctx context.Context, userID int64) (int64, error) {
	var sectionID int64
	err := r.db.QueryRow(ctx, `SELECT section_id FROM section_user WHERE user_id = $1`, userID).Scan(&sectionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrSectionNotFound
		}
		return 0, fmt.Errorf("error resolving user section: %w", err)
	}
	return sectionID, nil
}
