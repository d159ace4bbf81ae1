package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/secchub/secchub-backend/internal/app/models"
	"github.com/secchub/secchub-backend/internal/app/repositories"
	"github.com/secchub/secchub-backend/internal/db"
	"github.com/secchub/secchub-backend/internal/pkg/apperrors"
	"github.com/secchub/secchub-backend/internal/pkg/auth"
)

// CreateDefaultData seeds sections, semesters, classrooms and default user
// accounts so a fresh database is immediately usable. Every step tolerates
// rows that already exist; errors are collected and reported, not fatal.
func CreateDefaultData(ctx context.Context, database *db.PostgresDB, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data...")

	pool := database.Pool
	var finalErr error

	// --- Sections --- //
	sections := []struct {
		name string
		code string
	}{
		{"Systems Engineering", "SYS"},
		{"Industrial Engineering", "IND"},
		{"Basic Sciences", "BAS"},
	}
	for _, s := range sections {
		_, err := pool.Exec(ctx,
			`INSERT INTO section (name, code) VALUES ($1, $2) ON CONFLICT (code) DO NOTHING`,
			s.name, s.code)
		if err != nil {
			lgr.Error().Err(err).Str("code", s.code).Msg("Error creating section")
			finalErr = errors.Join(finalErr, err)
		}
	}

	// --- Semesters (exactly one marked current) --- //
	semesters := []struct {
		name    string
		start   string
		end     string
		current bool
	}{
		{"2026-1", "2026-02-02", "2026-06-19", true},
		{"2026-2", "2026-08-03", "2026-12-11", false},
	}
	for _, s := range semesters {
		_, err := pool.Exec(ctx,
			`INSERT INTO semester (name, start_date, end_date, current)
			 VALUES ($1, $2::date, $3::date, $4)
			 ON CONFLICT (name) DO NOTHING`,
			s.name, s.start, s.end, s.current)
		if err != nil {
			lgr.Error().Err(err).Str("semester", s.name).Msg("Error creating semester")
			finalErr = errors.Join(finalErr, err)
		}
	}

	// --- Classrooms --- //
	classrooms := []struct {
		room     string
		capacity int
		typeID   int64
	}{
		{"A-101", 40, 1},
		{"A-102", 40, 1},
		{"B-201", 25, 2},
		{"C-001", 120, 3},
	}
	for _, c := range classrooms {
		_, err := pool.Exec(ctx,
			`INSERT INTO classroom (room, capacity, type_id) VALUES ($1, $2, $3) ON CONFLICT (room) DO NOTHING`,
			c.room, c.capacity, c.typeID)
		if err != nil {
			lgr.Error().Err(err).Str("room", c.room).Msg("Error creating classroom")
			finalErr = errors.Join(finalErr, err)
		}
	}

	// --- Sample courses --- //
	courses := []struct {
		sectionCode string
		code        string
		name        string
		credits     int
	}{
		{"SYS", "SYS-101", "Introduction to Programming", 4},
		{"SYS", "SYS-204", "Databases", 4},
		{"IND", "IND-110", "Operations Research", 3},
		{"BAS", "BAS-100", "Calculus I", 5},
	}
	for _, c := range courses {
		_, err := pool.Exec(ctx,
			`INSERT INTO course (section_id, code, name, credits)
			 SELECT id, $2, $3, $4 FROM section WHERE code = $1
			 ON CONFLICT (code) DO NOTHING`,
			c.sectionCode, c.code, c.name, c.credits)
		if err != nil {
			lgr.Error().Err(err).Str("course", c.code).Msg("Error creating course")
			finalErr = errors.Join(finalErr, err)
		}
	}

	// --- Default users --- //
	userRepo := repositories.NewUserRepository(database)

	if _, err := createUserIfMissing(ctx, userRepo, lgr, &models.User{
		Email:    "admin@secchub.edu",
		Name:     "System",
		LastName: "Administrator",
		Role:     models.RoleAdmin,
	}, "Admin123!"); err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	sectionUserID, err := createUserIfMissing(ctx, userRepo, lgr, &models.User{
		Email:    "sys.section@secchub.edu",
		Name:     "Systems",
		LastName: "Coordinator",
		Role:     models.RoleSection,
	}, "Section123!")
	if err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	if sectionUserID > 0 {
		_, err := pool.Exec(ctx,
			`INSERT INTO section_user (user_id, section_id)
			 SELECT $1, id FROM section WHERE code = 'SYS'
			 ON CONFLICT (user_id) DO NOTHING`,
			sectionUserID)
		if err != nil {
			lgr.Error().Err(err).Msg("Error binding section user to its section")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if finalErr == nil {
		lgr.Info().Msg("Default data check complete")
	}
	return finalErr
}

// createUserIfMissing creates the account unless the email is already
// registered. Returns the account id either way.
func createUserIfMissing(ctx context.Context, userRepo *repositories.UserRepository, lgr zerolog.Logger, user *models.User, password string) (int64, error) {
	existing, err := userRepo.GetByEmail(ctx, user.Email)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		lgr.Error().Err(err).Str("email", user.Email).Msg("Error checking for existing user")
		return 0, err
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		lgr.Error().Err(err).Str("email", user.Email).Msg("Error hashing default password")
		return 0, err
	}
	user.Password = hashed

	if err := userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			// Lost a race with a concurrent seeder; look the row up again.
			if existing, errGet := userRepo.GetByEmail(ctx, user.Email); errGet == nil {
				return existing.ID, nil
			}
		}
		lgr.Error().Err(err).Str("email", user.Email).Msg("Error creating default user")
		return 0, fmt.Errorf("failed to create default user %s: %w", user.Email, err)
	}

	lgr.Info().Str("email", user.Email).Str("role", string(user.Role)).Msg("Default user created")
	return user.ID, nil
}
