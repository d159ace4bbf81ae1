package auth

import (
	"context"
	"errors"

	"github.com/secchub/secchub-backend/internal/app/models"
	"github.com/secchub/secchub-backend/internal/pkg/apperrors"
	"github.com/secchub/secchub-backend/internal/pkg/logger"
)

// IdentityDirectory resolves a principal's email to a user id.
type IdentityDirectory interface {
	UserIDByEmail(ctx context.Context, email string) (int64, error)
}

// SectionDirectory resolves the section a user belongs to.
type SectionDirectory interface {
	SectionIDForUser(ctx context.Context, userID int64) (int64, error)
}

// ScopeResolver computes the authorization scope of a request from the
// caller's identity. Administrators and teachers are unrestricted and
// never trigger the lookup chain; section users are restricted to their
// own section. Any lookup failure fails closed: a caller whose section
// cannot be resolved gets no access, never unrestricted access.
type ScopeResolver struct {
	users    IdentityDirectory
	sections SectionDirectory
}

// NewScopeResolver creates a new ScopeResolver
func NewScopeResolver(users IdentityDirectory, sections SectionDirectory) *ScopeResolver {
	return &ScopeResolver{
		users:    users,
		sections: sections,
	}
}

// Resolve computes the scope for the given principal. The result is valid
// for the current request only; every request recomputes it.
func (r *ScopeResolver) Resolve(ctx context.Context, principal models.Principal) (models.Scope, error) {
	switch principal.Role {
	case models.RoleAdmin, models.RoleTeacher:
		return models.UnrestrictedScope(), nil
	case models.RoleSection:
		userID := principal.UserID
		if userID == 0 {
			id, err := r.users.UserIDByEmail(ctx, principal.Email)
			if err != nil {
				logger.Warn().Err(err).Str("email", principal.Email).Msg("Scope resolution failed at user lookup")
				return models.Scope{}, errors.Join(apperrors.ErrAuthzLookupFailed, err)
			}
			userID = id
		}

		sectionID, err := r.sections.SectionIDForUser(ctx, userID)
		if err != nil {
			logger.Warn().Err(err).Int64("userID", userID).Msg("Scope resolution failed at section lookup")
			return models.Scope{}, errors.Join(apperrors.ErrAuthzLookupFailed, err)
		}
		return models.RestrictedScope(sectionID), nil
	default:
		return models.Scope{}, apperrors.ErrPermissionDenied
	}
}
