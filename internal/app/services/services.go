package services

import (
	appauth "github.com/secchub/secchub-backend/internal/app/auth"
	"github.com/secchub/secchub-backend/internal/app/repositories"
	"github.com/secchub/secchub-backend/internal/pkg/auth"
)

// Services holds all service instances
type Services struct {
	AuthService        *AuthService
	PlanningService    *PlanningService
	DuplicationService *DuplicationService
}

// NewServices wires the service layer on top of the repositories. The
// scope resolver is shared so every service evaluates the same predicate.
func NewServices(repos *repositories.Repositories, jwtService *auth.JWTService) *Services {
	scopeResolver := appauth.NewScopeResolver(repos.UserRepository, repos.SectionRepository)
	detector := NewConflictDetector(repos.ScheduleRepository)

	return &Services{
		AuthService: NewAuthService(repos.UserRepository, jwtService),
		PlanningService: NewPlanningService(
			repos.ClassRepository,
			repos.ScheduleRepository,
			repos.CourseRepository,
			repos.SemesterRepository,
			scopeResolver,
			detector,
		),
		DuplicationService: NewDuplicationService(
			repos.ClassRepository,
			repos.ScheduleRepository,
			repos.CourseRepository,
			repos.SemesterRepository,
			scopeResolver,
		),
	}
}
