package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/secchub/secchub-backend/internal/app/models"
	"github.com/secchub/secchub-backend/internal/pkg/apperrors"
)

type fakeUsers struct {
	idByEmail map[string]int64
	err       error
}

func (f fakeUsers) UserIDByEmail(ctx context.Context, email string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	id, ok := f.idByEmail[email]
	if !ok {
		return 0, apperrors.ErrUserNotFound
	}
	return id, nil
}

type fakeSections struct {
	sectionByUser map[int64]int64
	err           error
}

func (f fakeSections) SectionIDForUser(ctx context.Context, userID int64) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	sectionID, ok := f.sectionByUser[userID]
	if !ok {
		return 0, apperrors.ErrSectionNotFound
	}
	return sectionID, nil
}

func TestResolveByRole(t *testing.T) {
	resolver := NewScopeResolver(
		fakeUsers{idByEmail: map[string]int64{"sys@secchub.edu": 5}},
		fakeSections{sectionByUser: map[int64]int64{5: 3}},
	)

	tests := []struct {
		name      string
		principal models.Principal
		want      models.Scope
		wantErr   error
	}{
		{"admin is unrestricted", models.Principal{UserID: 1, Role: models.RoleAdmin}, models.UnrestrictedScope(), nil},
		{"teacher is unrestricted", models.Principal{UserID: 2, Role: models.RoleTeacher}, models.UnrestrictedScope(), nil},
		{"section user restricted to own section", models.Principal{UserID: 5, Role: models.RoleSection}, models.RestrictedScope(3), nil},
		{"section user resolved by email when token lacks id", models.Principal{Email: "sys@secchub.edu", Role: models.RoleSection}, models.RestrictedScope(3), nil},
		{"unknown role denied", models.Principal{UserID: 9, Role: models.RoleType("AUDITOR")}, models.Scope{}, apperrors.ErrPermissionDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolver.Resolve(context.Background(), tt.principal)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve returned error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResolveFailsClosed(t *testing.T) {
	// Any lookup failure denies access instead of widening it.
	tests := []struct {
		name     string
		users    IdentityDirectory
		sections SectionDirectory
	}{
		{
			"user lookup failure",
			fakeUsers{err: errors.New("connection reset")},
			fakeSections{sectionByUser: map[int64]int64{5: 3}},
		},
		{
			"section lookup failure",
			fakeUsers{idByEmail: map[string]int64{"sys@secchub.edu": 5}},
			fakeSections{err: errors.New("connection reset")},
		},
		{
			"user without section binding",
			fakeUsers{idByEmail: map[string]int64{"sys@secchub.edu": 5}},
			fakeSections{sectionByUser: map[int64]int64{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := NewScopeResolver(tt.users, tt.sections)
			scope, err := resolver.Resolve(context.Background(), models.Principal{Email: "sys@secchub.edu", Role: models.RoleSection})
			if !errors.Is(err, apperrors.ErrAuthzLookupFailed) {
				t.Fatalf("expected ErrAuthzLookupFailed, got %v", err)
			}
			if scope.Unrestricted || scope.SectionID != 0 {
				t.Errorf("failed resolution must return the zero scope, got %+v", scope)
			}
		})
	}
}

func TestScopePermits(t *testing.T) {
	if !models.UnrestrictedScope().Permits(42) {
		t.Error("unrestricted scope should permit any section")
	}
	restricted := models.RestrictedScope(3)
	if !restricted.Permits(3) {
		t.Error("restricted scope should permit its own section")
	}
	if restricted.Permits(4) {
		t.Error("restricted scope should not permit other sections")
	}
}
