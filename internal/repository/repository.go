package repository

import (
	"alcyxob/fitclub/internal/domain"
	"context"
	"time"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrConflict     = RepositoryError("already exists")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository stores member documents keyed by the identity provider's uid.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// UpdateProfile merges the set fields of the update into the stored document.
	UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) error
	UpdateMembership(ctx context.Context, id string, plan domain.MembershipPlan, expiry time.Time) error
}

// CredentialRepository is the identity provider's account store.
type CredentialRepository interface {
	Create(ctx context.Context, cred *domain.Credential) error
	GetByUID(ctx context.Context, uid string) (*domain.Credential, error)
	GetByEmail(ctx context.Context, email string) (*domain.Credential, error)
	GetByResetTokenHash(ctx context.Context, hash string) (*domain.Credential, error)
	Update(ctx context.Context, cred *domain.Credential) error
}

// CurrentDocumentRepository holds at most one "current" document per user for
// one feature. Put replaces the whole document.
type CurrentDocumentRepository[T any] interface {
	Put(ctx context.Context, userID string, doc *T) error
	Get(ctx context.Context, userID string) (*T, error)
}

// ProgressRepository is append-only; entries come back ordered by date ascending.
type ProgressRepository interface {
	Append(ctx context.Context, entry *domain.ProgressEntry) error
	ListByUser(ctx context.Context, userID string) ([]domain.ProgressEntry, error)
}

// Store bundles every repository the services need.
type Store struct {
	Users          UserRepository
	Credentials    CredentialRepository
	BodyAnalyses   CurrentDocumentRepository[domain.BodyAnalysisRecord]
	WorkoutProgram CurrentDocumentRepository[domain.WorkoutProgram]
	DietPlans      CurrentDocumentRepository[domain.DietPlanRecord]
	CoachPlans     CurrentDocumentRepository[domain.CoachPlanRecord]
	Progress       ProgressRepository
}
