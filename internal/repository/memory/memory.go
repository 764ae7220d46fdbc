// Package memory holds map-backed repositories used by tests and by the
// "memory" database driver.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"alcyxob/fitclub/internal/domain"
	"alcyxob/fitclub/internal/repository"
)

// NewStore returns a repository.Store backed entirely by memory.
func NewStore() *repository.Store {
	return &repository.Store{
		Users:          NewUserRepository(),
		Credentials:    NewCredentialRepository(),
		BodyAnalyses:   NewCurrentDocumentRepository[domain.BodyAnalysisRecord](),
		WorkoutProgram: NewCurrentDocumentRepository[domain.WorkoutProgram](),
		DietPlans:      NewCurrentDocumentRepository[domain.DietPlanRecord](),
		CoachPlans:     NewCurrentDocumentRepository[domain.CoachPlanRecord](),
		Progress:       NewProgressRepository(),
	}
}

// UserRepository is a map-backed repository.UserRepository.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]*domain.User)}
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; ok {
		return repository.ErrConflict
	}
	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return repository.ErrConflict
		}
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	r.users[user.ID] = user.Clone()
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u.Clone(), nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u.Clone(), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) UpdateProfile(_ context.Context, id string, update domain.ProfileUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Apply(update)
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *UserRepository) UpdateMembership(_ context.Context, id string, plan domain.MembershipPlan, expiry time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.MembershipPlan = plan
	u.MembershipExpiry = expiry.UTC()
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// Delete removes a document. Only tests use it, to simulate a principal
// whose document is missing.
func (r *UserRepository) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
}

// CredentialRepository is a map-backed repository.CredentialRepository.
type CredentialRepository struct {
	mu    sync.RWMutex
	creds map[string]domain.Credential
}

func NewCredentialRepository() *CredentialRepository {
	return &CredentialRepository{creds: make(map[string]domain.Credential)}
}

func (r *CredentialRepository) Create(_ context.Context, cred *domain.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.creds[cred.UID]; ok {
		return repository.ErrConflict
	}
	for _, c := range r.creds {
		if strings.EqualFold(c.Email, cred.Email) {
			return repository.ErrConflict
		}
	}
	now := time.Now().UTC()
	cred.CreatedAt = now
	cred.UpdatedAt = now
	r.creds[cred.UID] = copyCredential(*cred)
	return nil
}

func (r *CredentialRepository) GetByUID(_ context.Context, uid string) (*domain.Credential, error) {
	return r.find(func(c domain.Credential) bool { return c.UID == uid })
}

func (r *CredentialRepository) GetByEmail(_ context.Context, email string) (*domain.Credential, error) {
	return r.find(func(c domain.Credential) bool { return strings.EqualFold(c.Email, email) })
}

func (r *CredentialRepository) GetByResetTokenHash(_ context.Context, hash string) (*domain.Credential, error) {
	if hash == "" {
		return nil, repository.ErrNotFound
	}
	return r.find(func(c domain.Credential) bool { return c.ResetTokenHash == hash })
}

func (r *CredentialRepository) find(match func(domain.Credential) bool) (*domain.Credential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.creds {
		if match(c) {
			out := copyCredential(c)
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *CredentialRepository) Update(_ context.Context, cred *domain.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.creds[cred.UID]; !ok {
		return repository.ErrNotFound
	}
	cred.UpdatedAt = time.Now().UTC()
	r.creds[cred.UID] = copyCredential(*cred)
	return nil
}

func copyCredential(c domain.Credential) domain.Credential {
	if c.ResetExpiresAt != nil {
		t := *c.ResetExpiresAt
		c.ResetExpiresAt = &t
	}
	return c
}

// CurrentDocumentRepository keeps one document per user. Stored values are
// deep-copied through BSON so callers never share slices with the store.
type CurrentDocumentRepository[T any] struct {
	mu   sync.RWMutex
	docs map[string][]byte

	// FailPut and FailGet make Put and Get fail, for exercising the
	// silent-degrade paths.
	FailPut error
	FailGet error
}

func NewCurrentDocumentRepository[T any]() *CurrentDocumentRepository[T] {
	return &CurrentDocumentRepository[T]{docs: make(map[string][]byte)}
}

func (r *CurrentDocumentRepository[T]) Put(_ context.Context, userID string, doc *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailPut != nil {
		return r.FailPut
	}
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	r.docs[userID] = raw
	return nil
}

func (r *CurrentDocumentRepository[T]) Get(_ context.Context, userID string) (*T, error) {
	r.mu.RLock()
	raw, ok := r.docs[userID]
	failGet := r.FailGet
	r.mu.RUnlock()
	if failGet != nil {
		return nil, failGet
	}
	if !ok {
		return nil, repository.ErrNotFound
	}
	var doc T
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ProgressRepository is a slice-backed repository.ProgressRepository.
type ProgressRepository struct {
	mu      sync.RWMutex
	entries []domain.ProgressEntry
}

func NewProgressRepository() *ProgressRepository {
	return &ProgressRepository{}
}

func (r *ProgressRepository) Append(_ context.Context, entry *domain.ProgressEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.ID = uuid.NewString()
	entry.CreatedAt = time.Now().UTC()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *ProgressRepository) ListByUser(_ context.Context, userID string) ([]domain.ProgressEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []domain.ProgressEntry{}
	for _, e := range r.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}
