package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"alcyxob/fitclub/internal/domain"
	"alcyxob/fitclub/internal/identity"
	"alcyxob/fitclub/internal/session"
)

var ErrProfileSaveFailed = errors.New("profile could not be saved")

// ProfileService edits the Session User's own document and credentials.
type ProfileService interface {
	Update(ctx context.Context, store session.Store, update domain.ProfileUpdate) (*domain.User, error)
	ChangePassword(ctx context.Context, store session.Store, req PasswordChange) error
}

type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

type profileService struct {
	log zerolog.Logger
}

func NewProfileService(log zerolog.Logger) ProfileService {
	return &profileService{log: log.With().Str("component", "profile").Logger()}
}

// ValidateProfileUpdate rejects out-of-range measurements before any write.
func ValidateProfileUpdate(u domain.ProfileUpdate) error {
	var issues []string
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		issues = append(issues, "Name cannot be empty")
	}
	if p := u.PhysicalInfo; p != nil {
		if p.Age < 0 || p.Age > 120 {
			issues = append(issues, "Age must be between 0 and 120")
		}
		if p.Height < 0 || p.Height > 260 {
			issues = append(issues, "Height must be between 0 and 260 cm")
		}
		if p.Weight < 0 || p.Weight > 400 {
			issues = append(issues, "Weight must be between 0 and 400 kg")
		}
		if p.Gender != "" && p.Gender != domain.GenderMale && p.Gender != domain.GenderFemale {
			issues = append(issues, "Gender must be male or female")
		}
	}
	if g := u.Goals; g != nil {
		if g.TargetBodyFat != nil && (*g.TargetBodyFat < 0 || *g.TargetBodyFat > 70) {
			issues = append(issues, "Target body fat must be between 0 and 70")
		}
		if g.TargetWeight != nil && *g.TargetWeight < 0 {
			issues = append(issues, "Target weight cannot be negative")
		}
	}
	if len(issues) > 0 {
		return &session.ValidationError{Issues: issues}
	}
	return nil
}

func (s *profileService) Update(ctx context.Context, store session.Store, update domain.ProfileUpdate) (*domain.User, error) {
	if store.Current() == nil {
		return nil, ErrNoSession
	}
	if err := ValidateProfileUpdate(update); err != nil {
		return nil, err
	}
	if !store.UpdateProfile(ctx, update) {
		return nil, ErrProfileSaveFailed
	}
	return store.Current(), nil
}

func (s *profileService) ChangePassword(ctx context.Context, store session.Store, req PasswordChange) error {
	if req.NewPassword != req.ConfirmPassword {
		return &session.ValidationError{Issues: []string{"New passwords do not match"}}
	}
	if len(req.NewPassword) < identity.MinPasswordLength {
		return &session.ValidationError{Issues: []string{"New password must be at least 6 characters"}}
	}
	err := store.ChangePassword(ctx, req.CurrentPassword, req.NewPassword)
	if errors.Is(err, session.ErrNoSession) {
		return ErrNoSession
	}
	if err != nil && !errors.Is(err, identity.ErrWrongPassword) && !errors.Is(err, identity.ErrWeakPassword) {
		s.log.Error().Err(err).Msg("password change failed")
	}
	return err
}
