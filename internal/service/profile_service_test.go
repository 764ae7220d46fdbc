package service_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcyxob/fitclub/internal/domain"
	"alcyxob/fitclub/internal/identity"
	"alcyxob/fitclub/internal/service"
	"alcyxob/fitclub/internal/session"
)

func TestValidateProfileUpdate(t *testing.T) {
	empty := ""
	fat := 80.0
	err := service.ValidateProfileUpdate(domain.ProfileUpdate{
		Name:         &empty,
		PhysicalInfo: &domain.PhysicalInfo{Age: 130, Height: 170, Weight: 65, Gender: "other"},
		Goals:        &domain.Goals{TargetBodyFat: &fat},
	})
	var verr *session.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{
		"Name cannot be empty",
		"Age must be between 0 and 120",
		"Gender must be male or female",
		"Target body fat must be between 0 and 70",
	}, verr.Issues)

	assert.NoError(t, service.ValidateProfileUpdate(domain.ProfileUpdate{}))
}

func TestProfileUpdate(t *testing.T) {
	f := newAuthFixture()
	profiles := service.NewProfileService(zerolog.Nop())
	ctx := context.Background()
	res := f.register(t, "ada@example.com")
	m, ok := f.registry.Get(res.SessionID)
	require.True(t, ok)

	name := "Ada King"
	user, err := profiles.Update(ctx, m, domain.ProfileUpdate{
		Name:         &name,
		PhysicalInfo: &domain.PhysicalInfo{Age: 36, Height: 165, Weight: 58, Gender: domain.GenderFemale},
		Goals:        &domain.Goals{PrimaryGoal: "Build muscle"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada King", user.Name)
	assert.True(t, user.HasCompleteProfile())

	stored, err := f.users.GetByID(ctx, res.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada King", stored.Name)

	m.Logout(ctx)
	_, err = profiles.Update(ctx, m, domain.ProfileUpdate{Name: &name})
	assert.ErrorIs(t, err, service.ErrNoSession)
}

func TestProfileChangePassword(t *testing.T) {
	f := newAuthFixture()
	profiles := service.NewProfileService(zerolog.Nop())
	ctx := context.Background()
	res := f.register(t, "ada@example.com")
	m, _ := f.registry.Get(res.SessionID)

	var verr *session.ValidationError
	err := profiles.ChangePassword(ctx, m, service.PasswordChange{CurrentPassword: "secret1", NewPassword: "newsecret", ConfirmPassword: "other"})
	assert.ErrorAs(t, err, &verr)
	err = profiles.ChangePassword(ctx, m, service.PasswordChange{CurrentPassword: "secret1", NewPassword: "abc", ConfirmPassword: "abc"})
	assert.ErrorAs(t, err, &verr)

	err = profiles.ChangePassword(ctx, m, service.PasswordChange{CurrentPassword: "bad-pass", NewPassword: "newsecret", ConfirmPassword: "newsecret"})
	assert.ErrorIs(t, err, identity.ErrWrongPassword)

	require.NoError(t, profiles.ChangePassword(ctx, m, service.PasswordChange{CurrentPassword: "secret1", NewPassword: "newsecret", ConfirmPassword: "newsecret"}))
	_, err = f.auth.Login(ctx, "ada@example.com", "newsecret")
	assert.NoError(t, err)
}
