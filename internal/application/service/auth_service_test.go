package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/sangkips/sparta-gym-api/internal/domain/entity"
	"github.com/sangkips/sparta-gym-api/pkg/apperror"
	"github.com/sangkips/sparta-gym-api/pkg/oauth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) staff(t *testing.T, email, password, role string) *entity.User {
	t.Helper()
	u, err := f.users.CreateUser(context.Background(), &CreateUserInput{
		Name:     "Carla Ruiz",
		Email:    email,
		Password: password,
		Role:     role,
	})
	require.NoError(t, err)
	return u
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.staff(t, "carla@sparta.pe", "secret123", "admin")

	out, err := f.auth.Login(ctx, &LoginInput{Email: "carla@sparta.pe", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.AccessToken)
	assert.NotEmpty(t, out.RefreshToken)
	assert.Equal(t, int64(3600), out.ExpiresIn)
	assert.Equal(t, []string{"admin"}, out.User.RoleNames())
	assert.Contains(t, out.User.GetPermissions(), "manage-settings")
	require.NotNil(t, out.User.LastLoginAt)
	assert.True(t, out.User.LastLoginAt.Equal(fixedNow))

	_, err = f.auth.Login(ctx, &LoginInput{Email: "carla@sparta.pe", Password: "wrong"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	_, err = f.auth.Login(ctx, &LoginInput{Email: "nadie@sparta.pe", Password: "secret123"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestRefreshToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.staff(t, "carla@sparta.pe", "secret123", "")

	out, err := f.auth.Login(ctx, &LoginInput{Email: "carla@sparta.pe", Password: "secret123"})
	require.NoError(t, err)

	refreshed, err := f.auth.RefreshToken(ctx, out.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, refreshed.User.ID)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = f.auth.RefreshToken(ctx, out.AccessToken)
	assertAppError(t, err, http.StatusUnauthorized)

	_, err = f.auth.RefreshToken(ctx, "not-a-token")
	assertAppError(t, err, http.StatusUnauthorized)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.staff(t, "carla@sparta.pe", "secret123", "")

	err := f.auth.ChangePassword(ctx, &ChangePasswordInput{UserID: u.ID, CurrentPassword: "nope", NewPassword: "nueva456"})
	assertFieldError(t, err, "current_password")

	require.NoError(t, f.auth.ChangePassword(ctx, &ChangePasswordInput{
		UserID: u.ID, CurrentPassword: "secret123", NewPassword: "nueva456",
	}))

	_, err = f.auth.Login(ctx, &LoginInput{Email: "carla@sparta.pe", Password: "nueva456"})
	require.NoError(t, err)
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.staff(t, "carla@sparta.pe", "secret123", "")
	f.staff(t, "luis@sparta.pe", "secret123", "")

	updated, err := f.auth.UpdateProfile(ctx, &UpdateProfileInput{UserID: u.ID, Name: ptr("Carla R."), Email: ptr(" CARLA.R@sparta.pe ")})
	require.NoError(t, err)
	assert.Equal(t, "Carla R.", updated.Name)
	assert.Equal(t, "carla.r@sparta.pe", updated.Email)

	_, err = f.auth.UpdateProfile(ctx, &UpdateProfileInput{UserID: u.ID, Email: ptr("luis@sparta.pe")})
	assertAppError(t, err, http.StatusConflict)
}

func TestForgotAndResetPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.staff(t, "carla@sparta.pe", "secret123", "")

	require.NoError(t, f.auth.ForgotPassword(ctx, "nadie@sparta.pe"), "unknown emails are not revealed")
	assert.Empty(t, f.mailer.resets)

	require.NoError(t, f.auth.ForgotPassword(ctx, "carla@sparta.pe"))
	token := f.mailer.resets["carla@sparta.pe"]
	require.Len(t, token, 64)

	err := f.auth.ResetPassword(ctx, &ResetPasswordInput{Email: "otra@sparta.pe", Token: token, NewPassword: "nueva456"})
	assertAppError(t, err, http.StatusBadRequest)

	require.NoError(t, f.auth.ResetPassword(ctx, &ResetPasswordInput{Email: "carla@sparta.pe", Token: token, NewPassword: "nueva456"}))
	_, err = f.auth.Login(ctx, &LoginInput{Email: "carla@sparta.pe", Password: "nueva456"})
	require.NoError(t, err)

	err = f.auth.ResetPassword(ctx, &ResetPasswordInput{Email: "carla@sparta.pe", Token: token, NewPassword: "otra789"})
	assertAppError(t, err, http.StatusBadRequest)
}

func TestResetPassword_Expired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.staff(t, "carla@sparta.pe", "secret123", "")

	require.NoError(t, f.auth.ForgotPassword(ctx, "carla@sparta.pe"))
	f.now = fixedNow.Add(resetTokenTTL + time.Minute)

	err := f.auth.ResetPassword(ctx, &ResetPasswordInput{
		Email: "carla@sparta.pe", Token: f.mailer.resets["carla@sparta.pe"], NewPassword: "nueva456",
	})
	assertAppError(t, err, http.StatusBadRequest)
}

func TestLoginWithGoogle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.staff(t, "carla@sparta.pe", "secret123", "")

	out, err := f.auth.LoginWithGoogle(ctx, &oauth.GoogleUserInfo{
		ID: "google-123", Email: "carla@sparta.pe", VerifiedEmail: true, Picture: "https://example.com/c.png",
	})
	require.NoError(t, err)
	assert.Equal(t, u.ID, out.User.ID)
	require.NotNil(t, out.User.ProviderID)
	assert.Equal(t, "google-123", *out.User.ProviderID)
	require.NotNil(t, out.User.Photo)

	_, err = f.auth.LoginWithGoogle(ctx, &oauth.GoogleUserInfo{ID: "google-9", Email: "intruso@gmail.com"})
	assertAppError(t, err, http.StatusForbidden)
}
