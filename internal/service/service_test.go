package service

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rongwang/sheet-tables-server/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignUpAndLogin(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	resp, err := svc.SignUp(ctx, models.SignUpRequest{Email: "a@example.com", Password: "Password123", Name: "A"})
	require.NoError(t, err)
	assert.Equal(t, "success", resp.Status)
	assert.NotEmpty(t, resp.UserID)

	_, err = svc.SignUp(ctx, models.SignUpRequest{Email: "a@example.com", Password: "Password123", Name: "A"})
	assert.ErrorIs(t, err, ErrUserExists)

	login, err := svc.Login(ctx, models.LoginRequest{Email: "a@example.com", Password: "Password123"})
	require.NoError(t, err)
	assert.Equal(t, resp.UserID, login.UserID)
	assert.Equal(t, 3600, login.ExpiresIn)

	token, err := jwt.Parse(login.Token, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, resp.UserID, claims["sub"])

	_, err = svc.Login(ctx, models.LoginRequest{Email: "a@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, models.LoginRequest{Email: "missing@example.com", Password: "Password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
