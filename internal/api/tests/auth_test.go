package api_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rongwang/sheet-tables-server/internal/api/testutils"
	"github.com/rongwang/sheet-tables-server/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestSignup(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	// Test case 1: Successful signup
	signupReq := models.SignUpRequest{
		Email:    "newuser@example.com",
		Password: "Password123",
		Name:     "New User",
	}

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/auth/signup",
		signupReq,
		nil,
	)

	assert.Equal(t, http.StatusCreated, w.Code)

	// Test case 2: Duplicate email
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/auth/signup",
		signupReq,
		nil,
	)

	assert.Equal(t, http.StatusConflict, w.Code)

	// Test case 3: Invalid request (missing required fields)
	invalidReq := models.SignUpRequest{
		Email: "invalid@example.com",
		// Missing password and name
	}

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/auth/signup",
		invalidReq,
		nil,
	)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	// Test case 1: Successful login
	loginReq := models.LoginRequest{
		Email:    "testuser@example.com",
		Password: "testpassword",
	}

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/auth/login",
		loginReq,
		nil,
	)

	assert.Equal(t, http.StatusOK, w.Code)

	var authResp models.AuthResponse
	err := json.Unmarshal(w.Body.Bytes(), &authResp)
	assert.NoError(t, err)
	assert.Equal(t, testCtx.TestUserID, authResp.UserID)
	assert.NotEmpty(t, authResp.Token)

	// The issued token opens the table routes
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodGet,
		"/api/tables",
		nil,
		testutils.AuthHeaders(authResp.Token),
	)

	assert.Equal(t, http.StatusOK, w.Code)

	// Test case 2: Invalid credentials
	invalidLoginReq := models.LoginRequest{
		Email:    "testuser@example.com",
		Password: "wrongpassword",
	}

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/auth/login",
		invalidLoginReq,
		nil,
	)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Test case 3: User not found
	nonExistentUserReq := models.LoginRequest{
		Email:    "nonexistent@example.com",
		Password: "testpassword",
	}

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/auth/login",
		nonExistentUserReq,
		nil,
	)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)
	defer testutils.CleanupTestContext(testCtx)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": testCtx.TestUserID,
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	expiredToken, err := expired.SignedString(testCtx.JWTSecret)
	assert.NoError(t, err)

	wrongKey := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": testCtx.TestUserID,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	wrongKeyToken, err := wrongKey.SignedString([]byte("another-secret"))
	assert.NoError(t, err)

	noSubject := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	noSubjectToken, err := noSubject.SignedString(testCtx.JWTSecret)
	assert.NoError(t, err)

	cases := map[string]map[string]string{
		"missing header":  nil,
		"not bearer":      {"Authorization": "Token " + testCtx.TestUserJWT},
		"garbage token":   testutils.AuthHeaders("not-a-jwt"),
		"expired token":   testutils.AuthHeaders(expiredToken),
		"wrong key":       testutils.AuthHeaders(wrongKeyToken),
		"missing subject": testutils.AuthHeaders(noSubjectToken),
	}

	for name, headers := range cases {
		t.Run(name, func(t *testing.T) {
			w := testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/tables", nil, headers)
			assert.Equal(t, http.StatusUnauthorized, w.Code)

			var errResp models.ErrorResponse
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
			assert.Equal(t, "UNAUTHORIZED", errResp.Code)
		})
	}
}
