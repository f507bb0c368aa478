package testutils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rongwang/sheet-tables-server/internal/api"
	"github.com/rongwang/sheet-tables-server/internal/models"
	"github.com/rongwang/sheet-tables-server/internal/repository"
	"github.com/rongwang/sheet-tables-server/internal/service"
	"github.com/rongwang/sheet-tables-server/internal/sheets"
	"github.com/rongwang/sheet-tables-server/internal/utils"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test-secret-key"

// TestContext holds all dependencies for tests
type TestContext struct {
	Router      *gin.Engine
	Repository  repository.Repository
	Service     service.Service
	Sheets      *StubSheets
	JWTSecret   []byte
	TestUserID  string
	TestUserJWT string
}

// SetupTestContext creates a new test context backed by the in-memory store
// and a stub spreadsheet provider
func SetupTestContext(t *testing.T) *TestContext {
	repo := repository.NewMemoryRepository()
	stub := NewStubSheets()
	logger := utils.NewDiscardLogger()

	svc := service.NewDefaultService(repo, stub, logger, testJWTSecret, time.Hour)

	gin.SetMode(gin.TestMode)
	router := api.NewRouter(api.NewHandler(svc, logger), logger, []byte(testJWTSecret))

	testUserID, token := CreateTestUser(t, repo, "testuser@example.com")

	return &TestContext{
		Router:      router,
		Repository:  repo,
		Service:     svc,
		Sheets:      stub,
		JWTSecret:   []byte(testJWTSecret),
		TestUserID:  testUserID,
		TestUserJWT: token,
	}
}

// CleanupTestContext cleans up test resources
func CleanupTestContext(t *TestContext) {
	t.Sheets.Reset()
}

// CreateTestUser stores a user with password "testpassword" and returns its id and a signed token
func CreateTestUser(t *testing.T, repo repository.Repository, email string) (string, string) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("testpassword"), bcrypt.MinCost)

	user := &models.User{
		ID:       uuid.New().String(),
		Email:    email,
		Name:     "Test User",
		Password: string(hashedPassword),
	}

	err := repo.CreateUser(context.Background(), user)
	assert.NoError(t, err, "Failed to create test user")

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": user.ID,
		"exp": time.Now().Add(24 * time.Hour).Unix(),
		"iat": time.Now().Unix(),
	})

	tokenString, err := token.SignedString([]byte(testJWTSecret))
	assert.NoError(t, err, "Failed to generate JWT token")

	return user.ID, tokenString
}

// StubSheets is an in-memory spreadsheet provider
type StubSheets struct {
	mu    sync.Mutex
	grids map[string]sheets.Grid
	errs  map[string]error
}

// NewStubSheets returns an empty provider; unknown ids are reported as not found
func NewStubSheets() *StubSheets {
	return &StubSheets{
		grids: make(map[string]sheets.Grid),
		errs:  make(map[string]error),
	}
}

// Set makes id serve grid
func (s *StubSheets) Set(id string, grid sheets.Grid) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grids[id] = grid
	delete(s.errs, id)
}

// Fail makes every fetch of id return err
func (s *StubSheets) Fail(id string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs[id] = err
}

// Reset forgets all grids and failures
func (s *StubSheets) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grids = make(map[string]sheets.Grid)
	s.errs = make(map[string]error)
}

// Fetch implements sheets.Fetcher
func (s *StubSheets) Fetch(ctx context.Context, id string) (sheets.Grid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err, ok := s.errs[id]; ok {
		return nil, err
	}
	grid, ok := s.grids[id]
	if !ok {
		return nil, fmt.Errorf("%w (%s)", sheets.ErrSourceNotFound, id)
	}
	return grid, nil
}

// SheetURL returns a share URL for the spreadsheet id
func SheetURL(id string) string {
	return "https://docs.google.com/spreadsheets/d/" + id + "/edit#gid=0"
}

// PerformRequest executes an HTTP request against the router
func PerformRequest(r http.Handler, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer

	if body != nil {
		jsonBody, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBody)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// AuthHeaders returns headers with Authorization token
func AuthHeaders(token string) map[string]string {
	return map[string]string{
		"Authorization": fmt.Sprintf("Bearer %s", token),
	}
}
