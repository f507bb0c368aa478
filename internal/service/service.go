package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rongwang/sheet-tables-server/internal/models"
	"github.com/rongwang/sheet-tables-server/internal/repository"
	"github.com/rongwang/sheet-tables-server/internal/sheets"
	"github.com/rongwang/sheet-tables-server/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

// Service defines all the business logic operations
type Service interface {
	// Authentication
	SignUp(ctx context.Context, req models.SignUpRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)

	// Table operations, always scoped to the owning user
	CreateTable(ctx context.Context, owner string, req models.CreateTableRequest) (*models.Table, error)
	GetTable(ctx context.Context, owner, tableID string) (*models.Table, error)
	ListTables(ctx context.Context, owner string) ([]models.Table, error)
	SyncTable(ctx context.Context, owner, tableID string) (*models.Table, error)
	DeleteTable(ctx context.Context, owner, tableID string) error

	// SyncAll re-syncs every stored table, continuing past individual failures
	SyncAll(ctx context.Context) (synced, failed int, err error)
}

// DefaultService implements the Service interface
type DefaultService struct {
	repo          repository.Repository
	fetcher       sheets.Fetcher
	logger        *utils.Logger
	jwtSecret     []byte
	tokenDuration time.Duration
	now           func() time.Time
}

// NewDefaultService creates a new DefaultService
func NewDefaultService(
	repo repository.Repository,
	fetcher sheets.Fetcher,
	logger *utils.Logger,
	jwtSecret string,
	tokenDuration time.Duration,
) *DefaultService {
	if tokenDuration <= 0 {
		tokenDuration = 24 * time.Hour
	}
	return &DefaultService{
		repo:          repo,
		fetcher:       fetcher,
		logger:        logger,
		jwtSecret:     []byte(jwtSecret),
		tokenDuration: tokenDuration,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Authentication methods
func (s *DefaultService) SignUp(ctx context.Context, req models.SignUpRequest) (*models.AuthResponse, error) {
	// Check if user already exists
	existingUser, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("error checking user existence: %w", err)
	}

	if existingUser != nil {
		return nil, ErrUserExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		ID:       uuid.New().String(),
		Email:    req.Email,
		Name:     req.Name,
		Password: string(hashedPassword),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return &models.AuthResponse{
		Status: "success",
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
	}, nil
}

func (s *DefaultService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	return &models.AuthResponse{
		Status:    "success",
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Token:     token,
		ExpiresIn: int(s.tokenDuration.Seconds()),
	}, nil
}

// Helper methods
func (s *DefaultService) generateJWT(user *models.User) (string, error) {
	expirationTime := time.Now().Add(s.tokenDuration)

	claims := jwt.MapClaims{
		"sub": user.ID, // subject
		"exp": expirationTime.Unix(),
		"iat": time.Now().Unix(), // issued at
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
