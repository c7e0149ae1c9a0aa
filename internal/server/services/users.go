package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/gophgallery/internal/server/auth"
	"github.com/dmitrijs2005/gophgallery/internal/server/config"
	"github.com/dmitrijs2005/gophgallery/internal/server/models"
	"github.com/dmitrijs2005/gophgallery/internal/server/repositories/users"
	"github.com/dmitrijs2005/gophgallery/internal/shared"
	"golang.org/x/crypto/bcrypt"
)

// passwordCost is lowered by tests.
var passwordCost = bcrypt.DefaultCost

const (
	maxUserNameLen = 64
	minPasswordLen = 4
	maxPasswordLen = 72
)

type UserService struct {
	repo                        users.Repository
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

func NewUserService(repo users.Repository, cfg *config.Config) *UserService {
	return &UserService{
		repo:                        repo,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

func validateCredentials(userName, password string) error {
	if userName == "" || strings.TrimSpace(userName) != userName || utf8.RuneCountInString(userName) > maxUserNameLen {
		return shared.ErrorInvalidLoginFormat
	}
	if len(password) < minPasswordLen || len(password) > maxPasswordLen {
		return shared.ErrorInvalidPasswordFormat
	}
	return nil
}

// Register creates the user and returns a fresh access token.
func (s *UserService) Register(ctx context.Context, userName, password string) (string, error) {
	if err := validateCredentials(userName, password); err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.Create(ctx, &models.User{UserName: userName, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, shared.ErrorAlreadyExists) {
			return "", err
		}
		return "", fmt.Errorf("error creating user: %w", err)
	}

	return auth.GenerateToken(user.UserName, s.jwtSecret, s.accessTokenValidityDuration)
}

// Login checks the password and returns a fresh access token. Unknown users
// and wrong passwords are indistinguishable.
func (s *UserService) Login(ctx context.Context, userName, password string) (string, error) {
	user, err := s.repo.GetUserByLogin(ctx, userName)
	if err != nil {
		if errors.Is(err, shared.ErrorNotFound) {
			return "", shared.ErrorInvalidLoginPassword
		}
		return "", fmt.Errorf("error loading user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return "", shared.ErrorInvalidLoginPassword
	}

	return auth.GenerateToken(user.UserName, s.jwtSecret, s.accessTokenValidityDuration)
}

// Authenticate resolves a bearer token to its user name.
func (s *UserService) Authenticate(token string) (string, error) {
	return auth.GetUserNameFromToken(token, s.jwtSecret)
}
