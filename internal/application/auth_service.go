package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/foodshare/foodshare-api/internal/domain/entity"
	"github.com/foodshare/foodshare-api/internal/domain/repository"
	"github.com/foodshare/foodshare-api/pkg/helpers"
)

var (
	// ErrInvalidCredentials deliberately covers both "no such user" and
	// "wrong password" so responses cannot be used for account enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
)

// AuthService owns registration, login, and profile use cases.
type AuthService struct {
	Repo   repository.UserRepository
	JWT    *helpers.JWTManager
	Logger *logrus.Logger
}

func NewAuthService(repo repository.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger) *AuthService {
	return &AuthService{Repo: repo, JWT: jwt, Logger: logger}
}

type RegisterInput struct {
	Name         string
	Email        string
	Password     string
	Role         entity.Role
	Organization string
	Location     string
	Phone        string
}

// Register hashes the password, persists the user, and issues a token for
// the new identity.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*entity.User, string, time.Time, error) {
	if existing, err := s.Repo.GetByEmail(ctx, in.Email); err == nil && existing != nil {
		return nil, "", time.Time{}, ErrEmailTaken
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	u := &entity.User{
		Name:         in.Name,
		Email:        in.Email,
		Password:     hash,
		Role:         in.Role,
		Organization: in.Organization,
		Location:     in.Location,
		Phone:        in.Phone,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			// Lost the race with a concurrent registration of the same email.
			return nil, "", time.Time{}, ErrEmailTaken
		}
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.JWT.Generate(u.ID, u.Role)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate token failed")
		}
		return nil, "", time.Time{}, err
	}
	return u, token, exp, nil
}

// Login validates email/password and issues a token. Only "no such user"
// collapses into ErrInvalidCredentials; a failing store propagates so the
// handler can answer 500 instead of blaming the caller's password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, string, time.Time, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", time.Time{}, ErrInvalidCredentials
		}
		return nil, "", time.Time{}, err
	}
	if u == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, exp, err := s.JWT.Generate(u.ID, u.Role)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate token failed")
		}
		return nil, "", time.Time{}, err
	}
	return u, token, exp, nil
}

func (s *AuthService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

type UpdateProfileInput struct {
	Name         string
	Organization string
	Location     string
	Phone        string
}

// UpdateProfile applies only the mutable profile fields. Empty inputs mean
// "unchanged": a caller cannot clear a field to the empty string, which is a
// known limitation of the contract, not an oversight. Email, password, and
// role are immutable here.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	if in.Name != "" {
		u.Name = in.Name
	}
	if in.Organization != "" {
		u.Organization = in.Organization
	}
	if in.Location != "" {
		u.Location = in.Location
	}
	if in.Phone != "" {
		u.Phone = in.Phone
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
