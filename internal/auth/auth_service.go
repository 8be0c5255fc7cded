package auth

import (
	"context"
	"errors"
	"os"
	"time"

	autherrors "github.com/shankar7055/sewa-volunteer-app/internal/auth/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const tokenTTL = 7 * 24 * time.Hour

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (AuthResponse, string, error)
	Login(ctx context.Context, email, password string) (AuthResponse, string, error)
	GetProfile(ctx context.Context, userID string) (*AuthResponse, error)
	UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (AuthResponse, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (AuthResponse, string, error) {
	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return AuthResponse{}, "", autherrors.ErrEmailAlreadyRegistered
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResponse{}, "", err
	}

	role := req.Role
	if role == "" {
		role = RoleUser
	}

	user := &User{
		ID:       uuid.New(),
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Role:     role,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return AuthResponse{}, "", autherrors.ErrEmailAlreadyRegistered
	}

	token, err := s.generateToken(user.ID.String(), user.Role, tokenTTL)
	if err != nil {
		return AuthResponse{}, "", autherrors.ErrTokenGenerationFailed
	}

	return mapToResponse(user), token, nil
}

func (s *service) Login(ctx context.Context, email, password string) (AuthResponse, string, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return AuthResponse{}, "", autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return AuthResponse{}, "", autherrors.ErrInvalidCredentials
	}

	token, err := s.generateToken(user.ID.String(), user.Role, tokenTTL)
	if err != nil {
		return AuthResponse{}, "", autherrors.ErrTokenGenerationFailed
	}

	return mapToResponse(user), token, nil
}

func (s *service) GetProfile(ctx context.Context, userID string) (*AuthResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, autherrors.ErrInvalidUserID
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, autherrors.ErrUserNotFound
	}

	resp := mapToResponse(u)
	return &resp, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (AuthResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return AuthResponse{}, autherrors.ErrInvalidUserID
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return AuthResponse{}, autherrors.ErrUserNotFound
	}

	if req.Name != "" {
		user.Name = req.Name
	}

	if req.Email != "" && req.Email != user.Email {
		existing, err := s.repo.GetByEmail(ctx, req.Email)
		if err == nil && existing.ID != user.ID {
			return AuthResponse{}, autherrors.ErrEmailAlreadyRegistered
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return AuthResponse{}, err
		}
		user.Email = req.Email
	}

	if req.CurrentPassword != "" && req.NewPassword != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
			return AuthResponse{}, autherrors.ErrWrongCurrentPassword
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return AuthResponse{}, err
		}
		user.Password = string(hashed)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return AuthResponse{}, err
	}

	return mapToResponse(user), nil
}

func (s *service) generateToken(userID, role string, expiry time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func mapToResponse(u *User) AuthResponse {
	return AuthResponse{
		ID:    u.ID.String(),
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}
