package service

import (
	"context"
	"errors"
	"fmt"

	"task_manager/internal/model"
	"task_manager/internal/repository"
	"task_manager/internal/utils"
)

var (
	ErrUserAlreadyExists  = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// AuthService provides signup and signin
type AuthService interface {
	SignUp(ctx context.Context, email, password, role string) (*model.User, string, error)
	SignIn(ctx context.Context, email, password string) (*model.User, string, error)
}

type authService struct {
	userRepo repository.UserRepository
	jwtUtil  *utils.JWTUtil
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, jwtUtil *utils.JWTUtil) AuthService {
	return &authService{
		userRepo: userRepo,
		jwtUtil:  jwtUtil,
	}
}

// SignUp creates a new user account and issues a session token.
// Requesting the "admin" role creates an admin; any other value, or none,
// creates a regular user.
func (s *authService) SignUp(ctx context.Context, email, password, role string) (*model.User, string, error) {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, "", ErrUserAlreadyExists
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	assignedRole := model.RoleUser
	if role == model.RoleAdmin {
		assignedRole = model.RoleAdmin
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         assignedRole,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// The pre-check above races concurrent signups; the unique
		// constraint decides the loser.
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, "", ErrUserAlreadyExists
		}
		return nil, "", fmt.Errorf("failed to create user in repository: %w", err)
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("user created, but failed to generate token: %w", err)
	}

	return user, token, nil
}

// SignIn authenticates a user and issues a session token. An unknown email
// and a wrong password produce the same error.
func (s *authService) SignIn(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}
