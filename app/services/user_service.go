package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shashiranjanraj/galeria/app/models"
	"github.com/shashiranjanraj/galeria/app/repositories"
	"github.com/shashiranjanraj/galeria/pkg/auth"
)

type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RoleInput struct {
	Role string `json:"role" validate:"required,in=customer,admin"`
}

// Session is returned by register and login.
type Session struct {
	User         *models.User `json:"user"`
	Token        string       `json:"token"`
	RefreshToken string       `json:"refreshToken"`
}

type UserService struct {
	users repositories.UserRepository
}

func NewUserService(users repositories.UserRepository) *UserService {
	return &UserService{users: users}
}

// Register creates a customer account. Admins are promoted through SetRole
// or the seeder, never here.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: hash,
		Role:         auth.RoleCustomer,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return issue(u)
}

func (s *UserService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	u, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(u.PasswordHash, in.Password) {
		return nil, ErrInvalidCredentials
	}
	return issue(u)
}

// Refresh trades a valid refresh token for a new pair. The role is reread
// so a demoted admin loses access on refresh.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	claims, err := auth.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	u, err := s.users.Get(ctx, claims.UserID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	return issue(u)
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	return s.users.Get(ctx, id)
}

func (s *UserService) List(ctx context.Context, page models.Page) ([]models.User, models.PageMeta, error) {
	page = page.Normalize()
	items, total, err := s.users.List(ctx, page)
	if err != nil {
		return nil, models.PageMeta{}, fmt.Errorf("list users: %w", err)
	}
	return items, models.NewPageMeta(page, total), nil
}

func (s *UserService) SetRole(ctx context.Context, id string, in RoleInput) (*models.User, error) {
	if in.Role != auth.RoleCustomer && in.Role != auth.RoleAdmin {
		return nil, ValidationError{"role": "Rol desconocido."}
	}
	return s.users.SetRole(ctx, id, in.Role)
}

func issue(u *models.User) (*Session, error) {
	token, err := auth.GenerateToken(u.ID, u.Role)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	refresh, err := auth.GenerateRefreshToken(u.ID, u.Role)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}
	return &Session{User: u, Token: token, RefreshToken: refresh}, nil
}
