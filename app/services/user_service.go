package services

import (
	"context"
	"strings"

	"github.com/Rakhulsr/afronectar/app/models"
	"github.com/Rakhulsr/afronectar/app/repositories"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type UserInput struct {
	Name  string `json:"name" validate:"required,max=100"`
	Email string `json:"email" validate:"required,email,max=100"`
	Role  string `json:"role" validate:"omitempty,oneof=admin staff"`
}

type UserService struct {
	userRepo repositories.UserRepositoryImpl
	validate *validator.Validate
	log      *zap.Logger
}

func NewUserService(userRepo repositories.UserRepositoryImpl, validate *validator.Validate, log *zap.Logger) *UserService {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserService{userRepo: userRepo, validate: validate, log: log}
}

func (s *UserService) Create(ctx context.Context, input UserInput) (*models.User, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := validateStruct(s.validate, &input); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, newValidationError("email", "email already registered")
	}

	user := &models.User{Name: input.Name, Email: input.Email, Role: input.Role}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, translateStoreError("email", "", err)
	}

	s.log.Info("User created", zap.String("user_id", user.ID), zap.String("role", user.Role))
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// GetOrCreate returns the user with the given email, creating it when absent.
func (s *UserService) GetOrCreate(ctx context.Context, input UserInput) (*models.User, error) {
	existing, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	return s.Create(ctx, input)
}
