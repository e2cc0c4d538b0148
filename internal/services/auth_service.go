package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"jobmarket_backend/internal/auth"
	"jobmarket_backend/internal/logger"
	"jobmarket_backend/internal/models"
	"jobmarket_backend/internal/repositories"
	"jobmarket_backend/internal/services/dto"
	"jobmarket_backend/internal/validator"
	"jobmarket_backend/pkg/apperrors"
)

type AuthService interface {
	Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Authenticate(ctx context.Context, db *gorm.DB, email, password string) (auth.Actor, error)
	Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.LoginResponse, error)
	GetByID(ctx context.Context, db *gorm.DB, id uint) (*dto.UserResponse, error)
	Me(ctx context.Context, db *gorm.DB, actor auth.Actor) (*dto.UserResponse, error)
}

type AuthServiceImpl struct {
	userRepo  repositories.UserRepository
	tokens    *auth.TokenManager
	validator *validator.Validator
}

func NewAuthService(userRepo repositories.UserRepository, tokens *auth.TokenManager, v *validator.Validator) AuthService {
	return &AuthServiceImpl{
		userRepo:  userRepo,
		tokens:    tokens,
		validator: v,
	}
}

// Register validates the normalized identity, so the stored username and
// email are the ones the length rules saw.
func (s *AuthServiceImpl) Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	normalized := *req
	normalized.Username = strings.TrimSpace(req.Username)
	normalized.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validateRequest(s.validator, &normalized); err != nil {
		return nil, err
	}
	role, err := models.ParseRole(normalized.Role)
	if err != nil {
		return nil, apperrors.ErrInvalidUserRole
	}

	username := normalized.Username
	email := normalized.Email

	// hash outside the transaction; bcrypt is slow
	hash, err := auth.HashPassword(normalized.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, apperrors.ValidationError(map[string]string{"password": "Must be at most 72 bytes long"})
		}
		return nil, apperrors.InternalError(err)
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	usernameTaken, emailTaken, err := s.userRepo.IdentityTaken(tx, username, email)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if usernameTaken {
		return nil, apperrors.ErrConflict(nil, "user", "Username already taken")
	}
	if emailTaken {
		return nil, apperrors.ErrConflict(nil, "user", "Email already registered")
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.userRepo.Create(tx, user); err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrConflict(err, "user", "Username or email already registered")
		}
		return nil, apperrors.InternalError(err)
	}

	if err := commit(tx); err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "User registered", "user_id", user.ID, "role", user.Role.String())
	return dto.NewUserResponse(user), nil
}

// Authenticate returns the same error for an unknown email and a wrong
// password, after the same amount of bcrypt work.
func (s *AuthServiceImpl) Authenticate(ctx context.Context, db *gorm.DB, email, password string) (auth.Actor, error) {
	user, err := s.authenticate(db, email, password)
	if err != nil {
		return auth.Anonymous(), err
	}
	return auth.NewActor(user.ID, user.Role), nil
}

func (s *AuthServiceImpl) authenticate(db *gorm.DB, email, password string) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(db, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			auth.BurnPasswordCheck(password)
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := validateRequest(s.validator, req); err != nil {
		return nil, err
	}

	user, err := s.authenticate(db, req.Email, req.Password)
	if err != nil {
		logger.CtxWarn(ctx, "Login failed")
		return nil, err
	}

	token, expiresAt, err := s.tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "User logged in", "user_id", user.ID)
	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		User:        dto.NewUserResponse(user),
	}, nil
}

func (s *AuthServiceImpl) GetByID(ctx context.Context, db *gorm.DB, id uint) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return dto.NewUserResponse(user), nil
}

func (s *AuthServiceImpl) Me(ctx context.Context, db *gorm.DB, actor auth.Actor) (*dto.UserResponse, error) {
	if err := auth.Authorize(actor, auth.ActionViewSelf, nil); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, db, actor.UserID)
}
