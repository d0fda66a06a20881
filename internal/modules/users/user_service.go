package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"freight-dispatch/internal/models"
	"freight-dispatch/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ServiceInterface defines methods for user business logic.
type ServiceInterface interface {
	Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)

	GetProfile(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, data models.UserUpdateData) (*models.User, error)
	ListUsers(ctx context.Context, role models.Role, page, limit int) ([]models.User, error)
}

type Service struct {
	userRepo  RepositoryInterface
	jwtSecret string
	log       logger.ILogger
}

func NewService(userRepo RepositoryInterface, jwtSecret string, log logger.ILogger) ServiceInterface {
	return &Service{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		log:       log,
	}
}

func (s *Service) Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("service.Signup.HashPassword: %w", err)
	}

	role := req.Type
	if role == "" {
		role = models.RoleCustomer
	}

	newUser := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		Fullname:     req.Fullname,
		ContactNo:    req.ContactNo,
		PasswordHash: string(hashedPassword),
		Type:         role,
	}
	createdUser, err := s.userRepo.Create(ctx, newUser)
	if err != nil {
		if errors.Is(err, models.ErrDuplicateUser) {
			return nil, models.ErrDuplicateUser
		}
		return nil, fmt.Errorf("service.Signup.CreateUser: %w", err)
	}

	s.log.Info("user registered",
		logger.String("user_id", createdUser.ID),
		logger.String("role", string(createdUser.Type)))

	return s.generateAuthResponse(createdUser)
}

func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("service.Login.FindByUsername: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}

	// Each login refreshes the device token so pushes reach the most recent
	// device. Failure here does not block the login.
	if req.FCMToken != "" {
		if err := s.userRepo.UpdateFCMToken(ctx, user.ID, req.FCMToken); err != nil {
			s.log.Warn("failed to refresh fcm token",
				logger.String("user_id", user.ID), logger.Error(err))
		}
	}

	return s.generateAuthResponse(user)
}

func (s *Service) generateAuthResponse(user *models.User) (*models.AuthResponse, error) {
	claims := &models.JwtCustomClaims{
		UserID: user.ID,
		Role:   user.Type,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 24 * 30)),
		},
	}

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenSignedString, err := accessToken.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	user.PasswordHash = ""

	return &models.AuthResponse{
		AccessToken: tokenSignedString,
		User:        user,
	}, nil
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.GetProfile: %w", err)
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, data models.UserUpdateData) (*models.User, error) {
	updatedUser, err := s.userRepo.Update(ctx, userID, data)
	if err != nil {
		return nil, fmt.Errorf("service.UpdateProfile: %w", err)
	}
	updatedUser.PasswordHash = ""
	return updatedUser, nil
}

func (s *Service) ListUsers(ctx context.Context, role models.Role, page, limit int) ([]models.User, error) {
	users, err := s.userRepo.List(ctx, role, page, limit)
	if err != nil {
		return nil, fmt.Errorf("service.ListUsers: %w", err)
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}
