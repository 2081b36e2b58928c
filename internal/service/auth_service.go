package service

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/argeoalecha/hayahai-web-sub001/internal/model"
	"github.com/argeoalecha/hayahai-web-sub001/internal/repository"
	"github.com/argeoalecha/hayahai-web-sub001/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(req RegisterRequest) (*AuthResponse, error)
	Login(req LoginRequest) (*AuthResponse, error)
	GetUser(userID string) (*model.User, error)
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

type authService struct {
	userRepo  repository.UserRepository
	jwtSecret string
	jwtExpiry time.Duration
}

func NewAuthService(userRepo repository.UserRepository, jwtSecret string, jwtExpiry time.Duration) AuthService {
	return &authService{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
	}
}

// Register creates a new user account with the default role
func (s *authService) Register(req RegisterRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrConflict
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Failed to look up user %s: %v", email, err)
		return nil, ErrInternal
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		return nil, ErrInternal
	}

	user := &model.User{
		Email:    email,
		Password: string(hash),
		FullName: strings.TrimSpace(req.FullName),
		Role:     model.RoleUser,
	}

	if err := s.userRepo.Create(user); err != nil {
		log.Printf("Failed to create user %s: %v", email, err)
		return nil, ErrInternal
	}

	return s.issueToken(user)
}

// Login verifies credentials and issues an access token
func (s *authService) Login(req LoginRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		log.Printf("Failed to look up user %s: %v", email, err)
		return nil, ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrUnauthorized
	}

	return s.issueToken(user)
}

// GetUser returns a user by id
func (s *authService) GetUser(userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		log.Printf("Failed to get user %s: %v", userID, err)
		return nil, ErrInternal
	}
	return user, nil
}

func (s *authService) issueToken(user *model.User) (*AuthResponse, error) {
	token, err := util.GenerateToken(user.ID, user.Email, user.Role, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		log.Printf("Failed to sign token for user %s: %v", user.ID, err)
		return nil, ErrInternal
	}

	return &AuthResponse{Token: token, User: user}, nil
}
