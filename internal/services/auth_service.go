package services

import (
	"errors"
	"fmt"
	"time"

	"deeskinstore/internal/models"
	"deeskinstore/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for any failed login attempt. The
// message never reveals whether the email exists.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService handles back-office authentication. Storefront customers
// never authenticate; only admins do.
type AuthService struct {
	adminRepo  repositories.AdminRepository
	jwtSecret  []byte
	tokenDurat time.Duration
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(adminRepo repositories.AdminRepository, jwtSecret string, logger zerolog.Logger) *AuthService {
	return &AuthService{
		adminRepo:  adminRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 24 * time.Hour,
		logger:     logger,
	}
}

// RegisterAdmin creates a back-office user with a bcrypt-hashed password.
func (s *AuthService) RegisterAdmin(admin *models.AdminUser, password string) error {
	if existing, err := s.adminRepo.GetByEmail(admin.Email); err == nil && existing != nil {
		return fmt.Errorf("email '%s' already registered", admin.Email)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	admin.PasswordHash = string(hashed)
	admin.IsActive = true

	if err := s.adminRepo.Create(admin); err != nil {
		return fmt.Errorf("failed to register admin: %w", err)
	}
	return nil
}

// LoginAdmin authenticates an admin and returns a JWT token if successful.
// Inactive accounts cannot log in.
func (s *AuthService) LoginAdmin(email, password string) (string, error) {
	admin, err := s.adminRepo.GetByEmail(email)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if !admin.IsActive {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"admin_id": admin.ID,
		"email":    admin.Email,
		"role":     admin.Role,
		"exp":      time.Now().Add(s.tokenDurat).Unix(),
		"iat":      time.Now().Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	if err := s.adminRepo.TouchLastLogin(admin.ID); err != nil {
		s.logger.Warn().Err(err).Str("admin_id", admin.ID).Msg("failed to stamp last login")
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}
