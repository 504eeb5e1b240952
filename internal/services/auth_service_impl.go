package services

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"

	"github.com/launchforge/accel-api/internal/auth"
	"github.com/launchforge/accel-api/internal/errors"
	"github.com/launchforge/accel-api/internal/logger"
	"github.com/launchforge/accel-api/internal/models"
	"github.com/launchforge/accel-api/internal/repository"
	"github.com/launchforge/accel-api/pkg/config"
)

// authServiceImpl implements AuthService
type authServiceImpl struct {
	repos      *repository.Repositories
	jwtService *auth.JWTService
	cfg        *config.Config
	logger     logger.Logger
}

func newAuthService(repos *repository.Repositories, cfg *config.Config, log logger.Logger) AuthService {
	return &authServiceImpl{
		repos:      repos,
		jwtService: auth.NewJWTService(cfg.JWTSecret),
		cfg:        cfg,
		logger:     log,
	}
}

// Login authenticates a user and returns session and CSRF tokens
func (s *authServiceImpl) Login(email, password string) (*LoginResponse, error) {
	user, err := s.repos.User.GetByEmail(email)
	if err != nil {
		return nil, errors.Unauthorized("invalid credentials", nil)
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, errors.Unauthorized("invalid credentials", nil)
	}

	return s.buildLoginResponse(user)
}

// Register creates a new user account. Partner accounts cannot be
// self-registered; they are provisioned by an existing partner.
func (s *authServiceImpl) Register(req *models.RegisterRequest) (*models.User, error) {
	if existing, err := s.repos.User.GetByEmail(req.Email); err == nil && existing != nil {
		return nil, errors.Conflict("account already exists", nil)
	}

	role := req.Role
	if role == "" {
		role = models.RoleFounder
	}
	if role != models.RoleFounder {
		return nil, errors.Forbidden("only founder accounts can self-register", nil)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, errors.ValidationError("invalid password", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.repos.User.Create(user); err != nil {
		return nil, errors.DatabaseError("failed to create user", err).WithOperation("Register")
	}

	user.PasswordHash = ""
	s.logger.Info("User registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// GetUser returns a user by ID with the password hash stripped
func (s *authServiceImpl) GetUser(id string) (*models.User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, errors.InvalidInput("invalid user ID", err)
	}

	user, err := s.repos.User.GetByID(userID)
	if err != nil {
		return nil, errors.NotFound("user not found", err)
	}

	user.PasswordHash = ""
	return user, nil
}

// RefreshToken validates a refresh token and issues a fresh session
func (s *authServiceImpl) RefreshToken(token string) (*LoginResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(token)
	if err != nil {
		return nil, errors.Unauthorized("invalid refresh token", err)
	}

	// Reload the user so role/startup changes take effect on refresh
	user, err := s.repos.User.GetByID(claims.UserID)
	if err != nil {
		return nil, errors.Unauthorized("user no longer exists", err)
	}

	return s.buildLoginResponse(user)
}

func (s *authServiceImpl) buildLoginResponse(user *models.User) (*LoginResponse, error) {
	claims := auth.ClaimsForUser(user)

	token, expiresAt, err := s.jwtService.GenerateToken(claims)
	if err != nil {
		return nil, errors.InternalError("failed to generate token", err)
	}

	refreshToken, _, err := s.jwtService.GenerateRefreshToken(claims)
	if err != nil {
		return nil, errors.InternalError("failed to generate refresh token", err)
	}

	csrfToken, err := generateCSRFToken()
	if err != nil {
		return nil, errors.InternalError("failed to generate CSRF token", err)
	}

	user.PasswordHash = ""
	return &LoginResponse{
		Token:        token,
		RefreshToken: refreshToken,
		CSRFToken:    csrfToken,
		ExpiresAt:    expiresAt,
		User:         user,
	}, nil
}

func generateCSRFToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
