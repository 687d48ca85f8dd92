package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/payment-portal-api/internal/models"
	appErrors "github.com/noah-isme/payment-portal-api/pkg/errors"
	"github.com/noah-isme/payment-portal-api/pkg/validation"
)

// keySource resolves verification keys for upstream-issued tokens.
type keySource interface {
	KeyfuncCtx(ctx context.Context) jwt.Keyfunc
}

// AuthConfig defines configuration for token verification and dev login.
type AuthConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
	Leeway     time.Duration
}

// AuthService verifies bearer tokens and issues development tokens.
type AuthService struct {
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
	keys      keySource
	users     map[string]models.User
	order     []string
}

type devUser struct {
	id       string
	email    string
	password string
	roles    []models.UserRole
}

var devUsers = []devUser{
	{"11111111-1111-1111-1111-111111111111", "admin@test.com", "admin123", []models.UserRole{models.RoleAdmin}},
	{"22222222-2222-2222-2222-222222222222", "staff@test.com", "staff123", []models.UserRole{models.RoleStaff}},
	{"33333333-3333-3333-3333-333333333333", "student@test.com", "student123", []models.UserRole{models.RoleStudent}},
	{"44444444-4444-4444-4444-444444444444", "student2@test.com", "student123", []models.UserRole{models.RoleStudent}},
}

// NewAuthService constructs an AuthService. keys may be nil, in which case
// only HS256 tokens signed with the configured secret are accepted.
func NewAuthService(validate *validator.Validate, logger *zap.Logger, config AuthConfig, keys keySource) (*AuthService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validation.New()
	}
	if config.Expiration <= 0 {
		config.Expiration = 24 * time.Hour
	}
	svc := &AuthService{
		validator: validate,
		logger:    logger,
		config:    config,
		keys:      keys,
		users:     make(map[string]models.User, len(devUsers)),
	}
	for _, u := range devUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.MinCost)
		if err != nil {
			return nil, fmt.Errorf("hash dev user password: %w", err)
		}
		svc.users[u.email] = models.User{ID: u.id, Email: u.email, PasswordHash: string(hash), Roles: u.roles}
		svc.order = append(svc.order, u.email)
	}
	return svc, nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*models.JWTClaims, error) {
	opts := []jwt.ParserOption{jwt.WithLeeway(s.config.Leeway)}
	if s.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.config.Issuer))
	}

	var keyfunc jwt.Keyfunc
	if s.keys != nil {
		keyfunc = s.keys.KeyfuncCtx(ctx)
		opts = append(opts, jwt.WithValidMethods([]string{"RS256", "ES256"}))
	} else {
		keyfunc = func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(s.config.Secret), nil
		}
	}

	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, keyfunc, opts...)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	if len(claims.RoleSet()) == 0 {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "token carries no roles")
	}
	return claims, nil
}

// DevLogin authenticates one of the fixed development users.
func (s *AuthService) DevLogin(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.FromValidation(err, "invalid login payload")
	}
	user, ok := s.users[strings.ToLower(strings.TrimSpace(req.Email))]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
	}

	token, err := s.generateAccessToken(&user)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}
	s.logger.Info("dev login", zap.String("email", user.Email))

	return &models.LoginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(s.config.Expiration.Seconds()),
		UserID:    user.ID,
		Email:     user.Email,
		Roles:     user.Roles,
	}, nil
}

// DevUsers lists the fixed development users without credentials.
func (s *AuthService) DevUsers() []models.User {
	users := make([]models.User, 0, len(s.order))
	for _, email := range s.order {
		u := s.users[email]
		u.PasswordHash = ""
		users = append(users, u)
	}
	return users
}

func (s *AuthService) generateAccessToken(user *models.User) (string, error) {
	issuedAt := time.Now().UTC()
	roles := make([]string, len(user.Roles))
	for i, r := range user.Roles {
		roles[i] = string(r)
	}
	claims := &models.JWTClaims{
		UserID: user.ID,
		Email:  user.Email,
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			Issuer:    s.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.Expiration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.Secret))
}
