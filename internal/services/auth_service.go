package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hotfood/internal/models"
	"hotfood/internal/repositories"
	"hotfood/pkg/identity"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v2/log"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Claims is the payload of every bearer token. Exactly one of UserID and AdminID is set.
type Claims struct {
	UserID  string `json:"user_id,omitempty"`
	AdminID string `json:"admin_id,omitempty"`
	Role    string `json:"role"`
	jwt.StandardClaims
}

// IdentityVerifier checks a federated sign-in token.
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (*identity.Identity, error)
}

// RegisterInput carries the fields of a sign-up form.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// ProfileUpdate carries editable profile fields. Blank fields keep their current value.
type ProfileUpdate struct {
	Name    string `json:"name" validate:"omitempty,max=100"`
	Phone   string `json:"phone" validate:"omitempty,max=20"`
	Address string `json:"address" validate:"omitempty,max=500"`
}

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo   repositories.UserRepository
	adminRepo  repositories.AdminRepository
	verifier   IdentityVerifier
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which JWT is valid
}

// NewAuthService creates a new AuthService. verifier may be nil when federated login is disabled.
func NewAuthService(userRepo repositories.UserRepository, adminRepo repositories.AdminRepository, verifier IdentityVerifier, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		adminRepo:  adminRepo,
		verifier:   verifier,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 7 * 24 * time.Hour,
	}
}

// RegisterUser creates a local account and returns it with a fresh token.
func (s *AuthService) RegisterUser(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	email := normalizeEmail(in.Email)
	if existing, err := s.userRepo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, "", ErrUserExists
	} else if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, "", err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		Password:     string(hashedPassword),
		AuthProvider: models.AuthProviderLocal,
		Cart:         []models.CartItem{},
		CreatedAt:    time.Now(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, "", ErrUserExists
		}
		return nil, "", fmt.Errorf("failed to register user: %w", err)
	}

	token, err := s.issue(Claims{UserID: user.ID, Role: RoleCustomer})
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// LoginUser authenticates a customer by email and password.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if user.IsBlocked {
		return nil, "", ErrAccountBlocked
	}
	if !user.HasPassword() {
		return nil, "", ErrFederatedAccount
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issue(Claims{UserID: user.ID, Role: RoleCustomer})
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// LoginWithGoogle trusts the identity asserted by the provider and signs the matching
// account in, creating it on first use.
func (s *AuthService) LoginWithGoogle(ctx context.Context, idToken string) (*models.User, string, error) {
	if s.verifier == nil || idToken == "" {
		return nil, "", ErrFederatedLogin
	}
	id, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		log.Warnf("google token rejected: %v", err)
		return nil, "", ErrFederatedLogin
	}

	email := normalizeEmail(id.Email)
	user, err := s.userRepo.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		user = &models.User{
			Name:         id.Name,
			Email:        email,
			Image:        id.Picture,
			AuthProvider: models.AuthProviderGoogle,
			GoogleID:     id.Subject,
			Cart:         []models.CartItem{},
			CreatedAt:    time.Now(),
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, "", fmt.Errorf("failed to create google user: %w", err)
		}
		log.Infof("created google account for %s", email)
	case err != nil:
		return nil, "", err
	case user.IsBlocked:
		return nil, "", ErrAccountBlocked
	}

	token, err := s.issue(Claims{UserID: user.ID, Role: RoleCustomer})
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// RegisterAdmin bootstraps the first admin account. Once any admin exists further
// registrations are refused.
func (s *AuthService) RegisterAdmin(ctx context.Context, in RegisterInput) (*models.Admin, string, error) {
	email := normalizeEmail(in.Email)
	if existing, err := s.adminRepo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, "", ErrAdminExists
	}
	count, err := s.adminRepo.Count(ctx)
	if err != nil {
		return nil, "", err
	}
	if count > 0 {
		return nil, "", ErrAdminSignupClosed
	}
	return s.createAdmin(ctx, in.Name, email, in.Password)
}

// EnsureAdmin creates the given admin account if no account with that email exists yet.
func (s *AuthService) EnsureAdmin(ctx context.Context, name, email, password string) error {
	email = normalizeEmail(email)
	if _, err := s.adminRepo.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return err
	}
	_, _, err := s.createAdmin(ctx, name, email, password)
	return err
}

func (s *AuthService) createAdmin(ctx context.Context, name, email, password string) (*models.Admin, string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}
	admin := &models.Admin{
		Name:      strings.TrimSpace(name),
		Email:     email,
		Password:  string(hashedPassword),
		CreatedAt: time.Now(),
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, "", ErrAdminExists
		}
		return nil, "", fmt.Errorf("failed to register admin: %w", err)
	}
	token, err := s.issue(Claims{AdminID: admin.ID, Role: RoleAdmin})
	if err != nil {
		return nil, "", err
	}
	return admin, token, nil
}

// LoginAdmin authenticates an admin by email and password.
func (s *AuthService) LoginAdmin(ctx context.Context, email, password string) (*models.Admin, string, error) {
	admin, err := s.adminRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	token, err := s.issue(Claims{AdminID: admin.ID, Role: RoleAdmin})
	if err != nil {
		return nil, "", err
	}
	return admin, token, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// AuthenticateUser resolves a customer token to its account.
func (s *AuthService) AuthenticateUser(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Role != RoleCustomer || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if user.IsBlocked {
		return nil, ErrAccountBlocked
	}
	return user, nil
}

// AuthenticateAdmin resolves an admin token to its account.
func (s *AuthService) AuthenticateAdmin(ctx context.Context, tokenString string) (*models.Admin, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Role != RoleAdmin || claims.AdminID == "" {
		return nil, ErrInvalidToken
	}
	admin, err := s.adminRepo.GetByID(ctx, claims.AdminID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return admin, nil
}

// UpdateProfile applies the non-blank fields of in to the user.
func (s *AuthService) UpdateProfile(ctx context.Context, user *models.User, in ProfileUpdate) (*models.User, error) {
	if name := strings.TrimSpace(in.Name); name != "" {
		user.Name = name
	}
	if phone := strings.TrimSpace(in.Phone); phone != "" {
		user.Phone = phone
	}
	if address := strings.TrimSpace(in.Address); address != "" {
		user.Address = address
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

func (s *AuthService) issue(claims Claims) (string, error) {
	now := time.Now()
	claims.IssuedAt = now.Unix()
	claims.ExpiresAt = now.Add(s.tokenDurat).Unix()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
