package application

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ezequieldarevalo/totalhub-backend/internal/domain"
)

// tokenTTL bounds the life of an access token.
const tokenTTL = 72 * time.Hour

// ErrInvalidCredentials hides whether the email or the password was
// wrong.
var ErrInvalidCredentials = errors.New("invalid email or password")

type AuthService struct {
	hostelRepo domain.HostelRepository
	userRepo   domain.UserRepository
	jwtSecret  string
	logger     *zap.Logger
}

// NewAuthService creates the authentication service.
func NewAuthService(hostelRepo domain.HostelRepository, userRepo domain.UserRepository, jwtSecret string, logger *zap.Logger) *AuthService {
	return &AuthService{
		hostelRepo: hostelRepo,
		userRepo:   userRepo,
		jwtSecret:  jwtSecret,
		logger:     logger,
	}
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a display name into a URL-safe slug.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// RegisterHostel creates a hostel and its first admin account in one
// step. The slug defaults to a slugified name when not given.
func (s *AuthService) RegisterHostel(hostelName, slug, adminName, adminEmail, password string) (*domain.Hostel, *domain.User, error) {
	if hostelName == "" || adminEmail == "" || password == "" {
		return nil, nil, fmt.Errorf("%w: hostel name, email and password are required", domain.ErrInvalidInput)
	}
	if slug == "" {
		slug = Slugify(hostelName)
	}
	if slug == "" {
		return nil, nil, fmt.Errorf("%w: hostel name yields an empty slug", domain.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hashing password: %w", err)
	}

	hostel := &domain.Hostel{Name: hostelName, Slug: slug}
	if err := s.hostelRepo.Create(hostel); err != nil {
		return nil, nil, fmt.Errorf("creating hostel: %w", err)
	}

	admin := &domain.User{
		Name:     adminName,
		Email:    strings.ToLower(adminEmail),
		Password: string(hash),
		Role:     domain.RoleAdmin,
		HostelID: hostel.ID,
	}
	if err := s.userRepo.Create(admin); err != nil {
		return nil, nil, fmt.Errorf("creating admin user: %w", err)
	}

	s.logger.Info("hostel registered",
		zap.String("hostel_id", hostel.ID), zap.String("slug", hostel.Slug))
	return hostel, admin, nil
}

// Login verifies credentials and issues a signed access token.
func (s *AuthService) Login(email, password string) (string, *domain.User, error) {
	user, err := s.userRepo.GetByEmail(strings.ToLower(email))
	if errors.Is(err, domain.ErrNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("looking up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) issueToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"email":    user.Email,
		"role":     string(user.Role),
		"hostelId": user.HostelID,
		"iat":      now.Unix(),
		"exp":      now.Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// CreateOperator adds an operator account to the admin's hostel.
func (s *AuthService) CreateOperator(hostelID, name, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	operator := &domain.User{
		Name:     name,
		Email:    strings.ToLower(email),
		Password: string(hash),
		Role:     domain.RoleOperator,
		HostelID: hostelID,
	}
	if err := s.userRepo.Create(operator); err != nil {
		return nil, fmt.Errorf("creating operator: %w", err)
	}
	return operator, nil
}

// ListOperators returns the operator accounts of a hostel.
func (s *AuthService) ListOperators(hostelID string) ([]domain.User, error) {
	return s.userRepo.ListByHostelAndRole(hostelID, domain.RoleOperator)
}

// GetUser loads a single account.
func (s *AuthService) GetUser(id string) (*domain.User, error) {
	return s.userRepo.GetByID(id)
}
