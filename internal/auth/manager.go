package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/REHANAMD/InternGenie/internal/config"
	"github.com/REHANAMD/InternGenie/internal/logging"
	"github.com/REHANAMD/InternGenie/internal/storage"
	"github.com/REHANAMD/InternGenie/pkg/models"
	"github.com/REHANAMD/InternGenie/pkg/utils"
)

var (
	// ErrInvalidCredentials is returned for a wrong email/password pair
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken is returned when registering an existing email
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidToken is returned for expired or malformed JWTs
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrInvalidOTP is returned for a wrong, used or expired reset code
	ErrInvalidOTP = errors.New("invalid or expired otp")
)

// Claims is the JWT payload
type Claims struct {
	UserID int    `json:"user_id"`
	Email  string `json:"email"`
	jwt.StandardClaims
}

// Manager owns registration, login, token verification and the OTP-based
// password reset flow.
type Manager struct {
	store      *storage.Store
	secret     []byte
	tokenTTL   time.Duration
	otpTTL     time.Duration
	bcryptCost int
	logger     logging.Logger

	limiterMu sync.Mutex
	limiters  map[string]*rate.Limiter
	rateLimit rate.Limit
	rateBurst int
}

// NewManager creates an auth manager from configuration
func NewManager(store *storage.Store, cfg *config.Config) *Manager {
	secret := cfg.Auth.JWTSecret
	if secret == "" {
		// Dev fallback; production deployments set JWT_SECRET
		secret = "interngenie-dev-secret"
	}
	return &Manager{
		store:      store,
		secret:     []byte(secret),
		tokenTTL:   cfg.Auth.TokenTTL,
		otpTTL:     cfg.Auth.OTPTTL,
		bcryptCost: cfg.Auth.BcryptCost,
		logger:     logging.GetGlobalLogger(),
		limiters:   make(map[string]*rate.Limiter),
		rateLimit:  rate.Limit(float64(cfg.Auth.LoginRateLimit) / 60.0),
		rateBurst:  cfg.Auth.LoginRateBurst,
	}
}

// AllowLogin applies a per-IP token bucket to login attempts
func (m *Manager) AllowLogin(ip string) bool {
	m.limiterMu.Lock()
	defer m.limiterMu.Unlock()

	limiter, ok := m.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(m.rateLimit, m.rateBurst)
		m.limiters[ip] = limiter
	}
	return limiter.Allow()
}

// Register creates an account and returns the user with a fresh token
func (m *Manager) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, string, time.Time, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := m.store.GetUserByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, ErrEmailTaken
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, "", time.Time{}, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), m.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:           email,
		PasswordHash:    string(hash),
		Name:            req.Name,
		Education:       req.Education,
		Skills:          req.Skills,
		Location:        req.Location,
		ExperienceYears: req.ExperienceYears,
		Phone:           req.Phone,
		LinkedIn:        req.LinkedIn,
		GitHub:          req.GitHub,
	}

	id, err := m.store.CreateUser(ctx, user)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	user.ID = id

	token, expiresAt, err := m.GenerateToken(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	m.logger.Info("User registered", map[string]interface{}{"user_id": id, "email": email})
	return user, token, expiresAt, nil
}

// Login verifies credentials and returns the user with a fresh token
func (m *Manager) Login(ctx context.Context, email, password string) (*models.User, string, time.Time, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := m.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, "", time.Time{}, ErrInvalidCredentials
		}
		return nil, "", time.Time{}, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, expiresAt, err := m.GenerateToken(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, expiresAt, nil
}

// GenerateToken signs a new HS256 JWT for a user
func (m *Manager) GenerateToken(user *models.User) (string, time.Time, error) {
	expiresAt := time.Now().Add(m.tokenTTL)
	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expiresAt.Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateToken parses a JWT and returns its claims
func (m *Manager) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// UpdatePassword changes a password after checking the old one
func (m *Manager) UpdatePassword(ctx context.Context, userID int, oldPassword, newPassword string) error {
	user, err := m.store.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), m.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return m.store.UpdateUserPassword(ctx, user.Email, string(hash))
}

// RequestPasswordReset creates an OTP for the email. The OTP is returned so
// the delivery channel (mail, SMS) stays a caller concern; unknown emails
// still succeed to avoid account enumeration.
func (m *Manager) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := m.store.GetUserByEmail(ctx, email); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to check email: %w", err)
	}

	otp, err := utils.GenerateOTP()
	if err != nil {
		return "", err
	}

	if err := m.store.CreatePasswordReset(ctx, email, otp, time.Now().Add(m.otpTTL)); err != nil {
		return "", err
	}

	m.logger.Info("Password reset requested", map[string]interface{}{"email": email})
	return otp, nil
}

// VerifyOTP checks a reset code without consuming it
func (m *Manager) VerifyOTP(ctx context.Context, email, otp string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := m.store.GetActivePasswordReset(ctx, email, otp); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrInvalidOTP
		}
		return err
	}
	return nil
}

// ResetPasswordWithOTP completes the reset flow, consuming the OTP
func (m *Manager) ResetPasswordWithOTP(ctx context.Context, email, otp, newPassword string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	reset, err := m.store.GetActivePasswordReset(ctx, email, otp)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrInvalidOTP
		}
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), m.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := m.store.UpdateUserPassword(ctx, email, string(hash)); err != nil {
		return err
	}
	return m.store.MarkPasswordResetUsed(ctx, reset.ID)
}
