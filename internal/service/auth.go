package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"rbac-backend/internal/apperror"
	"rbac-backend/internal/model"
	"rbac-backend/internal/repository"
)

// UserSnapshot is the user shape embedded into tokens and returned on
// login. Password and the stored token column are never included.
type UserSnapshot struct {
	ID        uint   `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
	Phone     string `json:"phone"`
	Status    int    `json:"status"`
	RoleID    uint   `json:"roleId"`
}

// Claims carries the user snapshot and their permission scope inside
// the signed token.
type Claims struct {
	User  UserSnapshot `json:"user"`
	Scope []ScopeEntry `json:"scope"`
	jwt.RegisteredClaims
}

// AuthService validates credentials, issues session tokens, and
// enforces the single-session rule: the issued token is mirrored into
// the user row, and verification requires the presented token to match
// the stored one. Logout and a second login both clear or overwrite
// that column, invalidating earlier tokens even while their signatures
// remain valid.
type AuthService struct {
	users  repository.UserRepository
	perms  *PermissionService
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewAuthService(users repository.UserRepository, perms *PermissionService, secret []byte, issuer string, ttl time.Duration) *AuthService {
	return &AuthService{users: users, perms: perms, secret: secret, issuer: issuer, ttl: ttl}
}

var errAuthFailed = apperror.Unauthorized("authentication failed")

// Login verifies credentials and issues a fresh session token. Unknown
// username and wrong password collapse into the same failure so callers
// cannot probe which usernames exist.
func (s *AuthService) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", errAuthFailed
		}
		return nil, "", apperror.Internal(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, "", errAuthFailed
	}

	token, err := s.issue(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) issue(ctx context.Context, user *model.User) (string, error) {
	scope, err := s.perms.ScopeForRole(ctx, user.RoleID)
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := Claims{
		User:  snapshot(user),
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", apperror.Internal(err)
	}
	if err := s.users.SetToken(ctx, user.ID, token); err != nil {
		return "", apperror.Internal(err)
	}
	return token, nil
}

// Verify checks the token signature, reloads the user, and requires the
// presented token to match the stored one. Every failure mode collapses
// into Unauthorized so callers cannot tell which check rejected them.
func (s *AuthService) Verify(ctx context.Context, token string) (*model.User, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer))
	if err != nil || !parsed.Valid {
		return nil, apperror.Unauthorized("unauthorized")
	}

	user, err := s.users.GetByID(ctx, claims.User.ID)
	if err != nil {
		return nil, apperror.Unauthorized("unauthorized")
	}
	if user.Token == nil || *user.Token != token {
		return nil, apperror.Unauthorized("unauthorized")
	}
	return user, nil
}

// Logout clears the stored token, a state mutation rather than a
// blacklist entry.
func (s *AuthService) Logout(ctx context.Context, userID uint) error {
	if err := s.users.ClearToken(ctx, userID); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func snapshot(u *model.User) UserSnapshot {
	return UserSnapshot{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.Username,
		Phone:     u.Phone,
		Status:    u.Status,
		RoleID:    u.RoleID,
	}
}

// Snapshot exposes the token-safe user shape to handlers.
func Snapshot(u *model.User) UserSnapshot { return snapshot(u) }
