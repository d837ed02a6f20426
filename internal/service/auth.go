package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/model"
	"github.com/leonshimizu/AI-tiktok-recipe-parser/internal/types"
)

// AuthService manages accounts and session tokens. Logged-out tokens are
// kept in revoked_tokens until they would have expired.
type AuthService struct {
	db        *gorm.DB
	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

func NewAuthService(db *gorm.DB, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		db:        db,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

// Register creates a user with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)

	// Check if user already exists
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrUserExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{Username: username, PasswordHash: string(hashedPassword)}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	return user, nil
}

// Login checks credentials and issues a session token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.GenerateToken(&user)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// GetUserByID loads a user by primary key.
func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GenerateToken signs a session token for user.
func (s *AuthService) GenerateToken(user *model.User) (string, error) {
	now := s.now()
	claims := &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
		UserID:   user.ID,
		Username: user.Username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateToken parses a session token and rejects expired or logged-out ones.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.ID != "" {
		var count int64
		err := s.db.WithContext(ctx).Model(&model.RevokedToken{}).
			Where("token_id = ?", claims.ID).
			Count(&count).Error
		if err != nil {
			return nil, fmt.Errorf("check token revocation: %w", err)
		}
		if count > 0 {
			return nil, ErrInvalidToken
		}
	}
	return claims, nil
}

// Logout revokes the session identified by claims and drops revocations
// whose tokens have expired anyway.
func (s *AuthService) Logout(ctx context.Context, claims *types.TokenClaims) error {
	if claims.ID == "" {
		return nil
	}
	now := s.now()
	expiresAt := now.Add(s.tokenTTL)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if !expiresAt.After(now) {
		return nil
	}

	db := s.db.WithContext(ctx)
	if err := db.Where("expires_at <= ?", now).Delete(&model.RevokedToken{}).Error; err != nil {
		return fmt.Errorf("purge revoked tokens: %w", err)
	}
	revoked := model.RevokedToken{TokenID: claims.ID, ExpiresAt: expiresAt}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&revoked).Error; err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// TokenTTL is the lifetime of issued session tokens.
func (s *AuthService) TokenTTL() time.Duration {
	return s.tokenTTL
}
