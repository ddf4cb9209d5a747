package services

import (
	"time"

	"roomflow/config"
	"roomflow/internal/apperrors"
	"roomflow/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthService issues and validates the bearer access tokens used by both the
// HTTP surface and the realtime gateway. One decode path serves both.
type AuthService struct {
	secret []byte
	ttl    time.Duration
	log    logger.Logger
}

type TokenClaims struct {
	UserID uuid.UUID   `json:"uid"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

func NewAuthService(config config.Config) *AuthService {
	return &AuthService{
		secret: []byte(config.JWTSecret),
		ttl:    config.AccessTokenTTL(),
		log:    logger.New("AuthService"),
	}
}

func (s *AuthService) IssueToken(user *models.User, now time.Time) (string, error) {
	log := s.log.Function("IssueToken")

	claims := TokenClaims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", log.Err("failed to sign token", err, "userID", user.ID)
	}

	return signed, nil
}

// ValidateToken decodes and verifies an access token, returning its claims.
func (s *AuthService) ValidateToken(tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return s.secret, nil
		},
	)
	if err != nil || !token.Valid {
		return nil, apperrors.Forbidden("invalid or expired token")
	}

	return claims, nil
}

func (s *AuthService) HashPassword(password string) (string, error) {
	log := s.log.Function("HashPassword")

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", log.Err("failed to hash password", err)
	}

	return string(hash), nil
}

func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return apperrors.Forbidden("invalid credentials")
	}
	return nil
}
