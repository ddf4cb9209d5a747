package services

import (
	"testing"
	"time"

	"roomflow/config"
	"roomflow/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAuthService() *AuthService {
	return NewAuthService(config.Config{
		JWTSecret:           "test-secret-key-for-unit-tests",
		AccessTokenLifetime: 60,
	})
}

func testUser(t *testing.T, role models.Role) *models.User {
	t.Helper()
	user := &models.User{
		FirstName: "Test",
		LastName:  "User",
		Email:     "test@example.com",
		Role:      role,
		IsActive:  true,
	}
	user.ID = newUUID(t)
	return user
}

func TestIssueAndValidateToken(t *testing.T) {
	auth := testAuthService()
	user := testUser(t, models.RoleHousekeeper)

	token, err := auth.IssueToken(user, time.Now())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, models.RoleHousekeeper, claims.Role)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	auth := testAuthService()
	user := testUser(t, models.RoleManager)

	token, err := auth.IssueToken(user, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	_, err = auth.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	issuer := testAuthService()
	user := testUser(t, models.RoleManager)

	token, err := issuer.IssueToken(user, time.Now())
	require.NoError(t, err)

	other := NewAuthService(config.Config{
		JWTSecret:           "a-completely-different-secret",
		AccessTokenLifetime: 60,
	})
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	auth := testAuthService()

	_, err := auth.ValidateToken("not.a.jwt")
	assert.Error(t, err)

	_, err = auth.ValidateToken("")
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	auth := testAuthService()

	hash, err := auth.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.NoError(t, auth.CheckPassword(hash, "correct horse battery staple"))
	assert.Error(t, auth.CheckPassword(hash, "wrong password"))
}
