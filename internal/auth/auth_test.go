package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/autoservice/internal/models"
)

const testSecret = "test-secret"

func newTestService(t *testing.T) *Service {
	t.Helper()
	service, err := NewService(testSecret, 24*time.Hour)
	require.NoError(t, err)
	return service
}

func TestNewService(t *testing.T) {
	service := newTestService(t)
	assert.Equal(t, []byte(testSecret), service.jwtSecret)
	assert.Equal(t, 24*time.Hour, service.tokenExp)

	_, err := NewService("", time.Hour)
	assert.Error(t, err)
	_, err = NewService(testSecret, 0)
	assert.Error(t, err)
}

func TestService_HashPassword(t *testing.T) {
	service := newTestService(t)

	password := "testpassword123"
	hash, err := service.HashPassword(password)

	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)
}

func TestService_CheckPassword(t *testing.T) {
	service := newTestService(t)

	password := "testpassword123"
	hash, _ := service.HashPassword(password)

	assert.True(t, service.CheckPassword(password, hash))
	assert.False(t, service.CheckPassword("wrongpassword", hash))
}

func TestService_ValidateToken(t *testing.T) {
	service := newTestService(t)

	user := &models.User{
		ID:       42,
		Username: "mechanic1",
		Role:     models.RoleMechanic,
	}

	token, err := service.GenerateToken(user)
	require.NoError(t, err)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, user.Username, claims.Username)
	assert.Equal(t, user.Role, claims.Role)

	_, err = service.ValidateToken("invalid-token")
	assert.Equal(t, ErrInvalidToken, err)

	// Bearer prefix is tolerated
	_, err = service.ValidateToken("Bearer " + token)
	assert.NoError(t, err)
}

func TestService_ValidateToken_WrongSecret(t *testing.T) {
	service := newTestService(t)
	other, err := NewService("another-secret", time.Hour)
	require.NoError(t, err)

	token, err := other.GenerateToken(&models.User{ID: 1, Username: "x", Role: models.RoleAdmin})
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	assert.Equal(t, ErrInvalidToken, err)
}

func TestService_ValidateToken_Expired(t *testing.T) {
	service := newTestService(t)
	claims := jwt.MapClaims{
		"user_id":  1,
		"username": "old",
		"role":     "admin",
		"exp":      time.Now().Add(-time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	assert.Equal(t, ErrExpiredToken, err)
}

func TestService_ValidateToken_UnknownRole(t *testing.T) {
	service := newTestService(t)
	token, err := service.GenerateToken(&models.User{ID: 3, Username: "ghost", Role: "operator"})
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	assert.Equal(t, ErrInvalidToken, err)
}

func TestService_ValidateToken_RejectsForeignClaims(t *testing.T) {
	service := newTestService(t)
	exp := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name   string
		method jwt.SigningMethod
		claims jwt.MapClaims
	}{
		{"other algorithm", jwt.SigningMethodHS512, jwt.MapClaims{"user_id": 1, "username": "a", "role": "admin", "exp": exp}},
		{"no expiry", jwt.SigningMethodHS256, jwt.MapClaims{"user_id": 1, "username": "a", "role": "admin"}},
		{"no user", jwt.SigningMethodHS256, jwt.MapClaims{"username": "a", "role": "admin", "exp": exp}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := jwt.NewWithClaims(tt.method, tt.claims).SignedString([]byte(testSecret))
			require.NoError(t, err)

			_, err = service.ValidateToken(token)
			assert.Equal(t, ErrInvalidToken, err)
		})
	}
}

func TestService_GenerateToken_RegisteredClaims(t *testing.T) {
	service := newTestService(t)
	token, err := service.GenerateToken(&models.User{ID: 15, Username: "master", Role: models.RoleManager})
	require.NoError(t, err)

	var claims staffClaims
	_, err = jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "autoservice", claims.Issuer)
	assert.Equal(t, "15", claims.Subject)
	assert.Equal(t, models.RoleManager, claims.Role)
}

func TestService_ExtractTokenFromHeader(t *testing.T) {
	service := newTestService(t)

	extracted, err := service.ExtractTokenFromHeader("Bearer valid-token")
	assert.NoError(t, err)
	assert.Equal(t, "valid-token", extracted)

	for _, header := range []string{"", "InvalidFormat", "Bearer ", "Basic abc", "Bearer a b"} {
		_, err = service.ExtractTokenFromHeader(header)
		assert.Equal(t, ErrInvalidToken, err, "header %q", header)
	}
}

func TestService_ValidatePassword(t *testing.T) {
	service := newTestService(t)

	assert.NoError(t, service.ValidatePassword("validpassword123"))

	err := service.ValidatePassword("short")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "at least 8 characters")
}

func TestService_ValidateEmail(t *testing.T) {
	service := newTestService(t)

	assert.NoError(t, service.ValidateEmail("master@autoservice.ru"))
	for _, email := range []string{"testexample.com", "test@", "test", "@autoservice.ru"} {
		err := service.ValidateEmail(email)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid email format")
	}
}

func TestService_ValidateUsername(t *testing.T) {
	service := newTestService(t)

	assert.NoError(t, service.ValidateUsername("testuser"))

	err := service.ValidateUsername("ab")
	assert.Contains(t, err.Error(), "at least 3 characters")

	err = service.ValidateUsername(strings.Repeat("a", 51))
	assert.Contains(t, err.Error(), "less than 50 characters")
}

func TestService_GenerateRefreshToken(t *testing.T) {
	service := newTestService(t)

	token, err := service.GenerateRefreshToken()
	assert.NoError(t, err)
	assert.Len(t, token, 44) // base64 of 32 bytes
}

func TestService_TokenExpiration(t *testing.T) {
	service := newTestService(t)

	token, _ := service.GenerateToken(&models.User{ID: 7, Username: "testuser", Role: models.RoleAdmin})

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)

	now := time.Now().Unix()
	assert.Greater(t, claims.Exp, now)
	assert.LessOrEqual(t, claims.Exp, now+int64(service.tokenExp.Seconds())+1)
}
