// Package jwt issues and verifies the signed session tokens.
//
// Tokens are HS256-signed and self-contained: subject id, email and role travel
// in the payload claim, with a fixed one-hour expiry. Verification is a pure
// function of the token string and the process-wide signing secret.
package jwt

import (
	"time"

	jwtstd "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenError represents JWT token related errors.
type TokenError string

func (e TokenError) Error() string {
	return string(e)
}

const (
	// AccessTokenExpire is the fixed session token lifetime.
	AccessTokenExpire = time.Hour

	ErrNeedTokenProvider = TokenError("cannot sign token without a signing secret")
	ErrInvalidToken      = TokenError("invalid token")
	ErrTokenParsing      = TokenError("token parsing error")
)

// TokenManager handles JWT token operations.
type TokenManager struct {
	key string
}

// NewTokenManager creates a new TokenManager instance.
func NewTokenManager(key string) *TokenManager {
	return &TokenManager{key: key}
}

// validateKey validates the signing secret.
func (jtm *TokenManager) validateKey() error {
	if jtm.key == "" {
		return ErrNeedTokenProvider
	}
	return nil
}

// GenerateAccessToken generates a signed session token carrying the identity
// claims, expiring exactly one hour from issuance.
func (jtm *TokenManager) GenerateAccessToken(userID, email, role string) (string, error) {
	if err := jtm.validateKey(); err != nil {
		return "", err
	}

	now := time.Now()
	claims := jwtstd.MapClaims{
		"jti": uuid.New().String(),
		"sub": userID,
		"payload": map[string]any{
			"user_id": userID,
			"email":   email,
			"role":    role,
		},
		"iat": now.Unix(),
		"exp": now.Add(AccessTokenExpire).Unix(),
	}

	t := jwtstd.NewWithClaims(jwtstd.SigningMethodHS256, claims)
	return t.SignedString([]byte(jtm.key))
}

// DecodeToken verifies a token's signature and expiry and returns its claims.
func (jtm *TokenManager) DecodeToken(tokenString string) (map[string]any, error) {
	if err := jtm.validateKey(); err != nil {
		return nil, err
	}

	token, err := jwtstd.Parse(tokenString, func(token *jwtstd.Token) (any, error) {
		if _, ok := token.Method.(*jwtstd.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(jtm.key), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwtstd.MapClaims)
	if !ok {
		return nil, ErrTokenParsing
	}
	return claims, nil
}

// DecodeUnverified extracts claims without verifying the signature or expiry.
// Used only by logout, which needs the expiry of a token it is about to revoke.
func (jtm *TokenManager) DecodeUnverified(tokenString string) (map[string]any, error) {
	claims := jwtstd.MapClaims{}
	parser := jwtstd.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, ErrTokenParsing
	}
	return claims, nil
}

// GetTokenExpiryTime extracts the expiration time from token claims.
func GetTokenExpiryTime(claims map[string]any) (time.Time, error) {
	exp, ok := claims["exp"].(float64)
	if !ok {
		return time.Time{}, ErrTokenParsing
	}
	return time.Unix(int64(exp), 0), nil
}

// getPayload extracts the payload from token claims.
func getPayload(claims map[string]any) (map[string]any, bool) {
	if payload, ok := claims["payload"].(map[string]any); ok {
		return payload, true
	}
	return nil, false
}

// getString safely extracts a string value from the payload.
func getString(payload map[string]any, key string) string {
	if val, ok := payload[key].(string); ok {
		return val
	}
	return ""
}

// GetUserIDFromToken extracts the user ID from token claims.
func GetUserIDFromToken(claims map[string]any) string {
	if payload, ok := getPayload(claims); ok {
		return getString(payload, "user_id")
	}
	return ""
}

// GetEmailFromToken extracts the email from token claims.
func GetEmailFromToken(claims map[string]any) string {
	if payload, ok := getPayload(claims); ok {
		return getString(payload, "email")
	}
	return ""
}

// GetRoleFromToken extracts the role from token claims.
func GetRoleFromToken(claims map[string]any) string {
	if payload, ok := getPayload(claims); ok {
		return getString(payload, "role")
	}
	return ""
}
