// Package cookie manages the session token cookie.
package cookie

import (
	"net/http"
)

// TokenName is the cookie carrying the signed session token.
const TokenName = "token"

// TokenMaxAge matches the token lifetime exactly.
const TokenMaxAge = 60 * 60 // 1 hour

// SetToken sets the session token cookie with max-age equal to the token lifetime.
func SetToken(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenName,
		Value:    token,
		MaxAge:   TokenMaxAge,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// GetToken gets the session token from the request cookie.
func GetToken(r *http.Request) (string, error) {
	c, err := r.Cookie(TokenName)
	if err != nil {
		return "", err
	}
	return c.Value, nil
}

// ClearToken clears the session token cookie by expiring it immediately.
func ClearToken(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenName,
		Value:    "",
		MaxAge:   -1,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
