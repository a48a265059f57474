package auth

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// EnvToken lets scripts and the interactive client start signed in.
const EnvToken = "TADA_TOKEN"

// TokenFromEnv returns the bearer token from TADA_TOKEN, or "".
func TokenFromEnv() string {
	return stripBearer(strings.TrimSpace(os.Getenv(EnvToken)))
}

// Claims is what can be read from an access token without its key.
type Claims struct {
	Username  string
	UserID    string
	ExpiresAt *time.Time
}

// Inspect decodes a JWT's payload without verifying it. Opaque tokens
// report ok=false.
func Inspect(token string) (Claims, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(stripBearer(token), claims); err != nil {
		return Claims{}, false
	}
	var out Claims
	out.Username, _ = claims["username"].(string)
	switch v := claims["user_id"].(type) {
	case string:
		out.UserID = v
	case float64:
		out.UserID = strconv.FormatFloat(v, 'f', -1, 64)
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		out.ExpiresAt = &t
	}
	return out, true
}

// Expiry is the token's exp claim, or nil.
func Expiry(token string) *time.Time {
	c, ok := Inspect(token)
	if !ok {
		return nil
	}
	return c.ExpiresAt
}

func stripBearer(s string) string {
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}
