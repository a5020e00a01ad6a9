// internal/auth/session.go
package auth

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrUnauthorized is returned for missing, malformed, or expired tokens.
var ErrUnauthorized = errors.New("unauthorized")

// privateKey and publicKey are used for signing and verifying JWT tokens.
var (
	privateKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey

	// tokenExpireSec indicates how many seconds until JWT expiration (0 => never).
	tokenExpireSec int
)

// Session is the authenticated principal carried in a bearer token.
type Session struct {
	Email string
	Name  string
}

// parseTokenExpireTime interprets the TOKEN_EXPIRE_TIME convention:
// "never", "0" or empty means tokens without an exp claim.
func parseTokenExpireTime(duration string) error {
	if duration == "never" || duration == "0" || duration == "" {
		tokenExpireSec = 0
		return nil
	}
	d, err := time.ParseDuration(duration)
	if err != nil {
		return fmt.Errorf("failed to parse token expire time: %w", err)
	}
	tokenExpireSec = int(d.Seconds())
	return nil
}

// Init generates a fresh ed25519 key pair at runtime. Sessions do not
// survive a restart; acceptable for this service, players just log in again.
func Init(tokenExpire string) error {
	var err error
	publicKey, privateKey, err = ed25519.GenerateKey(nil)
	if err != nil {
		return fmt.Errorf("failed to generate ed25519 key pair: %w", err)
	}
	return parseTokenExpireTime(tokenExpire)
}

// InitFromPath reads ed25519 private/public keys from file, for deployments
// where tokens must stay valid across restarts.
func InitFromPath(privatePath, publicPath, tokenExpire string) error {
	privateKeyData, err := os.ReadFile(privatePath)
	if err != nil {
		return fmt.Errorf("failed to read private key file: %w", err)
	}
	publicKeyData, err := os.ReadFile(publicPath)
	if err != nil {
		return fmt.Errorf("failed to read public key file: %w", err)
	}

	privateKey = ed25519.PrivateKey(privateKeyData)
	publicKey = ed25519.PublicKey(publicKeyData)
	return parseTokenExpireTime(tokenExpire)
}

// CreateJWT signs a token with "sub" = email and "name" = display name.
func CreateJWT(email, name string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  email,
		"name": name,
	}
	if tokenExpireSec > 0 {
		claims["exp"] = time.Now().Add(time.Duration(tokenExpireSec) * time.Second).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	return token.SignedString(privateKey)
}

// AuthenticateJWT verifies a JWT string and returns the session it carries.
func AuthenticateJWT(tokenString string) (*Session, error) {
	t, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodEd25519); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return publicKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if !t.Valid {
		return nil, ErrUnauthorized
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrUnauthorized
	}

	email, ok := claims["sub"].(string)
	if !ok || email == "" {
		return nil, fmt.Errorf("%w: missing sub claim", ErrUnauthorized)
	}
	name, _ := claims["name"].(string)

	return &Session{Email: email, Name: name}, nil
}
