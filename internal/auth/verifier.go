package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/parceldrop/parceldrop-backend/internal/models"
)

// ErrUnauthorized covers every identity failure: missing header, wrong
// scheme, bad signature, expired token, missing email claim.
var ErrUnauthorized = errors.New("unauthorized")

// Identity is the verified caller. Email comes from the token's verified
// claim and is the only trusted source of identity downstream; the role is
// informational only and must never gate access (the role authority re-reads
// the stored user instead).
type Identity struct {
	Email string
	Role  string
}

// TokenVerifier validates a raw Authorization header value.
type TokenVerifier interface {
	Verify(rawHeader string) (*Identity, error)
}

// JWTVerifier issues and verifies HS256 tokens.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

// Issue creates a signed token for a logged-in user.
func (v *JWTVerifier) Issue(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"email": user.Email,
		"role":  user.Role,
		"exp":   time.Now().Add(time.Hour * 24 * 7).Unix(), // 7 days
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}

// Verify parses "Bearer <token>" and returns the verified identity.
func (v *JWTVerifier) Verify(rawHeader string) (*Identity, error) {
	if rawHeader == "" {
		return nil, fmt.Errorf("%w: missing authorization header", ErrUnauthorized)
	}

	parts := strings.Split(rawHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return nil, fmt.Errorf("%w: malformed authorization header", ErrUnauthorized)
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", ErrUnauthorized)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: invalid token claims", ErrUnauthorized)
	}

	email, _ := claims["email"].(string)
	if email == "" {
		return nil, fmt.Errorf("%w: token has no email claim", ErrUnauthorized)
	}
	role, _ := claims["role"].(string)

	return &Identity{Email: email, Role: role}, nil
}
