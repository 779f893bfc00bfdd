package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

var ErrMissingCredential = errors.New("missing authorization token")

// Credential is the token pair a caller presents. It is passed explicitly to
// the upstream client and to the guard; nothing reads it from shared state.
type Credential struct {
	Access  string
	Refresh string
}

// FromHeader accepts "Bearer <token>" as well as a bare token.
func FromHeader(header string) (Credential, error) {
	fields := strings.Fields(header)
	if len(fields) > 0 && strings.EqualFold(fields[0], "bearer") {
		fields = fields[1:]
	}
	if len(fields) == 0 {
		return Credential{}, ErrMissingCredential
	}
	return Credential{Access: fields[0]}, nil
}

func FromRequest(c *fiber.Ctx) (Credential, error) {
	cred, err := FromHeader(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return Credential{}, err
	}
	cred.Refresh = c.Get("X-Refresh-Token")
	return cred, nil
}

func (c Credential) Empty() bool {
	return c.Access == ""
}

func (c Credential) Header() string {
	return "Bearer " + c.Access
}

// Subject identifies the owner of the credential. Claims are read without
// verifying the signature; the backend is the one that verifies tokens.
func (c Credential) Subject() string {
	claims, err := c.claims()
	if err != nil {
		return c.Access
	}
	switch v := claims["user_id"].(type) {
	case float64:
		return fmt.Sprintf("user:%d", int64(v))
	case string:
		if v != "" {
			return "user:" + v
		}
	}
	if sub, ok := claims["sub"].(string); ok && sub != "" {
		return "user:" + sub
	}
	return c.Access
}

// Expired reports whether the access token carries an exp claim in the past.
// Opaque tokens are never considered expired.
func (c Credential) Expired(now time.Time) bool {
	claims, err := c.claims()
	if err != nil {
		return false
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return false
	}
	return now.Unix() >= int64(exp)
}

func (c Credential) claims() (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(c.Access, claims)
	if err != nil {
		return nil, err
	}
	return claims, nil
}
