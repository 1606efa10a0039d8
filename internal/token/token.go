package token // package token signs and verifies the service's access tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// ErrInvalid is returned by Verify for every rejected token. Callers
// must not learn whether the signature, the shape or the expiry was at
// fault; the wrapped cause is still available for logging.
var ErrInvalid = errors.New("invalid token")

// Identity is the authenticated principal embedded in a token.
type Identity struct {
	ID    uint64
	Email string
	Role  string
}

// Codec mints and verifies HS256 tokens with a fixed validity window.
// Tokens are stateless: validity is determined purely by signature and
// expiry, there is no server-side revocation list.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec returns a Codec signing with secret. Tokens expire ttl after
// minting; the production configuration uses 24 hours.
func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{secret: []byte(secret), ttl: ttl}
}

// Mint builds and signs a token for the given identity. The claims use
// Unix-second UTC timestamps, the same epoch convention the order
// timeline uses, so expiry and ordering reasoning stay consistent.
func (c *Codec) Mint(id Identity) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":   id.ID,
		"email": id.Email,
		"role":  id.Role,
		"iat":   now.Unix(),
		"exp":   now.Add(c.ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

// Verify checks signature and expiry and returns the embedded identity.
// The exp claim is mandatory: a well-signed token without one would
// otherwise never expire. All failures come back as ErrInvalid with the
// concrete cause wrapped in the message for logs only.
func (c *Codec) Verify(raw string) (Identity, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything but HMAC; the algorithm
		// is attacker-controlled input.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if !tok.Valid {
		return Identity{}, fmt.Errorf("%w: token not valid", ErrInvalid)
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, fmt.Errorf("%w: unexpected claims format", ErrInvalid)
	}
	sub, ok := claims["sub"].(float64) // JSON numbers decode as float64
	if !ok || sub <= 0 {
		return Identity{}, fmt.Errorf("%w: missing subject claim", ErrInvalid)
	}
	email, _ := claims["email"].(string)
	role, ok := claims["role"].(string)
	if !ok || role == "" {
		return Identity{}, fmt.Errorf("%w: missing role claim", ErrInvalid)
	}
	return Identity{ID: uint64(sub), Email: email, Role: role}, nil
}
