package auth

import (
	"context"
	"strconv"
	"time"

	"github.com/Sintu8737/timesheet/internal"
	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	tokenIssuer   = "timesheet"
	emailClaimKey = "email"
	nameClaimKey  = "name"
)

// Session is an issued token and the moment it stops being accepted.
type Session struct {
	Token     string             `json:"token"`
	ExpiresAt time.Time          `json:"expiresAt"`
	User      *internal.Identity `json:"user"`
}

// Sessions issues and verifies HS256-signed session tokens.
type Sessions struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
}

func NewSessions(secret string, ttl time.Duration, clk clock.Clock) (*Sessions, error) {
	if secret == "" {
		return nil, errors.NotValidf("empty session secret")
	}
	if ttl <= 0 {
		return nil, errors.NotValidf("session ttl %v", ttl)
	}
	if clk == nil {
		clk = clock.WallClock
	}
	return &Sessions{secret: []byte(secret), ttl: ttl, clock: clk}, nil
}

// Issue signs a token whose subject is the user id.
func (s *Sessions) Issue(id *internal.Identity) (*Session, error) {
	now := s.clock.Now().Truncate(time.Second)
	expires := now.Add(s.ttl)
	tok, err := jwt.NewBuilder().
		Issuer(tokenIssuer).
		Subject(strconv.Itoa(id.ID)).
		IssuedAt(now).
		Expiration(expires).
		Claim(emailClaimKey, id.Email).
		Claim(nameClaimKey, id.Name).
		Build()
	if err != nil {
		return nil, errors.Annotate(err, "building session token")
	}
	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, s.secret))
	if err != nil {
		return nil, errors.Annotate(err, "signing session token")
	}
	user := *id
	return &Session{Token: string(signed), ExpiresAt: expires, User: &user}, nil
}

// Verify checks signature, issuer and expiry and returns the identity the token carries.
func (s *Sessions) Verify(token string) (*internal.Identity, error) {
	tok, err := jwt.Parse([]byte(token),
		jwt.WithKey(jwa.HS256, s.secret),
		jwt.WithValidate(true),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithClock(s.clock),
	)
	if err != nil {
		return nil, errors.Unauthorizedf("session token: %v", err)
	}
	id, err := strconv.Atoi(tok.Subject())
	if err != nil {
		return nil, errors.Unauthorizedf("session token subject %q", tok.Subject())
	}
	identity := &internal.Identity{ID: id}
	if v, ok := tok.Get(emailClaimKey); ok {
		identity.Email, _ = v.(string)
	}
	if v, ok := tok.Get(nameClaimKey); ok {
		identity.Name, _ = v.(string)
	}
	return identity, nil
}

// ValidateToken lets Sessions back the token half of a Provider.
func (s *Sessions) ValidateToken(ctx context.Context, token string) (*internal.Identity, error) {
	return s.Verify(token)
}
