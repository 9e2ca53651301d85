package auth

import (
	"context"
	"strings"

	"github.com/Sintu8737/timesheet/internal"
	"github.com/juju/errors"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is the message for every failed login, whichever field was wrong.
const ErrInvalidCredentials = "invalid email or password"

type registeredUser struct {
	identity internal.Identity
	hash     []byte
}

// Registry is a fixed set of known users with bcrypt password hashes.
type Registry struct {
	users map[string]registeredUser // lower-cased email -> user
	dummy []byte
}

// NewRegistry builds a registry from seed credentials. Credentials that carry a plain
// password instead of a hash are hashed with cost and the password is dropped.
func NewRegistry(creds []internal.UserCredential, cost int) (*Registry, error) {
	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cost)
	if err != nil {
		return nil, errors.Trace(err)
	}
	r := &Registry{users: make(map[string]registeredUser, len(creds)), dummy: dummy}
	for _, c := range creds {
		email := normalizeEmail(c.Email)
		if email == "" {
			return nil, errors.NotValidf("user %d without email", c.ID)
		}
		if _, ok := r.users[email]; ok {
			return nil, errors.AlreadyExistsf("user %q", c.Email)
		}
		hash := []byte(c.PasswordHash)
		if len(hash) == 0 {
			if c.Password == "" {
				return nil, errors.NotValidf("user %q without password", c.Email)
			}
			if hash, err = HashPassword(c.Password, cost); err != nil {
				return nil, err
			}
		} else if _, err := bcrypt.Cost(hash); err != nil {
			return nil, errors.NotValidf("password hash for %q", c.Email)
		}
		r.users[email] = registeredUser{
			identity: internal.Identity{ID: c.ID, Email: c.Email, Name: c.Name},
			hash:     hash,
		}
	}
	return r, nil
}

// Authenticate returns the identity for a matching email and password. An unknown email
// still costs one bcrypt comparison.
func (r *Registry) Authenticate(ctx context.Context, email, password string) (*internal.Identity, error) {
	u, ok := r.users[normalizeEmail(email)]
	hash := u.hash
	if !ok {
		hash = r.dummy
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil || !ok {
		return nil, errors.Unauthorizedf(ErrInvalidCredentials)
	}
	id := u.identity
	return &id, nil
}

func (r *Registry) Len() int { return len(r.users) }

// HashPassword returns a salted bcrypt hash of password.
func HashPassword(password string, cost int) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, errors.Annotate(err, "hashing password")
	}
	return hash, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
