package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Sintu8737/timesheet/internal"
	"github.com/juju/errors"
)

// RemoteProvider delegates credential checks to an external identity service. Tokens
// are still issued and verified locally.
type RemoteProvider struct {
	*Sessions
	AuthServiceURL string
	HTTPClient     *http.Client
	logger         internal.Logger
}

type remoteCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *RemoteProvider) Authenticate(ctx context.Context, email, password string) (*internal.Identity, error) {
	body, err := json.Marshal(remoteCredentials{Email: email, Password: password})
	if err != nil {
		return nil, errors.Trace(err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.AuthServiceURL, bytes.NewReader(body))
	if err != nil {
		a.logger.Errorf("failed to create request: %v", err)
		return nil, errors.Trace(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := a.HTTPClient.Do(req)
	if err != nil {
		a.logger.Errorf("failed to call auth service: %v", err)
		return nil, errors.Annotate(err, "calling auth service")
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		a.logger.Warnf("auth service rejected %q", email)
		return nil, errors.Unauthorizedf(ErrInvalidCredentials)
	case resp.StatusCode != http.StatusOK:
		a.logger.Errorf("auth service returned %d", resp.StatusCode)
		return nil, errors.Errorf("auth service returned %d", resp.StatusCode)
	}
	var id internal.Identity
	if err := json.NewDecoder(resp.Body).Decode(&id); err != nil {
		a.logger.Errorf("failed to decode auth response: %v", err)
		return nil, errors.Annotate(err, "decoding auth response")
	}
	if id.Email == "" {
		id.Email = email
	}
	return &id, nil
}

func NewRemoteProvider(url string, sessions *Sessions, logger internal.Logger) *RemoteProvider {
	return &RemoteProvider{
		Sessions:       sessions,
		AuthServiceURL: url,
		HTTPClient:     &http.Client{Timeout: 5 * time.Second},
		logger:         logger,
	}
}

var _ Provider = (*RemoteProvider)(nil)
