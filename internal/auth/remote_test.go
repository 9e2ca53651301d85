package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Sintu8737/timesheet/internal"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteProvider_Authenticate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var creds remoteCredentials
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		switch creds.Password {
		case "right":
			json.NewEncoder(w).Encode(internal.Identity{ID: 3, Email: creds.Email, Name: "Carol"})
		case "boom":
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer srv.Close()

	sessions, _ := newTestSessions(t)
	p := NewRemoteProvider(srv.URL, sessions, internal.NopLogger())
	ctx := context.Background()

	id, err := p.Authenticate(ctx, "carol@example.com", "right")
	require.NoError(t, err)
	assert.Equal(t, &internal.Identity{ID: 3, Email: "carol@example.com", Name: "Carol"}, id)

	_, err = p.Authenticate(ctx, "carol@example.com", "wrong")
	assert.True(t, errors.Is(err, errors.Unauthorized))

	_, err = p.Authenticate(ctx, "carol@example.com", "boom")
	require.Error(t, err)
	assert.False(t, errors.Is(err, errors.Unauthorized))

	sess, err := sessions.Issue(id)
	require.NoError(t, err)
	got, err := p.ValidateToken(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, 3, got.ID)
}
