package userclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/victorgmp/SGPC-auth/internal/apperr"
)

func newUserServer(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Username string `json:"username"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))

		reply := func(code int, body any) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(code)
			_ = json.NewEncoder(w).Encode(body)
		}

		switch {
		case in.Username == "alice":
			reply(http.StatusOK, User{ID: "u-1", Username: "alice"})
		case in.Username == "ghost":
			reply(http.StatusNotFound, map[string]string{"error": "USER.USER_NOT_FOUND"})
		case in.Username == "taken":
			reply(http.StatusBadRequest, map[string]string{"error": "USER.USER_ALREADY_EXISTS"})
		case in.Username == "":
			reply(http.StatusBadRequest, map[string]string{"error": "USER.INVALID_USERNAME"})
		case in.Username == "noid":
			reply(http.StatusOK, User{Username: "noid"})
		default:
			reply(http.StatusInternalServerError, map[string]string{"error": "DATABASE_DOWN"})
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_GetByUsernameAndCreate(t *testing.T) {
	t.Parallel()

	c := New(newUserServer(t).URL)
	ctx := context.Background()

	u, err := c.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, User{ID: "u-1", Username: "alice"}, u)

	u, err = c.Create(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "u-1", u.ID)
}

func TestClient_MirrorsRemoteKinds(t *testing.T) {
	t.Parallel()

	c := New(newUserServer(t).URL)
	ctx := context.Background()

	tests := []struct {
		username string
		want     apperr.Kind
	}{
		{username: "ghost", want: apperr.KindUserNotFound},
		{username: "taken", want: apperr.KindUserAlreadyExists},
		{username: "", want: apperr.KindUserInvalidUsername},
		{username: "noid", want: apperr.KindInternal},
		{username: "boom", want: apperr.KindInternal},
	}

	for _, tt := range tests {
		_, err := c.Create(ctx, tt.username)
		require.Error(t, err, tt.username)
		assert.Equal(t, tt.want, apperr.KindOf(err), tt.username)
	}
}
