package store

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kjstillabower/krishi-dashboard/internal/models"
)

func TestAuth_LoginSetsUserAndToken(t *testing.T) {
	var sawAuth string
	s, c := newTestStore(t, backend{
		"POST accounts/login/": jsonResponse(200, `{"user":{"id":7,"username":"sita"},"token":"tok-7"}`),
		"GET accounts/me/": func(w http.ResponseWriter, r *http.Request) {
			sawAuth = r.Header.Get("Authorization")
			jsonResponse(200, `{"id":7,"username":"sita","email":"sita@example.com"}`)(w, r)
		},
	})
	ctx := context.Background()

	u, err := s.Auth.Login(ctx, models.Credentials{Username: "sita", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "sita", u.Username)
	assert.True(t, s.Auth.IsAuthenticated())
	assert.Equal(t, "tok-7", c.Token())

	_, err = s.Auth.UserInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-7", sawAuth)
	assert.Equal(t, "sita@example.com", s.Auth.Data().User.Email)
}

func TestAuth_LoginFailureStoresDetail(t *testing.T) {
	s, c := newTestStore(t, backend{
		"POST accounts/login/": jsonResponse(401, `{"detail":"Invalid username or password"}`),
	})
	_, err := s.Auth.Login(context.Background(), models.Credentials{Username: "x", Password: "y"})
	require.Error(t, err)

	snap := s.Auth.Snapshot()
	assert.Equal(t, "Invalid username or password", snap.Fetch.Error)
	assert.Nil(t, snap.Data.User)
	assert.Empty(t, c.Token())
}

func TestAuth_CheckAuthFailureSetsNoError(t *testing.T) {
	s, _ := newTestStore(t, backend{
		"GET accounts/is-authenticate/": jsonResponse(401, `{"detail":"Authentication credentials were not provided."}`),
	})
	ok, err := s.Auth.CheckAuth(context.Background())
	require.Error(t, err)
	assert.False(t, ok)

	snap := s.Auth.Snapshot()
	assert.False(t, snap.Fetch.Loading)
	assert.Empty(t, snap.Fetch.Error)
}

func TestAuth_CheckAuth(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{"user present", `{"user":{"id":1,"username":"a"}}`, true},
		{"explicit true", `{"is_authenticated":true,"user":{"id":1,"username":"a"}}`, true},
		{"explicit false", `{"is_authenticated":false,"user":null}`, false},
		{"no user", `{}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestStore(t, backend{"GET accounts/is-authenticate/": jsonResponse(200, tt.body)})
			ok, err := s.Auth.CheckAuth(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestAuth_LogoutClearsUserAndToken(t *testing.T) {
	s, c := newTestStore(t, backend{
		"POST accounts/login/": jsonResponse(200, `{"user":{"id":1,"username":"a"},"token":"t"}`),
		"GET accounts/logout/": jsonResponse(200, `{"detail":"Logged out"}`),
	})
	ctx := context.Background()
	_, err := s.Auth.Login(ctx, models.Credentials{Username: "a", Password: "b"})
	require.NoError(t, err)

	require.NoError(t, s.Auth.Logout(ctx))
	assert.False(t, s.Auth.IsAuthenticated())
	assert.Empty(t, c.Token())
}

func TestPermission_FetchAndReset(t *testing.T) {
	s, _ := newTestStore(t, backend{
		"GET accounts/user/permission/": jsonResponse(200, `{"can_train_models":true,"permissions":["view_alerts"]}`),
	})
	_, err := s.Permission.Fetch(context.Background())
	require.NoError(t, err)
	assert.True(t, s.Permission.Has("can_train_models"))
	assert.True(t, s.Permission.Has("view_alerts"))
	assert.False(t, s.Permission.Has("delete_alerts"))

	s.ClearSession()
	snap := s.Permission.Snapshot()
	assert.Empty(t, snap.Data.Permissions)
	assert.Equal(t, FetchState{}, snap.Fetch)
}

func TestPermission_FailureMessage(t *testing.T) {
	s, _ := newTestStore(t, backend{
		"GET accounts/user/permission/": jsonResponse(403, `{"detail":"You do not have permission"}`),
	})
	_, err := s.Permission.Fetch(context.Background())
	require.Error(t, err)
	assert.Equal(t, "You do not have permission", s.Permission.Snapshot().Fetch.Error)
}
