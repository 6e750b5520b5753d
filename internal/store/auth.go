package store

import (
	"context"

	"github.com/kjstillabower/krishi-dashboard/internal/models"
)

// AuthAPI is the slice of the backend client the auth container needs.
type AuthAPI interface {
	Login(ctx context.Context, creds models.Credentials) (*models.SessionResponse, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*models.User, error)
	CheckAuth(ctx context.Context) (*models.SessionResponse, error)
	SetToken(token string)
	ClearToken()
}

type AuthState struct {
	User *models.User `json:"user"`
}

// AuthStore owns the session identity.
type AuthStore struct {
	*Container[AuthState]
	api AuthAPI
}

func NewAuthStore(api AuthAPI, opts Options) *AuthStore {
	return &AuthStore{Container: NewContainer("auth", AuthState{}, opts), api: api}
}

// Login authenticates and stores the returned user. A token in the response becomes
// the client's process-wide credential.
func (s *AuthStore) Login(ctx context.Context, creds models.Credentials) (*models.User, error) {
	resp, err := run(ctx, s.Container, "login",
		func(ctx context.Context) (*models.SessionResponse, error) {
			resp, err := s.api.Login(ctx, creds)
			if err != nil {
				return nil, err
			}
			if resp.Token != "" {
				s.api.SetToken(resp.Token)
			}
			return resp, nil
		},
		func(st *AuthState, resp *models.SessionResponse) { st.User = resp.User },
	)
	if err != nil {
		return nil, err
	}
	return resp.User, nil
}

// Logout ends the session and drops the credential. On failure the user stays set.
func (s *AuthStore) Logout(ctx context.Context) error {
	_, err := run(ctx, s.Container, "logout",
		func(ctx context.Context) (struct{}, error) {
			if err := s.api.Logout(ctx); err != nil {
				return struct{}{}, err
			}
			s.api.ClearToken()
			return struct{}{}, nil
		},
		func(st *AuthState, _ struct{}) { st.User = nil },
	)
	return err
}

func (s *AuthStore) UserInfo(ctx context.Context) (*models.User, error) {
	return run(ctx, s.Container, "user_info", s.api.Me,
		func(st *AuthState, u *models.User) { st.User = u })
}

// CheckAuth asks the backend whether the session is still valid. A failed check
// records no error; callers decide whether to re-authenticate.
func (s *AuthStore) CheckAuth(ctx context.Context) (bool, error) {
	resp, err := runWith(ctx, s.Container, "check_auth", "check_auth", nil, s.api.CheckAuth,
		func(st *AuthState, resp *models.SessionResponse) { st.User = resp.User })
	if err != nil {
		return false, err
	}
	if resp.Authenticated != nil {
		return *resp.Authenticated && resp.User != nil, nil
	}
	return resp.User != nil, nil
}

// IsAuthenticated reports whether a user is currently held.
func (s *AuthStore) IsAuthenticated() bool {
	return s.Data().User != nil
}
