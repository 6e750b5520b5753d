package store

import (
	"context"

	"github.com/kjstillabower/krishi-dashboard/internal/client"
	"github.com/kjstillabower/krishi-dashboard/internal/models"
)

const permissionFallbackMessage = "Something went wrong"

type PermissionAPI interface {
	Permissions(ctx context.Context) (models.PermissionSet, error)
}

type PermissionState struct {
	Permissions models.PermissionSet `json:"permissions"`
}

type PermissionStore struct {
	*Container[PermissionState]
	api PermissionAPI
}

func NewPermissionStore(api PermissionAPI, opts Options) *PermissionStore {
	return &PermissionStore{
		Container: NewContainer("permission", PermissionState{Permissions: models.PermissionSet{}}, opts),
		api:       api,
	}
}

func (s *PermissionStore) Fetch(ctx context.Context) (models.PermissionSet, error) {
	msg := func(err error) string {
		if m := client.Message(err); m != "" {
			return m
		}
		return permissionFallbackMessage
	}
	return runWith(ctx, s.Container, "fetch", "fetch", msg, s.api.Permissions,
		func(st *PermissionState, p models.PermissionSet) { st.Permissions = p })
}

// Has reports whether the held permission set grants name.
func (s *PermissionStore) Has(name string) bool {
	return s.Data().Permissions.Has(name)
}

// Clear drops the permission set and fetch state, used on logout.
func (s *PermissionStore) Clear() {
	s.Reset(PermissionState{Permissions: models.PermissionSet{}})
}
