package store

import (
	"context"

	"github.com/kjstillabower/krishi-dashboard/internal/models"
	"github.com/kjstillabower/krishi-dashboard/internal/validation"
)

// DefaultHours is the hourly view's initial horizon.
const DefaultHours = 48

type HourlyAPI interface {
	Hourly(ctx context.Context, hours int) ([]models.HourlyEntry, error)
}

type HourlyState struct {
	Entries []models.HourlyEntry `json:"hourlyData"`
	Hours   int                  `json:"hours"`
}

type HourlyStore struct {
	*Container[HourlyState]
	api HourlyAPI
}

func NewHourlyStore(api HourlyAPI, opts Options) *HourlyStore {
	return &HourlyStore{
		Container: NewContainer("hourly", HourlyState{Entries: []models.HourlyEntry{}, Hours: DefaultHours}, opts),
		api:       api,
	}
}

func (s *HourlyStore) Fetch(ctx context.Context, hours int) ([]models.HourlyEntry, error) {
	if err := validation.ValidateHours(hours); err != nil {
		return nil, err
	}
	return run(ctx, s.Container, "fetch",
		func(ctx context.Context) ([]models.HourlyEntry, error) { return s.api.Hourly(ctx, hours) },
		func(st *HourlyState, entries []models.HourlyEntry) {
			st.Entries = entries
			st.Hours = hours
		})
}
