package store

import (
	"context"
	"fmt"

	"github.com/kjstillabower/krishi-dashboard/internal/models"
)

// Job names a backend job trigger.
type Job string

const (
	JobUpdateWeather   Job = "update_weather"
	JobTrainModels     Job = "train_models"
	JobMakePredictions Job = "make_predictions"
)

// ParseJob validates a job name from the local API.
func ParseJob(s string) (Job, error) {
	switch Job(s) {
	case JobUpdateWeather, JobTrainModels, JobMakePredictions:
		return Job(s), nil
	}
	return "", fmt.Errorf("unknown job %q", s)
}

type JobsAPI interface {
	UpdateWeather(ctx context.Context) (*models.JobResult, error)
	TrainModels(ctx context.Context) (*models.JobResult, error)
	MakePredictions(ctx context.Context) (*models.JobResult, error)
}

// UIState holds transient presentation flags. SuccessActive is raised when a backend
// job completes and lowered by the consumer once shown.
type UIState struct {
	SuccessActive bool              `json:"successActive"`
	LastJob       Job               `json:"lastJob,omitempty"`
	LastResult    *models.JobResult `json:"lastResult,omitempty"`
}

type UIStore struct {
	*Container[UIState]
	api JobsAPI
}

func NewUIStore(api JobsAPI, opts Options) *UIStore {
	return &UIStore{Container: NewContainer("ui", UIState{}, opts), api: api}
}

func (s *UIStore) SetActive(active bool) {
	s.Update(func(st *UIState) { st.SuccessActive = active })
}

// RunJob triggers job on the backend and raises the success flag when it returns.
func (s *UIStore) RunJob(ctx context.Context, job Job) (*models.JobResult, error) {
	var call func(context.Context) (*models.JobResult, error)
	switch job {
	case JobUpdateWeather:
		call = s.api.UpdateWeather
	case JobTrainModels:
		call = s.api.TrainModels
	case JobMakePredictions:
		call = s.api.MakePredictions
	default:
		return nil, fmt.Errorf("unknown job %q", job)
	}
	return run(ctx, s.Container, string(job), call, func(st *UIState, r *models.JobResult) {
		st.SuccessActive = true
		st.LastJob = job
		st.LastResult = r
	})
}
