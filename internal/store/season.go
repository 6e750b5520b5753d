package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/kjstillabower/krishi-dashboard/internal/client"
	"github.com/kjstillabower/krishi-dashboard/internal/models"
	"github.com/kjstillabower/krishi-dashboard/internal/observability"
	"github.com/kjstillabower/krishi-dashboard/internal/validation"
)

// ErrInvalidPayload is returned when an auto-fill or local update body is not a JSON
// object or carries a field of the wrong type.
var ErrInvalidPayload = errors.New("invalid month payload")

// maxAutoFillWorkers bounds concurrent auto-fill calls in a bulk request.
const maxAutoFillWorkers = 4

type SeasonAPI interface {
	NepaliMonths(ctx context.Context) (models.MonthList, error)
	CropSeasons(ctx context.Context) ([]models.CropSeason, error)
	CoverageReport(ctx context.Context) (*models.CoverageReport, error)
	AutoFillMonth(ctx context.Context, id int64) (json.RawMessage, error)
}

type SeasonState struct {
	Months       []models.NepaliMonth   `json:"nepaliMonths"`
	CropSeasons  []models.CropSeason    `json:"cropSeasons"`
	Coverage     *models.CoverageReport `json:"weatherCoverage"`
	CurrentMonth *models.NepaliMonth    `json:"currentMonth"`
}

// BulkResult aggregates a bulk auto-fill. Errors maps month id to its failure message.
type BulkResult struct {
	Requested int              `json:"requested"`
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Errors    map[int64]string `json:"errors,omitempty"`
}

type SeasonStore struct {
	*Container[SeasonState]
	api SeasonAPI
}

func NewSeasonStore(api SeasonAPI, opts Options) *SeasonStore {
	initial := SeasonState{Months: []models.NepaliMonth{}, CropSeasons: []models.CropSeason{}}
	return &SeasonStore{Container: NewContainer("nepali_season", initial, opts), api: api}
}

// FetchMonths loads the month list; the backend may answer with a bare array or a page.
func (s *SeasonStore) FetchMonths(ctx context.Context) ([]models.NepaliMonth, error) {
	months, err := run(ctx, s.Container, "months", s.api.NepaliMonths,
		func(st *SeasonState, l models.MonthList) { st.Months = []models.NepaliMonth(l) })
	return []models.NepaliMonth(months), err
}

func (s *SeasonStore) FetchCropSeasons(ctx context.Context) ([]models.CropSeason, error) {
	return run(ctx, s.Container, "crop_seasons", s.api.CropSeasons,
		func(st *SeasonState, cs []models.CropSeason) { st.CropSeasons = cs })
}

func (s *SeasonStore) FetchCoverage(ctx context.Context) (*models.CoverageReport, error) {
	return run(ctx, s.Container, "coverage", s.api.CoverageReport,
		func(st *SeasonState, r *models.CoverageReport) { st.Coverage = r })
}

// Load runs the season overview's fetches: months, crop seasons and coverage.
func (s *SeasonStore) Load(ctx context.Context) error {
	_, err1 := s.FetchMonths(ctx)
	_, err2 := s.FetchCropSeasons(ctx)
	_, err3 := s.FetchCoverage(ctx)
	return errors.Join(err1, err2, err3)
}

// AutoFill asks the backend to backfill month id and merges the returned fields into
// the held month with that id. Fields absent from the payload keep their values.
func (s *SeasonStore) AutoFill(ctx context.Context, id int64) error {
	if err := validation.ValidateID(id); err != nil {
		return err
	}
	_, err := runWith(ctx, s.Container, "auto_fill", fmt.Sprintf("auto_fill:%d", id), defaultMessage,
		func(ctx context.Context) (json.RawMessage, error) {
			raw, err := s.api.AutoFillMonth(ctx, id)
			if err != nil {
				return nil, err
			}
			if len(raw) == 0 {
				return raw, nil
			}
			if err := checkMonthPayload(raw); err != nil {
				return nil, fmt.Errorf("auto-fill %d: %w", id, err)
			}
			return raw, nil
		},
		func(st *SeasonState, raw json.RawMessage) { st.Months, _ = mergeMonth(st.Months, id, raw) })
	return err
}

// AutoFillMany fans out one independent AutoFill per id and reports the aggregate.
// A failure for one month does not stop the others.
func (s *SeasonStore) AutoFillMany(ctx context.Context, ids []int64) BulkResult {
	result := BulkResult{Requested: len(ids), Errors: map[int64]string{}}
	if len(ids) == 0 {
		return result
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, maxAutoFillWorkers)
	for _, id := range ids {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			err := s.AutoFill(ctx, id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed++
				result.Errors[id] = client.Message(err)
				observability.AutoFillTotal.WithLabelValues(outcomeFailure).Inc()
				return
			}
			result.Succeeded++
			observability.AutoFillTotal.WithLabelValues(outcomeSuccess).Inc()
		}(id)
	}
	wg.Wait()

	if result.Failed > 0 {
		s.logger.Warn("bulk auto-fill finished with failures",
			zap.Int("requested", result.Requested),
			zap.Int("failed", result.Failed),
		)
	}
	return result
}

// SetCurrentMonth selects the month the advisory views describe. Nil clears it.
func (s *SeasonStore) SetCurrentMonth(m *models.NepaliMonth) {
	s.Update(func(st *SeasonState) {
		if m == nil {
			st.CurrentMonth = nil
			return
		}
		cp := *m
		st.CurrentMonth = &cp
	})
}

// UpdateMonth merges patch into the held month whose id matches the patch's id.
// It reports whether a month was updated.
func (s *SeasonStore) UpdateMonth(patch json.RawMessage) (bool, error) {
	if err := checkMonthPayload(patch); err != nil {
		return false, err
	}
	var ref struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(patch, &ref); err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	updated := false
	s.Update(func(st *SeasonState) {
		st.Months, updated = mergeMonth(st.Months, ref.ID, patch)
	})
	return updated, nil
}

// Month returns the held month with id.
func (s *SeasonStore) Month(id int64) (models.NepaliMonth, bool) {
	for _, m := range s.Data().Months {
		if m.ID == id {
			return m, true
		}
	}
	return models.NepaliMonth{}, false
}

// checkMonthPayload rejects bodies that are not an object or whose fields do not
// decode into a NepaliMonth. A payload that passes always merges.
func checkMonthPayload(raw json.RawMessage) error {
	if !isObject(raw) {
		return ErrInvalidPayload
	}
	var overlay models.NepaliMonth
	if err := json.Unmarshal(raw, &overlay); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}

// mergeMonth returns months with the element matching id overlaid by raw. The input
// slice is not modified; when nothing matches it is returned as is with false.
func mergeMonth(months []models.NepaliMonth, id int64, raw json.RawMessage) ([]models.NepaliMonth, bool) {
	for i := range months {
		if months[i].ID != id {
			continue
		}
		merged := months[i]
		// Unmarshal reuses slice backing arrays; detach them from the held month first.
		merged.SuitableCrops = slices.Clone(merged.SuitableCrops)
		merged.Festivals = slices.Clone(merged.Festivals)
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &merged); err != nil {
				return months, false
			}
		}
		merged.ID = id
		out := make([]models.NepaliMonth, len(months))
		copy(out, months)
		out[i] = merged
		return out, true
	}
	return months, false
}

func isObject(raw json.RawMessage) bool {
	for _, c := range raw {
		switch c {
		case ' ', '\t', '\r', '\n':
			continue
		case '{':
			return json.Valid(raw)
		default:
			return false
		}
	}
	return false
}
