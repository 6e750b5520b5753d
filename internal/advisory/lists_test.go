package advisory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kjstillabower/krishi-dashboard/internal/models"
)

func alertIDs(alerts []models.Alert) []int64 {
	ids := make([]int64, 0, len(alerts))
	for _, a := range alerts {
		ids = append(ids, a.ID)
	}
	return ids
}

func TestSortAlerts(t *testing.T) {
	in := []models.Alert{
		{ID: 1, Severity: SeverityLow, StartTime: "2026-06-03T00:00:00Z"},
		{ID: 2, Severity: SeverityCritical, StartTime: "2026-06-01T00:00:00Z"},
		{ID: 3, Severity: SeverityHigh, StartTime: "2026-06-01T00:00:00Z"},
		{ID: 4, Severity: SeverityHigh, StartTime: "2026-06-02T00:00:00Z"},
		{ID: 5, Severity: "unknown", StartTime: "2026-06-05T00:00:00Z"},
	}
	got := SortAlerts(in)
	assert.Equal(t, []int64{2, 4, 3, 1, 5}, alertIDs(got))
	assert.Equal(t, int64(1), in[0].ID, "input must not be reordered")
}

func TestFilterAlerts(t *testing.T) {
	in := []models.Alert{
		{ID: 1, AlertType: "frost", Severity: SeverityLow, IsActive: true},
		{ID: 2, AlertType: "heat", Severity: SeverityHigh},
		{ID: 3, AlertType: "frost", Severity: SeverityHigh, IsActive: true},
	}
	tests := []struct {
		filter string
		want   []int64
	}{
		{"all", []int64{1, 2, 3}},
		{"", []int64{1, 2, 3}},
		{"active", []int64{1, 3}},
		{"inactive", []int64{2}},
		{"frost", []int64{1, 3}},
		{"high", []int64{2, 3}},
		{"wind", []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			assert.Equal(t, tt.want, alertIDs(FilterAlerts(in, tt.filter)))
		})
	}
}

func TestSummarizeAlerts(t *testing.T) {
	st := SummarizeAlerts([]models.Alert{
		{Severity: SeverityCritical, IsActive: true},
		{Severity: SeverityHigh},
		{Severity: SeverityLow, IsActive: true},
	})
	assert.Equal(t, AlertStats{Total: 3, Active: 2, Critical: 1, High: 1, Low: 1}, st)
}

func TestAlertRecommendations(t *testing.T) {
	assert.Len(t, AlertRecommendations("wind"), 4)
	assert.Equal(t, []string{
		"Monitor weather conditions",
		"Check local advisories",
		"Take necessary precautions",
	}, AlertRecommendations("hail"))
}

func testMonths() []models.NepaliMonth {
	return []models.NepaliMonth{
		{ID: 1, MonthNumber: 1, NepaliName: "Baisakh", EnglishName: "April-May", SeasonType: SeasonSummer,
			AvgTemperature: 30, DataConfidence: 85, WeatherDataSource: models.SourceAutoDaily,
			AgriculturalActivities: "Maize sowing"},
		{ID: 2, MonthNumber: 2, NepaliName: "Jestha", EnglishName: "May-June", SeasonType: SeasonSummer,
			AvgTemperature: 32, DataConfidence: 60, WeatherDataSource: models.SourceAutoDaily},
		{ID: 3, MonthNumber: 3, NepaliName: "Asar", EnglishName: "June-July", SeasonType: SeasonMonsoon,
			AvgTemperature: 28, DataConfidence: 0, WeatherDataSource: models.SourceNone,
			AgriculturalActivities: "Paddy transplantation"},
	}
}

func monthIDs(months []models.NepaliMonth) []int64 {
	ids := make([]int64, 0, len(months))
	for _, m := range months {
		ids = append(ids, m.ID)
	}
	return ids
}

func TestFilterMonths(t *testing.T) {
	tests := []struct {
		name   string
		filter MonthFilter
		want   []int64
	}{
		{"none", MonthFilter{}, []int64{1, 2, 3}},
		{"search nepali name", MonthFilter{Search: "jes"}, []int64{2}},
		{"search activities", MonthFilter{Search: "PADDY"}, []int64{3}},
		{"season", MonthFilter{Season: SeasonSummer}, []int64{1, 2}},
		{"has data", MonthFilter{HasWeatherData: "yes"}, []int64{1, 2}},
		{"needs data", MonthFilter{HasWeatherData: "no"}, []int64{3}},
		{"high confidence", MonthFilter{Confidence: "high"}, []int64{1}},
		{"medium confidence", MonthFilter{Confidence: "medium"}, []int64{2}},
		{"low confidence", MonthFilter{Confidence: "low"}, []int64{3}},
		{"no confidence", MonthFilter{Confidence: "none"}, []int64{3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, monthIDs(FilterMonths(testMonths(), tt.filter)))
		})
	}
}

func TestSortMonths(t *testing.T) {
	assert.Equal(t, []int64{2, 1, 3}, monthIDs(SortMonths(testMonths(), SortAvgTemperature, true)))
	assert.Equal(t, []int64{1, 3, 2}, monthIDs(SortMonths(testMonths(), SortEnglishName, false)))
	assert.Equal(t, []int64{3, 2, 1}, monthIDs(SortMonths(testMonths(), SortMonthNumber, true)))
	assert.Equal(t, []int64{1, 2, 3}, monthIDs(SortMonths(testMonths(), "bogus", true)))
}

func TestSummarizeMonths(t *testing.T) {
	assert.Equal(t, MonthStats{Total: 3, WithWeatherData: 2, HighConfidence: 1, NeedsData: 1},
		SummarizeMonths(testMonths()))
}

func testSeasons() []models.CropSeason {
	return []models.CropSeason{
		{ID: 1, Name: "Kharif", SeasonType: SeasonMonsoon, PrimaryCrops: []string{"Rice"},
			SuitableRegions: []string{"Terai"}, StartMonth: &models.MonthRef{MonthNumber: 3},
			EndMonth: &models.MonthRef{MonthNumber: 6}, DurationDays: 120,
			WaterRequirementMM: 1200, ExpectedYieldMin: 3, ExpectedYieldMax: 5, WeatherAutoFilled: true},
		{ID: 2, Name: "Rabi", SeasonType: SeasonWinter, PrimaryCrops: []string{"Wheat"},
			SecondaryCrops: []string{"Mustard"}, StartMonth: &models.MonthRef{MonthNumber: 8},
			EndMonth: &models.MonthRef{MonthNumber: 12}, DurationDays: 150,
			WaterRequirementMM: 400, ExpectedYieldMin: 2, ExpectedYieldMax: 3},
		{ID: 3, Name: "Zaid", SeasonType: SeasonSummer, Description: "Short spring crop",
			PrimaryCrops: []string{"Maize"}, SuitableRegions: []string{"Hills"},
			StartMonth: &models.MonthRef{MonthNumber: 11}, EndMonth: &models.MonthRef{MonthNumber: 1},
			DurationDays: 90, WaterRequirementMM: 300, ExpectedYieldMin: 1, ExpectedYieldMax: 2},
	}
}

func seasonIDs(seasons []models.CropSeason) []int64 {
	ids := make([]int64, 0, len(seasons))
	for _, s := range seasons {
		ids = append(ids, s.ID)
	}
	return ids
}

func TestFilterCropSeasons(t *testing.T) {
	tests := []struct {
		name   string
		filter CropSeasonFilter
		want   []int64
	}{
		{"none", CropSeasonFilter{SeasonType: "all"}, []int64{1, 2, 3}},
		{"search crop", CropSeasonFilter{Search: "rice"}, []int64{1}},
		{"search description", CropSeasonFilter{Search: "spring"}, []int64{3}},
		{"secondary crop", CropSeasonFilter{Crop: "Mustard"}, []int64{2}},
		{"region keeps unlisted", CropSeasonFilter{Region: "Terai"}, []int64{1, 2}},
		{"weather yes", CropSeasonFilter{HasWeather: "yes"}, []int64{1}},
		{"weather no", CropSeasonFilter{HasWeather: "no"}, []int64{2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, seasonIDs(FilterCropSeasons(testSeasons(), tt.filter)))
		})
	}
}

func TestSortCropSeasons(t *testing.T) {
	assert.Equal(t, []int64{1, 2, 3}, seasonIDs(SortCropSeasons(testSeasons(), SortStartMonth, false)))
	assert.Equal(t, []int64{2, 1, 3}, seasonIDs(SortCropSeasons(testSeasons(), SortDuration, true)))
	assert.Equal(t, []int64{3, 2, 1}, seasonIDs(SortCropSeasons(testSeasons(), SortExpectedYield, false)))
	assert.Equal(t, []int64{3, 2, 1}, seasonIDs(SortCropSeasons(testSeasons(), SortName, true)))
}

func TestSummarizeCropSeasons(t *testing.T) {
	st := SummarizeCropSeasons(testSeasons(), &models.NepaliMonth{MonthNumber: 12})
	assert.Equal(t, CropSeasonStats{Total: 3, WithWeather: 1, Current: 2}, st)
}
