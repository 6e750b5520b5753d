package models

// Alert is a triggered threshold condition from weather/alerts/.
type Alert struct {
	ID              int64    `json:"id"`
	AlertType       string   `json:"alert_type"`
	Severity        string   `json:"severity"`
	Title           string   `json:"title"`
	Message         string   `json:"message,omitempty"`
	IsActive        bool     `json:"is_active"`
	StartTime       string   `json:"start_time"`
	EndTime         string   `json:"end_time,omitempty"`
	Condition       string   `json:"condition,omitempty"`
	AffectedCrops   []string `json:"affected_crops,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}
