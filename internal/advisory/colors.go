// Package advisory derives labels, colour tokens and agricultural recommendations
// from already-fetched weather and calendar data. Every function is pure.
package advisory

// Colour tokens shared by the presentation layer.
const (
	ColorGreen      = "#4caf50"
	ColorLightGreen = "#8bc34a"
	ColorOrange     = "#ff9800"
	ColorDeepOrange = "#ff5722"
	ColorRed        = "#f44336"
	ColorPurple     = "#9c27b0"
	ColorGrey       = "#6c757d"
	ColorBlue       = "#0984e3"
	ColorSkyBlue    = "#4d96ff"
	ColorCoral      = "#ff6b6b"
	ColorTeal       = "#00b894"
)

// Label pairs a categorical label with its colour token.
type Label struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// PredictionConfidenceColor maps a model confidence in [0,1] to a colour.
func PredictionConfidenceColor(confidence float64) string {
	switch {
	case confidence >= 0.8:
		return ColorGreen
	case confidence >= 0.6:
		return ColorOrange
	default:
		return ColorRed
	}
}

// Bar is the presentation of one correlation coefficient.
type Bar struct {
	WidthPct float64 `json:"widthPct"`
	Color    string  `json:"color"`
}

// CorrelationBar maps a coefficient in [-1,1] to a bar: width is |r| as a
// percentage, green for positive and red otherwise. Strength and direction
// labels come from the backend and are not derived here.
func CorrelationBar(r float64) Bar {
	w := r * 100
	if w < 0 {
		w = -w
	}
	color := ColorRed
	if r > 0 {
		color = ColorGreen
	}
	return Bar{WidthPct: w, Color: color}
}

// SeasonColor maps a season type to its colour.
func SeasonColor(seasonType string) string {
	switch seasonType {
	case SeasonSummer:
		return ColorCoral
	case SeasonMonsoon:
		return ColorBlue
	case SeasonAutumn:
		return ColorOrange
	case SeasonWinter:
		return ColorSkyBlue
	case SeasonSpring:
		return ColorGreen
	}
	return ColorGrey
}
