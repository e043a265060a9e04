// Package weather classifies raw weather conditions into animation and
// playlist categories and fetches current conditions from OpenWeather.
package weather

// Category is the animation/playlist bucket derived from a raw weather
// condition. The set is closed: every condition maps to exactly one of these.
type Category string

// The five categories. Thunderstorm is folded into Rain and the various
// low-visibility conditions into Clouds, matching the animation's visuals.
const (
	Rain    Category = "Rain"
	Snow    Category = "Snow"
	Clear   Category = "Clear"
	Clouds  Category = "Clouds"
	Default Category = "Default"
)

// Classify maps a raw OpenWeather condition string (the "main" field, e.g.
// "Drizzle") to a Category. It is pure and total: unknown or empty input
// yields Default, never an error.
func Classify(raw string) Category {
	switch raw {
	case "":
		return Default
	case "Rain", "Drizzle":
		return Rain
	case "Thunderstorm":
		// Treated as intensified rain rather than a separate visual.
		return Rain
	case "Snow":
		return Snow
	case "Mist", "Fog", "Haze", "Smoke":
		return Clouds
	case "Clear":
		return Clear
	case "Clouds":
		return Clouds
	default:
		return Default
	}
}

// Categories returns all categories in display order.
func Categories() []Category {
	return []Category{Rain, Snow, Clear, Clouds, Default}
}

// Valid reports whether s names one of the defined categories.
func Valid(s string) bool {
	switch Category(s) {
	case Rain, Snow, Clear, Clouds, Default:
		return true
	}
	return false
}
