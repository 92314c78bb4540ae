package planparser

import (
	"regexp"
	"strconv"
	"strings"

	"alcyxob/trainingsplan/internal/domain"
)

// Classification is table driven: each table is scanned in order and the
// first matching rule wins.

type typeRule struct {
	match  func(lower string) bool
	result string
}

type intensityRule struct {
	match  func(percent float64) bool
	result domain.Intensity
}

type durationRule struct {
	pattern *regexp.Regexp
	minutes func(match []string) (int, bool)
}

// minutesPerKm approximates running pace when a workout only names a distance.
const minutesPerKm = 6

var kmPattern = regexp.MustCompile(`(\d+)\s*km`)

func containsAny(terms ...string) func(string) bool {
	return func(lower string) bool {
		for _, term := range terms {
			if strings.Contains(lower, term) {
				return true
			}
		}
		return false
	}
}

var typeRules = []typeRule{
	{containsAny("krafttraining", "strength"), domain.TypeStrength},
	{containsAny("intervall", "interval"), domain.TypeInterval},
	{containsAny("wettkampf", "race"), domain.TypeRace},
	{containsAny("fahrtspiel", "fartlek"), domain.TypeFartlek},
	{containsAny("schwimmen", "swim"), domain.TypeSwimming},
	{containsAny("radfahren", "cycling"), domain.TypeCycling},
	{func(lower string) bool {
		return containsAny("dauerlauf", "endurance")(lower) || kmPattern.MatchString(lower)
	}, domain.TypeEndurance},
}

var intensityRules = []intensityRule{
	{func(p float64) bool { return p >= 90 }, domain.IntensityHigh},
	{func(p float64) bool { return p >= 75 }, domain.IntensityMedium},
	{func(p float64) bool { return p >= 65 }, domain.IntensityLow},
	{func(float64) bool { return true }, domain.IntensityRecovery},
}

func fixedMinutes(n int) func([]string) (int, bool) {
	return func([]string) (int, bool) { return n, true }
}

var durationRules = []durationRule{
	{regexp.MustCompile(`(?:^|[^\d,.])1,5 h\b`), fixedMinutes(90)},
	{regexp.MustCompile(`(?:^|[^\d,.])1 h\b`), fixedMinutes(60)},
	{regexp.MustCompile(`(?:^|[^\d,.])2 h\b`), fixedMinutes(120)},
	{kmPattern, func(m []string) (int, bool) {
		km, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, false
		}
		return km * minutesPerKm, true
	}},
}

// ClassifyType derives a training type from free workout text.
func ClassifyType(workout string) string {
	lower := strings.ToLower(workout)
	for _, rule := range typeRules {
		if rule.match(lower) {
			return rule.result
		}
	}
	return domain.TypeGeneral
}

// ClassifyIntensity maps a percentage string such as "70%" to an intensity.
// Empty and "0%" mean rest; anything unreadable falls back to medium.
func ClassifyIntensity(percent string) domain.Intensity {
	percent = strings.TrimSpace(percent)
	if percent == "" || percent == restIntensity {
		return domain.IntensityRest
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(percent, "%")), 64)
	if err != nil {
		return domain.IntensityMedium
	}
	for _, rule := range intensityRules {
		if rule.match(value) {
			return rule.result
		}
	}
	return domain.IntensityMedium
}

// EstimateDuration reads an explicit hour mark or a distance out of workout
// text. ok is false when neither is present.
func EstimateDuration(workout string) (minutes int, ok bool) {
	for _, rule := range durationRules {
		if m := rule.pattern.FindStringSubmatch(workout); m != nil {
			return rule.minutes(m)
		}
	}
	return 0, false
}
