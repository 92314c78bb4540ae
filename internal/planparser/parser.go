// Package planparser turns uploaded plan documents into draft trainings.
//
// Two document shapes are recognised without the caller naming them:
//
//   - flat: a list of dated entries, either as the document root or under a
//     "trainings" key;
//   - week-indexed: a "weeks" list of {week, schedule} blocks, either at the
//     root or wrapped in "marathon_plan" / "half_marathon_plan".
//
// Week-indexed plans are anchored backward from the competition: the highest
// week number in the document is the competition week.
//
// Anything else parses to an empty result.
package planparser

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"alcyxob/trainingsplan/internal/calendar"
	"alcyxob/trainingsplan/internal/domain"
)

// ErrStructure marks documents whose recognised shape is malformed.
var ErrStructure = errors.New("invalid plan document structure")

// Shape is the detected document layout.
type Shape string

const (
	ShapeFlat    Shape = "flat"
	ShapeWeekly  Shape = "weekly"
	ShapeUnknown Shape = "unknown"
)

const (
	restDayMarker = "ruhetag"
	restIntensity = "0%"
)

var restDayAliases = map[string]bool{
	restDayMarker: true,
	"rest":        true,
	"rest day":    true,
}

var weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// Wrapper keys that hold a week-indexed plan, checked in order.
var weeklyWrappers = []string{"marathon_plan", "half_marathon_plan"}

// WeekRef identifies the training week a draft belongs to.
type WeekRef struct {
	Number int
	Start  time.Time // Monday
	End    time.Time // Sunday
}

// Draft is a training read from a document but not yet persisted.
// Week is nil for flat entries; those are matched to a week by date.
type Draft struct {
	Name            string
	Description     string
	Date            time.Time
	Type            string
	Intensity       domain.Intensity
	StartTime       *string
	DurationMinutes *int
	Week            *WeekRef
}

// Result is the outcome of parsing one document.
type Result struct {
	Shape  Shape
	Drafts []Draft
	// Weeks lists every week block that survived the past-week cut, in
	// document order, including blocks without workouts.
	Weeks []WeekRef
}

// Parse decodes content and extracts its drafts. competitionDate anchors
// week-indexed plans; weeks that ended before today are skipped.
func Parse(content []byte, format domain.DocumentFormat, competitionDate, today time.Time) (*Result, error) {
	tree, err := Decode(content, format)
	if err != nil {
		return nil, err
	}
	return ParseTree(tree, competitionDate, today)
}

// ParseTree extracts drafts from an already decoded document.
func ParseTree(tree any, competitionDate, today time.Time) (*Result, error) {
	if entries, ok := flatEntries(tree); ok {
		drafts, err := parseFlat(entries)
		if err != nil {
			return nil, err
		}
		return &Result{Shape: ShapeFlat, Drafts: drafts}, nil
	}
	if container, ok := weeklyContainer(tree); ok {
		return parseWeekly(container, competitionDate, today)
	}
	return &Result{Shape: ShapeUnknown}, nil
}

func flatEntries(tree any) ([]any, bool) {
	if list, ok := asSlice(tree); ok {
		return list, true
	}
	root, ok := asMap(tree)
	if !ok {
		return nil, false
	}
	list, ok := asSlice(root["trainings"])
	return list, ok
}

func weeklyContainer(tree any) (map[string]any, bool) {
	root, ok := asMap(tree)
	if !ok {
		return nil, false
	}
	for _, key := range weeklyWrappers {
		if wrapped, present := root[key]; present {
			inner, _ := asMap(wrapped)
			return inner, true
		}
	}
	if _, present := root["weeks"]; present {
		return root, true
	}
	return nil, false
}

func parseFlat(entries []any) ([]Draft, error) {
	drafts := make([]Draft, 0, len(entries))
	for i, raw := range entries {
		entry, ok := asMap(raw)
		if !ok {
			return nil, fmt.Errorf("%w: training %d is not an object", ErrStructure, i)
		}
		name := strings.TrimSpace(asString(entry["name"]))
		if name == "" {
			return nil, fmt.Errorf("%w: training %d has no name", ErrStructure, i)
		}
		rawDate, present := entry["date"]
		if !present {
			return nil, fmt.Errorf("%w: training %d has no date", ErrStructure, i)
		}
		date, err := asDate(rawDate)
		if err != nil {
			return nil, fmt.Errorf("%w: training %d: %v", ErrStructure, i, err)
		}

		draft := Draft{
			Name:        name,
			Description: asString(entry["description"]),
			Date:        date,
			Type:        strings.TrimSpace(asString(entry["type"])),
			Intensity:   flatIntensity(asString(entry["intensity"])),
		}
		if draft.Type == "" {
			draft.Type = domain.TypeGeneral
		}
		if v, present := entry["startTime"]; present && v != nil {
			clock, err := asClock(v)
			if err != nil {
				return nil, fmt.Errorf("%w: training %d: %v", ErrStructure, i, err)
			}
			draft.StartTime = &clock
		}
		if v, present := entry["duration"]; present && v != nil {
			minutes, ok := asInt(v)
			if !ok {
				return nil, fmt.Errorf("%w: training %d: duration %v is not a whole number", ErrStructure, i, v)
			}
			draft.DurationMinutes = &minutes
		}
		drafts = append(drafts, draft)
	}
	return drafts, nil
}

// flatIntensity accepts either a level name or a percentage. A missing value
// is treated like an unreadable one.
func flatIntensity(s string) domain.Intensity {
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.IntensityMedium
	}
	if level := domain.Intensity(strings.ToLower(s)); level.Valid() {
		return level
	}
	return ClassifyIntensity(s)
}

type weekBlock struct {
	number   int
	schedule map[string]any
}

func parseWeekly(container map[string]any, competitionDate, today time.Time) (*Result, error) {
	rawWeeks, ok := asSlice(container["weeks"])
	if !ok {
		return nil, fmt.Errorf("%w: missing weeks array", ErrStructure)
	}

	blocks := make([]weekBlock, 0, len(rawWeeks))
	maxWeek := 0
	for i, raw := range rawWeeks {
		entry, ok := asMap(raw)
		if !ok {
			return nil, fmt.Errorf("%w: week entry %d is not an object", ErrStructure, i)
		}
		number, ok := asInt(entry["week"])
		if !ok {
			return nil, fmt.Errorf("%w: week entry %d has no week number", ErrStructure, i)
		}
		if i == 0 || number > maxWeek {
			maxWeek = number
		}
		schedule, _ := asMap(entry["schedule"])
		blocks = append(blocks, weekBlock{number: number, schedule: schedule})
	}

	compSunday := calendar.CompetitionAnchorSunday(competitionDate)
	today = calendar.Date(today)
	result := &Result{Shape: ShapeWeekly}
	for _, block := range blocks {
		if block.schedule == nil {
			continue
		}
		weekSunday := calendar.AddWeeks(compSunday, -(maxWeek - block.number))
		if weekSunday.Before(today) {
			continue
		}
		monday, sunday := calendar.WeekSpan(weekSunday)
		ref := WeekRef{Number: block.number, Start: monday, End: sunday}
		result.Weeks = append(result.Weeks, ref)
		result.Drafts = append(result.Drafts, parseSchedule(block.schedule, ref)...)
	}
	return result, nil
}

func parseSchedule(schedule map[string]any, week WeekRef) []Draft {
	var drafts []Draft
	for dayIndex, day := range weekdays {
		entry, ok := asMap(schedule[day])
		if !ok {
			continue
		}
		rawWorkout, present := entry["workout"]
		if !present {
			continue
		}
		workout := asString(rawWorkout)
		intensity := strings.TrimSpace(asString(entry["intensity"]))
		if isRestDay(workout) || intensity == restIntensity {
			continue
		}

		weekRef := week
		draft := Draft{
			Name:        fmt.Sprintf("%s - Week %d", capitalize(day), week.Number),
			Description: workout,
			Date:        calendar.AddDays(week.Start, dayIndex),
			Type:        ClassifyType(workout),
			Intensity:   ClassifyIntensity(intensity),
			Week:        &weekRef,
		}
		if minutes, ok := EstimateDuration(workout); ok {
			draft.DurationMinutes = &minutes
		}
		drafts = append(drafts, draft)
	}
	return drafts
}

func isRestDay(workout string) bool {
	return restDayAliases[strings.ToLower(strings.TrimSpace(workout))]
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
