package planparser

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcyxob/trainingsplan/internal/calendar"
	"alcyxob/trainingsplan/internal/domain"
)

var (
	competitionDay = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	mondayToday    = time.Date(2025, 4, 7, 0, 0, 0, 0, time.UTC)
)

func TestParse_WeeklyScenario(t *testing.T) {
	doc := `{"weeks":[
		{"week":5,"schedule":{"monday":{"workout":"10 km Dauerlauf","intensity":"70%"}}},
		{"week":12,"schedule":{}}
	]}`

	res, err := Parse([]byte(doc), domain.FormatJSON, competitionDay, mondayToday)
	require.NoError(t, err)

	assert.Equal(t, ShapeWeekly, res.Shape)
	require.Len(t, res.Drafts, 1)
	d := res.Drafts[0]
	assert.Equal(t, "Monday - Week 5", d.Name)
	assert.Equal(t, "10 km Dauerlauf", d.Description)
	assert.Equal(t, "2025-04-21", calendar.FormatDate(d.Date), "Monday of the week ending 2025-04-27")
	assert.Equal(t, domain.TypeEndurance, d.Type)
	assert.Equal(t, domain.IntensityLow, d.Intensity)
	require.NotNil(t, d.DurationMinutes)
	assert.Equal(t, 60, *d.DurationMinutes)
	require.NotNil(t, d.Week)
	assert.Equal(t, 5, d.Week.Number)
	assert.Equal(t, "2025-04-27", calendar.FormatDate(d.Week.End))

	require.Len(t, res.Weeks, 2, "empty schedules still name their week")
	assert.Equal(t, 12, res.Weeks[1].Number)
	assert.Equal(t, "2025-06-09", calendar.FormatDate(res.Weeks[1].Start))
}

func TestParse_WeeklyWrappers(t *testing.T) {
	for _, wrapper := range []string{"marathon_plan", "half_marathon_plan"} {
		t.Run(wrapper, func(t *testing.T) {
			doc := `{"` + wrapper + `":{"weeks":[{"week":1,"schedule":{"tuesday":{"workout":"Intervalltraining 6x800m","intensity":"92%"}}}]}}`
			res, err := Parse([]byte(doc), domain.FormatJSON, competitionDay, mondayToday)
			require.NoError(t, err)
			require.Len(t, res.Drafts, 1)
			assert.Equal(t, "Tuesday - Week 1", res.Drafts[0].Name)
			assert.Equal(t, domain.TypeInterval, res.Drafts[0].Type)
			assert.Equal(t, domain.IntensityHigh, res.Drafts[0].Intensity)
			assert.Equal(t, "2025-06-10", calendar.FormatDate(res.Drafts[0].Date), "single week is the competition week")
		})
	}
}

func TestParse_WeeklySkipsRestDaysAndMissingWorkouts(t *testing.T) {
	doc := `{"weeks":[{"week":12,"schedule":{
		"monday":{"workout":"Ruhetag","intensity":"50%"},
		"tuesday":{"workout":"Lockerer Lauf","intensity":"0%"},
		"wednesday":{"intensity":"70%"},
		"thursday":{"workout":"Schwimmen 1 h","intensity":"60%"},
		"sunday":{"workout":"Wettkampf","intensity":"100%"}
	}}]}`

	res, err := Parse([]byte(doc), domain.FormatJSON, competitionDay, mondayToday)
	require.NoError(t, err)
	require.Len(t, res.Drafts, 2)

	assert.Equal(t, "Thursday - Week 12", res.Drafts[0].Name)
	assert.Equal(t, domain.TypeSwimming, res.Drafts[0].Type)
	assert.Equal(t, domain.IntensityRecovery, res.Drafts[0].Intensity)
	assert.Equal(t, 60, *res.Drafts[0].DurationMinutes)

	assert.Equal(t, "Sunday - Week 12", res.Drafts[1].Name)
	assert.Equal(t, domain.TypeRace, res.Drafts[1].Type)
	assert.Equal(t, competitionDay, res.Drafts[1].Date)
	assert.Nil(t, res.Drafts[1].DurationMinutes)
}

func TestParse_WeeklySkipsPastWeeks(t *testing.T) {
	doc := `{"weeks":[
		{"week":1,"schedule":{"monday":{"workout":"Dauerlauf","intensity":"70%"}}},
		{"week":12,"schedule":{"monday":{"workout":"Dauerlauf","intensity":"70%"}}}
	]}`
	// Week 1 ends 2025-03-30, before today.
	res, err := Parse([]byte(doc), domain.FormatJSON, competitionDay, mondayToday)
	require.NoError(t, err)
	require.Len(t, res.Drafts, 1)
	assert.Equal(t, 12, res.Drafts[0].Week.Number)
	require.Len(t, res.Weeks, 1)
}

func TestParse_WeeklyMissingWeeksArray(t *testing.T) {
	for name, doc := range map[string]string{
		"wrapper without weeks": `{"marathon_plan":{"title":"x"}}`,
		"weeks not a list":      `{"weeks":{"week":1}}`,
		"week without number":   `{"weeks":[{"schedule":{}}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc), domain.FormatJSON, competitionDay, mondayToday)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrStructure))
		})
	}
}

func TestParse_Flat(t *testing.T) {
	doc := `{"trainings":[
		{"date":"2025-04-10","name":"Long run","description":"easy","type":"endurance","intensity":"low","startTime":"07:30","duration":90},
		{"date":"2025-04-12","name":"Tempo","intensity":"88%"},
		{"date":"2025-04-13","name":"Stretching"}
	]}`

	res, err := Parse([]byte(doc), domain.FormatJSON, competitionDay, mondayToday)
	require.NoError(t, err)
	assert.Equal(t, ShapeFlat, res.Shape)
	require.Len(t, res.Drafts, 3)

	first := res.Drafts[0]
	assert.Equal(t, "Long run", first.Name)
	assert.Equal(t, "2025-04-10", calendar.FormatDate(first.Date))
	assert.Equal(t, domain.IntensityLow, first.Intensity)
	require.NotNil(t, first.StartTime)
	assert.Equal(t, "07:30", *first.StartTime)
	assert.Equal(t, 90, *first.DurationMinutes)
	assert.Nil(t, first.Week, "flat entries are matched to weeks by date later")

	assert.Equal(t, domain.IntensityMedium, res.Drafts[1].Intensity)
	assert.Equal(t, domain.TypeGeneral, res.Drafts[1].Type)
	assert.Nil(t, res.Drafts[1].StartTime)
	assert.Equal(t, domain.IntensityMedium, res.Drafts[2].Intensity)
}

func TestParse_FlatRootArray(t *testing.T) {
	res, err := Parse([]byte(`[{"date":"2025-05-01","name":"Bike","startTime":"18:00:00"}]`), domain.FormatJSON, competitionDay, mondayToday)
	require.NoError(t, err)
	require.Len(t, res.Drafts, 1)
	assert.Equal(t, "18:00", *res.Drafts[0].StartTime)
}

func TestParse_FlatWinsOverWeeks(t *testing.T) {
	doc := `{"trainings":[{"date":"2025-05-01","name":"A"}],"weeks":"ignored"}`
	res, err := Parse([]byte(doc), domain.FormatJSON, competitionDay, mondayToday)
	require.NoError(t, err)
	assert.Equal(t, ShapeFlat, res.Shape)
}

func TestParse_FlatMissingRequiredFields(t *testing.T) {
	for name, doc := range map[string]string{
		"no date":     `{"trainings":[{"name":"A"}]}`,
		"no name":     `{"trainings":[{"date":"2025-05-01"}]}`,
		"bad date":    `{"trainings":[{"date":"01.05.2025","name":"A"}]}`,
		"bad start":   `{"trainings":[{"date":"2025-05-01","name":"A","startTime":"soon"}]}`,
		"bad minutes": `{"trainings":[{"date":"2025-05-01","name":"A","duration":"long"}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc), domain.FormatJSON, competitionDay, mondayToday)
			assert.ErrorIs(t, err, ErrStructure)
		})
	}
}

func TestParse_UnknownShapeIsEmpty(t *testing.T) {
	for _, doc := range []string{`{"plan":"none"}`, `"just text"`, `42`} {
		res, err := Parse([]byte(doc), domain.FormatJSON, competitionDay, mondayToday)
		require.NoError(t, err, doc)
		assert.Equal(t, ShapeUnknown, res.Shape)
		assert.Empty(t, res.Drafts)
	}
}

func TestParse_MalformedJSON(t *testing.T) {
	_, err := Parse([]byte(`{"weeks": [`), domain.FormatJSON, competitionDay, mondayToday)
	assert.ErrorIs(t, err, ErrStructure)
}

func TestParse_YAML(t *testing.T) {
	doc := `
half_marathon_plan:
  weeks:
    - week: 11
      schedule:
        wednesday:
          workout: Fahrtspiel 8 km
          intensity: 80%
    - week: 12
      schedule:
        saturday:
          workout: Krafttraining
          intensity: 65%
`
	res, err := Parse([]byte(doc), domain.FormatYAML, competitionDay, mondayToday)
	require.NoError(t, err)
	require.Len(t, res.Drafts, 2)

	assert.Equal(t, "Wednesday - Week 11", res.Drafts[0].Name)
	assert.Equal(t, "2025-06-04", calendar.FormatDate(res.Drafts[0].Date))
	assert.Equal(t, domain.TypeFartlek, res.Drafts[0].Type)
	assert.Equal(t, domain.IntensityMedium, res.Drafts[0].Intensity)
	assert.Equal(t, 48, *res.Drafts[0].DurationMinutes)

	assert.Equal(t, domain.TypeStrength, res.Drafts[1].Type)
	assert.Equal(t, domain.IntensityLow, res.Drafts[1].Intensity)
}

func TestParse_YAMLFlatWithDates(t *testing.T) {
	doc := `
trainings:
  - date: 2025-05-03
    name: Swim
    duration: 40
`
	res, err := Parse([]byte(doc), domain.FormatYAML, competitionDay, mondayToday)
	require.NoError(t, err)
	require.Len(t, res.Drafts, 1)
	assert.Equal(t, "2025-05-03", calendar.FormatDate(res.Drafts[0].Date))
	assert.Equal(t, 40, *res.Drafts[0].DurationMinutes)
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, domain.FormatJSON, DetectFormat("plan.JSON", nil))
	assert.Equal(t, domain.FormatYAML, DetectFormat("plan.yml", []byte("{}")))
	assert.Equal(t, domain.FormatJSON, DetectFormat("upload", []byte("  \n[{}]")))
	assert.Equal(t, domain.FormatYAML, DetectFormat("upload", []byte("weeks: []")))
}
