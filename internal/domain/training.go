package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Intensity is the effort level of a planned training.
type Intensity string

const (
	IntensityRest     Intensity = "rest"
	IntensityRecovery Intensity = "recovery"
	IntensityLow      Intensity = "low"
	IntensityMedium   Intensity = "medium"
	IntensityHigh     Intensity = "high"
)

// Training types assigned by plan classification.
const (
	TypeStrength  = "strength"
	TypeInterval  = "interval"
	TypeRace      = "race"
	TypeFartlek   = "fartlek"
	TypeSwimming  = "swimming"
	TypeCycling   = "cycling"
	TypeEndurance = "endurance"
	TypeGeneral   = "general"
)

// CompletionStatusCompleted is recorded when an uploaded activity fulfils a training.
const CompletionStatusCompleted = "completed"

// Valid reports whether i is one of the known levels.
func (i Intensity) Valid() bool {
	switch i {
	case IntensityRest, IntensityRecovery, IntensityLow, IntensityMedium, IntensityHigh:
		return true
	}
	return false
}

// Downgrade returns the next lower level for high and medium. Every other
// level is returned unchanged with ok == false.
func (i Intensity) Downgrade() (lower Intensity, ok bool) {
	switch i {
	case IntensityHigh:
		return IntensityMedium, true
	case IntensityMedium:
		return IntensityLow, true
	}
	return i, false
}

// Training is a single scheduled workout. WeekID and PlanID are independent,
// optional back-references; a mixed-day training carries neither.
type Training struct {
	ID               primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name             string              `bson:"name" json:"name"`
	Description      string              `bson:"description,omitempty" json:"description,omitempty"` // Raw workout text from the plan
	DescriptionID    *primitive.ObjectID `bson:"descriptionId,omitempty" json:"descriptionId,omitempty"`
	Date             time.Time           `bson:"date" json:"date"`
	StartTime        *string             `bson:"startTime,omitempty" json:"startTime,omitempty"` // HH:MM
	DurationMinutes  *int                `bson:"durationMinutes,omitempty" json:"durationMinutes,omitempty"`
	Intensity        Intensity           `bson:"intensity" json:"intensity"`
	TrainingType     string              `bson:"trainingType" json:"trainingType"`
	Completed        bool                `bson:"isCompleted" json:"isCompleted"`
	CompletionStatus string              `bson:"completionStatus,omitempty" json:"completionStatus,omitempty"`
	WeekID           *primitive.ObjectID `bson:"weekId,omitempty" json:"weekId,omitempty"`
	PlanID           *primitive.ObjectID `bson:"planId,omitempty" json:"planId,omitempty"`
	CompetitionID    *primitive.ObjectID `bson:"competitionId,omitempty" json:"competitionId,omitempty"` // Denormalized for date lookups
	CreatedAt        time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time           `bson:"updatedAt" json:"updatedAt"`
}
