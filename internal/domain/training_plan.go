package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DocumentFormat is the encoding of an ingested plan document.
type DocumentFormat string

const (
	FormatJSON DocumentFormat = "json"
	FormatYAML DocumentFormat = "yaml"
)

// TrainingPlan keeps an ingested plan document and the trainings derived from it.
// It is not edited after creation; only its derived training list changes.
type TrainingPlan struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CompetitionID  primitive.ObjectID `bson:"competitionId" json:"competitionId"`
	Name           string             `bson:"name" json:"name"`
	Description    string             `bson:"description,omitempty" json:"description,omitempty"`
	Document       string             `bson:"document" json:"-"`                   // Raw document as uploaded
	DocumentFormat DocumentFormat     `bson:"documentFormat" json:"documentFormat"`
	DocumentKey    string             `bson:"documentKey,omitempty" json:"-"` // Object storage key of the archived document, if any
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`

	Trainings []Training `bson:"-" json:"trainings,omitempty"` // Loaded on read, ordered by date
}
