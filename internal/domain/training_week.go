package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrainingWeek is one Monday..Sunday slot of a competition's training block.
// The competition week carries the highest number.
type TrainingWeek struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CompetitionID primitive.ObjectID `bson:"competitionId" json:"competitionId"`
	WeekNumber    int                `bson:"weekNumber" json:"weekNumber"`
	StartDate     time.Time          `bson:"startDate" json:"startDate"`   // Monday
	EndDate       time.Time          `bson:"endDate" json:"endDate"`       // Sunday, StartDate + 6 days
	Modified      bool               `bson:"isModified" json:"isModified"` // Set once an adaptive downgrade touched this week
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
