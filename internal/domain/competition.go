package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Competition is the target event a training block counts down to.
// It owns its TrainingWeeks and TrainingPlans.
type Competition struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Date        time.Time          `bson:"date" json:"date"` // Calendar date, midnight UTC
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`

	Weeks []TrainingWeek `bson:"-" json:"weeks,omitempty"` // Loaded on read, sorted by start date
}
