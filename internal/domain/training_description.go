package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrainingDescription is a reusable, detailed explanation of a workout that
// trainings can reference by id.
type TrainingDescription struct {
	ID                       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name                     string             `bson:"name" json:"name"` // Unique
	DetailedInstructions     string             `bson:"detailedInstructions,omitempty" json:"detailedInstructions,omitempty"`
	WarmupInstructions       string             `bson:"warmupInstructions,omitempty" json:"warmupInstructions,omitempty"`
	CooldownInstructions     string             `bson:"cooldownInstructions,omitempty" json:"cooldownInstructions,omitempty"`
	Equipment                string             `bson:"equipment,omitempty" json:"equipment,omitempty"`
	Tips                     string             `bson:"tips,omitempty" json:"tips,omitempty"`
	EstimatedDurationMinutes *int               `bson:"estimatedDurationMinutes,omitempty" json:"estimatedDurationMinutes,omitempty"`
	DifficultyLevel          string             `bson:"difficultyLevel,omitempty" json:"difficultyLevel,omitempty"` // e.g. "beginner", "advanced"
	CreatedAt                time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt                time.Time          `bson:"updatedAt" json:"updatedAt"`
}
