package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CompletedTraining is an activity that was actually performed, with the
// metrics extracted from its uploaded recording. The recording itself lives in
// object storage under FileKey.
type CompletedTraining struct {
	ID               primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	TrainingDate     time.Time           `bson:"trainingDate" json:"trainingDate"`
	UploadDate       time.Time           `bson:"uploadDate" json:"uploadDate"`
	OriginalFilename string              `bson:"originalFilename" json:"originalFilename"`
	FileKey          string              `bson:"fileKey,omitempty" json:"-"`
	TrainingID       *primitive.ObjectID `bson:"trainingId,omitempty" json:"trainingId,omitempty"` // Planned training this activity fulfilled
	Sport            string              `bson:"sport,omitempty" json:"sport,omitempty"`
	SubSport         string              `bson:"subSport,omitempty" json:"subSport,omitempty"`
	Metrics          ActivityMetrics     `bson:"metrics" json:"metrics"`
	Device           DeviceInfo          `bson:"device" json:"device"`
}

// ActivityMetrics holds session totals. Nil means the recording did not carry the value.
type ActivityMetrics struct {
	DistanceKm              *float64 `bson:"distanceKm,omitempty" json:"distanceKm,omitempty"`
	DurationSeconds         *int     `bson:"durationSeconds,omitempty" json:"durationSeconds,omitempty"`
	ElapsedSeconds          *int     `bson:"elapsedSeconds,omitempty" json:"elapsedSeconds,omitempty"`
	AveragePaceSecondsPerKm *int     `bson:"averagePaceSecondsPerKm,omitempty" json:"averagePaceSecondsPerKm,omitempty"`
	AverageSpeedKmh         *float64 `bson:"averageSpeedKmh,omitempty" json:"averageSpeedKmh,omitempty"`
	MaxSpeedKmh             *float64 `bson:"maxSpeedKmh,omitempty" json:"maxSpeedKmh,omitempty"`
	AverageHeartRate        *int     `bson:"averageHeartRate,omitempty" json:"averageHeartRate,omitempty"`
	MaxHeartRate            *int     `bson:"maxHeartRate,omitempty" json:"maxHeartRate,omitempty"`
	AveragePower            *int     `bson:"averagePower,omitempty" json:"averagePower,omitempty"`
	MaxPower                *int     `bson:"maxPower,omitempty" json:"maxPower,omitempty"`
	NormalizedPower         *int     `bson:"normalizedPower,omitempty" json:"normalizedPower,omitempty"`
	AverageCadence          *int     `bson:"averageCadence,omitempty" json:"averageCadence,omitempty"`
	MaxCadence              *int     `bson:"maxCadence,omitempty" json:"maxCadence,omitempty"`
	ElevationGainM          *int     `bson:"elevationGainM,omitempty" json:"elevationGainM,omitempty"`
	ElevationLossM          *int     `bson:"elevationLossM,omitempty" json:"elevationLossM,omitempty"`
	AverageTemperatureC     *int     `bson:"averageTemperatureC,omitempty" json:"averageTemperatureC,omitempty"`
	Calories                *int     `bson:"calories,omitempty" json:"calories,omitempty"`
	Laps                    *int     `bson:"laps,omitempty" json:"laps,omitempty"`
}

type DeviceInfo struct {
	Manufacturer string `bson:"manufacturer,omitempty" json:"manufacturer,omitempty"`
	Product      string `bson:"product,omitempty" json:"product,omitempty"`
	SerialNumber string `bson:"serialNumber,omitempty" json:"serialNumber,omitempty"`
}
