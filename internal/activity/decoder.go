// Package activity extracts session totals from recorded activity files.
package activity

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/tormoder/fit"

	"alcyxob/trainingsplan/internal/calendar"
	"alcyxob/trainingsplan/internal/domain"
)

// ErrNoSession is returned for activity files without a session summary.
var ErrNoSession = errors.New("activity file has no session")

// Decoder turns an uploaded recording into a completed training. The
// returned record has no ID, file name or storage key yet.
type Decoder interface {
	Decode(r io.Reader) (*domain.CompletedTraining, error)
}

// FITDecoder reads Garmin FIT activity files.
type FITDecoder struct{}

func NewFITDecoder() *FITDecoder {
	return &FITDecoder{}
}

func (d *FITDecoder) Decode(r io.Reader) (*domain.CompletedTraining, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading activity file: %w", err)
	}
	file, err := fit.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding fit file: %w", err)
	}
	act, err := file.Activity()
	if err != nil {
		return nil, fmt.Errorf("reading fit activity: %w", err)
	}
	if len(act.Sessions) == 0 || act.Sessions[0] == nil {
		return nil, ErrNoSession
	}

	session := act.Sessions[0]
	completed := &domain.CompletedTraining{
		Metrics: SummarizeSession(session),
		Device:  deviceInfo(file.FileId),
	}
	if session.Sport != fit.SportInvalid {
		completed.Sport = strings.ToLower(session.Sport.String())
	}
	if session.SubSport != fit.SubSportInvalid {
		completed.SubSport = strings.ToLower(session.SubSport.String())
	}
	if !session.StartTime.IsZero() {
		completed.TrainingDate = calendar.Date(session.StartTime.UTC())
	}
	return completed, nil
}

// SummarizeSession converts a FIT session message into metrics. Fields the
// device did not record stay nil.
func SummarizeSession(s *fit.SessionMsg) domain.ActivityMetrics {
	m := domain.ActivityMetrics{
		DistanceKm:          positiveFloat(s.GetTotalDistanceScaled() / 1000),
		DurationSeconds:     positiveRounded(s.GetTotalTimerTimeScaled()),
		ElapsedSeconds:      positiveRounded(s.GetTotalElapsedTimeScaled()),
		AverageSpeedKmh:     positiveFloat(s.GetAvgSpeedScaled() * 3.6),
		MaxSpeedKmh:         positiveFloat(s.GetMaxSpeedScaled() * 3.6),
		AverageHeartRate:    validUint8(s.AvgHeartRate),
		MaxHeartRate:        validUint8(s.MaxHeartRate),
		AverageCadence:      validUint8(s.AvgCadence),
		MaxCadence:          validUint8(s.MaxCadence),
		AveragePower:        validUint16(s.AvgPower),
		MaxPower:            validUint16(s.MaxPower),
		NormalizedPower:     validUint16(s.NormalizedPower),
		ElevationGainM:      validUint16(s.TotalAscent),
		ElevationLossM:      validUint16(s.TotalDescent),
		Calories:            validUint16(s.TotalCalories),
		Laps:                validUint16(s.NumLaps),
		AverageTemperatureC: validInt8(s.AvgTemperature),
	}
	if m.DistanceKm != nil && m.DurationSeconds != nil {
		pace := int(math.Round(float64(*m.DurationSeconds) / *m.DistanceKm))
		m.AveragePaceSecondsPerKm = &pace
	}
	return m
}

func deviceInfo(id fit.FileIdMsg) domain.DeviceInfo {
	var info domain.DeviceInfo
	if id.Manufacturer != fit.ManufacturerInvalid {
		info.Manufacturer = strings.ToLower(id.Manufacturer.String())
	}
	if id.Product != math.MaxUint16 {
		info.Product = strconv.Itoa(int(id.Product))
	}
	if id.SerialNumber != 0 && id.SerialNumber != math.MaxUint32 {
		info.SerialNumber = strconv.FormatUint(uint64(id.SerialNumber), 10)
	}
	return info
}

// Scaled getters return NaN for fields that were never written.
func positiveFloat(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return nil
	}
	rounded := math.Round(v*100) / 100
	return &rounded
}

func positiveRounded(v float64) *int {
	if math.IsNaN(v) || v <= 0 {
		return nil
	}
	i := int(math.Round(v))
	return &i
}

func validUint8(v uint8) *int {
	if v == 0 || v == math.MaxUint8 {
		return nil
	}
	i := int(v)
	return &i
}

func validUint16(v uint16) *int {
	if v == 0 || v == math.MaxUint16 {
		return nil
	}
	i := int(v)
	return &i
}

func validInt8(v int8) *int {
	if v == math.MaxInt8 {
		return nil
	}
	i := int(v)
	return &i
}

var _ Decoder = (*FITDecoder)(nil)
